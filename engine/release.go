package engine

// releaseStack owns every long-lived handle of a context. Handles are pushed right
// after creation and released strictly in reverse order, so a parent can never be
// destroyed while one of its children is still alive.
type releaseStack struct {
	entries []releaseEntry
}

type releaseEntry struct {
	name    string
	release func()
}

func (s *releaseStack) push(name string, release func()) {
	s.entries = append(s.entries, releaseEntry{name: name, release: release})
}

func (s *releaseStack) len() int {
	return len(s.entries)
}

// unwind releases every entry, newest first, and leaves the stack empty.
func (s *releaseStack) unwind(observe func(name string)) {
	for len(s.entries) > 0 {
		last := len(s.entries) - 1
		entry := s.entries[last]
		s.entries = s.entries[:last]

		if observe != nil {
			observe(entry.name)
		}
		entry.release()
	}
}
