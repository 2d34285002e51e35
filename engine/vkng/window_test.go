package vkng

import (
	"testing"

	"github.com/cockroachdb/errors"
	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/veandco/go-sdl2/sdl"
)

func testWindow(push func(event sdl.Event) (bool, error)) (*Window, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return &Window{id: 3, redrawEvent: 0x8001, push: push, log: logger}, hook
}

func TestRequestRedrawPushesUserEvent(t *testing.T) {
	c := qt.New(t)

	var pushed []sdl.Event
	window, hook := testWindow(func(event sdl.Event) (bool, error) {
		pushed = append(pushed, event)
		return true, nil
	})

	window.RequestRedraw()

	c.Assert(pushed, qt.HasLen, 1)
	user, ok := pushed[0].(*sdl.UserEvent)
	c.Assert(ok, qt.IsTrue)
	c.Assert(user.Type, qt.Equals, uint32(0x8001))
	c.Assert(user.WindowID, qt.Equals, uint32(3))
	c.Assert(window.IsRedrawRequest(pushed[0]), qt.IsTrue)
	c.Assert(hook.AllEntries(), qt.HasLen, 0)
}

func TestRequestRedrawLogsDroppedEvent(t *testing.T) {
	c := qt.New(t)

	window, hook := testWindow(func(event sdl.Event) (bool, error) {
		return false, errors.New("event queue is full")
	})

	window.RequestRedraw()

	entry := hook.LastEntry()
	c.Assert(entry, qt.Not(qt.IsNil))
	c.Assert(entry.Level, qt.Equals, logrus.DebugLevel)
	c.Assert(entry.Message, qt.Equals, "redraw request dropped")
	c.Assert(entry.Data[logrus.ErrorKey], qt.ErrorMatches, "event queue is full")
}

func TestIsRedrawRequestIgnoresOtherEvents(t *testing.T) {
	c := qt.New(t)

	window, _ := testWindow(nil)

	c.Assert(window.IsRedrawRequest(&sdl.QuitEvent{}), qt.IsFalse)
	c.Assert(window.IsRedrawRequest(&sdl.UserEvent{Type: 0x8002}), qt.IsFalse)
}
