package engine

import (
	"strings"

	"github.com/sirupsen/logrus"
)

type Severity uint32

const (
	SeverityVerbose Severity = 1 << iota
	SeverityInfo
	SeverityWarning
	SeverityError

	SeverityAll = SeverityVerbose | SeverityInfo | SeverityWarning | SeverityError
)

var severityNames = []struct {
	flag Severity
	name string
}{
	{SeverityVerbose, "verbose"},
	{SeverityInfo, "info"},
	{SeverityWarning, "warning"},
	{SeverityError, "error"},
}

func (s Severity) String() string {
	var names []string
	for _, entry := range severityNames {
		if s&entry.flag != 0 {
			names = append(names, entry.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

type Category uint32

const (
	CategoryGeneral Category = 1 << iota
	CategoryValidation
	CategoryPerformance

	CategoryAll = CategoryGeneral | CategoryValidation | CategoryPerformance
)

var categoryNames = []struct {
	flag Category
	name string
}{
	{CategoryGeneral, "general"},
	{CategoryValidation, "validation"},
	{CategoryPerformance, "performance"},
}

func (c Category) String() string {
	var names []string
	for _, entry := range categoryNames {
		if c&entry.flag != 0 {
			names = append(names, entry.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseSeverityMask builds a mask from names such as "warning" or "error".
func ParseSeverityMask(names []string) (Severity, error) {
	var mask Severity
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		found := false
		for _, entry := range severityNames {
			if entry.name == name {
				mask |= entry.flag
				found = true
				break
			}
		}
		if !found {
			return 0, configurationErrorf("unknown diagnostics severity %q", name)
		}
	}
	if mask == 0 {
		return 0, configurationErrorf("diagnostics severity mask is empty")
	}
	return mask, nil
}

// ParseCategoryMask builds a mask from names such as "validation".
func ParseCategoryMask(names []string) (Category, error) {
	var mask Category
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		found := false
		for _, entry := range categoryNames {
			if entry.name == name {
				mask |= entry.flag
				found = true
				break
			}
		}
		if !found {
			return 0, configurationErrorf("unknown diagnostics category %q", name)
		}
	}
	if mask == 0 {
		return 0, configurationErrorf("diagnostics category mask is empty")
	}
	return mask, nil
}

// DiagnosticsSink receives driver messages. Receive may be called from a driver
// thread at any time and must neither block nor call back into the driver.
type DiagnosticsSink interface {
	Receive(severity Severity, category Category, message string)
}

type SinkFunc func(severity Severity, category Category, message string)

func (f SinkFunc) Receive(severity Severity, category Category, message string) {
	f(severity, category, message)
}

// LogSink writes driver messages to a logrus logger.
type LogSink struct {
	Logger logrus.FieldLogger
}

func (s LogSink) Receive(severity Severity, category Category, message string) {
	entry := s.Logger.WithFields(logrus.Fields{
		"severity": severity.String(),
		"category": category.String(),
	})

	switch {
	case severity&SeverityError != 0:
		entry.Error(message)
	case severity&SeverityWarning != 0:
		entry.Warn(message)
	case severity&SeverityInfo != 0:
		entry.Info(message)
	default:
		entry.Debug(message)
	}
}

// DiagnosticsChannel keeps a driver debug messenger registered for the lifetime of a
// context.
type DiagnosticsChannel struct {
	messenger Messenger
}

func messengerOptions(severities Severity, categories Category, sink DiagnosticsSink) MessengerOptions {
	return MessengerOptions{
		Severities: severities,
		Categories: categories,
		Callback:   sink.Receive,
	}
}

func NewDiagnosticsChannel(instance Instance, severities Severity, categories Category, sink DiagnosticsSink) (*DiagnosticsChannel, error) {
	messenger, err := instance.CreateMessenger(messengerOptions(severities, categories, sink))
	if err != nil {
		return nil, driverError(err, "create debug messenger")
	}

	return &DiagnosticsChannel{messenger: messenger}, nil
}

// Destroy unregisters the callback. The driver guarantees in-flight invocations have
// finished when it returns.
func (c *DiagnosticsChannel) Destroy() {
	c.messenger.Destroy()
}
