package engine

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestParseSeverityMask(t *testing.T) {
	c := qt.New(t)

	mask, err := ParseSeverityMask([]string{" Warning", "error ", ""})
	c.Assert(err, qt.IsNil)
	c.Assert(mask, qt.Equals, SeverityWarning|SeverityError)
	c.Assert(mask.String(), qt.Equals, "warning|error")

	mask, err = ParseSeverityMask([]string{"verbose", "info", "warning", "error"})
	c.Assert(err, qt.IsNil)
	c.Assert(mask, qt.Equals, SeverityAll)

	_, err = ParseSeverityMask([]string{"loud"})
	c.Assert(err, qt.ErrorMatches, `unknown diagnostics severity "loud"`)
	c.Assert(isConfiguration(err), qt.IsTrue)

	_, err = ParseSeverityMask(nil)
	c.Assert(isConfiguration(err), qt.IsTrue)
}

func TestParseCategoryMask(t *testing.T) {
	c := qt.New(t)

	mask, err := ParseCategoryMask([]string{"VALIDATION"})
	c.Assert(err, qt.IsNil)
	c.Assert(mask, qt.Equals, CategoryValidation)

	mask, err = ParseCategoryMask([]string{"general", "performance", "validation"})
	c.Assert(err, qt.IsNil)
	c.Assert(mask, qt.Equals, CategoryAll)
	c.Assert(mask.String(), qt.Equals, "general|validation|performance")

	_, err = ParseCategoryMask([]string{"general", "bogus"})
	c.Assert(err, qt.ErrorMatches, `unknown diagnostics category "bogus"`)

	_, err = ParseCategoryMask([]string{" "})
	c.Assert(err, qt.ErrorMatches, "diagnostics category mask is empty")
}

func TestMaskStringEmpty(t *testing.T) {
	c := qt.New(t)
	c.Assert(Severity(0).String(), qt.Equals, "none")
	c.Assert(Category(0).String(), qt.Equals, "none")
}

func TestLogSinkLevels(t *testing.T) {
	tests := []struct {
		severity Severity
		level    logrus.Level
	}{
		{SeverityVerbose, logrus.DebugLevel},
		{SeverityInfo, logrus.InfoLevel},
		{SeverityWarning, logrus.WarnLevel},
		{SeverityError, logrus.ErrorLevel},
	}

	for _, test := range tests {
		t.Run(test.severity.String(), func(t *testing.T) {
			c := qt.New(t)
			logger, hook := testLogger()

			LogSink{Logger: logger}.Receive(test.severity, CategoryValidation, "vkCreateDevice: bad thing")

			entry := hook.LastEntry()
			c.Assert(entry, qt.Not(qt.IsNil))
			c.Assert(entry.Level, qt.Equals, test.level)
			c.Assert(entry.Message, qt.Equals, "vkCreateDevice: bad thing")
			c.Assert(entry.Data["severity"], qt.Equals, test.severity.String())
			c.Assert(entry.Data["category"], qt.Equals, "validation")
		})
	}
}

func TestDiagnosticsChannelForwardsToSink(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	instance, err := driver.CreateInstance(InstanceOptions{})
	c.Assert(err, qt.IsNil)

	type message struct {
		Severity Severity
		Category Category
		Text     string
	}
	var got []message
	sink := SinkFunc(func(severity Severity, category Category, text string) {
		got = append(got, message{severity, category, text})
	})

	channel, err := NewDiagnosticsChannel(instance, SeverityWarning|SeverityError, CategoryValidation, sink)
	c.Assert(err, qt.IsNil)
	c.Assert(driver.messages, qt.HasLen, 1)

	options := driver.messages[0]
	c.Assert(options.Severities, qt.Equals, SeverityWarning|SeverityError)
	c.Assert(options.Categories, qt.Equals, CategoryValidation)

	options.Callback(SeverityError, CategoryValidation, "validation failed")
	c.Assert(got, qt.DeepEquals, []message{{SeverityError, CategoryValidation, "validation failed"}})

	channel.Destroy()
	c.Assert(driver.rec.filter("destroy "), qt.DeepEquals, []string{"debug-messenger"})
}

func TestDiagnosticsChannelCreateFailure(t *testing.T) {
	c := qt.New(t)
	driver := newFakeDriver()
	driver.rec.fail["CreateMessenger"] = errFakeFailure
	instance, err := driver.CreateInstance(InstanceOptions{})
	c.Assert(err, qt.IsNil)

	_, err = NewDiagnosticsChannel(instance, SeverityAll, CategoryAll, SinkFunc(func(Severity, Category, string) {}))
	c.Assert(err, qt.ErrorMatches, "create debug messenger: .*")
	c.Assert(isDriverCall(err), qt.IsTrue)
}

func testLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}
