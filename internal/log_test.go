package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"ERROR":  LogLevelError,
		"warn":   LogLevelWarn,
		" INFO ": LogLevelInfo,
		"DEBUG":  LogLevelDebug,
		"TRACE":  LogLevelTrace,
		"":       LogLevelInfo,
		"LOUD":   LogLevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestLoggerLevels(t *testing.T) {
	l := NewLogger(LogLevelTrace)
	assert.Equal(t, LogLevelTrace, l.GetLevel())

	child := l.With("run_id", "abc")
	assert.Equal(t, LogLevelTrace, child.GetLevel())

	nop := NewNopLogger()
	assert.NotPanics(t, func() {
		nop.Info("rows=%d", 3)
		nop.Trace("row %d", 1)
		nop.Sync()
	})
}
