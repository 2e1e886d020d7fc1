package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	for _, lvl := range []string{"", "debug", "info", "warn", "error"} {
		if _, err := NewLogger(lvl, "test"); err != nil {
			t.Errorf("NewLogger(%q) error = %v", lvl, err)
		}
	}

	if _, err := NewLogger("loud", "test"); err == nil {
		t.Error("NewLogger() expected error for unknown level")
	}
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	log, err := NewLogger("warn", "test")
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled at warn level")
	}
	if !log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error disabled at warn level")
	}
}
