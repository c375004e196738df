package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_AppliesLevel(t *testing.T) {
	for _, dev := range []bool{true, false} {
		logger, err := New(dev, "warn")
		if err != nil {
			t.Fatalf("New(dev=%v): %v", dev, err)
		}
		if logger.Core().Enabled(zapcore.InfoLevel) {
			t.Fatalf("dev=%v: info should be disabled at warn level", dev)
		}
		if !logger.Core().Enabled(zapcore.ErrorLevel) {
			t.Fatalf("dev=%v: error should be enabled at warn level", dev)
		}
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(false, "chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
