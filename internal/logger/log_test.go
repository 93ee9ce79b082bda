package logger_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/saadjs/mealplan-cli/internal/logger"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	if err := logger.Init("loud", "console"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestInitSetsLevel(t *testing.T) {
	if err := logger.Init("warn", "json"); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if logger.L().Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug must be disabled at warn level")
	}
	if !logger.L().Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("warn must be enabled at warn level")
	}
}
