package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		enabled       zapcore.Level
		disabled      zapcore.Level
	}{
		{"warn", "console", zapcore.WarnLevel, zapcore.InfoLevel},
		{"DEBUG", "json", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{" info ", "", zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if !logger.Core().Enabled(tt.enabled) {
				t.Errorf("%s should be enabled", tt.enabled)
			}
			if logger.Core().Enabled(tt.disabled) {
				t.Errorf("%s should be disabled", tt.disabled)
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", "console"); err == nil {
		t.Error("expected error for unknown level")
	}
}
