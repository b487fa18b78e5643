package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		cfg   Config
		level zapcore.Level
	}{
		{name: "debug json", cfg: Config{Level: "debug", Encoding: "json"}, level: zapcore.DebugLevel},
		{name: "info console", cfg: Config{Level: "info"}, level: zapcore.InfoLevel},
		{name: "unknown falls back to warn", cfg: Config{Level: "chatty"}, level: zapcore.WarnLevel},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			logger, err := NewLogger(tc.cfg)
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			if !logger.Core().Enabled(tc.level) {
				t.Fatalf("expected level %s enabled", tc.level)
			}
			if tc.level > zapcore.DebugLevel && logger.Core().Enabled(tc.level-1) {
				t.Fatalf("expected level %s disabled", tc.level-1)
			}
		})
	}
}

func TestLoggerFrom(t *testing.T) {
	t.Parallel()

	stored := zap.NewExample()
	ctx := WithLogger(context.Background(), stored)
	if got := LoggerFrom(ctx, nil); got != stored {
		t.Fatalf("expected stored logger")
	}
	fallback := zap.NewNop()
	if got := LoggerFrom(context.Background(), fallback); got != fallback {
		t.Fatalf("expected fallback logger")
	}
	if got := LoggerFrom(context.Background(), nil); got == nil {
		t.Fatalf("expected a no-op logger when nothing is configured")
	}
}
