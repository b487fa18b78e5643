// Package logging builds the zap logger used by the formschema CLI.
package logging

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}

// Config selects the level and encoding of the CLI logger.
type Config struct {
	Level    string
	Encoding string
}

// NewLogger creates a logger writing to stderr so command output on stdout
// stays machine readable.
//
// Level usage:
//   - error: a document or command failed
//   - warn:  a condition was malformed or a predicate failed at runtime
//   - info:  documents loaded, command summaries
//   - debug: per-schema registration, dependency resets
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.WarnLevel
	}

	encoding := strings.ToLower(strings.TrimSpace(cfg.Encoding))
	if encoding != "json" {
		encoding = "console"
	}

	encoder := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if encoding == "console" {
		encoder.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder.TimeKey = ""
		encoder.CallerKey = ""
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zapCfg.Build()
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom returns the logger stored in ctx, or fallback when none is set.
func LoggerFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}
