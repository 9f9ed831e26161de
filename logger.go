package fsbench

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with fsbench-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithURI adds the file system URI to the logger.
func (l *Logger) WithURI(uri string) *Logger {
	return &Logger{
		Logger: l.Logger.With("uri", uri),
	}
}

// WithRoot adds the run root to the logger.
func (l *Logger) WithRoot(root string) *Logger {
	return &Logger{
		Logger: l.Logger.With("root", root),
	}
}

// LogConnect logs the outcome of opening a file system.
func (l *Logger) LogConnect(ctx context.Context, uri string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "filesystem initialization failed",
			"uri", uri,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "filesystem initialized",
			"uri", uri,
		)
	}
}

// LogProbe logs a capability probe result.
func (l *Logger) LogProbe(ctx context.Context, capability string, res ProbeResult) {
	switch res.Outcome {
	case ProbeSupported:
		l.InfoContext(ctx, "capability supported",
			"capability", capability,
			"outcome", res.Outcome.String(),
		)
	case ProbeUnsupported:
		l.InfoContext(ctx, "capability not supported, operation disabled",
			"capability", capability,
			"outcome", res.Outcome.String(),
		)
	default:
		l.WarnContext(ctx, "capability probe failed",
			"capability", capability,
			"outcome", res.Outcome.String(),
			"error", res.Cause,
		)
	}
}

// LogFixture logs a fixture preparation or repair step.
func (l *Logger) LogFixture(ctx context.Context, stage string, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fixture "+stage+" failed",
			"duration", duration,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "fixture "+stage+" completed",
			"duration", duration,
		)
	}
}

// LogTeardown logs a teardown step. Teardown errors are never returned.
func (l *Logger) LogTeardown(ctx context.Context, step, path string, err error) {
	if err != nil {
		l.WarnContext(ctx, "teardown "+step+" failed",
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "teardown "+step+" completed",
			"path", path,
		)
	}
}
