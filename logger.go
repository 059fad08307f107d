package vexplore

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with extraction-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogDetect logs the result of a format detection.
func (l *Logger) LogDetect(path string, kind StoreKind, err error) {
	if err != nil {
		l.Warn("format detection failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Debug("format detected",
			"path", path,
			"kind", kind.String(),
		)
	}
}

// LogExtract logs a completed extraction.
func (l *Logger) LogExtract(path string, count, dimension, total int, err error) {
	if err != nil {
		l.Error("extraction failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Info("extraction completed",
			"path", path,
			"count", count,
			"dimension", dimension,
			"total_vectors", total,
		)
	}
}

// LogSidecar logs the outcome of sidecar metadata resolution.
func (l *Logger) LogSidecar(path string, positions int, err error) {
	switch {
	case err != nil:
		l.Warn("sidecar metadata unusable, continuing with empty metadata",
			"path", path,
			"error", err,
		)
	case path == "":
		l.Debug("no sidecar metadata file found")
	default:
		l.Debug("sidecar metadata loaded",
			"path", path,
			"positions", positions,
		)
	}
}

// LogReconstruction logs degraded vector reconstruction.
func (l *Logger) LogReconstruction(path string, failed, total int) {
	if failed == 0 {
		return
	}
	l.Warn("vectors not reconstructible, zero-filled placeholders returned",
		"path", path,
		"failed", failed,
		"total", total,
	)
}
