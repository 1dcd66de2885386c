package tetgo

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// progressInterval is the minimum time between two progress log lines.
const progressInterval = time.Second

// Logger wraps slog.Logger with tessellation-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
	progress *rate.Sometimes
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return newLogger(slog.New(handler))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return newLogger(slog.New(slog.DiscardHandler))
}

func newLogger(l *slog.Logger) *Logger {
	return &Logger{
		Logger:   l,
		progress: &rate.Sometimes{First: 1, Interval: progressInterval},
	}
}

// WithPoints adds a points field to the logger.
func (l *Logger) WithPoints(n int) *Logger {
	return newLogger(l.Logger.With("points", n))
}

// LogBuild logs the outcome of a build.
func (l *Logger) LogBuild(ctx context.Context, points, inserted, skipped int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"points", points,
			"inserted", inserted,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "build completed",
			"points", points,
			"inserted", inserted,
			"skipped", skipped,
			"duration", duration,
		)
	}
}

// LogDegenerate logs a point set without a non-flat tetrahedron.
func (l *Logger) LogDegenerate(ctx context.Context, points int) {
	l.WarnContext(ctx, "degenerate point set",
		"points", points,
	)
}

// LogProgress logs the build progress, at most once per second.
func (l *Logger) LogProgress(ctx context.Context, current, total int) {
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.progress.Do(func() {
		l.DebugContext(ctx, "build progress",
			"current", current,
			"total", total,
		)
	})
}

// LogCompact logs a compaction.
func (l *Logger) LogCompact(ctx context.Context, removed, cells, finite int) {
	l.DebugContext(ctx, "compaction completed",
		"removed", removed,
		"cells", cells,
		"finite", finite,
	)
}

// LogValidate logs the outcome of a self-check.
func (l *Logger) LogValidate(ctx context.Context, err error) {
	if err != nil {
		l.ErrorContext(ctx, "validation failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "validation passed")
	}
}
