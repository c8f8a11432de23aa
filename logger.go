package pprl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with linkage-specific context.
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
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // Unreachable level
		})),
	}
}

// WithProtocol adds a protocol field.
func (l *Logger) WithProtocol(name string) *Logger {
	return &Logger{Logger: l.Logger.With("protocol", name)}
}

// WithParty adds a party field.
func (l *Logger) WithParty(id string) *Logger {
	return &Logger{Logger: l.Logger.With("party", id)}
}

// WithBlock adds a block field.
func (l *Logger) WithBlock(key string) *Logger {
	return &Logger{Logger: l.Logger.With("block", key)}
}

// LogParty logs one party step within a block or a linking round.
func (l *Logger) LogParty(ctx context.Context, records, edges, merged int) {
	l.DebugContext(ctx, "party step completed",
		"records", records,
		"edges", edges,
		"merged", merged,
	)
}

// LogSolve logs an optimal-assignment solve.
func (l *Logger) LogSolve(ctx context.Context, mode string, edges, selected int, duration time.Duration) {
	l.DebugContext(ctx, "assignment solved",
		"mode", mode,
		"edges", edges,
		"selected", selected,
		"duration", duration,
	)
}

// LogBlock logs the completion of a block.
func (l *Logger) LogBlock(ctx context.Context, clusters int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "block failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "block completed",
		"clusters", clusters,
		"duration", duration,
	)
}

// LogRun logs the end of a protocol run.
func (l *Logger) LogRun(ctx context.Context, clusters, dropped int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"error", err,
			"duration", duration,
		)
		return
	}
	l.InfoContext(ctx, "run completed",
		"clusters", clusters,
		"dropped", dropped,
		"duration", duration,
	)
}
