// Package logger configures the process-wide slog handler and carries the
// index run ID through contexts.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

// Setup installs the process-wide slog handler writing to stdout.
func Setup(level string, format string) {
	SetupWriter(os.Stdout, level, format)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, level string, format string) {
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// WithRunID tags ctx with the identifier of the current index run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, contextKey{}, runID)
}

// RunID returns the run identifier stored in ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if runID := RunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
