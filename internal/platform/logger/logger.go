package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns the process logger: JSON in production, text elsewhere.
func New(environment string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	opts.Level = slog.LevelDebug
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// Discard returns a logger that drops everything. Components use it when no
// logger was injected.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
