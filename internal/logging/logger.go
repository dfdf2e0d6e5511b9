package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured engine logger writing to stderr so that log output
// stays separate from any host application stdout protocol.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
