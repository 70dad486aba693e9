// Package testutil provides shared helpers for tests.
package testutil

import (
	"io"
	"log/slog"
)

// NewTestLogger returns a debug-level text logger writing to w.
// A nil writer discards all output.
func NewTestLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// DiscardLogger returns a logger that discards all output.
func DiscardLogger() *slog.Logger {
	return NewTestLogger(nil)
}
