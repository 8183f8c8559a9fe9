// Package logging builds the application logger. Logging goes to a JSON
// file; a TUI owns stdout and stderr, so nothing may write there.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// New returns a JSON file logger, or a discarding logger when logging is
// disabled or the file cannot be opened. The returned close function is
// always safe to call.
func New(enabled bool, path string) (*slog.Logger, func() error) {
	if !enabled {
		return discard(), func() error { return nil }
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard(), func() error { return nil }
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard(), func() error { return nil }
	}

	logger := slog.New(slog.NewJSONHandler(f, nil))
	logger.Info("logger initialized", "path", path)
	return logger, f.Close
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
