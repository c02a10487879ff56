// Package logging selects and installs the process-wide slog handler.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs a text handler on stderr at the given level as the
// default logger, returning it for callers that want a local reference.
func Setup(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
