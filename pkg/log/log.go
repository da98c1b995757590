// Package log configures the process-wide slog logger and hands out
// module-scoped children.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text handler on stderr at the given level. Unknown level
// strings fall back to info.
func Setup(logLevel string) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger)

	return logger
}

// WithModule returns a child of the default logger tagged with the module
// name.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
