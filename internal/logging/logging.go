package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// componentKey tags every logger handed to a subsystem so cycle logs
// can be filtered per adapter.
const componentKey = "component"

// New creates the process-wide console logger at the configured level.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New with an explicit sink, used by tests.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// Component derives a logger tagged with the owning subsystem name.
// A nil base falls back to the default logger so adapters can log
// unconditionally.
func Component(base *slog.Logger, name string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With(componentKey, name)
}

// ParseLevel maps a config level string to a slog.Level. Unknown
// values degrade to Info rather than failing startup.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
