// Package logging provides structured logging on top of log/slog.
//
//	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.Version)
//	logger.Info("session created", "session_id", id)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with the service's default attributes
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to stdout
func New(level, format, version string) *Logger {
	return NewWithWriter(os.Stdout, level, format, version)
}

// NewWithWriter creates a Logger writing to w.
// format "text" selects the text handler, anything else JSON.
func NewWithWriter(w io.Writer, level, format, version string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "etell-placement"),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

// Nop returns a logger that discards everything, for tests
func Nop() *Logger {
	return NewWithWriter(io.Discard, "error", "text", "test")
}

// With returns a new Logger with additional default attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// parseLevel converts a string log level to slog.Level, defaulting to info
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
