package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Fields carries structured context attached to a log entry.
type Fields map[string]interface{}

// Logger is a thin structured logger bound to a component name.
type Logger struct {
	s *slog.Logger
}

// New creates a JSON logger for the given component. Level is taken
// from LOG_LEVEL (debug, info, warn, error; default info).
func New(component string) *Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})
	return &Logger{s: slog.New(h).With("component", component)}
}

func (l *Logger) Debug(msg string, fields Fields) {
	l.s.Debug(msg, attrs(fields)...)
}

func (l *Logger) Info(msg string, fields Fields) {
	l.s.Info(msg, attrs(fields)...)
}

func (l *Logger) Warn(msg string, fields Fields) {
	l.s.Warn(msg, attrs(fields)...)
}

func (l *Logger) Error(msg string, fields Fields) {
	l.s.Error(msg, attrs(fields)...)
}

// Fatal logs at error level and exits the process.
func (l *Logger) Fatal(msg string, fields Fields) {
	l.s.Error(msg, attrs(fields)...)
	os.Exit(1)
}

func attrs(fields Fields) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
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
