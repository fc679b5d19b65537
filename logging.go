package sqlchain

import (
	"log/slog"
	"os"
)

// Logger is the pair of injected callbacks spec.md §7 requires: "All softer
// policy choices funnel through the two injected callbacks logInfo(msg) and
// logError(msg, err?, stack?); the core never writes to process-level sinks
// directly."
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, err error, args ...any)
}

// slogLogger is the default Logger, backed by log/slog the way the
// reference corpus's own structured-logging layer is.
type slogLogger struct{ l *slog.Logger }

// NewSlogLogger wraps l as a Logger. A nil l falls back to a JSON logger
// writing to stdout.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		l = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *slogLogger) Error(msg string, err error, args ...any) {
	attrs := args
	if err != nil {
		attrs = append(append([]any{}, args...), slog.String("error", err.Error()))
	}
	s.l.Error(msg, attrs...)
}

// noopLogger discards everything; used when a nil Logger is passed to the
// executor or CommandSet so callers never need a nil check.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)         {}
func (noopLogger) Error(string, error, ...any) {}

func orNoop(l Logger) Logger {
	if l == nil {
		return noopLogger{}
	}
	return l
}
