package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/recallist/recallist-server/internal/model"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// New creates new Logger instance with the specified level.
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}

// WithContext returns a logger annotated with the request ID carried by ctx,
// if any. Correlation travels through the context, never through package
// state, so concurrent invocations cannot leak IDs into each other's logs.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID, ok := model.RequestIDFromContext(ctx); ok {
		return &Logger{Logger: l.Logger.With("request_id", requestID)}
	}
	return l
}
