// Package log carries a zap logger through a context.Context.
package log

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Logger is a zap logger with a few helpers for error fields.
type Logger struct {
	*zap.Logger
}

// WithError returns a child logger carrying err as the "error" field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{l.With(zap.Error(err))}
}

// New builds the process logger: development config when debug is set,
// production otherwise.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// IntoContext returns a copy of ctx holding l.
func IntoContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return &Logger{l}
	}
	return &Logger{zap.NewNop()}
}
