package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// ForComponent returns the context logger named after component, tagged with method.
// An empty method is left out.
func ForComponent(ctx context.Context, component, method string) *zap.Logger {
	l := FromContext(ctx).Named(component)
	if method != "" {
		l = l.With(zap.String("method", method))
	}
	return l
}
