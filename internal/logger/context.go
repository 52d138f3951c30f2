package logger

import (
	"context"

	"go.uber.org/zap"
)

type requestIDCtxKey struct{}

// WithRequestID stores the request id on the context so every log line in
// the request's call tree carries it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDCtxKey{}, requestID)
}

// RequestIDFrom returns the request id stored on the context, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

// FromCtx returns the global logger enriched with the context's request id
// when one is present.
func FromCtx(ctx context.Context) *zap.Logger {
	id := RequestIDFrom(ctx)
	if id == "" {
		return L()
	}
	return L().With(zap.String("request_id", id))
}
