package goAuthFlow

import (
	"context"

	"github.com/google/uuid"
)

type requestIDContextKey struct{}
type screenContextKey struct{}

// WithRequestID attaches a correlation id to ctx. The request-id transport
// middleware sends it as X-Request-ID and audit events record it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// RequestIDFromContext returns the id attached by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

func withScreen(ctx context.Context, s Screen) context.Context {
	return context.WithValue(ctx, screenContextKey{}, s)
}

func screenFromContext(ctx context.Context) Screen {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(screenContextKey{}).(Screen)
	return s
}

// submitContext prepares ctx for one submit: it gets a request id unless the
// caller supplied one, and the submitting screen.
func submitContext(ctx context.Context, s Screen) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if RequestIDFromContext(ctx) == "" {
		ctx = WithRequestID(ctx, uuid.NewString())
	}
	return withScreen(ctx, s)
}
