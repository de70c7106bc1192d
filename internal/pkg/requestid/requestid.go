package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header carries the request id between the browser, this service and the auth backend
const Header = "X-Request-ID"

type ctxKey struct{}

// New generates a fresh request id
func New() string {
	return uuid.New().String()
}

// WithRequestID stores id in ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request id stored in ctx, or "" if none
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
