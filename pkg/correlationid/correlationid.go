package correlationid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header and message header key carrying the correlation ID.
const Header = "X-Correlation-Id"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the given correlation ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the correlation ID from ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

// Generate returns a fresh correlation ID.
func Generate() string {
	return uuid.NewString()
}
