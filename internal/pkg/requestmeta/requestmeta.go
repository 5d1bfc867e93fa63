// Package requestmeta carries per-request correlation metadata through
// context.Context and across service boundaries via HTTP headers.
package requestmeta

import "context"

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

// HeaderXRequestID is the wire header used to propagate the correlation id
// to downstream services.
const HeaderXRequestID = "X-Request-Id"

const contextKeyRequestID contextKey = "x-request-id"

// WithRequestID returns a child context carrying the correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, id)
}

// RequestID extracts the correlation id from ctx, or "" if none is set.
// The comma-ok idiom keeps this safe against foreign values under the key.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
