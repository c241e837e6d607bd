package ctxutil

import (
	"context"
)

type ctxKey string

const (
	credentialKey ctxKey = "credential"
	requestIDKey  ctxKey = "request_id"
)

// WithCredential stores the raw bearer credential in the context.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialKey, credential)
}

// CredentialFromCtx extracts the bearer credential from the context.
// Returns an empty string and false if the value is missing or empty.
func CredentialFromCtx(ctx context.Context) (string, bool) {
	c, ok := ctx.Value(credentialKey).(string)
	if !ok || c == "" {
		return "", false
	}
	return c, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
