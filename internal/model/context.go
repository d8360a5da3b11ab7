package model

import "context"

type contextKey int

const (
	userIDKey contextKey = iota
	requestIDKey
)

// WithUserID returns a context carrying the resolved user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the resolved user ID from the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// WithRequestID returns a context carrying the request correlation ID.
// The ID is request-scoped by construction; concurrent invocations each
// carry their own value and nothing is shared through package state.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext retrieves the request correlation ID from the context.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "", false
	}
	return requestID, true
}
