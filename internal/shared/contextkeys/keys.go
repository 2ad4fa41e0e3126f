package contextkeys

import "context"

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "userID"
	// UserEmailKey is the context key for the authenticated user email
	UserEmailKey ContextKey = "userEmail"
	// RequestIDKey is the context key for the request ID
	RequestIDKey ContextKey = "requestID"
	// ComponentKey is the context key for the component name
	ComponentKey ContextKey = "component"
)

// WithUserID returns a new context with the user ID set
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithUserEmail returns a new context with the user email set
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, UserEmailKey, email)
}

// UserIDFromContext extracts the user ID from the context
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// UserEmailFromContext extracts the user email from the context
func UserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok && email != ""
}
