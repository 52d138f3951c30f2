package utils

import "context"

type contextKey string

const (
	UserIDKey      contextKey = "user_id"
	UserEmailKey   contextKey = "email"
	UserRoleKey    contextKey = "role"
	SessionCartKey contextKey = "session_cart_id"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// SetUserContext sets user info into context (called by middleware)
func SetUserContext(ctx context.Context, id string, email string, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

// GetUserIDFromContext retrieves userID safely
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

// WithSessionCartID attaches the anonymous cart identity from the cookie.
func WithSessionCartID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionCartKey, id)
}

func GetSessionCartIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionCartKey).(string)
	return id, ok && id != ""
}
