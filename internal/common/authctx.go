package common

import "context"

// Role values supplied by the auth collaborator.
const (
	RoleCustomer  = "customer"
	RoleAdmin     = "admin"
	RoleDriver    = "driver"
	RoleAssistant = "assistant"
)

// User describes the authenticated principal supplied by the auth collaborator.
type User struct {
	ID   string
	Name string
	Role string
}

type ctxKey string

const userKey ctxKey = "auth/user"

// WithUser stores the authenticated user on the provided context.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom extracts the authenticated user from the context if present.
func UserFrom(ctx context.Context) (User, bool) {
	v := ctx.Value(userKey)
	if v == nil {
		return User{}, false
	}
	u, ok := v.(User)
	return u, ok
}

// UserID extracts the authenticated user identifier from the context if present.
func UserID(ctx context.Context) (string, bool) {
	u, ok := UserFrom(ctx)
	if !ok || u.ID == "" {
		return "", false
	}
	return u.ID, true
}
