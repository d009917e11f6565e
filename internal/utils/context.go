package utils

import "context"

type authenticatedUserKey struct{}

// WithAuthenticatedUser stores the caller of an MCP request in ctx.
func WithAuthenticatedUser(ctx context.Context, user *AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authenticatedUserKey{}, user)
}

// GetAuthenticatedUser returns the user stored by WithAuthenticatedUser.
func GetAuthenticatedUser(ctx context.Context) (*AuthenticatedUser, bool) {
	user, ok := ctx.Value(authenticatedUserKey{}).(*AuthenticatedUser)
	return user, ok && user != nil
}

// AuthenticatedUserID returns the subject of the user in ctx, or nil for anonymous callers.
func AuthenticatedUserID(ctx context.Context) *string {
	user, ok := GetAuthenticatedUser(ctx)
	if !ok || user.Sub == "" {
		return nil
	}
	sub := user.Sub
	return &sub
}
