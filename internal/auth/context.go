package auth

import (
	"context"

	"github.com/sentinel-iam/sentinel/internal/rbac"
)

type userContextKey struct{}

// ContextWithUser stores the resolved user in context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the resolved user from context.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// RoleFromContext adapts the resolved user's role for the authorization
// guard. Satisfies rbac.IdentityFunc.
func RoleFromContext(ctx context.Context) (*rbac.Role, bool) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, false
	}
	return user.Role, true
}
