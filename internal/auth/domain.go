package auth

import (
	"time"

	"github.com/sentinel-iam/sentinel/internal/rbac"
)

// User represents an identity record. Every user has exactly one role,
// falling back to the configured default role at creation.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	RoleID       int64      `json:"role_id"`
	Role         *rbac.Role `json:"role,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Sanitize strips credential material before the user crosses the identity
// resolution boundary.
func (u *User) Sanitize() {
	u.PasswordHash = ""
	u.Salt = ""
}
