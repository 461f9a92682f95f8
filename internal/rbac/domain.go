package rbac

import "time"

// Permission represents an atomic capability. Name uniqueness is the sole
// identity; authorization decisions compare by name, never by id.
type Permission struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Role represents a high-level permission grouping shared by many users.
// Permission membership has set semantics even though it is stored and
// serialized as a sequence.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasPermission reports whether the role grants the named permission.
// Exact, case-sensitive match; no wildcard, no inheritance across roles.
func (r Role) HasPermission(name string) bool {
	for _, p := range r.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}
