package rbac

// Policy decides operations that carry no permission marker.
type Policy string

// Unmarked-operation policies.
const (
	PolicyAllow Policy = "allow"
	PolicyDeny  Policy = "deny"
)

// Engine makes allow/deny decisions for guarded operations. It assumes
// identity resolution already happened: a nil role on a marked check is a
// deny, never an authentication failure.
type Engine struct {
	// Unmarked applies when the requested operation declares no required
	// permission. Historically this was allow; it is configuration here so
	// that exposing an undecorated operation is a visible choice.
	Unmarked Policy
}

// Decide returns true when the operation may proceed. An operation without
// a marker follows the unmarked policy; a marked operation requires the
// role's permission set to contain an exact name match.
func (e Engine) Decide(role *Role, required string, marked bool) bool {
	if !marked {
		return e.Unmarked != PolicyDeny
	}
	if role == nil {
		return false
	}
	return role.HasPermission(required)
}
