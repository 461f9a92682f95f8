package shared

// Permission names attached to guarded operations. Comparison is by exact
// name; there is no wildcard or hierarchy.
const (
	PermViewUser    = "view_user"
	PermViewProfile = "view_profile"
	PermViewAUser   = "view_a_user"

	PermCreateRole = "create_role"
	PermViewRole   = "view_role"
	PermViewARole  = "view_a_role"
	PermEditRole   = "edit_role"
	PermDeleteRole = "delete_role"

	PermCreatePermission = "create_permission"
	PermViewPermission   = "view_permission"
	PermViewAPermission  = "view_a_permission"
	PermDeletePermission = "delete_permission"
)

// CoreScopes lists every permission the core platform knows about.
func CoreScopes() []string {
	return []string{
		PermViewUser,
		PermViewProfile,
		PermViewAUser,
		PermCreateRole,
		PermViewRole,
		PermViewARole,
		PermEditRole,
		PermDeleteRole,
		PermCreatePermission,
		PermViewPermission,
		PermViewAPermission,
		PermDeletePermission,
	}
}
