package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	editor := &Role{ID: 1, Name: "editor", Permissions: []Permission{
		{ID: 1, Name: "edit_role"},
		{ID: 2, Name: "view_role"},
	}}

	tests := []struct {
		name     string
		unmarked Policy
		role     *Role
		required string
		marked   bool
		want     bool
	}{
		{"unmarked allows by default policy", PolicyAllow, nil, "", false, true},
		{"unmarked denied by deny policy", PolicyDeny, editor, "", false, false},
		{"unmarked deny ignores role grants", PolicyDeny, editor, "edit_role", false, false},
		{"marked with grant", PolicyAllow, editor, "edit_role", true, true},
		{"marked without grant", PolicyAllow, editor, "delete_role", true, false},
		{"marked nil role", PolicyAllow, nil, "edit_role", true, false},
		{"no partial name match", PolicyAllow, editor, "edit", true, false},
		{"case sensitive", PolicyAllow, editor, "EDIT_ROLE", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := Engine{Unmarked: tt.unmarked}
			assert.Equal(t, tt.want, engine.Decide(tt.role, tt.required, tt.marked))
		})
	}
}

func TestHasPermission(t *testing.T) {
	role := Role{Permissions: []Permission{{Name: "view_user"}}}
	assert.True(t, role.HasPermission("view_user"))
	assert.False(t, role.HasPermission("view_users"))
	assert.False(t, Role{}.HasPermission("view_user"))
}
