package users

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-iam/sentinel/internal/auth"
	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
	"github.com/sentinel-iam/sentinel/internal/rbac"
)

// Repository provides PostgreSQL backed persistence for user reads. Roles
// are loaded eagerly; credential columns are never selected here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectUsers = `
	SELECT u.id, u.name, u.email, u.role_id, u.created_at, u.updated_at,
	       r.id, r.name, r.created_at, r.updated_at
	FROM users u
	JOIN roles r ON r.id = u.role_id`

// ListUsers returns all users with their roles.
func (r *Repository) ListUsers(ctx context.Context) ([]auth.User, error) {
	rows, err := r.pool.Query(ctx, selectUsers+` ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []auth.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		perms, err := r.rolePermissions(ctx, users[i].RoleID)
		if err != nil {
			return nil, err
		}
		users[i].Role.Permissions = perms
	}
	return users, nil
}

// GetUser fetches a user by id with its role.
func (r *Repository) GetUser(ctx context.Context, id int64) (*auth.User, error) {
	rows, err := r.pool.Query(ctx, selectUsers+` WHERE u.id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, httpx.ErrNotFound
	}
	user, err := scanUser(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()
	perms, err := r.rolePermissions(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	user.Role.Permissions = perms
	return &user, nil
}

func scanUser(rows pgx.Rows) (auth.User, error) {
	var user auth.User
	role := &rbac.Role{}
	err := rows.Scan(
		&user.ID, &user.Name, &user.Email, &user.RoleID, &user.CreatedAt, &user.UpdatedAt,
		&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		return auth.User{}, err
	}
	user.Role = role
	return user, nil
}

func (r *Repository) rolePermissions(ctx context.Context, roleID int64) ([]rbac.Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT p.id, p.name FROM permissions p JOIN role_permissions rp ON rp.permission_id = p.id WHERE rp.role_id = $1 ORDER BY p.id`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []rbac.Permission
	for rows.Next() {
		var perm rbac.Permission
		if err := rows.Scan(&perm.ID, &perm.Name); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, rows.Err()
}

var _ RepositoryPort = (*Repository)(nil)
