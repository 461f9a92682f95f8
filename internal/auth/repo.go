package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
	"github.com/sentinel-iam/sentinel/internal/rbac"
)

// Repository defines persistence operations for the auth module. FindByEmail
// eagerly loads the user's role and the role's permission set.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user by exact email with role and permissions.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	role := &rbac.Role{}
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.password_hash, u.salt, u.role_id, u.created_at, u.updated_at,
		       r.id, r.name, r.created_at, r.updated_at
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.email = $1`, email)
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Salt, &user.RoleID, &user.CreatedAt, &user.UpdatedAt,
		&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	perms, err := r.rolePermissions(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = perms
	user.Role = role
	return user, nil
}

// Create persists a new user. A duplicate email maps to ErrConflict via the
// users.email unique constraint, which also closes the lookup-then-create
// race in the federated linker.
func (r *PGRepository) Create(ctx context.Context, user *User) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, salt, role_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		user.Name, user.Email, user.PasswordHash, user.Salt, user.RoleID)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, httpx.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (r *PGRepository) rolePermissions(ctx context.Context, roleID int64) ([]rbac.Permission, error) {
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

var _ Repository = (*PGRepository)(nil)
