package rbac

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
)

// Service orchestrates role and permission administration.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateRole inserts a new role with the given permission ids. Duplicate ids
// collapse to one assignment.
func (s *Service) CreateRole(ctx context.Context, name string, permissionIDs []int64) (Role, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Role{}, err
	}
	return s.repo.CreateRole(ctx, name, dedupeIDs(permissionIDs))
}

// ListRoles returns all roles with permissions eagerly loaded.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole fetches a role by id.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// UpdateRole renames a role and replaces its permission set.
func (s *Service) UpdateRole(ctx context.Context, id int64, name string, permissionIDs []int64) (Role, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Role{}, err
	}
	return s.repo.UpdateRole(ctx, id, name, dedupeIDs(permissionIDs))
}

// DeleteRole removes a role by id.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// CreatePermission inserts a new permission.
func (s *Service) CreatePermission(ctx context.Context, name string) (Permission, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Permission{}, err
	}
	return s.repo.CreatePermission(ctx, name)
}

// ListPermissions returns all permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// GetPermission fetches a permission by id.
func (s *Service) GetPermission(ctx context.Context, id int64) (Permission, error) {
	return s.repo.GetPermission(ctx, id)
}

// DeletePermission removes a permission by id.
func (s *Service) DeletePermission(ctx context.Context, id int64) error {
	return s.repo.DeletePermission(ctx, id)
}

// Role and permission names are unique lowercase identifiers.
func normalizeName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("%w: name required", httpx.ErrBadRequest)
	}
	return name, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
