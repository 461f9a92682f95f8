package users

import (
	"context"

	"github.com/sentinel-iam/sentinel/internal/auth"
)

// RepositoryPort abstracts user reads for the service layer.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]auth.User, error)
	GetUser(ctx context.Context, id int64) (*auth.User, error)
}

// Service exposes read-only user queries. Credential fields are stripped
// before anything leaves this layer.
type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListUsers(ctx context.Context) ([]auth.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Sanitize()
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*auth.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Sanitize()
	return user, nil
}
