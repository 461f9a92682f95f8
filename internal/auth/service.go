package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
)

// Service wraps authentication business rules.
type Service struct {
	repo          Repository
	hasher        *Hasher
	tokens        *TokenService
	defaultRoleID int64
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher *Hasher, tokens *TokenService, defaultRoleID int64) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens, defaultRoleID: defaultRoleID}
}

// RegisterInput carries registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a local account. The email is case-normalized before any
// lookup or write; a duplicate surfaces as Conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := NormalizeEmail(in.Email)
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("auth: register: %w", err)
	}
	hash, err := s.hasher.Hash(in.Password, salt)
	if err != nil {
		return nil, fmt.Errorf("auth: register: %w", err)
	}
	user := &User{
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		RoleID:       s.defaultRoleID,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, httpx.ErrConflict) {
			return nil, fmt.Errorf("%w: email already exists", httpx.ErrConflict)
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	created.Sanitize()
	return created, nil
}

// Signin validates credentials and returns a signed token with the
// sanitized account. Credential failures are uniformly Unauthenticated: an
// unknown email and a wrong password are indistinguishable to the caller.
// A storage failure is not a credential failure and passes through.
func (s *Service) Signin(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return "", nil, httpx.ErrUnauthenticated
		}
		return "", nil, fmt.Errorf("auth: lookup user: %w", err)
	}
	if !s.hasher.Verify(password, user.Salt, user.PasswordHash) {
		return "", nil, httpx.ErrUnauthenticated
	}
	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("auth: issue token: %w", err)
	}
	user.Sanitize()
	return token, user, nil
}

// Resolve loads the current user for validated claims, eagerly carrying the
// role and its permissions. A missing account fails exactly like a bad
// token so a deleted account is not observable through the error kind; a
// storage failure passes through. Each call does its own lookup and owns
// the returned record: concurrent requests for the same subject never
// share a User.
func (s *Service) Resolve(ctx context.Context, claims *Claims) (*User, error) {
	if claims == nil || claims.Email == "" {
		return nil, httpx.ErrUnauthenticated
	}
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(claims.Email))
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, httpx.ErrUnauthenticated
		}
		return nil, fmt.Errorf("auth: resolve user: %w", err)
	}
	user.Sanitize()
	return user, nil
}

// NormalizeEmail lowercases and trims an email address. Uniqueness holds
// over the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
