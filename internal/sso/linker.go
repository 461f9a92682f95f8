package sso

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sentinel-iam/sentinel/internal/auth"
	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
)

// Linker maps a verified federated profile onto a local account. Existing
// accounts sign straight in; unknown emails are provisioned on the fly
// with the default role and a placeholder credential that no password
// login can satisfy in practice.
type Linker struct {
	repo          auth.Repository
	hasher        *auth.Hasher
	tokens        *auth.TokenService
	placeholder   string
	defaultRoleID int64
	logger        *slog.Logger
}

func NewLinker(repo auth.Repository, hasher *auth.Hasher, tokens *auth.TokenService, placeholder string, defaultRoleID int64, logger *slog.Logger) *Linker {
	return &Linker{
		repo:          repo,
		hasher:        hasher,
		tokens:        tokens,
		placeholder:   placeholder,
		defaultRoleID: defaultRoleID,
		logger:        logger,
	}
}

// SignIn resolves the profile to a local user, provisioning one if
// needed, and returns a signed access token plus the linked user.
func (l *Linker) SignIn(ctx context.Context, profile *Profile) (string, *auth.User, error) {
	if profile == nil || strings.TrimSpace(profile.Email) == "" {
		return "", nil, fmt.Errorf("%w: federated profile missing email", httpx.ErrBadRequest)
	}
	name := displayName(profile)
	if name == "" {
		return "", nil, fmt.Errorf("%w: federated profile missing name", httpx.ErrBadRequest)
	}
	email := auth.NormalizeEmail(profile.Email)

	user, err := l.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		// Linked account already exists.
	case errors.Is(err, httpx.ErrNotFound):
		user, err = l.provision(ctx, name, email)
		if err != nil {
			return "", nil, err
		}
	default:
		return "", nil, err
	}

	token, err := l.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}
	user.Sanitize()
	return token, user, nil
}

func (l *Linker) provision(ctx context.Context, name, email string) (*auth.User, error) {
	salt, err := l.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := l.hasher.Hash(l.placeholder, salt)
	if err != nil {
		return nil, err
	}
	created, err := l.repo.Create(ctx, &auth.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		RoleID:       l.defaultRoleID,
	})
	if err != nil {
		if errors.Is(err, httpx.ErrConflict) {
			// Lost a provisioning race; the winner's row is the account.
			return l.repo.FindByEmail(ctx, email)
		}
		return nil, err
	}
	l.logger.Info("provisioned federated user", "email", email, "user_id", created.ID)
	// Re-fetch so the role and its permissions come back eagerly loaded.
	return l.repo.FindByEmail(ctx, email)
}

func displayName(profile *Profile) string {
	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(profile.GivenName) + " " + strings.TrimSpace(profile.FamilyName))
}
