package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-iam/sentinel/internal/auth"
	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
	"github.com/sentinel-iam/sentinel/internal/rbac"
	_ "github.com/sentinel-iam/sentinel/testing"
)

type mockRepo struct {
	byEmail map[string]*auth.User
	nextID  int64

	findErr   error
	createErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{byEmail: make(map[string]*auth.User), nextID: 1}
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	user, ok := m.byEmail[email]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepo) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, exists := m.byEmail[user.Email]; exists {
		return nil, httpx.ErrConflict
	}
	created := *user
	created.ID = m.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.nextID++
	m.byEmail[created.Email] = &created
	copied := created
	return &copied, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, repo auth.Repository) *auth.Service {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	return auth.NewService(repo, auth.NewHasher(), tokens, 2)
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	repo := newMockRepo()
	svc := newService(t, repo)

	user, err := svc.Register(context.Background(), auth.RegisterInput{
		Name:     "Alice",
		Email:    "  ALICE@Example.COM ",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "email is normalized before storage")
	assert.Equal(t, int64(2), user.RoleID)
	assert.Empty(t, user.PasswordHash, "credential material never leaves the service")
	assert.Empty(t, user.Salt)

	stored := repo.byEmail["alice@example.com"]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEmpty(t, stored.Salt)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	svc := newService(t, repo)

	_, err := svc.Register(context.Background(), auth.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), auth.RegisterInput{Name: "Imposter", Email: "Alice@Example.com", Password: "othersecret"})
	assert.ErrorIs(t, err, httpx.ErrConflict)
}

func TestSigninRoundTrip(t *testing.T) {
	repo := newMockRepo()
	svc := newService(t, repo)

	_, err := svc.Register(context.Background(), auth.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	repo.byEmail["alice@example.com"].Role = &rbac.Role{ID: 2, Name: "user"}

	token, user, err := svc.Signin(context.Background(), "Alice@Example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotZero(t, user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Empty(t, user.Salt)
}

func TestSigninFailuresAreUniform(t *testing.T) {
	repo := newMockRepo()
	svc := newService(t, repo)

	_, err := svc.Register(context.Background(), auth.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, _, unknownErr := svc.Signin(context.Background(), "nobody@example.com", "supersecret")
	_, _, wrongErr := svc.Signin(context.Background(), "alice@example.com", "wrongpassword")

	assert.ErrorIs(t, unknownErr, httpx.ErrUnauthenticated)
	assert.ErrorIs(t, wrongErr, httpx.ErrUnauthenticated)
	assert.Equal(t, unknownErr, wrongErr, "unknown email and wrong password must be indistinguishable")
}

func TestSigninStorageFailureIsNotUnauthenticated(t *testing.T) {
	repo := newMockRepo()
	repo.findErr = errors.New("connection refused")
	svc := newService(t, repo)

	_, _, err := svc.Signin(context.Background(), "alice@example.com", "supersecret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, httpx.ErrUnauthenticated, "an infrastructure failure must not look like bad credentials")
}

func TestResolve(t *testing.T) {
	repo := newMockRepo()
	svc := newService(t, repo)

	_, err := svc.Register(context.Background(), auth.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	repo.byEmail["alice@example.com"].Role = &rbac.Role{ID: 2, Name: "user", Permissions: []rbac.Permission{{ID: 1, Name: "view_profile"}}}

	user, err := svc.Resolve(context.Background(), &auth.Claims{Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	require.NotNil(t, user.Role)
	assert.True(t, user.Role.HasPermission("view_profile"))
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Resolve(context.Background(), &auth.Claims{Email: "deleted@example.com"})
	assert.ErrorIs(t, err, httpx.ErrUnauthenticated, "a deleted account fails like a bad token")

	_, err = svc.Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, httpx.ErrUnauthenticated)
}

func TestResolveStorageFailureIsNotUnauthenticated(t *testing.T) {
	repo := newMockRepo()
	repo.findErr = errors.New("connection refused")
	svc := newService(t, repo)

	_, err := svc.Resolve(context.Background(), &auth.Claims{Email: "alice@example.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, httpx.ErrUnauthenticated)
}

// gateRepo lets a test hold concurrent lookups open simultaneously.
type gateRepo struct {
	user    auth.User
	entered chan struct{}
	release chan struct{}
}

func (g *gateRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	g.entered <- struct{}{}
	<-g.release
	copied := g.user
	copied.Role = &rbac.Role{ID: g.user.Role.ID, Name: g.user.Role.Name}
	return &copied, nil
}

func (g *gateRepo) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	return nil, httpx.ErrConflict
}

func TestResolveConcurrentRequestsAreIndependent(t *testing.T) {
	repo := &gateRepo{
		user: auth.User{
			ID: 1, Email: "alice@example.com", PasswordHash: "hash", Salt: "salt",
			Role: &rbac.Role{ID: 2, Name: "user"},
		},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newService(t, repo)

	results := make(chan *auth.User, 2)
	for i := 0; i < 2; i++ {
		go func() {
			user, err := svc.Resolve(context.Background(), &auth.Claims{Email: "alice@example.com"})
			assert.NoError(t, err)
			results <- user
		}()
	}

	// Both lookups must be in flight at once; a collapsed second caller
	// would never reach the repository and this would time out.
	for i := 0; i < 2; i++ {
		select {
		case <-repo.entered:
		case <-time.After(2 * time.Second):
			t.Fatal("second concurrent lookup never reached the repository")
		}
	}
	close(repo.release)

	first := <-results
	second := <-results
	require.NotSame(t, first, second, "concurrent callers must each own their user record")
	require.NotSame(t, first.Role, second.Role)
	assert.Empty(t, first.PasswordHash)
	assert.Empty(t, second.PasswordHash)
}
