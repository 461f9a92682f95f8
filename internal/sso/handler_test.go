package sso_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinel-iam/sentinel/internal/sso"
	_ "github.com/sentinel-iam/sentinel/testing"
)

type stubProvider struct {
	profile     *sso.Profile
	exchangeErr error
	lastCode    string
}

func (s *stubProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (s *stubProvider) Exchange(ctx context.Context, code string) (*sso.Profile, error) {
	s.lastCode = code
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	return s.profile, nil
}

func newSSORouter(t *testing.T, provider sso.Provider) (chi.Router, *sso.StateStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	states := sso.NewStateStore(client, time.Minute)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	linker, _ := newLinker(t, newLinkerRepo())
	handler := sso.NewHandler(logger, provider, states, linker, nil, nil)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, states
}

func TestLoginRedirects(t *testing.T) {
	router, _ := newSSORouter(t, &stubProvider{})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))
	require.Equal(t, http.StatusFound, res.Code)

	location := res.Header().Get("Location")
	assert.Contains(t, location, "https://accounts.example.com/authorize?state=")
}

func TestCallbackHappyPath(t *testing.T) {
	provider := &stubProvider{profile: &sso.Profile{Email: "fed@example.com", Name: "Fed User"}}
	router, states := newSSORouter(t, provider)

	state, err := states.Issue(context.Background())
	require.NoError(t, err)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code=authcode", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "authcode", provider.lastCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload["access_token"])
}

func TestCallbackRejectsForgedState(t *testing.T) {
	router, _ := newSSORouter(t, &stubProvider{profile: &sso.Profile{Email: "fed@example.com", Name: "Fed User"}})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=authcode", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestCallbackStateIsSingleUse(t *testing.T) {
	provider := &stubProvider{profile: &sso.Profile{Email: "fed@example.com", Name: "Fed User"}}
	router, states := newSSORouter(t, provider)

	state, err := states.Issue(context.Background())
	require.NoError(t, err)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code=authcode", nil))
	require.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code=authcode", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestCallbackMissingCode(t *testing.T) {
	router, states := newSSORouter(t, &stubProvider{})

	state, err := states.Issue(context.Background())
	require.NoError(t, err)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state, nil))
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestCallbackExchangeFailure(t *testing.T) {
	router, states := newSSORouter(t, &stubProvider{exchangeErr: errors.New("upstream says no")})

	state, err := states.Issue(context.Background())
	require.NoError(t, err)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code=authcode", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
