package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
)

// Middleware authenticates guarded requests: it validates the bearer token
// and resolves the current user into the request context. Authorization is
// the guard's job and happens after.
type Middleware struct {
	Tokens  *TokenService
	Service *Service
	Logger  *slog.Logger
}

// Authenticate validates the Authorization header and loads the user.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			httpx.RespondError(w, httpx.ErrUnauthenticated)
			return
		}
		claims, err := m.Tokens.Validate(raw)
		if err != nil {
			httpx.RespondError(w, httpx.ErrUnauthenticated)
			return
		}
		user, err := m.Service.Resolve(r.Context(), claims)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("identity resolution failed", slog.String("path", r.URL.Path))
			}
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
