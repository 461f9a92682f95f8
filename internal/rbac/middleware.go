package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
)

// IdentityFunc resolves the current actor's role from the request context.
// The second return is false when no authenticated actor is present.
type IdentityFunc func(ctx context.Context) (*Role, bool)

// Guard wires authorization helpers for HTTP handlers. It converts a false
// engine decision into a Forbidden response; a missing identity is an
// Unauthorized response because the authenticator should have run first.
type Guard struct {
	Engine   Engine
	Identity IdentityFunc
	Logger   *slog.Logger
}

// Require ensures the current user's role grants the named permission.
func (g Guard) Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := g.Identity(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthenticated)
				return
			}
			if !g.Engine.Decide(role, perm, true) {
				if g.Logger != nil {
					g.Logger.Warn("permission denied", slog.String("permission", perm), slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Unmarked guards an authenticated operation that declares no required
// permission, applying the configured unmarked policy.
func (g Guard) Unmarked() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := g.Identity(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthenticated)
				return
			}
			if !g.Engine.Decide(role, "", false) {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
