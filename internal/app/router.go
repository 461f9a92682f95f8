package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sentinel-iam/sentinel/internal/auth"
	"github.com/sentinel-iam/sentinel/internal/observability"
	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/sso"
	"github.com/sentinel-iam/sentinel/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	AuthHandler   *auth.Handler
	SSOHandler    *sso.Handler
	UsersHandler  *users.Handler
	RBACHandler   *rbac.Handler
	Authenticator func(http.Handler) http.Handler
	Metrics       *observability.Metrics
}

// NewRouter constructs the chi.Router with Sentinel defaults. Registration,
// login and the federated flow stay public; everything else sits behind the
// bearer-token authenticator.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	// Public routes: credential and federated sign-in.
	r.Group(func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		if params.SSOHandler != nil {
			params.SSOHandler.MountRoutes(r)
		}
	})

	// Everything below requires a valid bearer token.
	r.Group(func(r chi.Router) {
		r.Use(params.Authenticator)
		params.UsersHandler.MountRoutes(r)
		r.Route("/role", params.RBACHandler.MountRoleRoutes)
		r.Route("/permission", params.RBACHandler.MountPermissionRoutes)
	})

	return r
}
