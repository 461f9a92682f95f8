package sso

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sentinel-iam/sentinel/internal/auth"
	"github.com/sentinel-iam/sentinel/internal/observability"
	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
)

// Handler serves the Google sign-in redirect and callback endpoints.
type Handler struct {
	logger   *slog.Logger
	provider Provider
	states   *StateStore
	linker   *Linker
	events   auth.EventSink
	metrics  *observability.Metrics
}

func NewHandler(logger *slog.Logger, provider Provider, states *StateStore, linker *Linker, events auth.EventSink, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:   logger,
		provider: provider,
		states:   states,
		linker:   linker,
		events:   events,
		metrics:  metrics,
	}
}

// MountRoutes registers the federated login routes on a public router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/auth/google/login", h.login)
	r.Get("/auth/google/callback", h.callback)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	state, err := h.states.Issue(r.Context())
	if err != nil {
		h.logger.Error("issue sso state", "error", err)
		httpx.RespondError(w, err)
		return
	}
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	if err := h.states.Consume(r.Context(), r.URL.Query().Get("state")); err != nil {
		h.metrics.IncAuthAttempt("google", "failure")
		httpx.RespondError(w, err)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		h.metrics.IncAuthAttempt("google", "failure")
		httpx.RespondError(w, httpx.ErrBadRequest)
		return
	}
	profile, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("google exchange failed", "error", err)
		h.metrics.IncAuthAttempt("google", "failure")
		httpx.RespondError(w, httpx.ErrUnauthenticated)
		return
	}
	token, user, err := h.linker.SignIn(r.Context(), profile)
	if err != nil {
		h.metrics.IncAuthAttempt("google", "failure")
		httpx.RespondError(w, err)
		return
	}
	h.metrics.IncAuthAttempt("google", "success")
	h.recordEvent(r, auth.EventSignedIn, user)
	httpx.JSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (h *Handler) recordEvent(r *http.Request, action string, user *auth.User) {
	if h.events == nil {
		return
	}
	if err := h.events.Record(r.Context(), action, user.ID, user.Email); err != nil {
		h.logger.Warn("enqueue auth event", "action", action, "error", err)
	}
}
