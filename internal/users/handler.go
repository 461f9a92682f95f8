package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sentinel-iam/sentinel/internal/auth"
	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
	"github.com/sentinel-iam/sentinel/internal/rbac"
	"github.com/sentinel-iam/sentinel/internal/shared"
)

// Handler serves user listing and profile endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Guard
}

func NewHandler(logger *slog.Logger, service *Service, guard rbac.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers the user routes on an authenticated router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(shared.PermViewUser)).Get("/users", h.list)
	r.With(h.guard.Require(shared.PermViewProfile)).Get("/user/profile", h.profile)
	r.With(h.guard.Require(shared.PermViewAUser)).Get("/user/{id}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if users == nil {
		users = []auth.User{}
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httpx.RespondError(w, httpx.ErrUnauthenticated)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrBadRequest)
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
