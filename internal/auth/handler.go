package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sentinel-iam/sentinel/internal/observability"
	"github.com/sentinel-iam/sentinel/internal/platform/httpx"
)

// EventSink receives authentication events for asynchronous audit recording.
// A failed enqueue never fails the request.
type EventSink interface {
	Record(ctx context.Context, action string, actorID int64, email string) error
}

// Audit event names.
const (
	EventRegistered = "user.registered"
	EventSignedIn   = "user.signed_in"
)

// Handler wires HTTP endpoints for registration and login.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	events    EventSink
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, events EventSink, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		events:    events,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers public auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
}

type registerForm struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrBadRequest)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	user, err := h.service.Register(r.Context(), RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		h.logger.Error("register", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.recordEvent(r.Context(), EventRegistered, user.ID, user.Email)
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, httpx.ErrBadRequest)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	token, user, err := h.service.Signin(r.Context(), form.Email, form.Password)
	if err != nil {
		h.metrics.IncAuthAttempt("password", "failure")
		httpx.RespondError(w, err)
		return
	}
	h.metrics.IncAuthAttempt("password", "success")
	h.recordEvent(r.Context(), EventSignedIn, user.ID, user.Email)
	httpx.JSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

func (h *Handler) recordEvent(ctx context.Context, action string, actorID int64, email string) {
	if h.events == nil {
		return
	}
	if err := h.events.Record(ctx, action, actorID, email); err != nil {
		h.logger.Warn("record auth event", slog.String("action", action), slog.Any("error", err))
	}
}
