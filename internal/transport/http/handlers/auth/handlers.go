package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Audit   *audit.Service
}

func NewHandler(service *auth.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.Get("/me", h.handleMe)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrProfileInactive) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to log in", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), result.Profile.ID, "auth.login", "profile", result.Profile.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit record failed", "action", "auth.login", "err", err)
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.Logout(r.Context(), user.UserID, middleware.GetToken(r.Context())); err != nil {
		api.Fail(w, http.StatusInternalServerError, "logout_failed", "failed to log out", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"loggedOut": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}
