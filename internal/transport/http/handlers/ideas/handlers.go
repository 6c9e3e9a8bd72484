package ideashandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/ideas"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Store *ideas.Store
	Perms middleware.PermissionStore
	Audit *audit.Service
}

func NewHandler(store *ideas.Store, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ideas", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermIdeasRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermIdeasWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermIdeasManage, h.Perms)).Put("/{ideaID}/status", h.handleUpdateStatus)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !ideas.ValidStatus(status) {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown idea status", middleware.GetRequestID(r.Context()))
		return
	}

	list, err := h.Store.List(r.Context(), status)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "idea_list_failed", "failed to list ideas", middleware.GetRequestID(r.Context()))
		return
	}
	for i := range list {
		list[i] = list[i].Redact()
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Anonymous   bool   `json:"anonymous"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	v.Required("description", payload.Description, "description is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.Create(r.Context(), user.UserID, payload.Title, payload.Description, payload.Anonymous)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "idea_create_failed", "failed to submit idea", middleware.GetRequestID(r.Context()))
		return
	}

	// Anonymous ideas still record the author in the audit trail; the trail
	// itself is admin-only.
	if err := h.Audit.Record(r.Context(), user.UserID, "idea.create", "idea", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"anonymous": payload.Anonymous}); err != nil {
		slog.Warn("audit record failed", "action", "idea.create", "err", err)
	}
	api.Created(w, map[string]any{"id": id, "status": ideas.StatusNew}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "only admins can update idea status", middleware.GetRequestID(r.Context()))
		return
	}

	ideaID := chi.URLParam(r, "ideaID")
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if !ideas.ValidStatus(payload.Status) {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown idea status", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Store.UpdateStatus(r.Context(), ideaID, payload.Status)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "idea_update_failed", "failed to update idea", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "idea not found", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "idea.status_change", "idea", ideaID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit record failed", "action", "idea.status_change", "err", err)
	}
	api.Success(w, map[string]any{"status": payload.Status}, middleware.GetRequestID(r.Context()))
}
