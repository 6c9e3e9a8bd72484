package audithandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorID:    r.URL.Query().Get("actorId"),
	}
	includeDetails, _ := strconv.ParseBool(r.URL.Query().Get("details"))
	page := shared.ParsePagination(r, 50, 500)

	events, err := h.Service.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"items": events, "total": total}, middleware.GetRequestID(r.Context()))
}
