package reportshandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/reports"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/summary/pdf", h.handleSummaryPDF)
	})
}

// scope returns the department filter for the caller: managers are pinned to
// their department, admins choose freely.
func scope(user auth.UserContext, r *http.Request) string {
	if user.Role == auth.RoleAdmin {
		return r.URL.Query().Get("departmentId")
	}
	return user.DepartmentID
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	summary, err := h.Service.Summary(r.Context(), scope(user, r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	summary, err := h.Service.Summary(r.Context(), scope(user, r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="relatorio-rh.pdf"`)
	if err := reports.WritePDF(w, summary, time.Now()); err != nil {
		slog.Warn("report pdf stream failed", "err", err)
	}
}
