package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/notifications"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Store *notifications.Store
	Perms middleware.PermissionStore
}

func NewHandler(store *notifications.Store, perms middleware.PermissionStore) *Handler {
	return &Handler{Store: store, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermNotificationsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermNotificationsRead, h.Perms)).Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	list, err := h.Store.List(r.Context(), user.UserID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_list_failed", "failed to list notifications", middleware.GetRequestID(r.Context()))
		return
	}
	unread, err := h.Store.CountUnread(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_list_failed", "failed to list notifications", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"items": list, "unread": unread}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	marked, err := h.Store.MarkRead(r.Context(), user.UserID, chi.URLParam(r, "notificationID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification_read_failed", "failed to mark notification read", middleware.GetRequestID(r.Context()))
		return
	}
	if !marked {
		api.Fail(w, http.StatusNotFound, "not_found", "notification not found or already read", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"read": true}, middleware.GetRequestID(r.Context()))
}
