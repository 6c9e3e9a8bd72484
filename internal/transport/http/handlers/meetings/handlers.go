package meetingshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/meetings"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/notifications"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Store  *meetings.Store
	Perms  middleware.PermissionStore
	Notify *notifications.Notifier
	Audit  *audit.Service
}

func NewHandler(store *meetings.Store, perms middleware.PermissionStore, notify *notifications.Notifier, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/meetings", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermMeetingsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermMeetingsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermMeetingsWrite, h.Perms)).Post("/{meetingID}/complete", h.handleComplete)
		r.With(middleware.RequirePermission(auth.PermMeetingsWrite, h.Perms)).Post("/{meetingID}/cancel", h.handleCancel)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	list, err := h.Store.ListFor(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "meeting_list_failed", "failed to list meetings", middleware.GetRequestID(r.Context()))
		return
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
		EmployeeID  string `json:"employeeId"`
		ScheduledAt string `json:"scheduledAt"`
		Agenda      string `json:"agenda"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee is required")
	scheduledAt, err := time.Parse(time.RFC3339, payload.ScheduledAt)
	if err != nil {
		v.Add("scheduledAt", "must be an RFC3339 timestamp")
	}
	if payload.EmployeeID == user.UserID {
		v.Add("employeeId", "cannot schedule a one-on-one with yourself")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.Create(r.Context(), user.UserID, payload.EmployeeID, scheduledAt, payload.Agenda)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "meeting_create_failed", "failed to schedule meeting", middleware.GetRequestID(r.Context()))
		return
	}

	h.Notify.Notify(r.Context(), payload.EmployeeID, notifications.TypeMeetingScheduled,
		"Novo 1:1 agendado", "Reunião marcada para "+scheduledAt.Format("02/01/2006 15:04"))

	if err := h.Audit.Record(r.Context(), user.UserID, "meeting.create", "meeting", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit record failed", "action", "meeting.create", "err", err)
	}
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) participant(user auth.UserContext, m meetings.Meeting) bool {
	return user.Role == auth.RoleAdmin || user.UserID == m.ManagerID || user.UserID == m.EmployeeID
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	meetingID := chi.URLParam(r, "meetingID")
	meeting, err := h.Store.Get(r.Context(), meetingID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "meeting not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "meeting_update_failed", "failed to update meeting", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.participant(user, meeting) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this meeting", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Notes string `json:"notes"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	completed, err := h.Store.Complete(r.Context(), meetingID, payload.Notes)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "meeting_update_failed", "failed to update meeting", middleware.GetRequestID(r.Context()))
		return
	}
	if !completed {
		api.Fail(w, http.StatusConflict, "meeting_closed", "meeting is no longer scheduled", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "meeting.complete", "meeting", meetingID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit record failed", "action", "meeting.complete", "err", err)
	}
	api.Success(w, map[string]any{"status": meetings.StatusDone}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	meetingID := chi.URLParam(r, "meetingID")
	meeting, err := h.Store.Get(r.Context(), meetingID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "meeting not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "meeting_update_failed", "failed to update meeting", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.participant(user, meeting) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this meeting", middleware.GetRequestID(r.Context()))
		return
	}

	cancelled, err := h.Store.Cancel(r.Context(), meetingID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "meeting_update_failed", "failed to update meeting", middleware.GetRequestID(r.Context()))
		return
	}
	if !cancelled {
		api.Fail(w, http.StatusConflict, "meeting_closed", "meeting is no longer scheduled", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "meeting.cancel", "meeting", meetingID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit record failed", "action", "meeting.cancel", "err", err)
	}
	api.Success(w, map[string]any{"status": meetings.StatusCancelled}, middleware.GetRequestID(r.Context()))
}
