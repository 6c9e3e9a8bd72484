package goalshandler

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
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/goals"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/notifications"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Store  *goals.Store
	Perms  middleware.PermissionStore
	Notify *notifications.Notifier
	Audit  *audit.Service
}

func NewHandler(store *goals.Store, perms middleware.PermissionStore, notify *notifications.Notifier, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermGoalsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermGoalsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermGoalsWrite, h.Perms)).Put("/{goalID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermGoalsWrite, h.Perms)).Put("/{goalID}/progress", h.handleProgress)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	employeeID := r.URL.Query().Get("employeeId")
	departmentID := ""
	switch user.Role {
	case auth.RoleAdmin:
	case auth.RoleManager:
		departmentID = user.DepartmentID
		employeeID = ""
	default:
		employeeID = user.UserID
	}

	list, err := h.Store.List(r.Context(), employeeID, departmentID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_list_failed", "failed to list goals", middleware.GetRequestID(r.Context()))
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
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.EmployeeID == "" {
		payload.EmployeeID = user.UserID
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	var dueDate *time.Time
	if payload.DueDate != "" {
		parsed, ok := v.Date("dueDate", payload.DueDate)
		if ok {
			dueDate = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if user.Role == auth.RoleEmployee && payload.EmployeeID != user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "can only create goals for yourself", middleware.GetRequestID(r.Context()))
		return
	}

	managerID := ""
	if user.Role != auth.RoleEmployee && payload.EmployeeID != user.UserID {
		managerID = user.UserID
	}

	id, err := h.Store.Create(r.Context(), payload.EmployeeID, managerID, payload.Title, payload.Description, dueDate)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_create_failed", "failed to create goal", middleware.GetRequestID(r.Context()))
		return
	}

	if managerID != "" {
		h.Notify.Notify(r.Context(), payload.EmployeeID, "goal_created", "Nova meta atribuída", payload.Title)
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "goal.create", "goal", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"employeeId": payload.EmployeeID, "title": payload.Title}); err != nil {
		slog.Warn("audit record failed", "action", "goal.create", "err", err)
	}
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) canTouch(user auth.UserContext, goal goals.Goal) bool {
	switch user.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleManager:
		return goal.ManagerID == user.UserID || goal.EmployeeID == user.UserID
	default:
		return goal.EmployeeID == user.UserID
	}
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	goalID := chi.URLParam(r, "goalID")
	goal, err := h.Store.Get(r.Context(), goalID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "goal not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_update_failed", "failed to update goal", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.canTouch(user, goal) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this goal", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Status      string  `json:"status"`
		DueDate     string  `json:"dueDate"`
		Progress    float64 `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	if !goals.ValidStatus(payload.Status) {
		v.Add("status", "must be one of active, completed, cancelled")
	}
	v.Range("progress", payload.Progress, 0, 100, "must be between 0 and 100")
	var dueDate *time.Time
	if payload.DueDate != "" {
		parsed, ok := v.Date("dueDate", payload.DueDate)
		if ok {
			dueDate = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Store.Update(r.Context(), goalID, payload.Title, payload.Description, payload.Status, dueDate, payload.Progress)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_update_failed", "failed to update goal", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusNotFound, "not_found", "goal not found", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "goal.update", "goal", goalID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit record failed", "action", "goal.update", "err", err)
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	goalID := chi.URLParam(r, "goalID")
	goal, err := h.Store.Get(r.Context(), goalID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "goal not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_update_failed", "failed to update goal", middleware.GetRequestID(r.Context()))
		return
	}
	if !h.canTouch(user, goal) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this goal", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Progress float64 `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Range("progress", payload.Progress, 0, 100, "must be between 0 and 100")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Store.UpdateProgress(r.Context(), goalID, payload.Progress)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "goal_update_failed", "failed to update goal", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusConflict, "goal_closed", "progress can only be updated on active goals", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"updated": true}, middleware.GetRequestID(r.Context()))
}
