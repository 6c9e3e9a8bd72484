package evaluationhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/evaluation"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/notifications"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/db"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Store  *evaluation.Store
	Perms  middleware.PermissionStore
	Notify *notifications.Notifier
	Audit  *audit.Service
}

func NewHandler(store *evaluation.Store, perms middleware.PermissionStore, notify *notifications.Notifier, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/evaluations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEvaluationsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)).Get("/{evaluationID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEvaluationsWrite, h.Perms)).Put("/{evaluationID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEvaluationsWrite, h.Perms)).Post("/{evaluationID}/submit", h.handleSubmit)
	})
}

// canSee restricts reads: admins see everything, managers their department,
// employees their own evaluations. Drafts stay between evaluator and admins.
func canSee(user auth.UserContext, ev evaluation.Evaluation, employeeDepartmentID string) bool {
	if ev.Status == evaluation.StatusDraft && user.Role != auth.RoleAdmin && user.UserID != ev.EvaluatorID {
		return false
	}
	switch user.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleManager:
		return user.DepartmentID != "" && user.DepartmentID == employeeDepartmentID
	default:
		return user.UserID == ev.EmployeeID
	}
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
		// any filter goes
	case auth.RoleManager:
		departmentID = user.DepartmentID
		employeeID = ""
	default:
		employeeID = user.UserID
	}

	evaluations, err := h.Store.List(r.Context(), employeeID, departmentID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_list_failed", "failed to list evaluations", middleware.GetRequestID(r.Context()))
		return
	}

	// Drafts belong to their evaluator until submitted.
	visible := evaluations[:0]
	for _, ev := range evaluations {
		if ev.Status == evaluation.StatusDraft && user.Role != auth.RoleAdmin && user.UserID != ev.EvaluatorID {
			continue
		}
		visible = append(visible, ev)
	}
	api.Success(w, visible, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	ev, err := h.Store.Get(r.Context(), chi.URLParam(r, "evaluationID"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_get_failed", "failed to load evaluation", middleware.GetRequestID(r.Context()))
		return
	}

	dept, err := h.Store.EmployeeDepartment(r.Context(), ev.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_get_failed", "failed to load evaluation", middleware.GetRequestID(r.Context()))
		return
	}
	if !canSee(user, ev, dept) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this evaluation", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, ev, middleware.GetRequestID(r.Context()))
}

type scoresPayload struct {
	Knowledge float64 `json:"knowledge"`
	Skill     float64 `json:"skill"`
	Attitude  float64 `json:"attitude"`
	Comments  string  `json:"comments"`
}

func validateScores(v *shared.Validator, payload scoresPayload) {
	for field, value := range map[string]float64{
		"knowledge": payload.Knowledge,
		"skill":     payload.Skill,
		"attitude":  payload.Attitude,
	} {
		if !evaluation.ValidScore(value) {
			v.Add(field, "must be between 0 and 10")
		}
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmployeeID string `json:"employeeId"`
		Period     string `json:"period"`
		scoresPayload
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee is required")
	if _, err := shared.ParsePeriod(payload.Period); err != nil {
		v.Add("period", "must be in YYYY-MM format")
	}
	validateScores(v, payload.scoresPayload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if user.Role == auth.RoleManager {
		dept, err := h.Store.EmployeeDepartment(r.Context(), payload.EmployeeID)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		if dept == "" || dept != user.DepartmentID {
			api.Fail(w, http.StatusForbidden, "forbidden", "can only evaluate your own department", middleware.GetRequestID(r.Context()))
			return
		}
	}

	id, err := h.Store.Create(r.Context(), payload.EmployeeID, user.UserID, payload.Period, payload.Knowledge, payload.Skill, payload.Attitude, payload.Comments)
	if db.IsUniqueViolation(err) {
		api.Fail(w, http.StatusConflict, "evaluation_exists", fmt.Sprintf("an evaluation for this employee in %s already exists", payload.Period), middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_create_failed", "failed to create evaluation", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "evaluation.create", "evaluation", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"employeeId": payload.EmployeeID, "period": payload.Period}); err != nil {
		slog.Warn("audit record failed", "action", "evaluation.create", "err", err)
	}
	api.Created(w, map[string]any{"id": id, "average": evaluation.Average(payload.Knowledge, payload.Skill, payload.Attitude)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	ev, err := h.Store.Get(r.Context(), evaluationID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_update_failed", "failed to update evaluation", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleAdmin && user.UserID != ev.EvaluatorID {
		api.Fail(w, http.StatusForbidden, "forbidden", "only the evaluator can edit a draft", middleware.GetRequestID(r.Context()))
		return
	}

	var payload scoresPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	validateScores(v, payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	updated, err := h.Store.UpdateDraft(r.Context(), evaluationID, payload.Knowledge, payload.Skill, payload.Attitude, payload.Comments)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_update_failed", "failed to update evaluation", middleware.GetRequestID(r.Context()))
		return
	}
	if !updated {
		api.Fail(w, http.StatusConflict, "already_submitted", "a submitted evaluation cannot be edited", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "evaluation.update", "evaluation", evaluationID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit record failed", "action", "evaluation.update", "err", err)
	}
	api.Success(w, map[string]any{"updated": true, "average": evaluation.Average(payload.Knowledge, payload.Skill, payload.Attitude)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	evaluationID := chi.URLParam(r, "evaluationID")
	ev, err := h.Store.Get(r.Context(), evaluationID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "evaluation not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_submit_failed", "failed to submit evaluation", middleware.GetRequestID(r.Context()))
		return
	}
	if user.Role != auth.RoleAdmin && user.UserID != ev.EvaluatorID {
		api.Fail(w, http.StatusForbidden, "forbidden", "only the evaluator can submit", middleware.GetRequestID(r.Context()))
		return
	}

	submitted, err := h.Store.Submit(r.Context(), evaluationID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "evaluation_submit_failed", "failed to submit evaluation", middleware.GetRequestID(r.Context()))
		return
	}
	if !submitted {
		api.Fail(w, http.StatusConflict, "already_submitted", "evaluation was already submitted", middleware.GetRequestID(r.Context()))
		return
	}

	h.Notify.Notify(r.Context(), ev.EmployeeID, notifications.TypeEvaluationSubmitted,
		"Sua avaliação foi concluída", fmt.Sprintf("Avaliação do período %s disponível.", ev.Period))

	if err := h.Audit.Record(r.Context(), user.UserID, "evaluation.submit", "evaluation", evaluationID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit record failed", "action", "evaluation.submit", "err", err)
	}
	api.Success(w, map[string]any{"submitted": true}, middleware.GetRequestID(r.Context()))
}
