package expenseshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/expenses"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/notifications"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Store  *expenses.Store
	Perms  middleware.PermissionStore
	Notify *notifications.Notifier
	Audit  *audit.Service
}

func NewHandler(store *expenses.Store, perms middleware.PermissionStore, notify *notifications.Notifier, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/expenses", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermExpensesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermExpensesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermExpensesRead, h.Perms)).Get("/{expenseID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermExpensesApprove, h.Perms)).Post("/{expenseID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermExpensesApprove, h.Perms)).Post("/{expenseID}/reject", h.handleReject)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	status := r.URL.Query().Get("status")
	employeeID := ""
	departmentID := ""
	switch user.Role {
	case auth.RoleAdmin:
		employeeID = r.URL.Query().Get("employeeId")
	case auth.RoleManager:
		departmentID = user.DepartmentID
	default:
		employeeID = user.UserID
	}

	list, err := h.Store.List(r.Context(), employeeID, departmentID, status)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_list_failed", "failed to list expenses", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	exp, err := h.Store.Get(r.Context(), chi.URLParam(r, "expenseID"))
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "expense not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_get_failed", "failed to load expense", middleware.GetRequestID(r.Context()))
		return
	}

	if exp.EmployeeID != user.UserID && !expenses.CanReview(user, exp.DepartmentID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this expense", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, exp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Description       string `json:"description"`
		Amount            string `json:"amount"`
		Category          string `json:"category"`
		ReceiptDocumentID string `json:"receiptDocumentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("description", payload.Description, "description is required")
	if !expenses.ValidCategory(payload.Category) {
		v.Add("category", "unknown expense category")
	}
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil || !amount.IsPositive() {
		v.Add("amount", "must be a positive decimal number")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.Create(r.Context(), user.UserID, payload.Description, amount, payload.Category, payload.ReceiptDocumentID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_create_failed", "failed to submit expense", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "expense.create", "expense", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"amount": amount.String(), "category": payload.Category}); err != nil {
		slog.Warn("audit record failed", "action", "expense.create", "err", err)
	}
	api.Created(w, map[string]any{"id": id, "status": expenses.StatusPending}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, expenses.StatusApproved)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, expenses.StatusRejected)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, status string) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	expenseID := chi.URLParam(r, "expenseID")
	exp, err := h.Store.Get(r.Context(), expenseID)
	if errors.Is(err, pgx.ErrNoRows) {
		api.Fail(w, http.StatusNotFound, "not_found", "expense not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_review_failed", "failed to review expense", middleware.GetRequestID(r.Context()))
		return
	}

	if exp.EmployeeID == user.UserID {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot review your own expense", middleware.GetRequestID(r.Context()))
		return
	}
	if !expenses.CanReview(user, exp.DepartmentID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "can only review expenses from your department", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Note string `json:"note"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	reviewed, err := h.Store.Review(r.Context(), expenseID, user.UserID, status, payload.Note, time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "expense_review_failed", "failed to review expense", middleware.GetRequestID(r.Context()))
		return
	}
	if !reviewed {
		api.Fail(w, http.StatusConflict, "already_reviewed", "expense was already reviewed", middleware.GetRequestID(r.Context()))
		return
	}

	title := "Despesa aprovada"
	if status == expenses.StatusRejected {
		title = "Despesa rejeitada"
	}
	h.Notify.Notify(r.Context(), exp.EmployeeID, notifications.TypeExpenseReviewed, title,
		fmt.Sprintf("%s: R$ %s", exp.Description, exp.Amount.StringFixed(2)))

	if err := h.Audit.Record(r.Context(), user.UserID, "expense."+status, "expense", expenseID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]any{"status": expenses.StatusPending}, map[string]any{"status": status, "note": payload.Note}); err != nil {
		slog.Warn("audit record failed", "action", "expense.review", "err", err)
	}
	api.Success(w, map[string]any{"status": status}, middleware.GetRequestID(r.Context()))
}
