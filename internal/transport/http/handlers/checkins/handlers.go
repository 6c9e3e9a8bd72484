package checkinshandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/checkins"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/db"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Store *checkins.Store
	Perms middleware.PermissionStore
	Audit *audit.Service
}

func NewHandler(store *checkins.Store, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/checkins", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCheckinsRead, h.Perms)).Get("/today", h.handleToday)
		r.With(middleware.RequirePermission(auth.PermCheckinsWrite, h.Perms)).Post("/answers", h.handleAnswer)
		r.With(middleware.RequirePermission(auth.PermCheckinsManage, h.Perms)).Get("/questions", h.handleListQuestions)
		r.With(middleware.RequirePermission(auth.PermCheckinsManage, h.Perms)).Post("/questions", h.handleCreateQuestion)
	})
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	question, found, err := h.Store.TodayQuestion(r.Context(), time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checkin_failed", "failed to load today's question", middleware.GetRequestID(r.Context()))
		return
	}
	if !found {
		api.Success(w, map[string]any{"question": nil}, middleware.GetRequestID(r.Context()))
		return
	}

	answered, err := h.Store.HasAnswered(r.Context(), question.ID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checkin_failed", "failed to load today's question", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"question": question, "answered": answered}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		QuestionID string `json:"questionId"`
		Answer     string `json:"answer"`
		Mood       int    `json:"mood"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("questionId", payload.QuestionID, "question is required")
	v.Required("answer", payload.Answer, "answer is required")
	if !checkins.ValidMood(payload.Mood) {
		v.Add("mood", "must be between 1 and 5")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	answer, err := h.Store.CreateAnswer(r.Context(), payload.QuestionID, user.UserID, payload.Answer, payload.Mood)
	if db.IsUniqueViolation(err) {
		api.Fail(w, http.StatusConflict, "already_answered", "you already answered this question", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checkin_failed", "failed to record answer", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, answer, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.Store.ListQuestions(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checkin_failed", "failed to list questions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, questions, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("text", payload.Text, "question text is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateQuestion(r.Context(), payload.Text)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checkin_failed", "failed to create question", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "checkin.question_create", "checkin_question", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit record failed", "action", "checkin.question_create", "err", err)
	}
	api.Created(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}
