package recognitionhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/notifications"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/recognition"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Service *recognition.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Notifier
	Audit   *audit.Service
}

func NewHandler(service *recognition.Service, perms middleware.PermissionStore, notify *notifications.Notifier, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/recognition", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermRecognitionRead, h.Perms)).Get("/quota", h.handleQuota)
		r.With(middleware.RequirePermission(auth.PermRecognitionWrite, h.Perms)).Post("/", h.handleAward)
		r.With(middleware.RequirePermission(auth.PermRecognitionRead, h.Perms)).Get("/given", h.handleGiven)
		r.With(middleware.RequirePermission(auth.PermRecognitionRead, h.Perms)).Get("/received", h.handleReceived)
		r.With(middleware.RequirePermission(auth.PermRecognitionRead, h.Perms)).Get("/leaderboard", h.handleLeaderboard)
	})
}

func (h *Handler) handleQuota(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = recognition.KindStar
	}
	if !recognition.ValidKind(kind) {
		api.Fail(w, http.StatusBadRequest, "invalid_kind", "kind must be star or dislike", middleware.GetRequestID(r.Context()))
		return
	}

	quota, err := h.Service.Quota(r.Context(), user.UserID, kind)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "quota_failed", "failed to load quota", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, quota, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAward(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		RecipientID string `json:"recipientId"`
		Kind        string `json:"kind"`
		Reason      string `json:"reason"`
		Message     string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("recipientId", payload.RecipientID, "recipient is required")
	v.Required("reason", payload.Reason, "reason is required")
	v.Required("message", payload.Message, "message is required")
	if !recognition.ValidKind(payload.Kind) {
		v.Add("kind", "must be star or dislike")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Award(r.Context(), user.UserID, payload.RecipientID, payload.Kind, payload.Reason, payload.Message)
	switch {
	case errors.Is(err, recognition.ErrSelfRecognition):
		api.Fail(w, http.StatusBadRequest, "self_recognition", "cannot recognize yourself", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, recognition.ErrMissingFields):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "reason and message are required", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, recognition.ErrRecipientNotFound):
		api.Fail(w, http.StatusNotFound, "recipient_not_found", "recipient not found or inactive", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, recognition.ErrQuotaExceeded):
		// The product treats a spent quota as a validation failure, not a
		// conflict, and answers in the user's language.
		api.Fail(w, http.StatusBadRequest, "quota_exceeded", recognition.MsgQuotaExceeded, middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "recognition_failed", "failed to record recognition", middleware.GetRequestID(r.Context()))
		return
	}

	title := "Você recebeu uma estrela!"
	if payload.Kind == recognition.KindDislike {
		title = "Você recebeu um feedback de atenção"
	}
	h.Notify.Notify(r.Context(), payload.RecipientID, notifications.TypeRecognitionReceived, title, payload.Reason)

	if err := h.Audit.Record(r.Context(), user.UserID, "recognition.award", "recognition_event", result.Event.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"kind": payload.Kind, "recipientId": payload.RecipientID}); err != nil {
		slog.Warn("audit record failed", "action", "recognition.award", "err", err)
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGiven(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	events, err := h.Service.Given(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "recognition_list_failed", "failed to list recognitions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReceived(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	events, err := h.Service.Received(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "recognition_list_failed", "failed to list recognitions", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = recognition.KindStar
	}
	if !recognition.ValidKind(kind) {
		api.Fail(w, http.StatusBadRequest, "invalid_kind", "kind must be star or dislike", middleware.GetRequestID(r.Context()))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.Service.Leaderboard(r.Context(), kind, limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leaderboard_failed", "failed to load leaderboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}
