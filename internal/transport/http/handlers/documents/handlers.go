package documentshandler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/documents"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/api"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/shared"
)

type Handler struct {
	Service *documents.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *documents.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDocumentsWrite, h.Perms)).Post("/", h.handleUpload)
		r.With(middleware.RequirePermission(auth.PermDocumentsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDocumentsRead, h.Perms)).Get("/{documentID}/url", h.handleSignedURL)
		r.With(middleware.RequirePermission(auth.PermDocumentsWrite, h.Perms)).Delete("/{documentID}", h.handleDelete)
	})
}

// RegisterDownloadRoute hangs the token-authenticated download endpoint off
// the root router; the token is the credential, so no session middleware.
func (h *Handler) RegisterDownloadRoute(r chi.Router) {
	r.Get("/files/{token}", h.handleDownload)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "multipart field 'file' is required", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()

	parentType := r.FormValue("parentType")
	parentID := r.FormValue("parentId")
	v := shared.NewValidator()
	if !documents.ValidParentType(parentType) {
		v.Add("parentType", "must be one of expense, delivery, invoice or empty")
	}
	if parentType != "" && parentID == "" {
		v.Add("parentId", "required when parentType is set")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	doc, err := h.Service.Upload(r.Context(), documents.UploadInput{
		FileName:   header.Filename,
		MimeType:   header.Header.Get("Content-Type"),
		Size:       header.Size,
		ParentType: parentType,
		ParentID:   parentID,
		UploaderID: user.UserID,
	}, file)
	switch {
	case errors.Is(err, documents.ErrMimeNotAllowed), errors.Is(err, documents.ErrMimeMismatch):
		api.Fail(w, http.StatusBadRequest, "file_type_not_allowed", "this file type is not accepted", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, documents.ErrTooLarge):
		api.Fail(w, http.StatusBadRequest, "file_too_large", "file exceeds the upload size limit", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "upload_failed", "failed to store file", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "document.upload", "document", doc.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"fileName": doc.FileName, "size": doc.Size, "mimeType": doc.MimeType}); err != nil {
		slog.Warn("audit record failed", "action", "document.upload", "err", err)
	}
	api.Created(w, doc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	parent := r.URL.Query().Get("parent")
	var (
		list []documents.Document
		err  error
	)
	if parent != "" {
		parentType, parentID, found := strings.Cut(parent, ":")
		if !found || !documents.ValidParentType(parentType) || parentType == "" {
			api.Fail(w, http.StatusBadRequest, "invalid_parent", "parent must look like expense:<id>", middleware.GetRequestID(r.Context()))
			return
		}
		list, err = h.Service.ListByParent(r.Context(), user, parentType, parentID)
	} else {
		list, err = h.Service.ListByUploader(r.Context(), user.UserID)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_list_failed", "failed to list documents", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSignedURL(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	url, err := h.Service.SignedURL(r.Context(), user, chi.URLParam(r, "documentID"))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, documents.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "no access to this document", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "signed_url_failed", "failed to mint download url", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"url": url, "expiresIn": int(h.Service.Signer.TTL().Seconds())}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	documentID := chi.URLParam(r, "documentID")
	deleted, err := h.Service.Delete(r.Context(), user, documentID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		api.Fail(w, http.StatusNotFound, "not_found", "document not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, documents.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "only the uploader or an admin can delete", middleware.GetRequestID(r.Context()))
		return
	case err != nil, !deleted:
		api.Fail(w, http.StatusInternalServerError, "document_delete_failed", "failed to delete document", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "document.delete", "document", documentID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit record failed", "action", "document.delete", "err", err)
	}
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	doc, rc, err := h.Service.OpenByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_token", "download link is invalid or expired", middleware.GetRequestID(r.Context()))
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.Size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("document stream interrupted", "documentId", doc.ID, "err", err)
	}
}
