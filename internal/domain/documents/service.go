package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/storage"
)

var (
	ErrMimeNotAllowed = errors.New("file type not allowed")
	ErrMimeMismatch   = errors.New("file content does not match declared type")
	ErrTooLarge       = errors.New("file exceeds the upload size limit")
	ErrForbidden      = errors.New("no access to this document")
)

type Service struct {
	Store    StoreAPI
	Objects  storage.ObjectStore
	Signer   *storage.Signer
	MaxBytes int64
}

func NewService(store StoreAPI, objects storage.ObjectStore, signer *storage.Signer, maxBytes int64) *Service {
	return &Service{Store: store, Objects: objects, Signer: signer, MaxBytes: maxBytes}
}

type UploadInput struct {
	FileName   string
	MimeType   string
	Size       int64
	ParentType string
	ParentID   string
	UploaderID string
}

// Upload validates the file before anything is written: on rejection there
// is neither an object nor a metadata row.
func (s *Service) Upload(ctx context.Context, in UploadInput, r io.Reader) (Document, error) {
	if s.MaxBytes > 0 && in.Size > s.MaxBytes {
		return Document{}, ErrTooLarge
	}
	if !AllowedMime(in.MimeType) {
		return Document{}, ErrMimeNotAllowed
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Document{}, err
	}
	head = head[:n]
	if !SniffMatches(in.MimeType, head) {
		return Document{}, ErrMimeMismatch
	}

	key := uuid.NewString() + "/" + SanitizeFileName(in.FileName)
	body := io.MultiReader(bytes.NewReader(head), r)
	if s.MaxBytes > 0 {
		// The multipart size header is client-supplied; cap the stream too.
		body = io.LimitReader(body, s.MaxBytes+1)
	}

	written, err := s.Objects.Save(ctx, key, body)
	if err != nil {
		return Document{}, err
	}
	if s.MaxBytes > 0 && written > s.MaxBytes {
		_ = s.Objects.Delete(ctx, key)
		return Document{}, ErrTooLarge
	}

	doc := Document{
		FileName:   SanitizeFileName(in.FileName),
		StorageKey: key,
		Size:       written,
		MimeType:   normalizeMime(in.MimeType),
		UploaderID: in.UploaderID,
		ParentType: in.ParentType,
		ParentID:   in.ParentID,
	}
	id, err := s.Store.Create(ctx, doc)
	if err != nil {
		// Orphaned objects are worse than a retried upload.
		_ = s.Objects.Delete(ctx, key)
		return Document{}, err
	}
	doc.ID = id
	return doc, nil
}

// CanAccess decides document visibility: the uploader, an admin, or the
// manager of the uploader's department.
func CanAccess(actor auth.UserContext, doc Document, uploaderDepartmentID string) bool {
	if actor.UserID == doc.UploaderID || actor.Role == auth.RoleAdmin {
		return true
	}
	return actor.Role == auth.RoleManager &&
		actor.DepartmentID != "" && actor.DepartmentID == uploaderDepartmentID
}

// SignedURL mints a download token for the document, scoped by CanAccess.
func (s *Service) SignedURL(ctx context.Context, actor auth.UserContext, documentID string) (string, error) {
	doc, err := s.Store.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	dept, err := s.Store.UploaderDepartment(ctx, doc.UploaderID)
	if err != nil {
		return "", err
	}
	if !CanAccess(actor, doc, dept) {
		return "", ErrForbidden
	}
	token, err := s.Signer.Mint(doc.ID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/files/%s", token), nil
}

// OpenByToken resolves a download token to the document and its content
// stream. The token is the whole credential; no session is required.
func (s *Service) OpenByToken(ctx context.Context, token string) (Document, io.ReadCloser, error) {
	documentID, err := s.Signer.Verify(token)
	if err != nil {
		return Document{}, nil, err
	}
	doc, err := s.Store.Get(ctx, documentID)
	if err != nil {
		return Document{}, nil, err
	}
	rc, err := s.Objects.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, err
	}
	return doc, rc, nil
}

// Delete removes the metadata row first; the object removal is best-effort
// so a storage hiccup never resurrects a deleted document.
func (s *Service) Delete(ctx context.Context, actor auth.UserContext, documentID string) (bool, error) {
	doc, err := s.Store.Get(ctx, documentID)
	if err != nil {
		return false, err
	}
	if actor.UserID != doc.UploaderID && actor.Role != auth.RoleAdmin {
		return false, ErrForbidden
	}
	deleted, err := s.Store.Delete(ctx, documentID)
	if err != nil || !deleted {
		return deleted, err
	}
	if err := s.Objects.Delete(ctx, doc.StorageKey); err != nil {
		slog.Warn("failed to remove stored object after delete", "documentId", documentID, "error", err)
	}
	return true, nil
}

// ListByParent returns the parent's documents the actor may see, filtered by
// the same visibility rule the signed-URL path applies.
func (s *Service) ListByParent(ctx context.Context, actor auth.UserContext, parentType, parentID string) ([]Document, error) {
	list, err := s.Store.ListByParent(ctx, parentType, parentID)
	if err != nil {
		return nil, err
	}
	if actor.Role == auth.RoleAdmin {
		return list, nil
	}

	departments := map[string]string{}
	visible := list[:0]
	for _, doc := range list {
		dept, ok := departments[doc.UploaderID]
		if !ok {
			if dept, err = s.Store.UploaderDepartment(ctx, doc.UploaderID); err != nil {
				return nil, err
			}
			departments[doc.UploaderID] = dept
		}
		if CanAccess(actor, doc, dept) {
			visible = append(visible, doc)
		}
	}
	return visible, nil
}

func (s *Service) ListByUploader(ctx context.Context, uploaderID string) ([]Document, error) {
	return s.Store.ListByUploader(ctx, uploaderID)
}
