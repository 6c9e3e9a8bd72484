package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/storage"
)

type fakeStore struct {
	docs       map[string]Document
	depts      map[string]string
	nextID     int
	createErr  error
	createdKey string
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]Document{}, depts: map[string]string{}}
}

func (f *fakeStore) Create(ctx context.Context, doc Document) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := "doc-" + string(rune('0'+f.nextID))
	doc.ID = id
	doc.CreatedAt = time.Now()
	f.docs[id] = doc
	f.createdKey = doc.StorageKey
	return id, nil
}

func (f *fakeStore) Get(ctx context.Context, documentID string) (Document, error) {
	doc, ok := f.docs[documentID]
	if !ok {
		return Document{}, errors.New("no rows in result set")
	}
	return doc, nil
}

func (f *fakeStore) ListByParent(ctx context.Context, parentType, parentID string) ([]Document, error) {
	var out []Document
	for _, doc := range f.docs {
		if doc.ParentType == parentType && doc.ParentID == parentID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByUploader(ctx context.Context, uploaderID string) ([]Document, error) {
	var out []Document
	for _, doc := range f.docs {
		if doc.UploaderID == uploaderID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(ctx context.Context, documentID string) (bool, error) {
	if _, ok := f.docs[documentID]; !ok {
		return false, nil
	}
	delete(f.docs, documentID)
	return true, nil
}

func (f *fakeStore) UploaderDepartment(ctx context.Context, uploaderID string) (string, error) {
	return f.depts[uploaderID], nil
}

type memObjects struct {
	objects map[string][]byte
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}}
}

func (m *memObjects) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.objects[key] = data
	return int64(len(data)), nil
}

func (m *memObjects) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memObjects) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func newTestService(store *fakeStore, objects *memObjects, maxBytes int64) *Service {
	signer := storage.NewSigner("test-secret", time.Hour)
	return NewService(store, objects, signer, maxBytes)
}

var pdfContent = []byte("%PDF-1.7\nconteudo do recibo")

func TestUploadStoresObjectAndRow(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 1<<20)

	doc, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "recibo.pdf",
		MimeType:   "application/pdf",
		Size:       int64(len(pdfContent)),
		ParentType: ParentExpense,
		ParentID:   "exp-1",
		UploaderID: "user-1",
	}, bytes.NewReader(pdfContent))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatal("expected a document id")
	}
	if doc.Size != int64(len(pdfContent)) {
		t.Fatalf("size = %d, want %d", doc.Size, len(pdfContent))
	}
	if !strings.HasSuffix(doc.StorageKey, "/recibo.pdf") {
		t.Fatalf("unexpected storage key %q", doc.StorageKey)
	}
	if _, ok := objects.objects[doc.StorageKey]; !ok {
		t.Fatal("object was not stored")
	}
}

func TestUploadRejectsDisallowedMime(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 1<<20)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "virus.exe",
		MimeType:   "application/x-msdownload",
		Size:       10,
		UploaderID: "user-1",
	}, bytes.NewReader([]byte("MZ romance")))
	if !errors.Is(err, ErrMimeNotAllowed) {
		t.Fatalf("Upload() error = %v, want ErrMimeNotAllowed", err)
	}
	if len(objects.objects) != 0 {
		t.Fatal("rejected upload must not leave an object behind")
	}
	if len(store.docs) != 0 {
		t.Fatal("rejected upload must not leave a row behind")
	}
}

func TestUploadRejectsContentMismatch(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 1<<20)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "foto.png",
		MimeType:   "image/png",
		Size:       int64(len(pdfContent)),
		UploaderID: "user-1",
	}, bytes.NewReader(pdfContent))
	if !errors.Is(err, ErrMimeMismatch) {
		t.Fatalf("Upload() error = %v, want ErrMimeMismatch", err)
	}
	if len(objects.objects) != 0 {
		t.Fatal("mismatched upload must not leave an object behind")
	}
}

func TestUploadEnforcesSizeCeiling(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 16)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "grande.pdf",
		MimeType:   "application/pdf",
		Size:       1024,
		UploaderID: "user-1",
	}, bytes.NewReader(pdfContent))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Upload() error = %v, want ErrTooLarge", err)
	}
}

func TestUploadCapsLyingSizeHeader(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 16)

	// Declared size fits; the stream does not.
	_, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "grande.pdf",
		MimeType:   "application/pdf",
		Size:       8,
		UploaderID: "user-1",
	}, bytes.NewReader(pdfContent))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Upload() error = %v, want ErrTooLarge", err)
	}
	if len(objects.objects) != 0 {
		t.Fatal("oversized upload must not leave an object behind")
	}
}

func TestUploadCleansUpWhenRowInsertFails(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection reset")
	objects := newMemObjects()
	svc := newTestService(store, objects, 1<<20)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "recibo.pdf",
		MimeType:   "application/pdf",
		Size:       int64(len(pdfContent)),
		UploaderID: "user-1",
	}, bytes.NewReader(pdfContent))
	if err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if len(objects.objects) != 0 {
		t.Fatal("object should be removed when the metadata insert fails")
	}
}

func TestSignedURLScope(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 1<<20)

	doc, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "recibo.pdf",
		MimeType:   "application/pdf",
		Size:       int64(len(pdfContent)),
		UploaderID: "user-1",
	}, bytes.NewReader(pdfContent))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	store.depts["user-1"] = "dep-1"

	tests := []struct {
		name    string
		actor   auth.UserContext
		wantErr error
	}{
		{name: "uploader", actor: auth.UserContext{UserID: "user-1", Role: auth.RoleEmployee, DepartmentID: "dep-1"}},
		{name: "admin", actor: auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin}},
		{name: "manager of department", actor: auth.UserContext{UserID: "mgr-1", Role: auth.RoleManager, DepartmentID: "dep-1"}},
		{name: "manager elsewhere", actor: auth.UserContext{UserID: "mgr-2", Role: auth.RoleManager, DepartmentID: "dep-2"}, wantErr: ErrForbidden},
		{name: "unrelated employee", actor: auth.UserContext{UserID: "user-2", Role: auth.RoleEmployee, DepartmentID: "dep-1"}, wantErr: ErrForbidden},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			url, err := svc.SignedURL(context.Background(), tc.actor, doc.ID)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("SignedURL() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && !strings.HasPrefix(url, "/files/") {
				t.Fatalf("unexpected signed url %q", url)
			}
		})
	}
}

func TestListByParentScope(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 1<<20)

	for _, uploader := range []string{"user-1", "user-2"} {
		_, err := svc.Upload(context.Background(), UploadInput{
			FileName:   "recibo.pdf",
			MimeType:   "application/pdf",
			Size:       int64(len(pdfContent)),
			ParentType: ParentExpense,
			ParentID:   "exp-1",
			UploaderID: uploader,
		}, bytes.NewReader(pdfContent))
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
	}
	store.depts["user-1"] = "dep-1"
	store.depts["user-2"] = "dep-2"

	tests := []struct {
		name  string
		actor auth.UserContext
		want  map[string]bool
	}{
		{
			name:  "admin sees everything",
			actor: auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin},
			want:  map[string]bool{"user-1": true, "user-2": true},
		},
		{
			name:  "uploader sees only their own",
			actor: auth.UserContext{UserID: "user-1", Role: auth.RoleEmployee, DepartmentID: "dep-1"},
			want:  map[string]bool{"user-1": true},
		},
		{
			name:  "manager sees their department's uploads",
			actor: auth.UserContext{UserID: "mgr-1", Role: auth.RoleManager, DepartmentID: "dep-1"},
			want:  map[string]bool{"user-1": true},
		},
		{
			name:  "unrelated employee sees nothing",
			actor: auth.UserContext{UserID: "user-3", Role: auth.RoleEmployee, DepartmentID: "dep-3"},
			want:  map[string]bool{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			list, err := svc.ListByParent(context.Background(), tc.actor, ParentExpense, "exp-1")
			if err != nil {
				t.Fatalf("ListByParent() error = %v", err)
			}
			got := map[string]bool{}
			for _, doc := range list {
				got[doc.UploaderID] = true
			}
			if len(got) != len(tc.want) {
				t.Fatalf("visible uploaders = %v, want %v", got, tc.want)
			}
			for uploader := range tc.want {
				if !got[uploader] {
					t.Fatalf("visible uploaders = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestOpenByTokenRoundTrip(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 1<<20)

	doc, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "recibo.pdf",
		MimeType:   "application/pdf",
		Size:       int64(len(pdfContent)),
		UploaderID: "user-1",
	}, bytes.NewReader(pdfContent))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	url, err := svc.SignedURL(context.Background(), auth.UserContext{UserID: "user-1"}, doc.ID)
	if err != nil {
		t.Fatalf("SignedURL() error = %v", err)
	}
	token := strings.TrimPrefix(url, "/files/")

	got, rc, err := svc.OpenByToken(context.Background(), token)
	if err != nil {
		t.Fatalf("OpenByToken() error = %v", err)
	}
	defer rc.Close()
	if got.ID != doc.ID {
		t.Fatalf("resolved document %q, want %q", got.ID, doc.ID)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading object: %v", err)
	}
	if !bytes.Equal(data, pdfContent) {
		t.Fatal("streamed content differs from the upload")
	}

	if _, _, err := svc.OpenByToken(context.Background(), "not-a-token"); err == nil {
		t.Fatal("expected an invalid token to be rejected")
	}
}

func TestDeleteIsBestEffortOnObject(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 1<<20)

	doc, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "recibo.pdf",
		MimeType:   "application/pdf",
		Size:       int64(len(pdfContent)),
		UploaderID: "user-1",
	}, bytes.NewReader(pdfContent))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	// Simulate the object vanishing out from under us.
	delete(objects.objects, doc.StorageKey)

	deleted, err := svc.Delete(context.Background(), auth.UserContext{UserID: "user-1"}, doc.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete() = (%v, %v), want row deleted despite missing object", deleted, err)
	}
	if _, err := store.Get(context.Background(), doc.ID); err == nil {
		t.Fatal("metadata row should be gone")
	}
}

func TestDeleteRequiresUploaderOrAdmin(t *testing.T) {
	store := newFakeStore()
	objects := newMemObjects()
	svc := newTestService(store, objects, 1<<20)

	doc, err := svc.Upload(context.Background(), UploadInput{
		FileName:   "recibo.pdf",
		MimeType:   "application/pdf",
		Size:       int64(len(pdfContent)),
		UploaderID: "user-1",
	}, bytes.NewReader(pdfContent))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	_, err = svc.Delete(context.Background(), auth.UserContext{UserID: "mgr-1", Role: auth.RoleManager, DepartmentID: "dep-1"}, doc.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Delete() error = %v, want ErrForbidden", err)
	}
}
