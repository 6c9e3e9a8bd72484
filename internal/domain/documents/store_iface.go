package documents

import "context"

// StoreAPI is what the service needs from persistence. *Store implements it;
// tests substitute an in-memory fake.
type StoreAPI interface {
	Create(ctx context.Context, doc Document) (string, error)
	Get(ctx context.Context, documentID string) (Document, error)
	ListByParent(ctx context.Context, parentType, parentID string) ([]Document, error)
	ListByUploader(ctx context.Context, uploaderID string) ([]Document, error)
	Delete(ctx context.Context, documentID string) (bool, error)
	UploaderDepartment(ctx context.Context, uploaderID string) (string, error)
}
