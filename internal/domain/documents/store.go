package documents

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const documentColumns = `
  d.id, d.file_name, d.storage_key, d.size, d.mime_type, d.uploader_id,
  COALESCE(d.parent_type, ''), COALESCE(d.parent_id::text, ''), d.created_at
`

func (s *Store) Create(ctx context.Context, doc Document) (string, error) {
	var parentType, parentID any
	if doc.ParentType != "" {
		parentType = doc.ParentType
		parentID = doc.ParentID
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO documents (file_name, storage_key, size, mime_type, uploader_id, parent_type, parent_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id
  `, doc.FileName, doc.StorageKey, doc.Size, doc.MimeType, doc.UploaderID, parentType, parentID).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, documentID string) (Document, error) {
	var doc Document
	err := s.DB.QueryRow(ctx, `
    SELECT `+documentColumns+`
    FROM documents d
    WHERE d.id = $1
  `, documentID).Scan(
		&doc.ID, &doc.FileName, &doc.StorageKey, &doc.Size, &doc.MimeType, &doc.UploaderID,
		&doc.ParentType, &doc.ParentID, &doc.CreatedAt,
	)
	return doc, err
}

func (s *Store) ListByParent(ctx context.Context, parentType, parentID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+documentColumns+`
    FROM documents d
    WHERE d.parent_type = $1 AND d.parent_id = $2
    ORDER BY d.created_at DESC
  `, parentType, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (s *Store) ListByUploader(ctx context.Context, uploaderID string) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+documentColumns+`
    FROM documents d
    WHERE d.uploader_id = $1
    ORDER BY d.created_at DESC
  `, uploaderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]Document, error) {
	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID, &doc.FileName, &doc.StorageKey, &doc.Size, &doc.MimeType, &doc.UploaderID,
			&doc.ParentType, &doc.ParentID, &doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, documentID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM documents WHERE id = $1", documentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) UploaderDepartment(ctx context.Context, uploaderID string) (string, error) {
	var departmentID string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(department_id::text, '') FROM profiles WHERE id = $1", uploaderID).Scan(&departmentID)
	return departmentID, err
}
