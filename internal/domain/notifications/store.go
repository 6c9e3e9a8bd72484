package notifications

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

func (s *Store) Create(ctx context.Context, profileID, ntype, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (profile_id, type, title, body)
    VALUES ($1, $2, $3, $4)
  `, profileID, ntype, title, body)
	return err
}

func (s *Store) List(ctx context.Context, profileID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, profile_id, type, title, body, read_at, created_at
    FROM notifications
    WHERE profile_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, profileID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.ProfileID, &n.Type, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, profileID string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM notifications WHERE profile_id = $1 AND read_at IS NULL
  `, profileID).Scan(&total)
	return total, err
}

// MarkRead is scoped to the owner so one profile cannot read another's rows.
func (s *Store) MarkRead(ctx context.Context, profileID, notificationID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE id = $1 AND profile_id = $2 AND read_at IS NULL
  `, notificationID, profileID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
