package recognition

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) RecipientActive(ctx context.Context, profileID string) (bool, error) {
	var active bool
	err := s.DB.QueryRow(ctx, "SELECT is_active FROM profiles WHERE id = $1", profileID).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return active, nil
}

func (s *Store) QuotaUsed(ctx context.Context, giverID, kind string, month time.Time) (int, error) {
	var used int
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE((
      SELECT used FROM recognition_quota
      WHERE giver_id = $1 AND kind = $2 AND month = $3
    ), 0)
  `, giverID, kind, month).Scan(&used)
	if err != nil {
		return 0, err
	}
	return used, nil
}

// CreateAwarded claims one unit of the giver's monthly quota and records the
// event in a single transaction. The quota claim is one conditional upsert,
// so two concurrent awards for the same giver and month cannot both succeed
// past the limit; a claim that matches no row means the quota is spent.
func (s *Store) CreateAwarded(ctx context.Context, kind, giverID, recipientID, reason, message string, month time.Time) (Event, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Event{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var used int
	err = tx.QueryRow(ctx, `
    INSERT INTO recognition_quota (giver_id, kind, month, used)
    VALUES ($1, $2, $3, 1)
    ON CONFLICT (giver_id, kind, month)
    DO UPDATE SET used = recognition_quota.used + 1
    WHERE recognition_quota.used < $4
    RETURNING used
  `, giverID, kind, month, MaxPerMonth).Scan(&used)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, ErrQuotaExceeded
	}
	if err != nil {
		return Event{}, err
	}

	event := Event{
		Kind:        kind,
		GiverID:     giverID,
		RecipientID: recipientID,
		Reason:      reason,
		Message:     message,
	}
	err = tx.QueryRow(ctx, `
    INSERT INTO recognition_events (kind, giver_id, recipient_id, reason, message)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, created_at
  `, kind, giverID, recipientID, reason, message).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return Event{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Event{}, err
	}
	return event, nil
}

func (s *Store) ListGiven(ctx context.Context, giverID string, from, to time.Time) ([]Event, error) {
	return s.list(ctx, `
    SELECT e.id, e.kind, e.giver_id, g.full_name, e.recipient_id, r.full_name, e.reason, e.message, e.created_at
    FROM recognition_events e
    JOIN profiles g ON g.id = e.giver_id
    JOIN profiles r ON r.id = e.recipient_id
    WHERE e.giver_id = $1 AND e.created_at BETWEEN $2 AND $3
    ORDER BY e.created_at DESC
  `, giverID, from, to)
}

func (s *Store) ListReceived(ctx context.Context, recipientID string, from, to time.Time) ([]Event, error) {
	return s.list(ctx, `
    SELECT e.id, e.kind, e.giver_id, g.full_name, e.recipient_id, r.full_name, e.reason, e.message, e.created_at
    FROM recognition_events e
    JOIN profiles g ON g.id = e.giver_id
    JOIN profiles r ON r.id = e.recipient_id
    WHERE e.recipient_id = $1 AND e.created_at BETWEEN $2 AND $3
    ORDER BY e.created_at DESC
  `, recipientID, from, to)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.GiverID, &ev.GiverName, &ev.RecipientID, &ev.RecipientName, &ev.Reason, &ev.Message, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Store) Leaderboard(ctx context.Context, kind string, from, to time.Time, limit int) ([]LeaderboardRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.recipient_id, p.full_name, COUNT(1) AS total
    FROM recognition_events e
    JOIN profiles p ON p.id = e.recipient_id
    WHERE e.kind = $1 AND e.created_at BETWEEN $2 AND $3
    GROUP BY e.recipient_id, p.full_name
    ORDER BY total DESC, p.full_name
    LIMIT $4
  `, kind, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.ProfileID, &row.FullName, &row.Total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
