package checkins

import (
	"context"
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

func (s *Store) CreateQuestion(ctx context.Context, text string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO checkin_questions (text) VALUES ($1) RETURNING id
  `, text).Scan(&id)
	return id, err
}

func (s *Store) ListQuestions(ctx context.Context) ([]Question, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, text, active_on FROM checkin_questions ORDER BY created_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.Text, &q.ActiveOn); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// TodayQuestion returns the question active on the given day, if any.
func (s *Store) TodayQuestion(ctx context.Context, day time.Time) (Question, bool, error) {
	var q Question
	err := s.DB.QueryRow(ctx, `
    SELECT id, text, active_on FROM checkin_questions WHERE active_on = $1
  `, day.Format("2006-01-02")).Scan(&q.ID, &q.Text, &q.ActiveOn)
	if err == pgx.ErrNoRows {
		return Question{}, false, nil
	}
	if err != nil {
		return Question{}, false, err
	}
	return q, true, nil
}

// ActivateNext rotates the pool: if no question is active for the day, the
// least recently asked one gets the slot. Safe to call repeatedly.
func (s *Store) ActivateNext(ctx context.Context, day time.Time) (Question, error) {
	var q Question
	err := s.DB.QueryRow(ctx, `
    UPDATE checkin_questions SET active_on = $1
    WHERE id = (
      SELECT id FROM checkin_questions
      WHERE NOT EXISTS (SELECT 1 FROM checkin_questions WHERE active_on = $1)
      ORDER BY active_on ASC NULLS FIRST, created_at
      LIMIT 1
      FOR UPDATE SKIP LOCKED
    )
    RETURNING id, text, active_on
  `, day.Format("2006-01-02")).Scan(&q.ID, &q.Text, &q.ActiveOn)
	if err == pgx.ErrNoRows {
		// Already rotated today, or the pool is empty.
		current, ok, lookupErr := s.TodayQuestion(ctx, day)
		if lookupErr != nil {
			return Question{}, lookupErr
		}
		if ok {
			return current, nil
		}
		return Question{}, pgx.ErrNoRows
	}
	return q, err
}

// CreateAnswer relies on the unique (question_id, profile_id) constraint to
// reject a second answer; callers map the violation to a conflict.
func (s *Store) CreateAnswer(ctx context.Context, questionID, profileID, answer string, mood int) (Answer, error) {
	var a Answer
	err := s.DB.QueryRow(ctx, `
    INSERT INTO checkin_answers (question_id, profile_id, answer, mood)
    VALUES ($1, $2, $3, $4)
    RETURNING id, question_id, profile_id, answer, mood, created_at
  `, questionID, profileID, answer, mood).Scan(
		&a.ID, &a.QuestionID, &a.ProfileID, &a.Answer, &a.Mood, &a.CreatedAt,
	)
	return a, err
}

func (s *Store) HasAnswered(ctx context.Context, questionID, profileID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM checkin_answers WHERE question_id = $1 AND profile_id = $2)
  `, questionID, profileID).Scan(&exists)
	return exists, err
}
