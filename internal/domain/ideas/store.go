package ideas

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

const ideaColumns = `
  i.id, i.author_id, p.full_name, i.title, i.description, i.anonymous, i.status, i.created_at
`

func (s *Store) Create(ctx context.Context, authorID, title, description string, anonymous bool) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO ideas (author_id, title, description, anonymous, status)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, authorID, title, description, anonymous, StatusNew).Scan(&id)
	return id, err
}

func (s *Store) List(ctx context.Context, status string) ([]Idea, error) {
	query := `
    SELECT ` + ideaColumns + `
    FROM ideas i
    JOIN profiles p ON p.id = i.author_id
    WHERE 1=1
  `
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += " AND i.status = $1"
	}
	query += " ORDER BY i.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Idea
	for rows.Next() {
		var idea Idea
		if err := rows.Scan(
			&idea.ID, &idea.AuthorID, &idea.AuthorName, &idea.Title,
			&idea.Description, &idea.Anonymous, &idea.Status, &idea.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, idea)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, ideaID, status string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE ideas SET status = $1 WHERE id = $2", status, ideaID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
