package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type AuthProfile struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	DepartmentID string `json:"departmentId,omitempty"`
	Password     string `json:"-"`
	IsActive     bool   `json:"isActive"`
}

func (s *Store) FindProfileByEmail(ctx context.Context, email string) (AuthProfile, error) {
	var out AuthProfile
	err := s.DB.QueryRow(ctx, `
    SELECT id, full_name, email, role, COALESCE(department_id::text, ''), password_hash, is_active
    FROM profiles
    WHERE lower(email) = lower($1)
  `, email).Scan(&out.ID, &out.FullName, &out.Email, &out.Role, &out.DepartmentID, &out.Password, &out.IsActive)
	return out, err
}

func (s *Store) CreateSession(ctx context.Context, profileID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (profile_id, token_hash, expires_at)
    VALUES ($1, $2, $3)
  `, profileID, tokenHash, expires)
	return err
}

func (s *Store) RevokeSession(ctx context.Context, profileID, tokenHash string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE sessions SET revoked_at = now()
    WHERE profile_id = $1 AND token_hash = $2 AND revoked_at IS NULL
  `, profileID, tokenHash)
	return err
}

func (s *Store) SessionValid(ctx context.Context, profileID, tokenHash string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM sessions
    WHERE profile_id = $1 AND token_hash = $2 AND expires_at > now() AND revoked_at IS NULL
  `, profileID, tokenHash).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, profileID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE profiles SET last_login = now() WHERE id = $1", profileID)
	return err
}
