package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileInactive    = errors.New("profile is inactive")
)

type Service struct {
	Store    *Store
	Secret   string
	TokenTTL time.Duration
}

func NewService(store *Store, secret string, tokenTTL time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: tokenTTL}
}

type LoginResult struct {
	Token   string      `json:"token"`
	Profile AuthProfile `json:"profile"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	profile, err := s.Store.FindProfileByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if !profile.IsActive {
		return LoginResult{}, ErrProfileInactive
	}
	if err := CheckPassword(profile.Password, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:       profile.ID,
		Role:         profile.Role,
		DepartmentID: profile.DepartmentID,
	}, s.TokenTTL)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Store.CreateSession(ctx, profile.ID, TokenHash(token), time.Now().Add(s.TokenTTL)); err != nil {
		return LoginResult{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, profile.ID); err != nil {
		return LoginResult{}, err
	}

	profile.Password = ""
	return LoginResult{Token: token, Profile: profile}, nil
}

func (s *Service) Logout(ctx context.Context, profileID, token string) error {
	return s.Store.RevokeSession(ctx, profileID, TokenHash(token))
}

// TokenHash keeps raw bearer tokens out of the sessions table.
func TokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
