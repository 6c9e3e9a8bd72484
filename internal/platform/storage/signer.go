package storage

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints the short-lived download tokens behind signed URLs. A token
// grants read access to exactly one document until it expires; possession of
// the token is the only credential the download endpoint checks.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

type downloadClaims struct {
	DocumentID string `json:"doc"`
	jwt.RegisteredClaims
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

func (s *Signer) TTL() time.Duration {
	return s.ttl
}

func (s *Signer) Mint(documentID string) (string, error) {
	if documentID == "" {
		return "", errors.New("document id is required")
	}
	now := time.Now()
	claims := downloadClaims{
		DocumentID: documentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Signer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &downloadClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*downloadClaims)
	if !ok || !token.Valid || claims.DocumentID == "" {
		return "", errors.New("invalid download token")
	}
	return claims.DocumentID, nil
}
