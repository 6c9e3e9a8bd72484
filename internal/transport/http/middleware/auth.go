package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
)

type ctxKey int

const (
	ctxKeyUser ctxKey = iota
	ctxKeyToken
	ctxKeyRequestID
)

type SessionChecker interface {
	SessionValid(ctx context.Context, profileID, tokenHash string) (bool, error)
}

// Auth resolves the bearer token into a UserContext. Requests without a valid
// token pass through unauthenticated; RequirePermission rejects them later.
func Auth(secret string, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if sessions != nil {
				valid, err := sessions.SessionValid(r.Context(), claims.UserID, auth.TokenHash(parts[1]))
				if err != nil || !valid {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, auth.UserContext{
				UserID:       claims.UserID,
				Role:         claims.Role,
				DepartmentID: claims.DepartmentID,
			})
			ctx = context.WithValue(ctx, ctxKeyToken, parts[1])
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}

func GetToken(ctx context.Context) string {
	if token, ok := ctx.Value(ctxKeyToken).(string); ok {
		return token
	}
	return ""
}
