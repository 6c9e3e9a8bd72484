package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
)

func TestRateLimitUsesUserKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	userCtx := context.WithValue(context.Background(), ctxKeyUser, auth.UserContext{
		UserID: "user-1",
		Role:   auth.RoleEmployee,
	})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/recognition", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/recognition", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by user key, got %d", secondRec.Code)
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by ip key, got %d", secondRec.Code)
	}
}

func TestRateLimitWindowReset(t *testing.T) {
	limited := RateLimit(1, 40*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req1 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req1.RemoteAddr = "192.0.2.20:1111"
	rec1 := httptest.NewRecorder()
	limited.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", rec1.Code)
	}

	time.Sleep(60 * time.Millisecond)

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req2.RemoteAddr = "192.0.2.20:2222"
	rec2 := httptest.NewRecorder()
	limited.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusNoContent {
		t.Fatalf("expected request after window reset to pass, got %d", rec2.Code)
	}
}

// Exercises the server's middleware order: Auth resolves the bearer token
// first, so the limiter keys authenticated callers per user even when they
// share one client IP.
func TestRateLimitKeysPerUserBehindSharedIP(t *testing.T) {
	const secret = "test-secret"
	chain := Auth(secret, nil)(RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	token := func(userID string) string {
		value, err := auth.GenerateToken(secret, auth.Claims{UserID: userID, Role: auth.RoleEmployee}, time.Minute)
		if err != nil {
			t.Fatalf("failed to mint token: %v", err)
		}
		return value
	}

	send := func(bearer string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recognition", nil)
		req.RemoteAddr = "198.51.100.30:1111"
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec.Code
	}

	alice := token("user-a")
	bob := token("user-b")

	if code := send(alice); code != http.StatusNoContent {
		t.Fatalf("expected first request for user-a to pass, got %d", code)
	}
	if code := send(bob); code != http.StatusNoContent {
		t.Fatalf("expected first request for user-b to pass despite shared IP, got %d", code)
	}
	if code := send(alice); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request for user-a to be throttled, got %d", code)
	}
}

func TestRateLimitEvictsExpiredBuckets(t *testing.T) {
	rl := &rateLimiter{limit: 1, window: 20 * time.Millisecond, clients: map[string]*rateBucket{}}

	first := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	first.RemoteAddr = "192.0.2.30:1111"
	rl.enforce(httptest.NewRecorder(), first)

	time.Sleep(50 * time.Millisecond)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	second.RemoteAddr = "192.0.2.31:2222"
	rl.enforce(httptest.NewRecorder(), second)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["ip:192.0.2.30"]; ok {
		t.Fatal("expected expired bucket to be evicted")
	}
	if len(rl.clients) != 1 {
		t.Fatalf("expected a single live bucket, got %d", len(rl.clients))
	}
}
