package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Senha123!")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := CheckPassword(hash, "Senha123!"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword(hash, "outra-senha"); err == nil {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("segredo", Claims{UserID: "u1", Role: RoleManager, DepartmentID: "d1"}, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ParseToken("segredo", token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != RoleManager || claims.DepartmentID != "d1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("segredo", Claims{UserID: "u1", Role: RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("outro-segredo", token); err == nil {
		t.Fatal("expected token with wrong secret to be rejected")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("segredo", Claims{UserID: "u1", Role: RoleEmployee}, -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("segredo", token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
