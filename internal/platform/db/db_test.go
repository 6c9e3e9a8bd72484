package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "profiles_email_key"}
	foreignKey := &pgconn.PgError{Code: "23503", ConstraintName: "profiles_department_id_fkey"}

	tests := []struct {
		name       string
		err        error
		wantUnique bool
		wantFK     bool
	}{
		{name: "unique violation", err: unique, wantUnique: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert profile: %w", unique), wantUnique: true},
		{name: "foreign key violation", err: foreignKey, wantFK: true},
		{name: "wrapped foreign key violation", err: fmt.Errorf("delete department: %w", foreignKey), wantFK: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "42601"}},
		{name: "plain error", err: errors.New("connection reset")},
		{name: "nil", err: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.wantUnique {
				t.Fatalf("IsUniqueViolation() = %v, want %v", got, tc.wantUnique)
			}
			if got := IsForeignKeyViolation(tc.err); got != tc.wantFK {
				t.Fatalf("IsForeignKeyViolation() = %v, want %v", got, tc.wantFK)
			}
		})
	}
}
