package expenses

import (
	"testing"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
)

func TestCanReview(t *testing.T) {
	tests := []struct {
		name         string
		actor        auth.UserContext
		employeeDept string
		want         bool
	}{
		{
			name:         "admin reviews any department",
			actor:        auth.UserContext{Role: auth.RoleAdmin},
			employeeDept: "dep-1",
			want:         true,
		},
		{
			name:         "manager reviews own department",
			actor:        auth.UserContext{Role: auth.RoleManager, DepartmentID: "dep-1"},
			employeeDept: "dep-1",
			want:         true,
		},
		{
			name:         "manager cannot review other department",
			actor:        auth.UserContext{Role: auth.RoleManager, DepartmentID: "dep-1"},
			employeeDept: "dep-2",
			want:         false,
		},
		{
			name:         "manager without department reviews nothing",
			actor:        auth.UserContext{Role: auth.RoleManager},
			employeeDept: "",
			want:         false,
		},
		{
			name:         "employee never reviews",
			actor:        auth.UserContext{Role: auth.RoleEmployee, DepartmentID: "dep-1"},
			employeeDept: "dep-1",
			want:         false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := CanReview(tc.actor, tc.employeeDept); got != tc.want {
				t.Fatalf("CanReview() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory("viagem") {
		t.Fatal("expected viagem to be a valid category")
	}
	if ValidCategory("cripto") {
		t.Fatal("expected cripto to be rejected")
	}
}
