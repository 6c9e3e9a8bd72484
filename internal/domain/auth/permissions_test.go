package auth

import (
	"context"
	"testing"
)

func TestPolicyPermissions(t *testing.T) {
	policy := NewPolicy()
	ctx := context.Background()

	tests := []struct {
		name       string
		role       string
		permission string
		want       bool
	}{
		{name: "admin manages roles", role: RoleAdmin, permission: PermRolesManage, want: true},
		{name: "manager cannot manage roles", role: RoleManager, permission: PermRolesManage, want: false},
		{name: "employee cannot manage roles", role: RoleEmployee, permission: PermRolesManage, want: false},
		{name: "employee awards recognition", role: RoleEmployee, permission: PermRecognitionWrite, want: true},
		{name: "employee cannot write evaluations", role: RoleEmployee, permission: PermEvaluationsWrite, want: false},
		{name: "manager approves expenses", role: RoleManager, permission: PermExpensesApprove, want: true},
		{name: "employee cannot approve expenses", role: RoleEmployee, permission: PermExpensesApprove, want: false},
		{name: "manager reads reports", role: RoleManager, permission: PermReportsRead, want: true},
		{name: "employee cannot read reports", role: RoleEmployee, permission: PermReportsRead, want: false},
		{name: "only admin reads audit", role: RoleManager, permission: PermAuditRead, want: false},
		{name: "unknown role has nothing", role: "visitante", permission: PermProfilesRead, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := policy.HasPermission(ctx, tc.role, tc.permission)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("HasPermission(%s, %s) = %v, want %v", tc.role, tc.permission, got, tc.want)
			}
		})
	}
}

func TestEveryRolePermissionIsKnown(t *testing.T) {
	for role, perms := range RolePermissions {
		if !ValidRole(role) {
			t.Fatalf("role %s missing from ValidRole", role)
		}
		seen := map[string]struct{}{}
		for _, perm := range perms {
			if _, dup := seen[perm]; dup {
				t.Fatalf("role %s lists %s twice", role, perm)
			}
			seen[perm] = struct{}{}
		}
	}
}
