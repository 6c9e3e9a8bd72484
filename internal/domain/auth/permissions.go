package auth

import "context"

const (
	RoleAdmin    = "admin"
	RoleManager  = "gerente"
	RoleEmployee = "funcionario"
)

const (
	PermProfilesRead      = "directory.profiles.read"
	PermProfilesWrite     = "directory.profiles.write"
	PermRolesManage       = "directory.roles.manage"
	PermDepartmentsRead   = "directory.departments.read"
	PermDepartmentsWrite  = "directory.departments.write"
	PermRecognitionRead   = "recognition.read"
	PermRecognitionWrite  = "recognition.write"
	PermEvaluationsRead   = "evaluations.read"
	PermEvaluationsWrite  = "evaluations.write"
	PermGoalsRead         = "goals.read"
	PermGoalsWrite        = "goals.write"
	PermExpensesRead      = "expenses.read"
	PermExpensesWrite     = "expenses.write"
	PermExpensesApprove   = "expenses.approve"
	PermDocumentsRead     = "documents.read"
	PermDocumentsWrite    = "documents.write"
	PermMeetingsRead      = "meetings.read"
	PermMeetingsWrite     = "meetings.write"
	PermCheckinsRead      = "checkins.read"
	PermCheckinsWrite     = "checkins.write"
	PermCheckinsManage    = "checkins.manage"
	PermIdeasRead         = "ideas.read"
	PermIdeasWrite        = "ideas.write"
	PermIdeasManage       = "ideas.manage"
	PermNotificationsRead = "notifications.read"
	PermReportsRead       = "reports.read"
	PermAuditRead         = "audit.read"
)

// RolePermissions is the full authorization policy. It is static and loaded
// once at startup; there are no per-identity allow-lists layered on top.
var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermProfilesRead,
		PermDepartmentsRead,
		PermRecognitionRead,
		PermRecognitionWrite,
		PermEvaluationsRead,
		PermGoalsRead,
		PermGoalsWrite,
		PermExpensesRead,
		PermExpensesWrite,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermMeetingsRead,
		PermCheckinsRead,
		PermCheckinsWrite,
		PermIdeasRead,
		PermIdeasWrite,
		PermNotificationsRead,
	},
	RoleManager: {
		PermProfilesRead,
		PermDepartmentsRead,
		PermDepartmentsWrite,
		PermRecognitionRead,
		PermRecognitionWrite,
		PermEvaluationsRead,
		PermEvaluationsWrite,
		PermGoalsRead,
		PermGoalsWrite,
		PermExpensesRead,
		PermExpensesWrite,
		PermExpensesApprove,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermMeetingsRead,
		PermMeetingsWrite,
		PermCheckinsRead,
		PermCheckinsWrite,
		PermIdeasRead,
		PermIdeasWrite,
		PermNotificationsRead,
		PermReportsRead,
	},
	RoleAdmin: {
		PermProfilesRead,
		PermProfilesWrite,
		PermRolesManage,
		PermDepartmentsRead,
		PermDepartmentsWrite,
		PermRecognitionRead,
		PermRecognitionWrite,
		PermEvaluationsRead,
		PermEvaluationsWrite,
		PermGoalsRead,
		PermGoalsWrite,
		PermExpensesRead,
		PermExpensesWrite,
		PermExpensesApprove,
		PermDocumentsRead,
		PermDocumentsWrite,
		PermMeetingsRead,
		PermMeetingsWrite,
		PermCheckinsRead,
		PermCheckinsWrite,
		PermCheckinsManage,
		PermIdeasRead,
		PermIdeasWrite,
		PermIdeasManage,
		PermNotificationsRead,
		PermReportsRead,
		PermAuditRead,
	},
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// Policy answers permission checks from the static table. It satisfies the
// transport middleware's PermissionStore without touching the database.
type Policy struct {
	grants map[string]map[string]struct{}
}

func NewPolicy() *Policy {
	grants := make(map[string]map[string]struct{}, len(RolePermissions))
	for role, perms := range RolePermissions {
		set := make(map[string]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		grants[role] = set
	}
	return &Policy{grants: grants}
}

func (p *Policy) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	set, ok := p.grants[role]
	if !ok {
		return false, nil
	}
	_, granted := set[permission]
	return granted, nil
}
