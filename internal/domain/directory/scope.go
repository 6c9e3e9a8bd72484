package directory

import "github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"

// CanViewProfile implements the read scope: admin sees everyone, a manager
// sees their own department plus themselves, an employee sees only
// themselves.
func CanViewProfile(caller auth.UserContext, targetID, targetDepartmentID string) bool {
	switch caller.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleManager:
		return targetID == caller.UserID || (caller.DepartmentID != "" && targetDepartmentID == caller.DepartmentID)
	default:
		return targetID == caller.UserID
	}
}

// CanEditProfile: admins edit anyone; everyone may edit their own contact
// fields. Role and activation changes are guarded separately.
func CanEditProfile(caller auth.UserContext, targetID string) bool {
	return caller.Role == auth.RoleAdmin || targetID == caller.UserID
}

// CanEditDepartment: admins edit any department, managers only their own.
func CanEditDepartment(caller auth.UserContext, departmentID string) bool {
	if caller.Role == auth.RoleAdmin {
		return true
	}
	return caller.Role == auth.RoleManager && caller.DepartmentID == departmentID
}
