package expenses

import "github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"

// CanReview decides whether the actor may approve or reject an expense
// raised by an employee of the given department. Managers review only
// their own department; admins review anything.
func CanReview(actor auth.UserContext, employeeDepartmentID string) bool {
	switch actor.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleManager:
		return actor.DepartmentID != "" && actor.DepartmentID == employeeDepartmentID
	}
	return false
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func ValidReviewStatus(status string) bool {
	return status == StatusApproved || status == StatusRejected
}
