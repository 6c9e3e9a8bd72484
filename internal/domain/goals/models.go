package goals

import "time"

type Goal struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName,omitempty"`
	ManagerID    string     `json:"managerId,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Status       string     `json:"status"`
	Progress     float64    `json:"progress"`
	CreatedAt    time.Time  `json:"createdAt"`
}

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
