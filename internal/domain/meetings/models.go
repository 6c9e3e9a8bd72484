package meetings

import "time"

type Meeting struct {
	ID           string    `json:"id"`
	ManagerID    string    `json:"managerId"`
	ManagerName  string    `json:"managerName,omitempty"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	ScheduledAt  time.Time `json:"scheduledAt"`
	Agenda       string    `json:"agenda,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

const (
	StatusScheduled = "scheduled"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)
