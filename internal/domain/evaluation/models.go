package evaluation

import "time"

type Evaluation struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName,omitempty"`
	EvaluatorID  string    `json:"evaluatorId"`
	Period       string    `json:"period"`
	Knowledge    float64   `json:"knowledge"`
	Skill        float64   `json:"skill"`
	Attitude     float64   `json:"attitude"`
	Average      float64   `json:"average"`
	Comments     string    `json:"comments,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
)
