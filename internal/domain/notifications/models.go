package notifications

import "time"

type Notification struct {
	ID        string     `json:"id"`
	ProfileID string     `json:"-"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

const (
	TypeRecognitionReceived = "recognition_received"
	TypeExpenseReviewed     = "expense_reviewed"
	TypeMeetingScheduled    = "meeting_scheduled"
	TypeEvaluationSubmitted = "evaluation_submitted"
)
