package checkins

import "time"

type Question struct {
	ID       string     `json:"id"`
	Text     string     `json:"text"`
	ActiveOn *time.Time `json:"activeOn,omitempty"`
}

type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionId"`
	ProfileID  string    `json:"profileId"`
	Answer     string    `json:"answer"`
	Mood       int       `json:"mood"`
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	MoodMin = 1
	MoodMax = 5
)

func ValidMood(mood int) bool {
	return mood >= MoodMin && mood <= MoodMax
}
