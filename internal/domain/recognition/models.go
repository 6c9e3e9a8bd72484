package recognition

import "time"

type Event struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	GiverID     string    `json:"giverId"`
	GiverName   string    `json:"giverName,omitempty"`
	RecipientID string    `json:"recipientId"`
	RecipientName string  `json:"recipientName,omitempty"`
	Reason      string    `json:"reason"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Quota struct {
	Kind      string    `json:"kind"`
	Used      int       `json:"used"`
	Available int       `json:"available"`
	ResetDate time.Time `json:"resetDate"`
}

type LeaderboardRow struct {
	ProfileID string `json:"profileId"`
	FullName  string `json:"fullName"`
	Total     int    `json:"total"`
}
