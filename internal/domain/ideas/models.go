package ideas

import "time"

type Idea struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"authorId,omitempty"`
	AuthorName  string    `json:"authorName,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Anonymous   bool      `json:"anonymous"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

const (
	StatusNew       = "new"
	StatusReviewing = "reviewing"
	StatusAdopted   = "adopted"
	StatusRejected  = "rejected"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusReviewing, StatusAdopted, StatusRejected:
		return true
	}
	return false
}

// Redact hides authorship of anonymous ideas. Anonymity is absolute: not
// even admins see the author through the API.
func (i Idea) Redact() Idea {
	if i.Anonymous {
		i.AuthorID = ""
		i.AuthorName = ""
	}
	return i
}
