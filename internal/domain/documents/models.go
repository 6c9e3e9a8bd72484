package documents

import "time"

type Document struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	StorageKey string    `json:"-"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimeType"`
	UploaderID string    `json:"uploaderId"`
	ParentType string    `json:"parentType,omitempty"`
	ParentID   string    `json:"parentId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	ParentExpense    = "expense"
	ParentDelivery   = "delivery"
	ParentInvoice    = "invoice"
	ParentStandalone = ""
)

func ValidParentType(parentType string) bool {
	switch parentType {
	case ParentExpense, ParentDelivery, ParentInvoice, ParentStandalone:
		return true
	}
	return false
}
