package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employeeId"`
	EmployeeName      string          `json:"employeeName,omitempty"`
	DepartmentID      string          `json:"departmentId,omitempty"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Category          string          `json:"category"`
	ReceiptDocumentID string          `json:"receiptDocumentId,omitempty"`
	Status            string          `json:"status"`
	ReviewerID        string          `json:"reviewerId,omitempty"`
	ReviewedAt        *time.Time      `json:"reviewedAt,omitempty"`
	ReviewNote        string          `json:"reviewNote,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var Categories = []string{"viagem", "alimentacao", "transporte", "material", "treinamento", "outros"}
