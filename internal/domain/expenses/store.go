package expenses

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const expenseColumns = `
  e.id, e.employee_id, p.full_name, COALESCE(p.department_id::text, ''),
  e.description, e.amount::text, e.category, COALESCE(e.receipt_document_id::text, ''),
  e.status, COALESCE(e.reviewer_id::text, ''), e.reviewed_at, COALESCE(e.review_note, ''), e.created_at
`

func scanExpense(row interface{ Scan(...any) error }) (Expense, error) {
	var exp Expense
	var amount string
	err := row.Scan(
		&exp.ID, &exp.EmployeeID, &exp.EmployeeName, &exp.DepartmentID,
		&exp.Description, &amount, &exp.Category, &exp.ReceiptDocumentID,
		&exp.Status, &exp.ReviewerID, &exp.ReviewedAt, &exp.ReviewNote, &exp.CreatedAt,
	)
	if err != nil {
		return Expense{}, err
	}
	exp.Amount, err = decimal.NewFromString(amount)
	return exp, err
}

func (s *Store) Create(ctx context.Context, employeeID, description string, amount decimal.Decimal, category, receiptDocumentID string) (string, error) {
	var receipt any
	if receiptDocumentID != "" {
		receipt = receiptDocumentID
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO expenses (employee_id, description, amount, category, receipt_document_id, status)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id
  `, employeeID, description, amount.String(), category, receipt, StatusPending).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, expenseID string) (Expense, error) {
	return scanExpense(s.DB.QueryRow(ctx, `
    SELECT `+expenseColumns+`
    FROM expenses e
    JOIN profiles p ON p.id = e.employee_id
    WHERE e.id = $1
  `, expenseID))
}

func (s *Store) List(ctx context.Context, employeeID, departmentID, status string) ([]Expense, error) {
	query := `
    SELECT ` + expenseColumns + `
    FROM expenses e
    JOIN profiles p ON p.id = e.employee_id
    WHERE 1=1
  `
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += " AND e.employee_id = $1"
	} else if departmentID != "" {
		args = append(args, departmentID)
		query += " AND p.department_id = $1"
	}
	if status != "" {
		args = append(args, status)
		if len(args) == 1 {
			query += " AND e.status = $1"
		} else {
			query += " AND e.status = $2"
		}
	}
	query += " ORDER BY e.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

// Review settles a pending expense. An already-reviewed expense matches no
// row, which the service reports as a conflict.
func (s *Store) Review(ctx context.Context, expenseID, reviewerID, status, note string, reviewedAt time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE expenses
    SET status = $1, reviewer_id = $2, review_note = $3, reviewed_at = $4
    WHERE id = $5 AND status = $6
  `, status, reviewerID, note, reviewedAt, expenseID, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) EmployeeDepartment(ctx context.Context, employeeID string) (string, error) {
	var departmentID string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(department_id::text, '') FROM profiles WHERE id = $1", employeeID).Scan(&departmentID)
	return departmentID, err
}
