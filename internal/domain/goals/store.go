package goals

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const goalColumns = `
  g.id, g.employee_id, p.full_name, COALESCE(g.manager_id::text, ''), g.title,
  COALESCE(g.description, ''), g.due_date, g.status, g.progress, g.created_at
`

func (s *Store) Create(ctx context.Context, employeeID, managerID, title, description string, dueDate *time.Time) (string, error) {
	var manager any
	if managerID != "" {
		manager = managerID
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO goals (employee_id, manager_id, title, description, due_date, status, progress)
    VALUES ($1, $2, $3, $4, $5, $6, 0)
    RETURNING id
  `, employeeID, manager, title, description, dueDate, StatusActive).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, goalID string) (Goal, error) {
	var goal Goal
	err := s.DB.QueryRow(ctx, `
    SELECT `+goalColumns+`
    FROM goals g
    JOIN profiles p ON p.id = g.employee_id
    WHERE g.id = $1
  `, goalID).Scan(
		&goal.ID, &goal.EmployeeID, &goal.EmployeeName, &goal.ManagerID, &goal.Title,
		&goal.Description, &goal.DueDate, &goal.Status, &goal.Progress, &goal.CreatedAt,
	)
	return goal, err
}

func (s *Store) List(ctx context.Context, employeeID, departmentID string) ([]Goal, error) {
	query := `
    SELECT ` + goalColumns + `
    FROM goals g
    JOIN profiles p ON p.id = g.employee_id
    WHERE 1=1
  `
	args := []any{}
	if employeeID != "" {
		args = append(args, employeeID)
		query += " AND g.employee_id = $1"
	} else if departmentID != "" {
		args = append(args, departmentID)
		query += " AND p.department_id = $1"
	}
	query += " ORDER BY g.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		var goal Goal
		if err := rows.Scan(
			&goal.ID, &goal.EmployeeID, &goal.EmployeeName, &goal.ManagerID, &goal.Title,
			&goal.Description, &goal.DueDate, &goal.Status, &goal.Progress, &goal.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, goal)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, goalID, title, description, status string, dueDate *time.Time, progress float64) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE goals
    SET title = $1, description = $2, status = $3, due_date = $4, progress = $5
    WHERE id = $6
  `, title, description, status, dueDate, progress, goalID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateProgress is the self-service path; completing at 100 is implicit.
func (s *Store) UpdateProgress(ctx context.Context, goalID string, progress float64) (bool, error) {
	status := StatusActive
	if progress >= 100 {
		progress = 100
		status = StatusCompleted
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE goals SET progress = $1, status = $2 WHERE id = $3 AND status = $4
  `, progress, status, goalID, StatusActive)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
