package evaluation

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const evaluationColumns = `
  e.id, e.employee_id, p.full_name, e.evaluator_id, e.period,
  e.knowledge, e.skill, e.attitude, COALESCE(e.comments, ''), e.status, e.created_at
`

func (s *Store) Create(ctx context.Context, employeeID, evaluatorID, period string, knowledge, skill, attitude float64, comments string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO evaluations (employee_id, evaluator_id, period, knowledge, skill, attitude, comments, status)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id
  `, employeeID, evaluatorID, period, knowledge, skill, attitude, comments, StatusDraft).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, evaluationID string) (Evaluation, error) {
	var ev Evaluation
	err := s.DB.QueryRow(ctx, `
    SELECT `+evaluationColumns+`
    FROM evaluations e
    JOIN profiles p ON p.id = e.employee_id
    WHERE e.id = $1
  `, evaluationID).Scan(
		&ev.ID, &ev.EmployeeID, &ev.EmployeeName, &ev.EvaluatorID, &ev.Period,
		&ev.Knowledge, &ev.Skill, &ev.Attitude, &ev.Comments, &ev.Status, &ev.CreatedAt,
	)
	if err != nil {
		return Evaluation{}, err
	}
	ev.Average = Average(ev.Knowledge, ev.Skill, ev.Attitude)
	return ev, nil
}

// List filters by employee and/or department; empty filters mean no filter.
func (s *Store) List(ctx context.Context, employeeID, departmentID string) ([]Evaluation, error) {
	query := `
    SELECT ` + evaluationColumns + `
    FROM evaluations e
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
	query += " ORDER BY e.period DESC, p.full_name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []Evaluation
	for rows.Next() {
		var ev Evaluation
		if err := rows.Scan(
			&ev.ID, &ev.EmployeeID, &ev.EmployeeName, &ev.EvaluatorID, &ev.Period,
			&ev.Knowledge, &ev.Skill, &ev.Attitude, &ev.Comments, &ev.Status, &ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		ev.Average = Average(ev.Knowledge, ev.Skill, ev.Attitude)
		evaluations = append(evaluations, ev)
	}
	return evaluations, rows.Err()
}

// UpdateDraft edits scores and comments while the evaluation is still a
// draft. A submitted evaluation matches no row.
func (s *Store) UpdateDraft(ctx context.Context, evaluationID string, knowledge, skill, attitude float64, comments string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluations
    SET knowledge = $1, skill = $2, attitude = $3, comments = $4
    WHERE id = $5 AND status = $6
  `, knowledge, skill, attitude, comments, evaluationID, StatusDraft)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Submit(ctx context.Context, evaluationID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluations SET status = $1 WHERE id = $2 AND status = $3
  `, StatusSubmitted, evaluationID, StatusDraft)
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
