package reports

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// departmentID scopes every query when non-empty; admins pass "".

func (s *Store) HeadcountByDepartment(ctx context.Context, departmentID string) ([]DepartmentHeadcount, error) {
	query := `
    SELECT d.id, d.name, COUNT(p.id)
    FROM departments d
    LEFT JOIN profiles p ON p.department_id = d.id AND p.is_active
  `
	args := []any{}
	if departmentID != "" {
		args = append(args, departmentID)
		query += " WHERE d.id = $1"
	}
	query += " GROUP BY d.id, d.name ORDER BY d.name"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepartmentHeadcount
	for rows.Next() {
		var row DepartmentHeadcount
		if err := rows.Scan(&row.DepartmentID, &row.DepartmentName, &row.Headcount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) EvaluationAverages(ctx context.Context, departmentID string, periods int) ([]PeriodAverage, error) {
	query := `
    SELECT e.period,
           ROUND(AVG((e.knowledge + e.skill + e.attitude) / 3)::numeric, 2),
           COUNT(1)
    FROM evaluations e
    JOIN profiles p ON p.id = e.employee_id
    WHERE e.status = 'submitted'
  `
	args := []any{}
	if departmentID != "" {
		args = append(args, departmentID)
		query += " AND p.department_id = $1"
	}
	query += " GROUP BY e.period ORDER BY e.period DESC LIMIT " + itoaArg(&args, periods)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PeriodAverage
	for rows.Next() {
		var row PeriodAverage
		if err := rows.Scan(&row.Period, &row.Average, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) RecognitionByMonth(ctx context.Context, departmentID string, months int) ([]RecognitionTotals, error) {
	query := `
    SELECT to_char(e.month, 'YYYY-MM'),
           COUNT(1) FILTER (WHERE e.kind = 'star'),
           COUNT(1) FILTER (WHERE e.kind = 'dislike')
    FROM recognition_events e
    JOIN profiles p ON p.id = e.recipient_id
    WHERE 1=1
  `
	args := []any{}
	if departmentID != "" {
		args = append(args, departmentID)
		query += " AND p.department_id = $1"
	}
	query += " GROUP BY e.month ORDER BY e.month DESC LIMIT " + itoaArg(&args, months)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecognitionTotals
	for rows.Next() {
		var row RecognitionTotals
		if err := rows.Scan(&row.Month, &row.Stars, &row.Dislikes); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) ExpensesByStatus(ctx context.Context, departmentID string) ([]ExpenseTotals, error) {
	query := `
    SELECT e.status, COUNT(1), COALESCE(SUM(e.amount), 0)::text
    FROM expenses e
    JOIN profiles p ON p.id = e.employee_id
    WHERE 1=1
  `
	args := []any{}
	if departmentID != "" {
		args = append(args, departmentID)
		query += " AND p.department_id = $1"
	}
	query += " GROUP BY e.status ORDER BY e.status"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseTotals
	for rows.Next() {
		var row ExpenseTotals
		if err := rows.Scan(&row.Status, &row.Count, &row.Total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) CheckinParticipation(ctx context.Context, departmentID string, day time.Time) (CheckinParticipation, error) {
	query := `
    SELECT
      (SELECT COUNT(1)
       FROM checkin_answers a
       JOIN checkin_questions q ON q.id = a.question_id
       JOIN profiles ap ON ap.id = a.profile_id
       WHERE q.active_on = $1`
	args := []any{day.Format("2006-01-02")}
	if departmentID != "" {
		args = append(args, departmentID)
		query += " AND ap.department_id = $2"
	}
	query += `),
      (SELECT COUNT(1) FROM profiles p WHERE p.is_active`
	if departmentID != "" {
		query += " AND p.department_id = $2"
	}
	query += ")"

	var part CheckinParticipation
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&part.Answered, &part.Headcount); err != nil {
		return CheckinParticipation{}, err
	}
	part.Rate = ParticipationRate(part.Answered, part.Headcount)
	return part, nil
}

func itoaArg(args *[]any, value int) string {
	*args = append(*args, value)
	return "$" + strconv.Itoa(len(*args))
}
