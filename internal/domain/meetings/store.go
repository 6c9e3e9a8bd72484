package meetings

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

const meetingColumns = `
  m.id, m.manager_id, mgr.full_name, m.employee_id, emp.full_name,
  m.scheduled_at, COALESCE(m.agenda, ''), COALESCE(m.notes, ''), m.status, m.created_at
`

const meetingJoins = `
  FROM meetings m
  JOIN profiles mgr ON mgr.id = m.manager_id
  JOIN profiles emp ON emp.id = m.employee_id
`

func (s *Store) Create(ctx context.Context, managerID, employeeID string, scheduledAt time.Time, agenda string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO meetings (manager_id, employee_id, scheduled_at, agenda, status)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, managerID, employeeID, scheduledAt, agenda, StatusScheduled).Scan(&id)
	return id, err
}

func (s *Store) Get(ctx context.Context, meetingID string) (Meeting, error) {
	var m Meeting
	err := s.DB.QueryRow(ctx, `
    SELECT `+meetingColumns+meetingJoins+`
    WHERE m.id = $1
  `, meetingID).Scan(
		&m.ID, &m.ManagerID, &m.ManagerName, &m.EmployeeID, &m.EmployeeName,
		&m.ScheduledAt, &m.Agenda, &m.Notes, &m.Status, &m.CreatedAt,
	)
	return m, err
}

// ListFor returns meetings where the profile sits on either side of the
// table.
func (s *Store) ListFor(ctx context.Context, profileID string) ([]Meeting, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+meetingColumns+meetingJoins+`
    WHERE m.manager_id = $1 OR m.employee_id = $1
    ORDER BY m.scheduled_at DESC
  `, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(
			&m.ID, &m.ManagerID, &m.ManagerName, &m.EmployeeID, &m.EmployeeName,
			&m.ScheduledAt, &m.Agenda, &m.Notes, &m.Status, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Complete closes a scheduled meeting with notes; terminal meetings match no
// row.
func (s *Store) Complete(ctx context.Context, meetingID, notes string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE meetings SET status = $1, notes = $2 WHERE id = $3 AND status = $4
  `, StatusDone, notes, meetingID, StatusScheduled)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Cancel(ctx context.Context, meetingID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE meetings SET status = $1 WHERE id = $2 AND status = $3
  `, StatusCancelled, meetingID, StatusScheduled)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
