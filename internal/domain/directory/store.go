package directory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/crypto"
)

type Store struct {
	DB     *pgxpool.Pool
	Crypto *crypto.Cipher
}

func NewStore(db *pgxpool.Pool, cipher *crypto.Cipher) *Store {
	return &Store{DB: db, Crypto: cipher}
}

const profileColumns = `
  p.id, p.full_name, p.email, p.role, COALESCE(p.department_id::text, ''),
  COALESCE(d.name, ''), COALESCE(p.position, ''), COALESCE(p.phone, ''),
  p.cpf_enc, COALESCE(p.cep, ''), p.is_active, p.created_at
`

type profileRow struct {
	Profile
	cpfEnc []byte
}

func (s *Store) scanProfile(scan func(dest ...any) error) (Profile, error) {
	var row profileRow
	if err := scan(
		&row.ID, &row.FullName, &row.Email, &row.Role, &row.DepartmentID,
		&row.DepartmentName, &row.Position, &row.Phone, &row.cpfEnc, &row.CEP,
		&row.IsActive, &row.CreatedAt,
	); err != nil {
		return Profile{}, err
	}
	cpf, err := s.Crypto.Open(row.cpfEnc)
	if err != nil {
		return Profile{}, err
	}
	row.Profile.CPF = cpf
	return row.Profile, nil
}

func (s *Store) GetProfile(ctx context.Context, profileID string) (Profile, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+profileColumns+`
    FROM profiles p
    LEFT JOIN departments d ON d.id = p.department_id
    WHERE p.id = $1
  `, profileID)
	return s.scanProfile(row.Scan)
}

func (s *Store) ListProfiles(ctx context.Context, departmentID string, limit, offset int) ([]Profile, error) {
	query := `
    SELECT ` + profileColumns + `
    FROM profiles p
    LEFT JOIN departments d ON d.id = p.department_id
  `
	args := []any{}
	if departmentID != "" {
		query += " WHERE p.department_id = $1"
		args = append(args, departmentID)
	}
	query += " ORDER BY p.full_name"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		profile, err := s.scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

type NewProfile struct {
	FullName     string
	Email        string
	PasswordHash string
	Role         string
	DepartmentID string
	Position     string
	Phone        string
	CPF          string
	CEP          string
}

func (s *Store) CreateProfile(ctx context.Context, p NewProfile) (string, error) {
	cpfEnc, err := s.Crypto.Seal(p.CPF)
	if err != nil {
		return "", err
	}

	var departmentID any
	if p.DepartmentID != "" {
		departmentID = p.DepartmentID
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO profiles (full_name, email, password_hash, role, department_id, position, phone, cpf_enc, cep, is_active)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true)
    RETURNING id
  `, p.FullName, p.Email, p.PasswordHash, p.Role, departmentID, p.Position, p.Phone, cpfEnc, p.CEP).Scan(&id)
	return id, err
}

type ProfileUpdate struct {
	FullName     string
	DepartmentID string
	Position     string
	Phone        string
	CEP          string
}

func (s *Store) UpdateProfile(ctx context.Context, profileID string, u ProfileUpdate) error {
	var departmentID any
	if u.DepartmentID != "" {
		departmentID = u.DepartmentID
	}
	_, err := s.DB.Exec(ctx, `
    UPDATE profiles
    SET full_name = $1, department_id = $2, position = $3, phone = $4, cep = $5
    WHERE id = $6
  `, u.FullName, departmentID, u.Position, u.Phone, u.CEP, profileID)
	return err
}

// UpdateContact is the self-service subset of UpdateProfile.
func (s *Store) UpdateContact(ctx context.Context, profileID, phone, cep string) error {
	_, err := s.DB.Exec(ctx, "UPDATE profiles SET phone = $1, cep = $2 WHERE id = $3", phone, cep, profileID)
	return err
}

func (s *Store) UpdateRole(ctx context.Context, profileID, role string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE profiles SET role = $1 WHERE id = $2", role, profileID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeactivateProfile(ctx context.Context, profileID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE profiles SET is_active = false WHERE id = $1", profileID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name, COALESCE(d.manager_id::text, ''), COALESCE(d.parent_id::text, ''),
      (SELECT COUNT(1) FROM profiles p WHERE p.department_id = d.id AND p.is_active) AS headcount
    FROM departments d
    ORDER BY d.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.ManagerID, &dep.ParentID, &dep.Headcount); err != nil {
			return nil, err
		}
		departments = append(departments, dep)
	}
	return departments, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, name, managerID, parentID string) (string, error) {
	var manager, parent any
	if managerID != "" {
		manager = managerID
	}
	if parentID != "" {
		parent = parentID
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, manager_id, parent_id)
    VALUES ($1, $2, $3)
    RETURNING id
  `, name, manager, parent).Scan(&id)
	return id, err
}

func (s *Store) UpdateDepartment(ctx context.Context, departmentID, name, managerID string) (bool, error) {
	var manager any
	if managerID != "" {
		manager = managerID
	}
	tag, err := s.DB.Exec(ctx, "UPDATE departments SET name = $1, manager_id = $2 WHERE id = $3", name, manager, departmentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, departmentID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", departmentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
