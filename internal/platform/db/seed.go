package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	departmentID, err := ensureDepartment(ctx, pool, "Geral")
	if err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminProfile(ctx, pool, departmentID, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	return ensureCheckinQuestions(ctx, pool)
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	err = pool.QueryRow(ctx, "INSERT INTO departments (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdminProfile(ctx context.Context, pool *pgxpool.Pool, departmentID, name, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM profiles WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO profiles (full_name, email, password_hash, role, department_id, position, is_active)
    VALUES ($1, $2, $3, $4, $5, 'Administrador', true)
  `, name, email, hash, auth.RoleAdmin, departmentID)
	return err
}

var defaultQuestions = []string{
	"Como você está se sentindo hoje?",
	"Qual foi sua maior conquista ontem?",
	"Existe algo bloqueando seu trabalho?",
	"O que poderia melhorar no seu dia a dia?",
	"Você precisa de ajuda com alguma tarefa?",
}

func ensureCheckinQuestions(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM checkin_questions").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, text := range defaultQuestions {
		if _, err := pool.Exec(ctx, "INSERT INTO checkin_questions (text) VALUES ($1)", text); err != nil {
			return err
		}
	}
	return nil
}
