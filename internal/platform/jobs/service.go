package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/checkins"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/config"
)

const (
	JobQuestionRotation = "checkin_question_rotation"
)

type Service struct {
	DB       *pgxpool.Pool
	Cfg      config.Config
	Checkins *checkins.Store
	queue    chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, checkinStore *checkins.Store) *Service {
	return &Service{
		DB:       db,
		Cfg:      cfg,
		Checkins: checkinStore,
		queue:    make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.DailyQuestionInterval > 0 {
		go s.scheduleQuestionRotation(ctx, s.Cfg.DailyQuestionInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleQuestionRotation(ctx context.Context, interval time.Duration) {
	// Rotate once at startup so a fresh deployment has a question of the day.
	s.enqueueRotation()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueueRotation()
		}
	}
}

func (s *Service) enqueueRotation() {
	s.Enqueue(JobQuestionRotation, func(ctx context.Context) (any, error) {
		question, err := s.Checkins.ActivateNext(ctx, time.Now())
		if err == pgx.ErrNoRows {
			return map[string]any{"rotated": false, "reason": "empty question pool"}, nil
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{"rotated": true, "questionId": question.ID}, nil
	})
}
