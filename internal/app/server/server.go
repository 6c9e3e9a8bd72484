package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/audit"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/auth"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/checkins"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/directory"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/documents"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/evaluation"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/expenses"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/goals"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/ideas"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/meetings"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/notifications"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/recognition"
	"github.com/GimTech1/SistemadeRH-sub002/internal/domain/reports"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/config"
	cryptoutil "github.com/GimTech1/SistemadeRH-sub002/internal/platform/crypto"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/db"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/jobs"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/metrics"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/storage"
	audithandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/audit"
	authhandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/auth"
	checkinshandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/checkins"
	directoryhandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/directory"
	documentshandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/documents"
	evaluationhandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/evaluation"
	expenseshandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/expenses"
	goalshandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/goals"
	ideashandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/ideas"
	meetingshandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/meetings"
	notificationshandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/notifications"
	recognitionhandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/recognition"
	reportshandler "github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/handlers/reports"
	"github.com/GimTech1/SistemadeRH-sub002/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	cpfCipher, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("encryption key: %w", err)
	}
	objects, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("object storage: %w", err)
	}
	signer := storage.NewSigner(cfg.JWTSecret, cfg.SignedURLTTL)
	policy := auth.NewPolicy()

	authStore := auth.NewStore(pool)
	authSvc := auth.NewService(authStore, cfg.JWTSecret, cfg.TokenTTL)
	auditSvc := audit.New(pool)
	notifyStore := notifications.NewStore(pool)
	notifier := notifications.NewNotifier(notifyStore)

	directoryStore := directory.NewStore(pool, cpfCipher)
	recognitionSvc := recognition.NewService(recognition.NewStore(pool))
	evaluationStore := evaluation.NewStore(pool)
	goalStore := goals.NewStore(pool)
	expenseStore := expenses.NewStore(pool)
	documentSvc := documents.NewService(documents.NewStore(pool), objects, signer, cfg.MaxUploadBytes)
	meetingStore := meetings.NewStore(pool)
	checkinStore := checkins.NewStore(pool)
	ideaStore := ideas.NewStore(pool)
	reportSvc := reports.NewService(reports.NewStore(pool))

	jobSvc := jobs.New(pool, cfg, checkinStore)

	collector := metrics.New()
	isProd := cfg.Environment == "production"

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(isProd))
	if cfg.MetricsEnabled {
		router.Use(collector.Middleware)
	}
	// Auth must run before the rate limiter so authenticated traffic is
	// keyed per user instead of sharing one bucket per proxy IP.
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	documentsHandler := documentshandler.NewHandler(documentSvc, policy, auditSvc)
	// Downloads carry their own token; uploads go through the JSON body
	// limit's bigger sibling below.
	documentsHandler.RegisterDownloadRoute(router)

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

			authhandler.NewHandler(authSvc, auditSvc).RegisterRoutes(r)
			directoryhandler.NewHandler(directoryStore, policy, auditSvc).RegisterRoutes(r)
			recognitionhandler.NewHandler(recognitionSvc, policy, notifier, auditSvc).RegisterRoutes(r)
			evaluationhandler.NewHandler(evaluationStore, policy, notifier, auditSvc).RegisterRoutes(r)
			goalshandler.NewHandler(goalStore, policy, notifier, auditSvc).RegisterRoutes(r)
			expenseshandler.NewHandler(expenseStore, policy, notifier, auditSvc).RegisterRoutes(r)
			meetingshandler.NewHandler(meetingStore, policy, notifier, auditSvc).RegisterRoutes(r)
			checkinshandler.NewHandler(checkinStore, policy, auditSvc).RegisterRoutes(r)
			ideashandler.NewHandler(ideaStore, policy, auditSvc).RegisterRoutes(r)
			notificationshandler.NewHandler(notifyStore, policy).RegisterRoutes(r)
			reportshandler.NewHandler(reportSvc, policy).RegisterRoutes(r)
			audithandler.NewHandler(auditSvc, policy).RegisterRoutes(r)
		})

		// Multipart uploads get their own, larger body ceiling.
		r.Group(func(r chi.Router) {
			r.Use(middleware.BodyLimit(cfg.MaxUploadBytes + 1024*1024))
			documentsHandler.RegisterRoutes(r)
		})
	})

	return &App{
		Config: cfg,
		DB:     pool,
		Router: router,
		Jobs:   jobSvc,
	}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
