package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string
	DatabaseURL           string
	JWTSecret             string
	TokenTTL              time.Duration
	DataEncryptionKey     string
	Environment           string
	StorageDir            string
	SignedURLTTL          time.Duration
	MaxUploadBytes        int64
	MaxBodyBytes          int64
	RateLimitPerMinute    int
	SeedAdminName         string
	SeedAdminEmail        string
	SeedAdminPassword     string
	RunMigrations         bool
	RunSeed               bool
	MetricsEnabled        bool
	DailyQuestionInterval time.Duration
}

func Load() Config {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	return Config{
		Addr:                  getEnv("APP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		TokenTTL:              getEnvDuration("TOKEN_TTL", 8*time.Hour),
		DataEncryptionKey:     getEnv("DATA_ENCRYPTION_KEY", ""),
		Environment:           getEnv("APP_ENV", "development"),
		StorageDir:            getEnv("STORAGE_DIR", "data/objects"),
		SignedURLTTL:          getEnvDuration("SIGNED_URL_TTL", time.Hour),
		MaxUploadBytes:        int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		MaxBodyBytes:          int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:    getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		SeedAdminName:         getEnv("SEED_ADMIN_NAME", "Administrador"),
		SeedAdminEmail:        getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:     getEnv("SEED_ADMIN_PASSWORD", ""),
		RunMigrations:         getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:               getEnvBool("RUN_SEED", true),
		MetricsEnabled:        getEnvBool("METRICS_ENABLED", true),
		DailyQuestionInterval: getEnvDuration("DAILY_QUESTION_INTERVAL", time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.MaxUploadBytes < c.MaxBodyBytes {
		return fmt.Errorf("MAX_UPLOAD_BYTES must not be smaller than MAX_BODY_BYTES")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.SignedURLTTL < time.Minute {
		return fmt.Errorf("SIGNED_URL_TTL must be at least one minute")
	}
	return nil
}
