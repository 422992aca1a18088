// Package config loads the scheduler service's startup parameters the
// way the teacher's config.go + db.go pair did — godotenv, plain
// os.Getenv reads, fail-fast on a missing required value — generalized
// into one validated Config struct instead of package-level vars, so
// cmd/main.go gets typed fields instead of reaching into package
// globals.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every startup parameter the scheduler service needs.
// Validate tags are checked by Load with this package's own
// validator.Validate instance, which no other package uses.
type Config struct {
	ServerPort   int    `validate:"required,gt=0,lte=65535"`
	DatabaseURL  string `validate:"required"`
	JWTSecretKey string `validate:"required"`
	RedisURL     string `validate:"required"`

	// R2 holds Cloudflare R2 credentials for the team/field logo
	// uploader. Left unvalidated as a whole: a deployment that never
	// serves logo uploads can leave these blank.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	// WorkerPoolCapacity bounds how many scheduleEvent/finalizeMatch
	// calls workerpool.Pool runs at once (§5's "ambient scheduler with
	// parallel worker execution").
	WorkerPoolCapacity int `validate:"required,gt=0"`

	// PreviewTTL bounds how long a scheduleEvent preview survives in
	// PreviewStore; once it expires, CommitSchedule rejects its token and
	// ScheduleEvent has to run again.
	PreviewTTL time.Duration `validate:"required,gt=0"`

	// DBConnectTimeout bounds db.Connect's initial ping.
	DBConnectTimeout time.Duration `validate:"required,gt=0"`

	// Debug switches the zap logger between development (caller info,
	// stack traces) and production (JSON) builds.
	Debug bool
}

var validate = validator.New()

// Load reads .env (if present, ignored if not — a deployment may set
// these in its own environment instead) and builds a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	workerPoolCapacity, err := getEnvInt("WORKER_POOL_CAPACITY", 8)
	if err != nil {
		return nil, err
	}
	previewTTL, err := getEnvDuration("PREVIEW_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	dbTimeout, err := getEnvDuration("DB_CONNECT_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:         port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecretKey:       os.Getenv("JWT_SECRET"),
		RedisURL:           os.Getenv("REDIS_URL"),
		R2AccountID:        os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:       os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:    os.Getenv("R2_PUBLIC_BASE_URL"),
		WorkerPoolCapacity: workerPoolCapacity,
		PreviewTTL:         previewTTL,
		DBConnectTimeout:   dbTimeout,
		Debug:              os.Getenv("SCHEDULER_DEBUG") != "",
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
