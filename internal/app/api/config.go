package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/a-z-nath/portfolio-api/internal/platform/schedule"
)

// Storage drivers accepted by DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config carries environment-driven settings shared by the API, worker, and sync processes.
type Config struct {
	Port string

	DatabaseDriver string
	PostgresDSN    string
	SQLitePath     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SyncToken    string
	SyncSchedule string

	GitHubToken   string
	GitHubOwner   string
	GitHubTopic   string
	GitHubAPIURL  string
	GitHubTimeout time.Duration

	CORSAllowedOrigins []string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// TemporalEnabled reports whether sync runs should go through Temporal.
func (c Config) TemporalEnabled() bool {
	return !c.TemporalDisabled && c.TemporalAddress != ""
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		DatabaseDriver:     strings.ToLower(envDefault("DATABASE_DRIVER", DriverSQLite)),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SQLitePath:         envDefault("SQLITE_PATH", "portfolio.db"),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		SyncToken:          strings.TrimSpace(os.Getenv("SYNC_TOKEN")),
		SyncSchedule:       strings.TrimSpace(os.Getenv("SYNC_SCHEDULE")),
		GitHubToken:        strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		GitHubOwner:        envDefault("GITHUB_OWNER", "a-z-nath"),
		GitHubTopic:        envDefault("GITHUB_TOPIC", "featured"),
		GitHubAPIURL:       strings.TrimSpace(os.Getenv("GITHUB_API_URL")),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		TemporalAddress:    strings.TrimSpace(os.Getenv("TEMPORAL_ADDRESS")),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}

	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	if redisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must not be negative")
	}
	cfg.RedisDB = redisDB

	timeoutSeconds, err := envInt("GITHUB_TIMEOUT_SECONDS", 10)
	if err != nil {
		return Config{}, err
	}
	if timeoutSeconds <= 0 {
		return Config{}, fmt.Errorf("GITHUB_TIMEOUT_SECONDS must be a positive integer")
	}
	cfg.GitHubTimeout = time.Duration(timeoutSeconds) * time.Second

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that have no safe fallback.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of sqlite, postgres, memory, got %q", c.DatabaseDriver)
	}
	if c.SyncSchedule != "" {
		if err := schedule.Validate(c.SyncSchedule); err != nil {
			return fmt.Errorf("SYNC_SCHEDULE: %w", err)
		}
	}
	return nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
