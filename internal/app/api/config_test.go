package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "DATABASE_DRIVER", "POSTGRES_DSN", "SQLITE_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"SYNC_TOKEN", "SYNC_SCHEDULE", "GITHUB_TOKEN", "GITHUB_OWNER", "GITHUB_TOPIC", "GITHUB_API_URL",
	"GITHUB_TIMEOUT_SECONDS", "CORS_ALLOWED_ORIGINS", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	require.Equal(t, "portfolio.db", cfg.SQLitePath)
	require.Equal(t, "a-z-nath", cfg.GitHubOwner)
	require.Equal(t, "featured", cfg.GitHubTopic)
	require.Equal(t, 10*time.Second, cfg.GitHubTimeout)
	require.Empty(t, cfg.SyncToken)
	require.Empty(t, cfg.CORSAllowedOrigins)
	require.False(t, cfg.TemporalEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost/db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SYNC_TOKEN", " token ")
	t.Setenv("SYNC_SCHEDULE", "@every 6h")
	t.Setenv("GITHUB_TIMEOUT_SECONDS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.dev, https://b.dev,")
	t.Setenv("TEMPORAL_ADDRESS", "temporal:7233")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, "token", cfg.SyncToken)
	require.Equal(t, 3*time.Second, cfg.GitHubTimeout)
	require.Equal(t, []string{"https://a.dev", "https://b.dev"}, cfg.CORSAllowedOrigins)
	require.True(t, cfg.TemporalEnabled())

	t.Setenv("TEMPORAL_DISABLED", "true")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.False(t, cfg.TemporalEnabled())
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"PORT":                   "http",
		"DATABASE_DRIVER":        "mysql",
		"REDIS_DB":               "one",
		"GITHUB_TIMEOUT_SECONDS": "0",
		"SYNC_SCHEDULE":          "whenever",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
