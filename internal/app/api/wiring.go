package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	githubclient "github.com/a-z-nath/portfolio-api/internal/clients/http/github"
	projectscache "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/cache"
	projectsgithub "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/external/github"
	projectsmemory "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/memory"
	projectsobs "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/observability"
	projectspostgres "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/persistence/postgres"
	projectssqlite "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/persistence/sqlite"
	projectsapp "github.com/a-z-nath/portfolio-api/internal/domains/projects/application"
	projectsports "github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
	"github.com/a-z-nath/portfolio-api/internal/platform/migrations"
	platformobservability "github.com/a-z-nath/portfolio-api/internal/platform/observability"
	platformpostgres "github.com/a-z-nath/portfolio-api/internal/platform/postgres"
	platformredis "github.com/a-z-nath/portfolio-api/internal/platform/redis"
	platformsqlite "github.com/a-z-nath/portfolio-api/internal/platform/sqlite"
)

// Projects bundles the wired projects bounded context.
type Projects struct {
	Service projectsports.Service
	Cache   projectsports.Cache
}

// BuildProjects wires storage, cache, GitHub source, and the instrumented
// service. The returned cleanup closes every opened connection.
func BuildProjects(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Projects, func(), error) {
	logger := effectiveLogger(instruments)

	repo, cleanupRepo := BuildRepository(ctx, cfg, logger)
	cache, cleanupCache := BuildCache(ctx, cfg, logger)
	cleanup := func() {
		cleanupCache()
		cleanupRepo()
	}
	source, err := BuildSource(cfg)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	core := projectsapp.NewService(repo, source, cache,
		projectsapp.WithLogger(logger),
		projectsapp.WithFeaturedTopic(cfg.GitHubTopic),
	)
	service := projectsobs.New(
		core,
		projectsobs.WithLogger(logger),
		projectsobs.WithTracer(instruments.Tracer("internal.projects.application")),
		projectsobs.WithMeter(instruments.Meter("internal.projects.application")),
	)
	return &Projects{Service: service, Cache: cache}, cleanup, nil
}

// BuildRepository opens the configured project store. Postgres falls back to
// SQLite and SQLite falls back to memory, logging each step.
func BuildRepository(ctx context.Context, cfg Config, logger *slog.Logger) (projectsports.Repository, func()) {
	driver := cfg.DatabaseDriver
	if driver == DriverPostgres {
		repo, cleanup, err := buildPostgresRepository(ctx, cfg.PostgresDSN, logger)
		if err == nil {
			logger.Info("project repository configured with postgres")
			return repo, cleanup
		}
		logger.Warn("postgres project store unavailable, falling back to sqlite", slog.String("error", err.Error()))
		driver = DriverSQLite
	}
	if driver == DriverSQLite {
		repo, cleanup, err := buildSQLiteRepository(ctx, cfg.SQLitePath)
		if err == nil {
			logger.Info("project repository configured with sqlite", slog.String("path", cfg.SQLitePath))
			return repo, cleanup
		}
		logger.Warn("sqlite project store unavailable, falling back to memory", slog.String("error", err.Error()))
	}
	logger.Warn("using in-memory project repository; data is lost on restart")
	return projectsmemory.NewRepository(), func() {}
}

func buildPostgresRepository(ctx context.Context, dsn string, logger *slog.Logger) (projectsports.Repository, func(), error) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, dsn, logger)
	if db == nil {
		return nil, nil, errors.New("postgres connection not available")
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("migrate postgres schema: %w", err)
	}
	return projectspostgres.NewRepository(db), cleanup, nil
}

func buildSQLiteRepository(ctx context.Context, path string) (projectsports.Repository, func(), error) {
	db, err := platformsqlite.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return projectssqlite.NewRepository(db), func() { _ = db.Close() }, nil
}

// BuildCache returns a Redis-backed cache when REDIS_ADDR is set and reachable,
// otherwise the in-process cache.
func BuildCache(ctx context.Context, cfg Config, logger *slog.Logger) (projectsports.Cache, func()) {
	if cfg.RedisAddr == "" {
		return projectscache.NewMemory(), func() {}
	}
	client, err := platformredis.Connect(ctx, platformredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-process projects cache", slog.String("error", err.Error()))
		return projectscache.NewMemory(), func() {}
	}
	logger.Info("projects cache configured with redis", slog.String("addr", cfg.RedisAddr))
	return projectscache.NewRedis(client, projectscache.DefaultRedisKey), func() { _ = client.Close() }
}

// BuildSource creates the GitHub featured repository source.
func BuildSource(cfg Config) (*projectsgithub.Source, error) {
	opts := []githubclient.Option{githubclient.WithTimeout(cfg.GitHubTimeout)}
	if cfg.GitHubAPIURL != "" {
		opts = append(opts, githubclient.WithBaseURL(cfg.GitHubAPIURL))
	}
	if cfg.GitHubToken != "" {
		opts = append(opts, githubclient.WithToken(cfg.GitHubToken))
	}
	gh, err := githubclient.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("configure github client: %w", err)
	}
	return projectsgithub.NewSource(gh, cfg.GitHubOwner, cfg.GitHubTopic), nil
}

// ConnectTemporal dials Temporal with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if !cfg.TemporalEnabled() {
		return nil, errors.New("temporal disabled: TEMPORAL_ADDRESS not set or TEMPORAL_DISABLED")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
