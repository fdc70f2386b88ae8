package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	portfolioserver "github.com/a-z-nath/portfolio-api/go"

	projectsworkflows "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/workflows"
	projectsports "github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
	platformobservability "github.com/a-z-nath/portfolio-api/internal/platform/observability"
	"github.com/a-z-nath/portfolio-api/internal/platform/schedule"
)

const serviceName = "portfolio-api"

// Run boots the portfolio HTTP API with observability, storage, cache, and
// sync orchestration wired. It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	projects, cleanup, err := BuildProjects(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	var syncWorkflows projectsports.SyncOrchestrator = projectsworkflows.NewInlineSyncWorkflows(projects.Service)
	if temporalClient, err := ConnectTemporal(cfg, instruments); err != nil {
		logger.Info("Temporal workflows unavailable, running sync inline", slog.String("reason", err.Error()))
	} else {
		defer temporalClient.Close()
		syncWorkflows = projectsworkflows.NewTemporalSyncWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	if cfg.SyncToken == "" {
		logger.Warn("SYNC_TOKEN not set, POST /api/sync rejects every request")
	}

	if cfg.SyncSchedule != "" {
		scheduler := schedule.New(logger)
		if err := scheduler.Add(ctx, cfg.SyncSchedule, "github-sync", scheduledSync(projects.Service, syncWorkflows)); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			scheduler.Stop(stopCtx)
		}()
		logger.Info("scheduled GitHub sync enabled", slog.String("schedule", cfg.SyncSchedule))
	}

	handlers := portfolioserver.ApiHandleFunctions{
		ProjectsAPI: portfolioserver.NewProjectsAPI(projects.Service),
		SyncAPI:     portfolioserver.NewSyncAPI(projects.Service, syncWorkflows, cfg.SyncToken, logger),
	}
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	portfolioserver.NewRouterWithGinEngine(router, handlers,
		portfolioserver.WithLogger(logger),
		portfolioserver.WithAllowedOrigins(cfg.CORSAllowedOrigins),
	)

	return serve(ctx, &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}, logger)
}

// scheduledSync runs a sync and invalidates the cache on success, the same
// sequence an authorized POST /api/sync performs.
func scheduledSync(service projectsports.Service, workflows projectsports.SyncOrchestrator) schedule.Job {
	return func(ctx context.Context) error {
		if _, err := workflows.RunSync(ctx); err != nil {
			return err
		}
		return service.InvalidateCache(ctx)
	}
}

func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("portfolio API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("portfolio API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down portfolio API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
