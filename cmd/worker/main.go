package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/a-z-nath/portfolio-api/internal/app/api"
	projectactivities "github.com/a-z-nath/portfolio-api/internal/durable/temporal/activities/projects"
	projectworkflows "github.com/a-z-nath/portfolio-api/internal/durable/temporal/workflows/projects"
	platformobservability "github.com/a-z-nath/portfolio-api/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "portfolio-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.TemporalDisabled {
		log.Fatal("TEMPORAL_DISABLED is set; the worker has nothing to do")
	}
	if cfg.TemporalAddress == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	projects, cleanup, err := api.BuildProjects(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to wire projects service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	syncActivities := projectactivities.NewActivities(projects.Service)

	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, projectworkflows.SyncTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(projectworkflows.SyncWorkflow, workflow.RegisterOptions{Name: projectworkflows.SyncWorkflowName})
	w.RegisterActivityWithOptions(syncActivities.SyncFeatured, activity.RegisterOptions{Name: projectactivities.SyncFeaturedActivityName})

	logger.Info("worker listening", slog.String("taskQueue", projectworkflows.SyncTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
