package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a-z-nath/portfolio-api/internal/app/api"
	platformobservability "github.com/a-z-nath/portfolio-api/internal/platform/observability"
)

// Command sync runs one GitHub sync against the configured store and exits. Meant for
// external schedulers; with REDIS_ADDR set it also invalidates the shared cache.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, "portfolio-sync")
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()

	projects, cleanup, err := api.BuildProjects(ctx, cfg, instruments)
	if err != nil {
		log.Fatalf("failed to wire projects service: %v", err)
	}
	defer cleanup()

	result, err := projects.Service.Sync(ctx)
	if err != nil {
		cleanup()
		log.Fatalf("sync failed: %v", err)
	}
	if err := projects.Service.InvalidateCache(ctx); err != nil {
		log.Printf("cache invalidation failed: %v", err)
	}
	if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
		log.Printf("failed to print sync stats: %v", err)
	}
}
