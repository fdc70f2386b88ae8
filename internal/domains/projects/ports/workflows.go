package ports

import (
	"context"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
)

// SyncOrchestrator runs a sync either inline or through a durable workflow engine.
type SyncOrchestrator interface {
	RunSync(ctx context.Context) (*types.SyncResult, error)
}
