package ports

import (
	"context"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
)

// Service exposes the projects use cases to adapters.
type Service interface {
	FeaturedProjects(ctx context.Context) (*types.FeaturedLookup, error)
	Sync(ctx context.Context) (*types.SyncResult, error)
	InvalidateCache(ctx context.Context) error
}
