package ports

import (
	"context"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
)

// Cache holds the last computed featured projects payload until invalidated.
type Cache interface {
	Get(ctx context.Context) (*types.CachedProjects, bool, error)
	Set(ctx context.Context, entry *types.CachedProjects) error
	Invalidate(ctx context.Context) error
}
