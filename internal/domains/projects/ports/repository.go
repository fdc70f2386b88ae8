package ports

import (
	"context"
	"errors"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
)

var ErrNotFound = errors.New("project not found")

// Repository persists mirrored GitHub projects.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*domain.Project, error)
	Insert(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	// ReconcileFeatured clears the featured flag on every row and sets it for
	// exactly the given ids.
	ReconcileFeatured(ctx context.Context, ids []int64) error
	// ListFeatured returns featured projects ordered by stars, then upstream
	// update time, both descending.
	ListFeatured(ctx context.Context) ([]*domain.Project, error)
}
