package ports

import (
	"context"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
)

// RepositorySource lists the repositories currently tagged as featured upstream.
type RepositorySource interface {
	FeaturedRepositories(ctx context.Context) ([]domain.RemoteRepository, error)
}
