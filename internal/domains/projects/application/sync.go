package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

// Sync mirrors the featured upstream repositories into the store. A failed
// fetch aborts before any write; a failed repository is recorded and the
// batch continues. Upserts run sequentially in upstream order.
func (s *Service) Sync(ctx context.Context) (*types.SyncResult, error) {
	if s.source == nil {
		return nil, errors.New("repository source not configured")
	}
	repos, err := s.source.FeaturedRepositories(ctx)
	if err != nil {
		return nil, mapFetchError(err)
	}
	s.logger.InfoContext(ctx, "fetched featured repositories", slog.Int("count", len(repos)))

	result := types.NewSyncResult(len(repos))
	ids := make([]int64, 0, len(repos))
	for _, repo := range repos {
		ids = append(ids, repo.ID)
		created, err := s.upsert(ctx, repo)
		if err != nil {
			itemErr := &domain.PerItemSyncError{ID: repo.ID, Name: repo.Name, Err: err}
			s.logger.ErrorContext(ctx, "failed to sync repository",
				slog.Int64("project.id", repo.ID), slog.String("project.name", repo.Name), slog.String("error", err.Error()))
			result.Errors = append(result.Errors, itemErr.Error())
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	// An empty upstream result leaves the featured set alone.
	if len(ids) > 0 {
		if err := s.repo.ReconcileFeatured(ctx, ids); err != nil {
			return nil, fmt.Errorf("%w: reconcile featured projects: %w", domain.ErrStorage, err)
		}
	}
	s.logger.InfoContext(ctx, "sync completed",
		slog.Int("created", result.Created), slog.Int("updated", result.Updated),
		slog.Int("errors", len(result.Errors)), slog.Int("total", result.Total))
	return result, nil
}

func (s *Service) upsert(ctx context.Context, repo domain.RemoteRepository) (bool, error) {
	now := s.now().UTC()
	existing, err := s.repo.FindByID(ctx, repo.ID)
	switch {
	case err == nil:
		existing.ApplyRemote(repo, s.topic, now)
		return false, s.repo.Update(ctx, existing)
	case errors.Is(err, ports.ErrNotFound):
		return true, s.repo.Insert(ctx, domain.NewProjectFromRemote(repo, s.topic, now))
	default:
		return false, err
	}
}
