package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

func newProject(id int64, stars int, featured bool) *domain.Project {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Project{ID: id, Name: "p", URL: "u", Stars: stars, Featured: featured, CreatedAt: now, UpdatedAt: now}
}

func TestRepository_InsertFindUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	require.NoError(t, repo.Insert(ctx, newProject(1, 3, true)))
	require.Error(t, repo.Insert(ctx, newProject(1, 3, true)))

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	found.Stars = 99
	again, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 3, again.Stars)

	require.NoError(t, repo.Update(ctx, found))
	updated, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 99, updated.Stars)

	_, err = repo.FindByID(ctx, 2)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, newProject(2, 0, false)), ports.ErrNotFound)
}

func TestRepository_ReconcileAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	require.NoError(t, repo.Insert(ctx, newProject(1, 5, true)))
	require.NoError(t, repo.Insert(ctx, newProject(2, 50, true)))
	require.NoError(t, repo.Insert(ctx, newProject(3, 10, false)))

	require.NoError(t, repo.ReconcileFeatured(ctx, []int64{3, 1, 404}))

	list, err := repo.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(3), list[0].ID)
	require.Equal(t, int64(1), list[1].ID)

	repo.Reset()
	list, err = repo.ListFeatured(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}
