package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	projectscache "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/cache"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
)

func TestSync_CreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	source := &fakeSource{repos: []domain.RemoteRepository{
		remoteRepo(1, "alpha", 3),
		remoteRepo(2, "beta", 8),
	}}
	svc := NewService(repo, source, projectscache.NewMemory(), WithClock(fixedClock))

	first, err := svc.Sync(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, first.Created)
	require.Equal(t, 0, first.Updated)
	require.Empty(t, first.Errors)
	require.Equal(t, 2, first.Total)

	second, err := svc.Sync(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, second.Created)
	require.Equal(t, 2, second.Updated)
	require.Equal(t, 2, second.Total)

	featured, err := repo.Repository.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 2)
}

func TestSync_ReconcilesFeaturedSet(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	source := &fakeSource{repos: []domain.RemoteRepository{
		remoteRepo(1, "alpha", 3),
		remoteRepo(2, "beta", 8),
	}}
	svc := NewService(repo, source, nil, WithClock(fixedClock))
	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	source.repos = []domain.RemoteRepository{remoteRepo(2, "beta", 9)}
	_, err = svc.Sync(ctx)
	require.NoError(t, err)

	featured, err := repo.Repository.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	require.Equal(t, int64(2), featured[0].ID)
	require.Equal(t, 9, featured[0].Stars)

	dropped, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.False(t, dropped.Featured)
}

func TestSync_EmptyBatchKeepsFeaturedSet(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	source := &fakeSource{repos: []domain.RemoteRepository{remoteRepo(1, "alpha", 3)}}
	svc := NewService(repo, source, nil, WithClock(fixedClock))
	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	source.repos = nil
	result, err := svc.Sync(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, result.Total)

	featured, err := repo.Repository.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
}

func TestSync_PartialFailureContinues(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	repo.failInsert[2] = errDiskFull
	source := &fakeSource{repos: []domain.RemoteRepository{
		remoteRepo(1, "alpha", 3),
		remoteRepo(2, "broken", 4),
		remoteRepo(3, "gamma", 5),
	}}
	svc := NewService(repo, source, nil, WithClock(fixedClock))

	result, err := svc.Sync(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"broken: disk full"}, result.Errors)
	require.Equal(t, 2, result.Created+result.Updated)
	require.Equal(t, 3, result.Total)

	_, err = repo.FindByID(ctx, 3)
	require.NoError(t, err)
}

func TestSync_RemoteFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	source := &fakeSource{err: &domain.RemoteFetchError{StatusCode: 403, Status: "403 Forbidden"}}
	svc := NewService(repo, source, nil)

	result, err := svc.Sync(ctx)
	require.Nil(t, result)
	require.True(t, IsRemoteFetchError(err))
	require.EqualError(t, err, "GitHub API error: 403 Forbidden")
	require.Zero(t, repo.writes.Load())
}

func TestSync_TransportFailureIsRemoteFetchError(t *testing.T) {
	svc := NewService(newRecordingRepo(), &fakeSource{err: context.DeadlineExceeded}, nil)

	_, err := svc.Sync(context.Background())
	require.True(t, IsRemoteFetchError(err))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSync_ReconcileFailureIsStorageError(t *testing.T) {
	repo := newRecordingRepo()
	repo.reconcileErr = errDiskFull
	svc := NewService(repo, &fakeSource{repos: []domain.RemoteRepository{remoteRepo(1, "alpha", 1)}}, nil)

	_, err := svc.Sync(context.Background())
	require.True(t, IsStorageError(err))
	require.ErrorIs(t, err, errDiskFull)
}

func TestSync_ReconcileFeaturesEveryReturnedRepository(t *testing.T) {
	ctx := context.Background()
	repo := newRecordingRepo()
	source := &fakeSource{repos: []domain.RemoteRepository{remoteRepo(1, "alpha", 3, "go")}}
	svc := NewService(repo, source, nil, WithClock(fixedClock))

	_, err := svc.Sync(ctx)
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, stored.Featured)
	topics, err := stored.Topics.Decode()
	require.NoError(t, err)
	require.Equal(t, []string{"go"}, topics)
}

func TestSync_NoSourceConfigured(t *testing.T) {
	svc := NewService(newRecordingRepo(), nil, nil)
	_, err := svc.Sync(context.Background())
	require.Error(t, err)
}
