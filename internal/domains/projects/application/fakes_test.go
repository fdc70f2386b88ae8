package application

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	projectsmemory "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/memory"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeSource struct {
	repos []domain.RemoteRepository
	err   error
	calls int
}

func (f *fakeSource) FeaturedRepositories(context.Context) ([]domain.RemoteRepository, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.repos, nil
}

// recordingRepo wraps the memory repository, counting store calls and
// failing selected operations.
type recordingRepo struct {
	*projectsmemory.Repository
	listCalls    atomic.Int32
	writes       atomic.Int32
	failInsert   map[int64]error
	listErr      error
	reconcileErr error
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{Repository: projectsmemory.NewRepository(), failInsert: map[int64]error{}}
}

func (r *recordingRepo) Insert(ctx context.Context, p *domain.Project) error {
	if err, ok := r.failInsert[p.ID]; ok {
		return err
	}
	r.writes.Add(1)
	return r.Repository.Insert(ctx, p)
}

func (r *recordingRepo) Update(ctx context.Context, p *domain.Project) error {
	r.writes.Add(1)
	return r.Repository.Update(ctx, p)
}

func (r *recordingRepo) ReconcileFeatured(ctx context.Context, ids []int64) error {
	if r.reconcileErr != nil {
		return r.reconcileErr
	}
	r.writes.Add(1)
	return r.Repository.ReconcileFeatured(ctx, ids)
}

func (r *recordingRepo) ListFeatured(ctx context.Context) ([]*domain.Project, error) {
	r.listCalls.Add(1)
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.Repository.ListFeatured(ctx)
}

var errDiskFull = errors.New("disk full")

func remoteRepo(id int64, name string, stars int, topics ...string) domain.RemoteRepository {
	pushed := fixedNow.Add(-time.Duration(id) * time.Hour)
	if len(topics) == 0 {
		topics = []string{domain.FeaturedTopic}
	}
	return domain.RemoteRepository{
		ID:        id,
		Name:      name,
		HTMLURL:   "https://github.com/a-z-nath/" + name,
		Stars:     stars,
		Topics:    topics,
		UpdatedAt: &pushed,
	}
}
