package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

// Service orchestrates the projects use cases: the featured read path backed
// by a cache, and the sync that mirrors upstream repositories into the store.
type Service struct {
	repo   ports.Repository
	source ports.RepositorySource
	cache  ports.Cache
	logger *slog.Logger
	topic  string
	now    func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the logger used for recoverable failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFeaturedTopic overrides the topic that marks a repository as featured.
func WithFeaturedTopic(topic string) Option {
	return func(s *Service) {
		if topic != "" {
			s.topic = topic
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the projects service with its collaborators.
func NewService(repo ports.Repository, source ports.RepositorySource, cache ports.Cache, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		source: source,
		cache:  cache,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		topic:  domain.FeaturedTopic,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FeaturedProjects answers from the cache when it holds an entry, otherwise
// recomputes the payload from the store and caches it until invalidated.
func (s *Service) FeaturedProjects(ctx context.Context) (*types.FeaturedLookup, error) {
	if entry, ok := s.cachedEntry(ctx); ok {
		return &types.FeaturedLookup{Entry: entry, CacheHit: true}, nil
	}
	projects, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list featured projects: %w", domain.ErrStorage, err)
	}
	entry := &types.CachedProjects{
		View:     s.buildView(ctx, projects),
		CachedAt: s.now().UTC(),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.WarnContext(ctx, "failed to cache featured projects", slog.String("error", err.Error()))
		}
	}
	return &types.FeaturedLookup{Entry: entry, CacheHit: false}, nil
}

// InvalidateCache drops the cached payload so the next read hits the store.
func (s *Service) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *Service) cachedEntry(ctx context.Context) (*types.CachedProjects, bool) {
	if s.cache == nil {
		return nil, false
	}
	entry, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read projects cache", slog.String("error", err.Error()))
		return nil, false
	}
	if !ok || !entry.Valid() {
		return nil, false
	}
	return entry, true
}

func (s *Service) buildView(ctx context.Context, projects []*domain.Project) types.FeaturedProjectsView {
	view := types.FeaturedProjectsView{
		Projects: make([]types.ProjectView, 0, len(projects)),
		Count:    len(projects),
	}
	for _, p := range projects {
		topics, err := p.Topics.Decode()
		if err != nil {
			serr := &domain.SerializationError{ProjectID: p.ID, Err: err}
			s.logger.WarnContext(ctx, "failed to parse project topics", slog.Int64("project.id", p.ID), slog.String("error", serr.Error()))
		}
		view.Projects = append(view.Projects, toProjectView(p, topics))
	}
	if len(projects) > 0 {
		view.LastSync = formatTime(projects[0].UpdatedAt)
	}
	return view
}

func toProjectView(p *domain.Project, topics []string) types.ProjectView {
	updatedAt := formatTime(p.UpdatedAt)
	if p.GitHubUpdatedAt != nil {
		updatedAt = formatTime(*p.GitHubUpdatedAt)
	}
	return types.ProjectView{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		HTMLURL:      p.URL,
		Homepage:     p.Homepage,
		Language:     p.Language,
		Stars:        p.Stars,
		Topics:       topics,
		CreatedAt:    formatTime(p.CreatedAt),
		UpdatedAt:    updatedAt,
		Featured:     p.Featured,
		DisplayOrder: p.DisplayOrder,
	}
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

var _ ports.Service = (*Service)(nil)
