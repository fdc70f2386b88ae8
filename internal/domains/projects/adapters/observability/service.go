package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

const tracerName = "github.com/a-z-nath/portfolio-api/internal/domains/projects/adapters/observability/service"

// Service decorates the projects service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core projects service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) FeaturedProjects(ctx context.Context) (*types.FeaturedLookup, error) {
	ctx, span := s.tracer.Start(ctx, "ProjectsService.FeaturedProjects")
	defer span.End()

	result, err := s.inner.FeaturedProjects(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load featured projects")
	}
	span.SetAttributes(
		attribute.Bool("cache.hit", result.CacheHit),
		attribute.Int("projects.count", result.Entry.View.Count),
	)
	s.metrics.recordLookup(ctx, result.CacheHit)
	if result.CacheHit {
		s.logDebug(ctx, "cache hit - returning cached projects", slog.Int("projects.count", result.Entry.View.Count))
	} else {
		s.logInfo(ctx, "cache miss - featured projects loaded from store",
			slog.Int("projects.count", result.Entry.View.Count),
			slog.Time("cached_at", result.Entry.CachedAt))
	}
	return result, nil
}

func (s *Service) Sync(ctx context.Context) (*types.SyncResult, error) {
	ctx, span := s.tracer.Start(ctx, "ProjectsService.Sync")
	defer span.End()

	s.logInfo(ctx, "starting GitHub sync")
	result, err := s.inner.Sync(ctx)
	if err != nil {
		s.metrics.recordSync(ctx, "failed")
		return nil, s.handleError(ctx, span, err, "GitHub sync failed")
	}
	span.SetAttributes(
		attribute.Int("sync.created", result.Created),
		attribute.Int("sync.updated", result.Updated),
		attribute.Int("sync.errors", len(result.Errors)),
		attribute.Int("sync.total", result.Total),
	)
	outcome := "succeeded"
	if len(result.Errors) > 0 {
		outcome = "partial"
	}
	s.metrics.recordSync(ctx, outcome)
	s.metrics.recordRepos(ctx, result)
	s.logInfo(ctx, "GitHub sync completed",
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("errors", len(result.Errors)),
		slog.Int("total", result.Total))
	return result, nil
}

func (s *Service) InvalidateCache(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "ProjectsService.InvalidateCache")
	defer span.End()

	if err := s.inner.InvalidateCache(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to invalidate projects cache")
	}
	s.metrics.recordInvalidation(ctx)
	s.logInfo(ctx, "projects cache invalidated")
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	invalidations metric.Int64Counter
	syncs         metric.Int64Counter
	syncedRepos   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	cacheHits, _ := m.Int64Counter("projects.service.cache_hits", metric.WithDescription("Featured project reads answered from cache"))
	cacheMisses, _ := m.Int64Counter("projects.service.cache_misses", metric.WithDescription("Featured project reads recomputed from storage"))
	invalidations, _ := m.Int64Counter("projects.service.cache_invalidations", metric.WithDescription("Projects cache invalidations"))
	syncs, _ := m.Int64Counter("projects.service.syncs", metric.WithDescription("GitHub sync runs by outcome"))
	syncedRepos, _ := m.Int64Counter("projects.service.synced_repos", metric.WithDescription("Repositories processed by sync runs"))
	return serviceMetrics{
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
		invalidations: invalidations,
		syncs:         syncs,
		syncedRepos:   syncedRepos,
	}
}

func (m serviceMetrics) recordLookup(ctx context.Context, hit bool) {
	if hit {
		if m.cacheHits != nil {
			m.cacheHits.Add(ctx, 1)
		}
		return
	}
	if m.cacheMisses != nil {
		m.cacheMisses.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordInvalidation(ctx context.Context) {
	if m.invalidations != nil {
		m.invalidations.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordSync(ctx context.Context, outcome string) {
	if m.syncs != nil {
		m.syncs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m serviceMetrics) recordRepos(ctx context.Context, result *types.SyncResult) {
	if m.syncedRepos == nil || result == nil {
		return
	}
	m.syncedRepos.Add(ctx, int64(result.Created), metric.WithAttributes(attribute.String("result", "created")))
	m.syncedRepos.Add(ctx, int64(result.Updated), metric.WithAttributes(attribute.String("result", "updated")))
	m.syncedRepos.Add(ctx, int64(len(result.Errors)), metric.WithAttributes(attribute.String("result", "failed")))
}

var _ ports.Service = (*Service)(nil)
