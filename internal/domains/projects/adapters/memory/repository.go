package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/domain"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory project persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	projects map[int64]*domain.Project
}

func NewRepository() *Repository {
	return &Repository{projects: map[int64]*domain.Project{}}
}

func (r *Repository) FindByID(_ context.Context, id int64) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return project.Clone(), nil
}

func (r *Repository) Insert(_ context.Context, project *domain.Project) error {
	if project == nil {
		return errors.New("project is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; ok {
		return errors.New("project already exists")
	}
	r.projects[project.ID] = project.Clone()
	return nil
}

func (r *Repository) Update(_ context.Context, project *domain.Project) error {
	if project == nil {
		return errors.New("project is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return ports.ErrNotFound
	}
	r.projects[project.ID] = project.Clone()
	return nil
}

func (r *Repository) ReconcileFeatured(_ context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, project := range r.projects {
		project.Featured = false
	}
	for _, id := range ids {
		if project, ok := r.projects[id]; ok {
			project.Featured = true
		}
	}
	return nil
}

func (r *Repository) ListFeatured(_ context.Context) ([]*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Project, 0, len(r.projects))
	for _, project := range r.projects {
		if project.Featured {
			list = append(list, project.Clone())
		}
	}
	domain.SortByRank(list)
	return list, nil
}

// Reset drops every stored project.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = map[int64]*domain.Project{}
}
