package cache

import (
	"context"
	"sync"

	"github.com/a-z-nath/portfolio-api/internal/domains/projects/application/types"
	"github.com/a-z-nath/portfolio-api/internal/domains/projects/ports"
)

var _ ports.Cache = (*Memory)(nil)

// Memory keeps a single featured projects entry in process memory. The entry
// never expires; it lives until Invalidate or process exit. Returned entries
// are shared and must not be mutated.
type Memory struct {
	mu    sync.RWMutex
	entry *types.CachedProjects
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(_ context.Context) (*types.CachedProjects, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.entry.Valid() {
		return nil, false, nil
	}
	return m.entry, true, nil
}

func (m *Memory) Set(_ context.Context, entry *types.CachedProjects) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = entry
	return nil
}

// Invalidate clears the slot. Calling it on an empty cache is a no-op.
func (m *Memory) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = nil
	return nil
}
