package dataset

import (
	"context"
	"sort"
	"sync"
	"time"

	"biobridge/internal/services"
)

// MemoryStore is an in-process dataset store keyed by name. It is safe for
// concurrent use, though a single pipeline run owns its store exclusively.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	updated  map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets: make(map[string]*Dataset),
		updated:  make(map[string]time.Time),
	}
}

var _ Store = (*MemoryStore)(nil)

// Get returns the named dataset or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, name string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[name]
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "", "get dataset", name, nil)
	}
	return ds, nil
}

// Put stores a dataset under its name, replacing any previous entry.
func (s *MemoryStore) Put(_ context.Context, ds *Dataset) error {
	if ds == nil || ds.Name == "" {
		return services.Wrap(services.ErrValidation, "", "put dataset", "dataset name is required", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[ds.Name] = ds
	s.updated[ds.Name] = time.Now().UTC()
	return nil
}

// List returns summaries of all stored datasets, sorted by name.
func (s *MemoryStore) List(_ context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]Info, 0, len(s.datasets))
	for name, ds := range s.datasets {
		infos = append(infos, Info{
			Name:      name,
			Rows:      ds.Len(),
			Columns:   len(ds.Columns),
			UpdatedAt: s.updated[name],
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
