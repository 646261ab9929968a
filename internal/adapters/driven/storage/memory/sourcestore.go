package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/repocache/internal/core/domain"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu      sync.RWMutex
	sources map[string]domain.Source
	seq     map[string]int
	next    int
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore(sources ...domain.Source) *SourceStore {
	s := &SourceStore{
		sources: make(map[string]domain.Source),
		seq:     make(map[string]int),
	}
	for _, src := range sources {
		_ = s.Save(context.Background(), src)
	}
	return s
}

// Save stores or updates a source.
func (s *SourceStore) Save(_ context.Context, source domain.Source) error {
	if source.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if prev, ok := s.sources[source.ID]; ok && source.CreatedAt.IsZero() {
		source.CreatedAt = prev.CreatedAt
	}
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	if _, ok := s.seq[source.ID]; !ok {
		s.seq[source.ID] = s.next
		s.next++
	}
	s.sources[source.ID] = source
	return nil
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// Delete removes a source.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
	delete(s.seq, id)
	return nil
}

// List returns all configured sources in insertion order.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Source, 0, len(s.sources))
	for _, source := range s.sources {
		result = append(result, source)
	}
	sort.Slice(result, func(i, j int) bool {
		return s.seq[result[i].ID] < s.seq[result[j].ID]
	})
	return result, nil
}
