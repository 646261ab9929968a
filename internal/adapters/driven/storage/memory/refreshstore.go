package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/repocache/internal/core/domain"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
)

// Ensure RefreshStore implements the interface.
var _ driven.RefreshStore = (*RefreshStore)(nil)

// RefreshStore is an in-memory implementation of driven.RefreshStore.
type RefreshStore struct {
	mu      sync.RWMutex
	records map[domain.RefreshKind][]domain.RefreshRecord
}

// NewRefreshStore creates a new in-memory refresh store.
func NewRefreshStore() *RefreshStore {
	return &RefreshStore{
		records: make(map[domain.RefreshKind][]domain.RefreshRecord),
	}
}

// RecordRefresh logs a completed sweep.
func (s *RefreshStore) RecordRefresh(_ context.Context, record *domain.RefreshRecord) error {
	if record == nil || !record.Kind.IsValid() {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Kind] = append(s.records[record.Kind], *record)
	return nil
}

// LastRefresh returns when the most recent sweep of kind completed.
func (s *RefreshStore) LastRefresh(_ context.Context, kind domain.RefreshKind) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last time.Time
	for _, r := range s.records[kind] {
		if r.EndedAt.After(last) {
			last = r.EndedAt
		}
	}
	return last, nil
}

// History returns recent records for kind, most recent first.
func (s *RefreshStore) History(_ context.Context, kind domain.RefreshKind, limit int) ([]domain.RefreshRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := newestFirst(s.records[kind])
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// PruneHistory keeps the most recent 'keep' records per kind.
func (s *RefreshStore) PruneHistory(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for kind, records := range s.records {
		if len(records) > keep {
			s.records[kind] = newestFirst(records)[:keep]
		}
	}
	return nil
}

func newestFirst(records []domain.RefreshRecord) []domain.RefreshRecord {
	result := make([]domain.RefreshRecord, len(records))
	copy(result, records)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].EndedAt.After(result[j].EndedAt)
	})
	return result
}
