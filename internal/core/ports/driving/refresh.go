package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

// RefreshOrchestrator runs refresh sweeps and exposes the resulting cache.
type RefreshOrchestrator interface {
	// Sweep fetches sources in bounded batches and merges the results into
	// the cache. It never fails as a whole; the report says what happened.
	Sweep(ctx context.Context, sources []domain.Source, opts domain.SweepOptions) *domain.SweepReport

	// EnsureFetched fetches only the sources missing from the cache.
	EnsureFetched(ctx context.Context, sources []domain.Source, batchSize int) *domain.SweepReport

	// Refresh clears the cache and fetches every given source.
	// Nothing is recorded; use RefreshScheduler.RefreshNow for that.
	Refresh(ctx context.Context, sources []domain.Source, batchSize int) *domain.SweepReport

	// InProgress reports whether a sweep is currently running.
	InProgress() bool

	// Get returns the cached repository for a source.
	Get(sourceID string) (*domain.Repository, bool)

	// LastUpdated returns when a source was last fetched successfully.
	LastUpdated(sourceID string) (time.Time, bool)

	// Entries returns every cached entry, ordered by source ID.
	Entries() []domain.CacheEntry
}
