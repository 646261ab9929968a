package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/repocache/internal/core/domain"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
	"github.com/custodia-labs/repocache/internal/core/ports/driving"
	"github.com/custodia-labs/repocache/internal/logger"
)

// Ensure RefreshOrchestrator implements the interface.
var _ driving.RefreshOrchestrator = (*RefreshOrchestrator)(nil)

// RefreshOrchestrator runs refresh sweeps over a list of sources.
// At most one sweep runs at a time; a sweep requested while another is
// running returns immediately without side effects.
type RefreshOrchestrator struct {
	fetcher driven.RepositoryFetcher
	cache   *SourceCache
	now     func() time.Time

	inProgress atomic.Bool
}

// NewRefreshOrchestrator creates an orchestrator that fetches through
// fetcher and merges into cache.
func NewRefreshOrchestrator(fetcher driven.RepositoryFetcher, cache *SourceCache) *RefreshOrchestrator {
	if cache == nil {
		cache = NewSourceCache()
	}
	return &RefreshOrchestrator{
		fetcher: fetcher,
		cache:   cache,
		now:     time.Now,
	}
}

// Cache returns the cache the orchestrator writes to.
func (o *RefreshOrchestrator) Cache() *SourceCache {
	return o.cache
}

// InProgress reports whether a sweep is currently running.
func (o *RefreshOrchestrator) InProgress() bool {
	return o.inProgress.Load()
}

// Get returns the cached repository for a source.
func (o *RefreshOrchestrator) Get(sourceID string) (*domain.Repository, bool) {
	return o.cache.Get(sourceID)
}

// LastUpdated returns when a source was last fetched successfully.
func (o *RefreshOrchestrator) LastUpdated(sourceID string) (time.Time, bool) {
	return o.cache.LastUpdated(sourceID)
}

// Entries returns every cached entry, ordered by source ID.
func (o *RefreshOrchestrator) Entries() []domain.CacheEntry {
	return o.cache.Entries()
}

// EnsureFetched fetches only the sources missing from the cache.
func (o *RefreshOrchestrator) EnsureFetched(ctx context.Context, sources []domain.Source, batchSize int) *domain.SweepReport {
	return o.Sweep(ctx, sources, domain.SweepOptions{
		BatchSize: batchSize,
		Kind:      domain.RefreshEnsure,
	})
}

// Refresh clears the cache and fetches every given source. It records no
// bookkeeping; RefreshScheduler.RefreshNow is the recorded manual refresh.
func (o *RefreshOrchestrator) Refresh(ctx context.Context, sources []domain.Source, batchSize int) *domain.SweepReport {
	return o.Sweep(ctx, sources, domain.SweepOptions{
		Force:     true,
		BatchSize: batchSize,
		Kind:      domain.RefreshSelected,
	})
}

// Sweep fetches sources in contiguous batches of opts.BatchSize. Batches run
// one after another; the members of a batch are fetched concurrently and the
// batch is merged into the cache before the next one starts.
//
// Without opts.Force the sweep is skipped when every source is already
// cached, and otherwise only the uncached sources are fetched. With
// opts.Force the cache is cleared first and every source is fetched.
//
// Per-source failures never abort the sweep; the source is simply absent.
func (o *RefreshOrchestrator) Sweep(
	ctx context.Context,
	sources []domain.Source,
	opts domain.SweepOptions,
) *domain.SweepReport {
	report := &domain.SweepReport{
		Kind:      opts.Kind,
		Forced:    opts.Force,
		StartedAt: o.now(),
		Failed:    make(map[string]string),
	}

	if !o.inProgress.CompareAndSwap(false, true) {
		logger.Debug("sweep: already in progress, skipping %s sweep", opts.Kind)
		return o.skip(report, domain.SkipDuplicate)
	}
	defer o.inProgress.Store(false)

	// A cancelled sweep must leave the cache as it was.
	if err := ctx.Err(); err != nil {
		logger.Debug("sweep: %s sweep not started: %v", opts.Kind, err)
		report.Cancelled = true
		report.EndedAt = o.now()
		return report
	}

	if !opts.Force && o.allCached(sources) {
		logger.Debug("sweep: all %d sources cached, nothing to fetch", len(sources))
		return o.skip(report, domain.SkipFresh)
	}

	pending := sources
	if opts.Force {
		o.cache.ClearAll()
	} else {
		pending = o.uncached(sources)
	}

	if len(pending) == 0 {
		return o.skip(report, domain.SkipNoSources)
	}

	size := opts.EffectiveBatchSize()
	logger.Info("sweep: fetching %d sources in batches of %d (force=%t)", len(pending), size, opts.Force)

	for start := 0; start < len(pending); start += size {
		if err := ctx.Err(); err != nil {
			logger.Warn("sweep: stopped before batch at %d: %v", start, err)
			report.Cancelled = true
			break
		}

		end := min(start+size, len(pending))
		batch := pending[start:end]

		outcomes := o.fetchBatch(ctx, batch)
		written := o.cache.MergeBatch(outcomes)

		report.Attempted += len(batch)
		report.Batches = append(report.Batches, len(batch))
		report.Updated = append(report.Updated, written...)
		for _, out := range outcomes {
			if !out.OK() && out.Err != nil {
				report.Failed[out.Source.ID] = out.Err.Error()
			}
		}
	}

	if ctx.Err() != nil {
		report.Cancelled = true
	}

	report.EndedAt = o.now()
	logger.Info("sweep: %d updated, %d failed in %s",
		len(report.Updated), len(report.Failed), report.Duration().Round(time.Millisecond))
	return report
}

// fetchBatch fetches every source in batch concurrently and waits for all
// of them. Outcomes are returned in batch order.
func (o *RefreshOrchestrator) fetchBatch(ctx context.Context, batch []domain.Source) []domain.FetchOutcome {
	outcomes := make([]domain.FetchOutcome, len(batch))

	var g errgroup.Group
	for i, source := range batch {
		g.Go(func() error {
			outcomes[i] = o.fetchOne(ctx, source)
			return nil
		})
	}
	_ = g.Wait() // fetchOne never returns an error to the group

	return outcomes
}

// fetchOne fetches a single source. It never fails; errors are folded into
// an absent outcome.
func (o *RefreshOrchestrator) fetchOne(ctx context.Context, source domain.Source) domain.FetchOutcome {
	out := domain.FetchOutcome{Source: source}

	if !source.HasURL() {
		out.Err = domain.ErrNoSourceURL
		return out
	}
	if o.fetcher == nil {
		out.Err = fmt.Errorf("%w: fetcher not configured", domain.ErrFetchFailed)
		return out
	}

	repo, err := o.fetcher.Fetch(ctx, source.URL)
	switch {
	case err != nil:
		logger.Warn("sweep: failed to fetch %s (%s): %v", source.ID, source.URL, err)
		out.Err = fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	case repo == nil:
		out.Err = fmt.Errorf("%w: empty document", domain.ErrFetchFailed)
	default:
		logger.Debug("sweep: fetched %s", source.ID)
		out.Repository = repo
	}
	return out
}

// allCached reports whether every source already has a cache entry.
func (o *RefreshOrchestrator) allCached(sources []domain.Source) bool {
	for i := range sources {
		if !o.cache.Has(sources[i].ID) {
			return false
		}
	}
	return true
}

// uncached returns the sources without a cache entry, in input order.
func (o *RefreshOrchestrator) uncached(sources []domain.Source) []domain.Source {
	var result []domain.Source
	for i := range sources {
		if !o.cache.Has(sources[i].ID) {
			result = append(result, sources[i])
		}
	}
	return result
}

func (o *RefreshOrchestrator) skip(report *domain.SweepReport, reason domain.SkipReason) *domain.SweepReport {
	report.Skipped = true
	report.SkipReason = reason
	report.EndedAt = o.now()
	return report
}
