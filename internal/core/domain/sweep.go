package domain

import (
	"sort"
	"time"
)

// DefaultBatchSize is the number of sources fetched in parallel per batch.
const DefaultBatchSize = 4

// RefreshKind identifies what triggered a sweep.
type RefreshKind string

// Refresh kinds.
const (
	// RefreshAuto is a sweep started by the periodic scheduler tick.
	RefreshAuto RefreshKind = "auto"

	// RefreshLaunch is the sweep run when the scheduler starts.
	RefreshLaunch RefreshKind = "launch"

	// RefreshManual is a sweep explicitly requested by a user.
	RefreshManual RefreshKind = "manual"

	// RefreshEnsure is a non-forced sweep that only fills in missing entries.
	RefreshEnsure RefreshKind = "ensure"

	// RefreshSelected is a forced sweep of sources picked by the user.
	// It is not a full refresh and is never recorded.
	RefreshSelected RefreshKind = "selected"
)

// String returns the string representation.
func (k RefreshKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is recognised.
func (k RefreshKind) IsValid() bool {
	switch k {
	case RefreshAuto, RefreshLaunch, RefreshManual, RefreshEnsure, RefreshSelected:
		return true
	default:
		return false
	}
}

// BookkeepingKind maps a kind onto the bookkeeping key it is recorded under.
// Launch sweeps count as automatic refreshes.
func (k RefreshKind) BookkeepingKind() RefreshKind {
	if k == RefreshLaunch {
		return RefreshAuto
	}
	return k
}

// SkipReason explains why a sweep did no work.
type SkipReason string

// Skip reasons.
const (
	SkipNone      SkipReason = ""
	SkipDuplicate SkipReason = "duplicate"
	SkipFresh     SkipReason = "already_fresh"
	SkipNoSources SkipReason = "no_sources"
)

// SweepOptions controls a single sweep.
type SweepOptions struct {
	// Force clears the cache and attempts every source.
	Force bool

	// BatchSize bounds the number of concurrent fetches.
	// Values below 1 fall back to DefaultBatchSize.
	BatchSize int

	// Kind records what triggered the sweep.
	Kind RefreshKind
}

// EffectiveBatchSize returns the batch size to use.
func (o SweepOptions) EffectiveBatchSize() int {
	if o.BatchSize < 1 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

// SweepReport describes what a sweep did. It is informational only;
// sweeps never fail as a whole.
type SweepReport struct {
	Kind      RefreshKind
	Forced    bool
	StartedAt time.Time
	EndedAt   time.Time

	// Skipped is true when the sweep returned without contacting the network.
	Skipped    bool
	SkipReason SkipReason

	// Attempted counts sources considered, including those without a URL.
	Attempted int

	// Updated lists the IDs of sources whose entries were written.
	Updated []string

	// Failed maps source ID to the reason it ended up absent.
	Failed map[string]string

	// Batches holds the size of each batch, in processing order.
	Batches []int

	// Cancelled is true when the context ended before every batch ran.
	Cancelled bool
}

// Duration returns how long the sweep ran.
func (r *SweepReport) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// FailedIDs returns the IDs of failed sources in sorted order.
func (r *SweepReport) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
