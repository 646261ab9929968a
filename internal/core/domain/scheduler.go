package domain

import "time"

// RefreshRecord is the persisted outcome of a completed sweep.
type RefreshRecord struct {
	// Kind is the bookkeeping key the sweep is recorded under.
	Kind RefreshKind

	// StartedAt is when the sweep started.
	StartedAt time.Time

	// EndedAt is when the sweep completed.
	EndedAt time.Time

	// Attempted is the number of sources considered.
	Attempted int

	// Updated is the number of sources whose entries were written.
	Updated int

	// Failed is the number of sources that ended up absent.
	Failed int
}

// NewRefreshRecord summarises a sweep report for persistence.
func NewRefreshRecord(report *SweepReport) *RefreshRecord {
	return &RefreshRecord{
		Kind:      report.Kind.BookkeepingKind(),
		StartedAt: report.StartedAt,
		EndedAt:   report.EndedAt,
		Attempted: report.Attempted,
		Updated:   len(report.Updated),
		Failed:    len(report.Failed),
	}
}

// RefreshStatus summarises the scheduler for display.
type RefreshStatus struct {
	// LastAuto is when the last automatic refresh completed.
	LastAuto time.Time

	// LastManual is when the last manual refresh completed.
	LastManual time.Time

	// Running indicates a sweep is currently in progress.
	Running bool

	// Armed indicates the periodic timer is running.
	Armed bool

	// AutoEnabled mirrors the auto-refresh setting.
	AutoEnabled bool

	// Interval is the period between automatic refreshes.
	Interval time.Duration
}
