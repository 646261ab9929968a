package driving

import (
	"context"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

// RefreshScheduler drives automatic and manual refreshes of every
// configured source.
type RefreshScheduler interface {
	// Start arms the periodic timer.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop cancels the timer and waits for an in-flight tick.
	Stop() error

	// Reload re-reads settings, re-arming the timer if the interval changed.
	Reload()

	// RefreshNow force-refreshes every source and records a manual refresh.
	RefreshNow(ctx context.Context) (*domain.SweepReport, error)

	// History returns recorded refreshes of kind, most recent first.
	History(ctx context.Context, kind domain.RefreshKind, limit int) ([]domain.RefreshRecord, error)

	// Status returns bookkeeping for display.
	Status(ctx context.Context) (*domain.RefreshStatus, error)
}
