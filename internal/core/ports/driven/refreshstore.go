package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

// RefreshStore persists refresh bookkeeping so the time of the last
// automatic and manual refresh survives restarts.
type RefreshStore interface {
	// RecordRefresh logs a completed sweep under record.Kind.
	RecordRefresh(ctx context.Context, record *domain.RefreshRecord) error

	// LastRefresh returns when the most recent sweep of kind completed.
	// Returns the zero time and no error if none has been recorded.
	LastRefresh(ctx context.Context, kind domain.RefreshKind) (time.Time, error)

	// History returns recent records for kind.
	// Results are ordered by end time descending (most recent first).
	History(ctx context.Context, kind domain.RefreshKind, limit int) ([]domain.RefreshRecord, error)

	// PruneHistory removes old records beyond the retention limit.
	// Keeps the most recent 'keep' records per kind.
	PruneHistory(ctx context.Context, keep int) error
}
