package driven

import (
	"context"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

// RepositoryFetcher turns a source URL into a parsed repository document.
// Implementations must honour ctx cancellation and be safe for concurrent use.
// Timeouts are the implementation's concern.
type RepositoryFetcher interface {
	// Fetch downloads and parses the document at url.
	Fetch(ctx context.Context, url string) (*domain.Repository, error)
}
