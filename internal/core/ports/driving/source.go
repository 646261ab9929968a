package driving

import (
	"context"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

// SourceService manages source configurations.
type SourceService interface {
	// Add creates a new source configuration.
	// An ID is generated when source.ID is empty. Returns the stored source.
	Add(ctx context.Context, source domain.Source) (*domain.Source, error)

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)

	// Remove deletes a source.
	Remove(ctx context.Context, id string) error
}
