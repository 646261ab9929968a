package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/repocache/internal/core/domain"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
	"github.com/custodia-labs/repocache/internal/core/ports/driving"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations.
type SourceService struct {
	sourceStore driven.SourceStore
}

// NewSourceService creates a new source service.
func NewSourceService(sourceStore driven.SourceStore) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
	}
}

// Add creates a new source configuration.
func (s *SourceService) Add(ctx context.Context, source domain.Source) (*domain.Source, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}

	source.URL = strings.TrimSpace(source.URL)
	if err := validateSourceURL(source.URL); err != nil {
		return nil, err
	}
	if source.ID == "" {
		source.ID = uuid.New().String()
	}

	// Check if already exists
	existing, err := s.sourceStore.Get(ctx, source.ID)
	if err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, err
	}
	return s.sourceStore.Get(ctx, source.ID)
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sourceStore.Get(ctx, id)
}

// List returns all configured sources.
func (s *SourceService) List(ctx context.Context) ([]domain.Source, error) {
	if s.sourceStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sourceStore.List(ctx)
}

// Remove deletes a source. Its cache entry disappears with the next
// forced sweep.
func (s *SourceService) Remove(ctx context.Context, id string) error {
	if s.sourceStore == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.sourceStore.Get(ctx, id); err != nil {
		return err
	}
	return s.sourceStore.Delete(ctx, id)
}

// validateSourceURL accepts an empty URL or an absolute http(s) URL.
func validateSourceURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: url must have http or https scheme: %s", domain.ErrInvalidInput, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: url has no host: %s", domain.ErrInvalidInput, raw)
	}
	return nil
}
