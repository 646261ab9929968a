package domain

import (
	"fmt"
	"time"
)

// DefaultRefreshInterval is how often automatic refreshes run.
const DefaultRefreshInterval = 4 * time.Hour

// RefreshSettings holds user-configurable refresh behaviour.
type RefreshSettings struct {
	// AutoRefresh enables the periodic refresh.
	AutoRefresh bool

	// RefreshOnLaunch runs a refresh when the scheduler starts.
	RefreshOnLaunch bool

	// Interval is the period between automatic refreshes.
	Interval time.Duration

	// BatchSize bounds concurrent fetches per batch.
	BatchSize int
}

// DefaultRefreshSettings returns sensible defaults.
func DefaultRefreshSettings() RefreshSettings {
	return RefreshSettings{
		AutoRefresh:     true,
		RefreshOnLaunch: true,
		Interval:        DefaultRefreshInterval,
		BatchSize:       DefaultBatchSize,
	}
}

// Validate checks the settings are usable.
func (s *RefreshSettings) Validate() error {
	if s.Interval < time.Minute {
		return fmt.Errorf("%w: interval must be at least 1m, got %s", ErrInvalidInput, s.Interval)
	}
	if s.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidInput, s.BatchSize)
	}
	return nil
}
