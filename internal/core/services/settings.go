package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/repocache/internal/core/domain"
	"github.com/custodia-labs/repocache/internal/core/ports/driven"
	"github.com/custodia-labs/repocache/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyAutoRefresh     = "refresh.auto_enabled"
	keyRefreshOnLaunch = "refresh.on_launch"
	keyInterval        = "refresh.interval"
	keyBatchSize       = "refresh.batch_size"
)

// SettingsService manages refresh settings stored in a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current refresh settings. Missing or invalid values fall
// back to defaults.
func (s *SettingsService) Get() (*domain.RefreshSettings, error) {
	defaults := domain.DefaultRefreshSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.RefreshSettings{
		AutoRefresh:     s.getBool(keyAutoRefresh, defaults.AutoRefresh),
		RefreshOnLaunch: s.getBool(keyRefreshOnLaunch, defaults.RefreshOnLaunch),
		Interval:        s.getDuration(keyInterval, defaults.Interval),
		BatchSize:       s.getInt(keyBatchSize, defaults.BatchSize),
	}
	if settings.BatchSize < 1 {
		settings.BatchSize = defaults.BatchSize
	}

	return settings, nil
}

// Save persists refresh settings.
func (s *SettingsService) Save(settings *domain.RefreshSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keyAutoRefresh, settings.AutoRefresh); err != nil {
		return fmt.Errorf("save auto refresh: %w", err)
	}
	if err := s.configStore.Set(keyRefreshOnLaunch, settings.RefreshOnLaunch); err != nil {
		return fmt.Errorf("save refresh on launch: %w", err)
	}
	if err := s.configStore.Set(keyInterval, settings.Interval.String()); err != nil {
		return fmt.Errorf("save interval: %w", err)
	}
	if err := s.configStore.Set(keyBatchSize, settings.BatchSize); err != nil {
		return fmt.Errorf("save batch size: %w", err)
	}
	return nil
}

// SetAutoRefresh enables or disables periodic refresh.
func (s *SettingsService) SetAutoRefresh(enabled bool) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	return s.configStore.Set(keyAutoRefresh, enabled)
}

// SetRefreshOnLaunch enables or disables the refresh on start.
func (s *SettingsService) SetRefreshOnLaunch(enabled bool) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	return s.configStore.Set(keyRefreshOnLaunch, enabled)
}

// AutoRefreshEnabled reports the current auto-refresh flag.
func (s *SettingsService) AutoRefreshEnabled() bool {
	if s.configStore == nil {
		return domain.DefaultRefreshSettings().AutoRefresh
	}
	return s.getBool(keyAutoRefresh, true)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getDuration parses a Go duration string such as "4h" or "90m".
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < time.Minute {
		return defaultVal
	}
	return d
}
