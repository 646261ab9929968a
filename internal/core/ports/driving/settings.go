package driving

import "github.com/custodia-labs/repocache/internal/core/domain"

// SettingsService manages refresh settings.
type SettingsService interface {
	// Get retrieves current refresh settings.
	Get() (*domain.RefreshSettings, error)

	// Save persists refresh settings.
	Save(settings *domain.RefreshSettings) error

	// SetAutoRefresh enables or disables periodic refresh.
	SetAutoRefresh(enabled bool) error

	// SetRefreshOnLaunch enables or disables the refresh on start.
	SetRefreshOnLaunch(enabled bool) error

	// AutoRefreshEnabled reports the current auto-refresh flag.
	AutoRefreshEnabled() bool
}
