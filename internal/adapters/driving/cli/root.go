// Package cli provides the repocache command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/repocache/internal/core/ports/driving"
	"github.com/custodia-labs/repocache/internal/logger"
)

var (
	version = "dev"
	verbose bool

	sourceService       driving.SourceService
	settingsService     driving.SettingsService
	refreshOrchestrator driving.RefreshOrchestrator
	refreshScheduler    driving.RefreshScheduler
	configWatcher       ConfigWatcher
)

// Services bundles the core services the commands drive.
type Services struct {
	Sources      driving.SourceService
	Settings     driving.SettingsService
	Orchestrator driving.RefreshOrchestrator
	Scheduler    driving.RefreshScheduler

	// Watcher is optional. When set, the daemon reloads settings on change.
	Watcher ConfigWatcher
}

var rootCmd = &cobra.Command{
	Use:   "repocache",
	Short: "Keep a live cache of repository sources",
	Long: `repocache fetches package repository documents from configured sources
and keeps them fresh, either on demand or in the background with the daemon.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logging to stderr")
}

// Configure sets the services used by every command.
func Configure(s Services) {
	sourceService = s.Sources
	settingsService = s.Settings
	refreshOrchestrator = s.Orchestrator
	refreshScheduler = s.Scheduler
	configWatcher = s.Watcher
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
