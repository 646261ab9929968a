package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage refresh settings",
	Long: `View and configure automatic refresh.

Settings are stored in ~/.repocache/config.toml. A running daemon picks
changes up without a restart.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsAutoRefreshCmd = &cobra.Command{
	Use:       "auto-refresh <on|off>",
	Short:     "Enable or disable periodic refresh",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runSettingsAutoRefresh,
}

var settingsOnLaunchCmd = &cobra.Command{
	Use:       "on-launch <on|off>",
	Short:     "Enable or disable the refresh when the daemon starts",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runSettingsOnLaunch,
}

var settingsIntervalCmd = &cobra.Command{
	Use:   "interval <duration>",
	Short: "Set the period between automatic refreshes",
	Long: `Set the period between automatic refreshes as a duration such as
"4h" or "90m". The minimum is one minute.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsInterval,
}

var settingsBatchSizeCmd = &cobra.Command{
	Use:   "batch-size <n>",
	Short: "Set how many sources are fetched in parallel",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsBatchSize,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsAutoRefreshCmd)
	settingsCmd.AddCommand(settingsOnLaunchCmd)
	settingsCmd.AddCommand(settingsIntervalCmd)
	settingsCmd.AddCommand(settingsBatchSizeCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Println("[Refresh]")
	cmd.Printf("  Auto refresh: %s\n", onOff(settings.AutoRefresh))
	cmd.Printf("  On launch:    %s\n", onOff(settings.RefreshOnLaunch))
	cmd.Printf("  Interval:     %s\n", settings.Interval)
	cmd.Printf("  Batch size:   %d\n", settings.BatchSize)
	return nil
}

func runSettingsAutoRefresh(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	enabled, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	if err := settingsService.SetAutoRefresh(enabled); err != nil {
		return fmt.Errorf("failed to set auto refresh: %w", err)
	}
	cmd.Printf("Auto refresh %s\n", onOff(enabled))
	return nil
}

func runSettingsOnLaunch(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	enabled, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	if err := settingsService.SetRefreshOnLaunch(enabled); err != nil {
		return fmt.Errorf("failed to set refresh on launch: %w", err)
	}
	cmd.Printf("Refresh on launch %s\n", onOff(enabled))
	return nil
}

func runSettingsInterval(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	interval, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", args[0], err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Interval = interval
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to set interval: %w", err)
	}
	cmd.Printf("Refresh interval set to %s\n", interval)
	return nil
}

func runSettingsBatchSize(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid batch size %q: %w", args[0], err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.BatchSize = size
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to set batch size: %w", err)
	}
	cmd.Printf("Batch size set to %d\n", size)
	return nil
}

// parseOnOff accepts on/off as well as anything strconv.ParseBool does.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "enable", "enabled":
		return true, nil
	case "off", "no", "disable", "disabled":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}
