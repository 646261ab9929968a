package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/repocache/internal/logger"
)

// ConfigWatcher reloads configuration when it changes on disk.
type ConfigWatcher interface {
	// Watch blocks until ctx is done, calling onChange after each reload.
	Watch(ctx context.Context, onChange func()) error
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background refresh scheduler",
	Long: `Runs in the foreground, refreshing every source on the configured
interval while auto refresh is enabled. Settings changes are picked up
without a restart. Stop with Ctrl+C or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if refreshScheduler == nil {
		return errors.New("refresh scheduler not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.SetTimestamps(true)
	defer logger.SetTimestamps(false)

	// The watcher stops when the scheduler does.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		err := refreshScheduler.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if configWatcher != nil {
		g.Go(func() error {
			if err := configWatcher.Watch(ctx, refreshScheduler.Reload); err != nil {
				logger.Warn("daemon: config watch stopped: %v", err)
			}
			return nil
		})
	}

	cmd.Println("repocache daemon started, press Ctrl+C to stop")
	err := g.Wait()
	cmd.Println("repocache daemon stopped")
	return err
}
