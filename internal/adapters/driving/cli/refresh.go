package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [source-id...]",
	Short: "Fetch repository sources",
	Long: `Fetches repository documents into the cache.

Without --force only sources that are not cached yet are fetched.
With --force every selected source is fetched again; when no source IDs
are given this is recorded as a manual refresh. The repositories cached
by the run are listed afterwards.`,
	RunE: runRefresh,
}

var refreshForce bool

func init() {
	refreshCmd.Flags().BoolVarP(&refreshForce, "force", "f", false, "re-fetch sources even when cached")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if refreshForce && len(args) == 0 {
		if refreshScheduler == nil {
			return errors.New("refresh scheduler not configured")
		}
		report, err := refreshScheduler.RefreshNow(ctx)
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		printReport(out, report)
		printCache(cmd)
		return nil
	}

	if refreshOrchestrator == nil {
		return errors.New("refresh orchestrator not configured")
	}
	sources, err := selectSources(cmd, args)
	if err != nil {
		return err
	}

	var report *domain.SweepReport
	if refreshForce {
		report = refreshOrchestrator.Refresh(ctx, sources, configuredBatchSize())
	} else {
		report = refreshOrchestrator.EnsureFetched(ctx, sources, configuredBatchSize())
	}
	printReport(out, report)
	printCache(cmd)
	return nil
}

// printCache lists what this process holds in its cache after a refresh.
func printCache(cmd *cobra.Command) {
	if refreshOrchestrator == nil {
		return
	}
	entries := refreshOrchestrator.Entries()
	if len(entries) == 0 {
		return
	}

	now := time.Now()
	human := isTerminal(cmd.OutOrStdout())

	cmd.Println()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tREPOSITORY\tSIZE\tFETCHED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Source.ID, valueOrDash(e.Repository.Name),
			formatSize(len(e.Repository.Payload)), formatWhen(e.LastUpdated, now, human))
	}
	_ = w.Flush()
}

// selectSources resolves the given IDs, or lists every source when none
// are given.
func selectSources(cmd *cobra.Command, ids []string) ([]domain.Source, error) {
	if sourceService == nil {
		return nil, errors.New("source service not configured")
	}
	ctx := cmd.Context()

	if len(ids) == 0 {
		sources, err := sourceService.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sources: %w", err)
		}
		return sources, nil
	}

	sources := make([]domain.Source, 0, len(ids))
	var errs []error
	for _, id := range ids {
		src, err := sourceService.Get(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("source %s: %w", id, err))
			continue
		}
		sources = append(sources, *src)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return sources, nil
}

// configuredBatchSize returns the batch size from settings, or zero to
// let the orchestrator use its default.
func configuredBatchSize() int {
	if settingsService == nil {
		return 0
	}
	settings, err := settingsService.Get()
	if err != nil || settings == nil {
		return 0
	}
	return settings.BatchSize
}
