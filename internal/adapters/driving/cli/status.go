package cli

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show refresh status",
	Long: `Shows when sources were last refreshed automatically and manually,
the auto-refresh settings and the configured sources.

The cache itself lives in the process that filled it (the daemon, or a
single refresh run), so status reports persisted bookkeeping only.
Use --history to list recent recorded refreshes.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var statusHistory int

func init() {
	statusCmd.Flags().IntVar(&statusHistory, "history", 0, "list the N most recent recorded refreshes")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if refreshScheduler == nil {
		return errors.New("refresh scheduler not configured")
	}
	if statusHistory < 0 {
		return fmt.Errorf("%w: --history must not be negative", domain.ErrInvalidInput)
	}
	ctx := cmd.Context()

	status, err := refreshScheduler.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	now := time.Now()
	human := isTerminal(cmd.OutOrStdout())

	cmd.Println("Refresh Status")
	cmd.Println("==============")
	cmd.Printf("Auto refresh:  %s (every %s)\n", onOff(status.AutoEnabled), status.Interval)
	cmd.Printf("Last auto:     %s\n", formatWhen(status.LastAuto, now, human))
	cmd.Printf("Last manual:   %s\n", formatWhen(status.LastManual, now, human))
	cmd.Printf("Sweep running: %s\n", yesNo(status.Running))

	if statusHistory > 0 {
		if err := printHistory(cmd, statusHistory, now, human); err != nil {
			return err
		}
	}

	if sourceService == nil {
		return nil
	}
	sources, err := sourceService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	cmd.Println()
	cmd.Printf("Sources: %d\n", len(sources))
	if len(sources) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tURL")
	for _, src := range sources {
		fmt.Fprintf(w, "%s\t%s\t%s\n", src.ID, src.DisplayName(), valueOrDash(src.URL))
	}
	return w.Flush()
}

// printHistory lists the most recent automatic and manual refreshes,
// newest first.
func printHistory(cmd *cobra.Command, limit int, now time.Time, human bool) error {
	ctx := cmd.Context()

	var records []domain.RefreshRecord
	var errs []error
	for _, kind := range []domain.RefreshKind{domain.RefreshAuto, domain.RefreshManual} {
		recs, err := refreshScheduler.History(ctx, kind, limit)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, recs...)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].EndedAt.After(records[j].EndedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}

	cmd.Println()
	cmd.Printf("Recent refreshes: %d\n", len(records))
	if len(records) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tFINISHED\tTOOK\tATTEMPTED\tUPDATED\tFAILED")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.Kind, formatWhen(r.EndedAt, now, human),
			r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond),
			r.Attempted, r.Updated, r.Failed)
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
