package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

var showCmd = &cobra.Command{
	Use:   "show <source-id>",
	Short: "Show the cached repository for a source",
	Long: `Shows the repository document cached for a source, fetching it first
if it is not cached yet. Use --json to print only the document.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the raw repository document")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}
	if refreshOrchestrator == nil {
		return errors.New("refresh orchestrator not configured")
	}
	ctx := cmd.Context()

	src, err := sourceService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}

	repo, ok := refreshOrchestrator.Get(src.ID)
	if !ok {
		report := refreshOrchestrator.EnsureFetched(ctx, []domain.Source{*src}, configuredBatchSize())
		repo, ok = refreshOrchestrator.Get(src.ID)
		if !ok {
			reason := report.Failed[src.ID]
			if reason == "" && report.Skipped {
				reason = skipMessage(report.SkipReason)
			}
			return fmt.Errorf("no repository available for %s: %s", src.ID, reason)
		}
	}

	if showJSON {
		var out bytes.Buffer
		if err := json.Indent(&out, repo.Payload, "", "  "); err != nil {
			return fmt.Errorf("format repository: %w", err)
		}
		out.WriteByte('\n')
		_, err := cmd.OutOrStdout().Write(out.Bytes())
		return err
	}

	updated, _ := refreshOrchestrator.LastUpdated(src.ID)
	human := isTerminal(cmd.OutOrStdout())

	cmd.Printf("Source:       %s (%s)\n", src.ID, src.DisplayName())
	cmd.Printf("URL:          %s\n", repo.SourceURL)
	cmd.Printf("Name:         %s\n", valueOrDash(repo.Name))
	cmd.Printf("Identifier:   %s\n", valueOrDash(repo.Identifier))
	cmd.Printf("Size:         %s\n", formatSize(len(repo.Payload)))
	cmd.Printf("Last updated: %s\n", formatWhen(updated, time.Now(), human))
	return nil
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
