package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage repository sources",
	Long:  `Add, list, and remove the repository sources kept in the cache.`,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a repository source",
	Long: `Add a repository source by URL.

Examples:
  repocache source add https://repo.example.com/apps.json
  repocache source add https://repo.example.com/apps.json --name "Example" --id example`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE:  runSourceList,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove <source-id>...",
	Short: "Remove one or more sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSourceRemove,
}

var (
	sourceAddName string
	sourceAddID   string
	sourceAddIcon string
	sourceRmYes   bool
)

func init() {
	sourceAddCmd.Flags().StringVar(&sourceAddName, "name", "", "display name for the source")
	sourceAddCmd.Flags().StringVar(&sourceAddID, "id", "", "source ID (generated when omitted)")
	sourceAddCmd.Flags().StringVar(&sourceAddIcon, "icon", "", "icon URL for the source")
	sourceRemoveCmd.Flags().BoolVarP(&sourceRmYes, "yes", "y", false, "do not ask for confirmation")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	source, err := sourceService.Add(cmd.Context(), domain.Source{
		ID:      sourceAddID,
		Name:    sourceAddName,
		URL:     args[0],
		IconURL: sourceAddIcon,
	})
	if err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	cmd.Printf("Added source %s (%s)\n", source.ID, source.DisplayName())
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sources, err := sourceService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources configured.")
		cmd.Println("Add one with: repocache source add <url>")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tURL")
	for _, src := range sources {
		url := src.URL
		if !src.HasURL() {
			url = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", src.ID, src.DisplayName(), url)
	}
	return w.Flush()
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	if !sourceRmYes && isTerminal(os.Stdin) {
		cmd.Printf("Remove %s? [y/N]: ", strings.Join(args, ", "))
		if !confirm(bufio.NewReader(cmd.InOrStdin())) {
			cmd.Println("Aborted.")
			return nil
		}
	}

	var errs []error
	for _, id := range args {
		if err := sourceService.Remove(cmd.Context(), id); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", id, err))
			continue
		}
		cmd.Printf("Removed source %s\n", id)
	}
	return errors.Join(errs...)
}

// confirm reads a yes/no answer, defaulting to no.
func confirm(reader *bufio.Reader) bool {
	input, _ := reader.ReadString('\n') //nolint:errcheck // EOF means no
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
