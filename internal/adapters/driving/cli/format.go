package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/custodia-labs/repocache/internal/core/domain"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// formatWhen renders t relative to now for people and as RFC 3339 for
// scripts. The zero time renders as "never".
func formatWhen(t, now time.Time, human bool) string {
	if t.IsZero() {
		return "never"
	}
	if human {
		return humanize.RelTime(t, now, "ago", "from now")
	}
	return t.UTC().Format(time.RFC3339)
}

// formatSize renders a payload size.
func formatSize(n int) string {
	return humanize.Bytes(uint64(n))
}

// onOff renders a boolean setting.
func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// printReport summarises a sweep.
func printReport(w io.Writer, report *domain.SweepReport) {
	if report == nil {
		return
	}
	if report.Skipped {
		fmt.Fprintf(w, "Refresh skipped: %s\n", skipMessage(report.SkipReason))
		return
	}

	fmt.Fprintf(w, "Refreshed %d source(s) in %d batch(es): %d updated, %d failed (%s)\n",
		report.Attempted, len(report.Batches), len(report.Updated), len(report.Failed),
		report.Duration().Round(time.Millisecond))
	for _, id := range report.Updated {
		fmt.Fprintf(w, "  ok    %s\n", id)
	}
	for _, id := range report.FailedIDs() {
		fmt.Fprintf(w, "  fail  %s: %s\n", id, report.Failed[id])
	}
	if report.Cancelled {
		fmt.Fprintf(w, "Refresh cancelled before all batches completed.\n")
	}
}

func skipMessage(reason domain.SkipReason) string {
	switch reason {
	case domain.SkipDuplicate:
		return "another refresh is already running"
	case domain.SkipFresh:
		return "every source is already cached"
	case domain.SkipNoSources:
		return "no sources configured"
	default:
		return string(reason)
	}
}
