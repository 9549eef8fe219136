package helpers

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/retest-go/internal/domain"
)

// DisplayHistoryStats prints a summary of the execution log.
func DisplayHistoryStats(out io.Writer, stats domain.HistoryStats, now time.Time) {
	fmt.Fprintf(out, "Distinct pairs: %d\nTotal runs: %d\n", stats.Records, stats.Runs)

	fmt.Fprintln(out, "Last operation per pair:")
	for _, op := range domain.Operations {
		fmt.Fprintf(out, "  %s: %d\n", op, stats.ByOperation[op])
	}

	if stats.Records == 0 {
		return
	}
	fmt.Fprintf(out, "Most run: RE: \"%s\" str: \"%s\" (%s)\n",
		stats.Busiest.Pattern,
		stats.Busiest.Subject,
		pluralRuns(stats.Busiest.Count))
	fmt.Fprintf(out, "Last run: %s\n", humanize.RelTime(stats.Newest, now, "ago", "from now"))
}

func pluralRuns(n uint32) string {
	if n == 1 {
		return "1 run"
	}
	return humanize.Comma(int64(n)) + " runs"
}
