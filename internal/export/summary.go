package export

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"tt-go/internal/track"
)

// WriteSummary renders the plain-text performance report: a per-task
// comparison of average actual time against the current baseline, followed
// by the full record listing.
func WriteSummary(w io.Writer, perfs []*track.TaskPerformance, records []*track.RecordView, thresholdPercent float64) error {
	fmt.Fprintf(w, "Task time report, generated %s\n", time.Now().Format(time.DateTime))
	fmt.Fprintf(w, "Critical deviation threshold: %.0f%%\n\n", thresholdPercent)

	if len(records) == 0 {
		fmt.Fprintln(w, "No records.")
		return nil
	}

	fmt.Fprintln(w, "Performance by task")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tRECORDS\tAVG ACTUAL\tBASELINE\tAVG DEVIATION")
	for _, p := range perfs {
		fmt.Fprintf(tw, "%s\t%d\t%.1f min\t%.1f min\t%+.1f%%\n",
			p.Task, p.RecordCount, p.AvgActualMinutes, p.BaselineMinutes, p.AvgDeviationPct)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing performance table: %w", err)
	}

	fmt.Fprintln(w, "\nRecords")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tEMPLOYEE\tTASK\tBASELINE\tACTUAL\tDEVIATION\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.1f\t%+.1f\t%s\n",
			r.RecordedAt.Format(time.DateTime), r.Employee, r.Task,
			r.BaselineMinutes, r.ActualMinutes, r.Deviation.AbsoluteMinutes,
			r.Deviation.Category)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing record table: %w", err)
	}

	return nil
}
