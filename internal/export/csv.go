package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"tt-go/internal/track"
)

// csvHeader is the spreadsheet column set: one row per time record, the
// deviation columns derived from the record's baseline snapshot.
var csvHeader = []string{
	"timestamp",
	"employee",
	"task",
	"baseline_minutes",
	"actual_minutes",
	"deviation_minutes",
	"deviation_percent",
	"status",
}

// WriteCSV renders record views as CSV, one row per record plus a header.
func WriteCSV(w io.Writer, records []*track.RecordView) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.RecordedAt.Format(time.DateTime),
			r.Employee,
			r.Task,
			formatMinutes(r.BaselineMinutes),
			formatMinutes(r.ActualMinutes),
			formatMinutes(r.Deviation.AbsoluteMinutes),
			formatMinutes(r.Deviation.Percent),
			string(r.Deviation.Category),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// formatMinutes renders a minutes (or percent) value with two decimals,
// matching the precision the submission form accepts.
func formatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
