// Package notify reports the outcome of a run, on the terminal and by e-mail.
package notify

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// SiteSummary is one site's line in the run summary. Valid and Invalid are
// -1 when the site was not validated.
type SiteSummary struct {
	Site     string
	State    string
	Records  int
	Skipped  int
	Valid    int
	Invalid  int
	Duration time.Duration
	Err      error
}

func summaryTable(rows []SiteSummary) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Site", "State", "Records", "Skipped", "Valid", "Invalid", "Duration", "Error"})
	for _, r := range rows {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		t.AppendRow(table.Row{
			r.Site, r.State, r.Records, r.Skipped,
			countOrDash(r.Valid), countOrDash(r.Invalid),
			r.Duration.Round(time.Second), errText,
		})
	}
	t.SetStyle(table.StyleRounded)
	return t
}

// PrintSummary renders the summary table to w.
func PrintSummary(w io.Writer, rows []SiteSummary) {
	t := summaryTable(rows)
	t.SetOutputMirror(w)
	t.Render()
}

func countOrDash(n int) string {
	if n < 0 {
		return "-"
	}
	return fmt.Sprint(n)
}
