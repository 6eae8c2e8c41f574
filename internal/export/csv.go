// Package export renders run results to CSV and XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/clinic-scheduler/internal/model"
)

const csvDateLayout = "2006-01-02"

func weekLabel(wk model.WeekKey) string {
	return fmt.Sprintf("%d-W%02d", wk.Year, wk.Week)
}

// WriteScheduleCSV writes the session-level table: one row per session with
// the assigned providers joined by semicolons.
func WriteScheduleCSV(w io.Writer, rows []model.ScheduleRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "day_of_week", "session", "providers", "count"}); err != nil {
		return eris.Wrap(err, "export: write schedule header")
	}
	for _, row := range rows {
		rec := []string{
			row.Date.Format(csvDateLayout),
			row.DayOfWeek,
			row.Session,
			strings.Join(row.Providers, "; "),
			strconv.Itoa(row.Count),
		}
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "export: write schedule row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush schedule")
}

// WriteProviderSummaryCSV writes the weekly load table: one column per ISO
// week plus totals.
func WriteProviderSummaryCSV(w io.Writer, rows []model.ProviderSummaryRow) error {
	cw := csv.NewWriter(w)

	header := []string{"provider"}
	if len(rows) > 0 {
		for _, pw := range rows[0].Weeks {
			header = append(header, weekLabel(pw.Week))
		}
	}
	header = append(header, "total_sessions", "total_am", "total_pm", "mon_fri_off_weeks")
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write provider header")
	}

	for _, row := range rows {
		rec := []string{row.Provider}
		for _, pw := range row.Weeks {
			rec = append(rec, strconv.Itoa(pw.Sessions))
		}
		rec = append(rec,
			strconv.Itoa(row.TotalSessions),
			strconv.Itoa(row.TotalAM),
			strconv.Itoa(row.TotalPM),
			strconv.Itoa(row.MondayFridayOff),
		)
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "export: write provider row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush provider summary")
}

// WriteCallSummaryCSV writes the weekly call table.
func WriteCallSummaryCSV(w io.Writer, rows []model.CallSummaryRow) error {
	cw := csv.NewWriter(w)

	header := []string{"provider"}
	if len(rows) > 0 {
		for _, cwk := range rows[0].Weeks {
			header = append(header, weekLabel(cwk.Week))
		}
	}
	header = append(header, "total_calls")
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write call header")
	}

	for _, row := range rows {
		rec := []string{row.Provider}
		for _, cwk := range row.Weeks {
			rec = append(rec, strconv.Itoa(cwk.Calls))
		}
		rec = append(rec, strconv.Itoa(row.TotalCalls))
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "export: write call row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush call summary")
}
