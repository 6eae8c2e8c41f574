package export

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/clinic-scheduler/internal/model"
)

// WriteRunXLSX writes one workbook for a run: a schedule sheet and a provider
// summary sheet per department, plus a call sheet for call-bearing ones.
// Failed departments get their schedule sheets omitted.
func WriteRunXLSX(path string, run *model.Run) error {
	f := xlsx.NewFile()

	for _, dept := range run.Departments {
		if len(dept.Schedule) > 0 {
			if err := addScheduleSheet(f, dept); err != nil {
				return err
			}
		}
		if len(dept.ProviderSummary) > 0 {
			if err := addProviderSheet(f, dept); err != nil {
				return err
			}
		}
		if len(dept.CallSummary) > 0 {
			if err := addCallSheet(f, dept); err != nil {
				return err
			}
		}
	}

	return eris.Wrap(f.Save(path), "export: save workbook")
}

func addScheduleSheet(f *xlsx.File, dept model.DepartmentResult) error {
	sheet, err := f.AddSheet(dept.Department + " schedule")
	if err != nil {
		return eris.Wrapf(err, "export: add sheet for %s", dept.Department)
	}

	header := sheet.AddRow()
	for _, h := range []string{"date", "day_of_week", "session", "providers", "count"} {
		header.AddCell().Value = h
	}
	for _, row := range dept.Schedule {
		r := sheet.AddRow()
		r.AddCell().Value = row.Date.Format(csvDateLayout)
		r.AddCell().Value = row.DayOfWeek
		r.AddCell().Value = row.Session
		r.AddCell().Value = strings.Join(row.Providers, "; ")
		r.AddCell().SetInt(row.Count)
	}
	return nil
}

func addProviderSheet(f *xlsx.File, dept model.DepartmentResult) error {
	sheet, err := f.AddSheet(dept.Department + " providers")
	if err != nil {
		return eris.Wrapf(err, "export: add sheet for %s", dept.Department)
	}

	header := sheet.AddRow()
	header.AddCell().Value = "provider"
	for _, pw := range dept.ProviderSummary[0].Weeks {
		header.AddCell().Value = weekLabel(pw.Week)
	}
	for _, h := range []string{"total_sessions", "total_am", "total_pm", "mon_fri_off_weeks"} {
		header.AddCell().Value = h
	}

	for _, row := range dept.ProviderSummary {
		r := sheet.AddRow()
		r.AddCell().Value = row.Provider
		for _, pw := range row.Weeks {
			r.AddCell().Value = strconv.Itoa(pw.Sessions) + " (" + strconv.Itoa(pw.Consecutive) + ")"
		}
		r.AddCell().SetInt(row.TotalSessions)
		r.AddCell().SetInt(row.TotalAM)
		r.AddCell().SetInt(row.TotalPM)
		r.AddCell().SetInt(row.MondayFridayOff)
	}
	return nil
}

func addCallSheet(f *xlsx.File, dept model.DepartmentResult) error {
	sheet, err := f.AddSheet(dept.Department + " call")
	if err != nil {
		return eris.Wrapf(err, "export: add sheet for %s", dept.Department)
	}

	header := sheet.AddRow()
	header.AddCell().Value = "provider"
	for _, cw := range dept.CallSummary[0].Weeks {
		header.AddCell().Value = weekLabel(cw.Week)
	}
	header.AddCell().Value = "total_calls"

	for _, row := range dept.CallSummary {
		r := sheet.AddRow()
		r.AddCell().Value = row.Provider
		for _, cw := range row.Weeks {
			r.AddCell().SetInt(cw.Calls)
		}
		r.AddCell().SetInt(row.TotalCalls)
	}
	return nil
}
