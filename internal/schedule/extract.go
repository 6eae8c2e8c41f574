package schedule

import (
	"time"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/solver"
)

// ExtractSchedule produces the session-level table from a solved assignment:
// one row per (date, session), chronological, with providers in sorted order.
func ExtractSchedule(sp *Space, res solver.Result) []model.ScheduleRow {
	var rows []model.ScheduleRow
	for _, d := range sp.Calendar().Days() {
		for _, session := range sp.Calendar().Sessions(d) {
			var assigned []string
			for _, provider := range sp.Providers() {
				var v solver.Var
				var ok bool
				if session == model.SessionCall {
					v, ok = sp.Call(provider, d)
				} else {
					v, ok = sp.Clinic(provider, d, session)
				}
				if ok && res.BoolValue(v) {
					assigned = append(assigned, provider)
				}
			}
			rows = append(rows, model.ScheduleRow{
				Date:      d,
				DayOfWeek: d.Weekday().String(),
				Session:   session,
				Providers: assigned,
				Count:     len(assigned),
			})
		}
	}
	return rows
}

// ExtractProviderSummary produces the provider-level weekly load table:
// per-ISO-week clinic session counts, the longest run of consecutive clinic
// sessions each week, and totals with AM/PM balance and Monday-or-Friday
// days off.
func ExtractProviderSummary(sp *Space, res solver.Result) []model.ProviderSummaryRow {
	weekOrder, daysByWeek := isoWeeks(sp.Calendar())

	var out []model.ProviderSummaryRow
	for _, provider := range sp.Providers() {
		row := model.ProviderSummaryRow{Provider: provider}

		for _, wk := range weekOrder {
			pw := model.ProviderWeek{Week: wk}
			run, bestRun := 0, 0
			weekMonFriOff := false

			for _, d := range daysByWeek[wk] {
				count := 0
				for _, session := range sp.Calendar().Sessions(d) {
					if session == model.SessionCall {
						continue
					}
					v, ok := sp.Clinic(provider, d, session)
					if !ok || !res.BoolValue(v) {
						// The streak breaks at any unworked session.
						run = 0
						continue
					}
					count++
					run++
					if run > bestRun {
						bestRun = run
					}
					if session == model.SessionMorning {
						row.TotalAM++
					} else {
						row.TotalPM++
					}
				}
				pw.Sessions += count

				if count == 0 && (d.Weekday() == time.Monday || d.Weekday() == time.Friday) {
					weekMonFriOff = true
				}
			}
			pw.Consecutive = bestRun
			row.Weeks = append(row.Weeks, pw)
			row.TotalSessions += pw.Sessions
			if weekMonFriOff {
				row.MondayFridayOff++
			}
		}
		out = append(out, row)
	}
	return out
}

// ExtractCallSummary produces the per-week call table for call-bearing
// departments, restricted to clinic-active providers.
func ExtractCallSummary(sp *Space, res solver.Result) []model.CallSummaryRow {
	if !sp.Config().HasCall() {
		return nil
	}
	weekOrder, daysByWeek := isoWeeks(sp.Calendar())

	var out []model.CallSummaryRow
	for _, provider := range sp.Providers() {
		if sp.Config().Providers[provider].MaxClinicsPerWeek <= 0 {
			continue
		}
		row := model.CallSummaryRow{Provider: provider}
		for _, wk := range weekOrder {
			cw := model.CallWeek{Week: wk}
			for _, d := range daysByWeek[wk] {
				if v, ok := sp.Call(provider, d); ok && res.BoolValue(v) {
					cw.Calls++
				}
			}
			row.Weeks = append(row.Weeks, cw)
			row.TotalCalls += cw.Calls
		}
		out = append(out, row)
	}
	return out
}

// ExtractCommitments collects the solved assignments of the given providers
// for injection into later departments.
func ExtractCommitments(sp *Space, res solver.Result, shared map[string]bool) *model.Commitments {
	out := model.NewCommitments()
	for _, provider := range sp.Providers() {
		if !shared[provider] {
			continue
		}
		for _, d := range sp.Calendar().Days() {
			for _, session := range sp.Calendar().Sessions(d) {
				if session == model.SessionCall {
					if v, ok := sp.Call(provider, d); ok && res.BoolValue(v) {
						out.AddCall(provider, d)
					}
					continue
				}
				if v, ok := sp.Clinic(provider, d, session); ok && res.BoolValue(v) {
					out.AddClinic(provider, d, session)
				}
			}
		}
	}
	return out
}

func isoWeeks(cal *calendar.Calendar) ([]model.WeekKey, map[model.WeekKey][]time.Time) {
	byWeek := make(map[model.WeekKey][]time.Time)
	var order []model.WeekKey
	for _, d := range cal.Days() {
		wk := calendar.ISOWeek(d)
		if _, seen := byWeek[wk]; !seen {
			order = append(order, wk)
		}
		byWeek[wk] = append(byWeek[wk], d)
	}
	return order, byWeek
}
