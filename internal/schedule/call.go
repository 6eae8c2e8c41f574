package schedule

import (
	"fmt"
	"time"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/solver"
)

// AddCallConstraints encodes the call rules:
//   - exactly one provider on call each call night
//   - no call on leave days, the day before leave, or around inpatient service
//   - fracture-clinic providers stay off Tuesday call
//   - holiday pairing: a Monday-Thursday holiday shares its provider with the
//     night before; a Friday holiday pairs Thursday with the following Sunday
//   - no back-to-back nights Sunday-Thursday, except in weeks where holiday
//     pairing takes over
//   - a second night within one Sunday-Thursday stretch is penalized
//   - rolling 28-day call counts respect per-provider monthly limits
//   - the afternoon after a call night stays clear
func AddCallConstraints(sp *Space, leave []model.LeaveRequest, starts []model.InpatientStart, days []model.InpatientDay) {
	if !sp.Config().HasCall() {
		return
	}
	m := sp.Model()
	callDates := sp.Calendar().CallDates()

	for _, d := range callDates {
		_, vars := sp.CallVars(d)
		if len(vars) > 0 {
			m.AddLinear(solver.Sum(vars...), 1, 1)
		}
	}

	leaveBlocked := leaveBlockedCallDates(leave)
	inpatientBlocked := inpatientBlockedDates(starts, days, sp.Config())
	for _, d := range callDates {
		providers, vars := sp.CallVars(d)
		for i, provider := range providers {
			if leaveBlocked[provider][d] || inpatientBlocked[provider][d] {
				m.FixZero(vars[i])
			}
			if d.Weekday() == time.Tuesday && sp.Config().Providers[provider].FractureClinic {
				m.FixZero(vars[i])
			}
		}
	}

	blockedCall := func(provider string, d time.Time) bool {
		return leaveBlocked[provider][d] || inpatientBlocked[provider][d]
	}
	addHolidayPairing(sp, blockedCall)
	addBackToBackBans(sp, callDates)
	addMultiCallPenalties(sp, callDates)
	addMonthlyCallLimits(sp, callDates)
	addPostCallAfternoonBlocks(sp, callDates)
}

// addHolidayPairing forces the same provider onto both nights of each
// holiday pair, for providers schedulable and unblocked on both.
func addHolidayPairing(sp *Space, blocked func(string, time.Time) bool) {
	for _, h := range sp.Config().HolidayDates {
		h = calendar.Normalize(h)
		var first, second time.Time
		switch h.Weekday() {
		case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
			first, second = h.AddDate(0, 0, -1), h
		case time.Friday:
			first, second = h.AddDate(0, 0, -1), h.AddDate(0, 0, 2)
		default:
			continue
		}
		for _, provider := range sp.Providers() {
			a, okA := sp.Call(provider, first)
			b, okB := sp.Call(provider, second)
			if !okA || !okB || blocked(provider, first) || blocked(provider, second) {
				continue
			}
			sp.Model().AddLinear(solver.Sum(a).Plus(b, -1), 0, 0)
		}
	}
}

// sunThuWeeks groups Sunday-Thursday call dates by scheduling week.
func sunThuWeeks(callDates []time.Time) ([]time.Time, map[time.Time][]time.Time) {
	byWeek := make(map[time.Time][]time.Time)
	var order []time.Time
	for _, d := range callDates {
		if d.Weekday() == time.Friday || d.Weekday() == time.Saturday {
			continue
		}
		wk := calendar.WeekOf(d)
		if _, seen := byWeek[wk]; !seen {
			order = append(order, wk)
		}
		byWeek[wk] = append(byWeek[wk], d)
	}
	return order, byWeek
}

func (s *Space) holidaySet() map[time.Time]bool {
	out := make(map[time.Time]bool, len(s.cfg.HolidayDates))
	for _, h := range s.cfg.HolidayDates {
		out[calendar.Normalize(h)] = true
	}
	return out
}

func addBackToBackBans(sp *Space, callDates []time.Time) {
	holidays := sp.holidaySet()
	order, byWeek := sunThuWeeks(callDates)
	for _, wk := range order {
		dates := byWeek[wk]
		if weekHasMonThuHoliday(dates, holidays) {
			continue
		}
		for i := 0; i+1 < len(dates); i++ {
			if dates[i+1].Sub(dates[i]) != 24*time.Hour {
				continue
			}
			for _, provider := range sp.Providers() {
				a, okA := sp.Call(provider, dates[i])
				b, okB := sp.Call(provider, dates[i+1])
				if okA && okB {
					sp.Model().AddLinear(solver.Sum(a, b), solver.NoLower, 1)
				}
			}
		}
	}
}

func weekHasMonThuHoliday(dates []time.Time, holidays map[time.Time]bool) bool {
	for _, d := range dates {
		if holidays[d] {
			switch d.Weekday() {
			case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
				return true
			}
		}
	}
	return false
}

func addMultiCallPenalties(sp *Space, callDates []time.Time) {
	holidays := sp.holidaySet()
	order, byWeek := sunThuWeeks(callDates)
	for _, wk := range order {
		dates := byWeek[wk]
		holidayWeek := false
		for _, d := range dates {
			if holidays[d] {
				holidayWeek = true
			}
		}
		for _, provider := range sp.Providers() {
			var vars []solver.Var
			for _, d := range dates {
				if v, ok := sp.Call(provider, d); ok {
					vars = append(vars, v)
				}
			}
			if len(vars) < 2 {
				continue
			}
			p := sp.Model().NewInt(
				fmt.Sprintf("multi_call_%s_%s", provider, wk.Format("2006-01-02")),
				0, int64(len(vars)-1),
			)
			sp.Model().AddLinear(solver.Sum(vars...).Plus(p, -1), solver.NoLower, 1)
			if !holidayWeek {
				sp.Model().Minimize(solver.LinearExpr{}.Plus(p, penaltyWeight))
			}
		}
	}
}

// addMonthlyCallLimits caps call counts in every 28-day window that fits the
// horizon, for providers with a configured monthly limit.
func addMonthlyCallLimits(sp *Space, callDates []time.Time) {
	if len(callDates) == 0 {
		return
	}
	last := callDates[len(callDates)-1]
	for _, provider := range sp.Providers() {
		limit := sp.Config().Providers[provider].MaxCallsPerMonth
		if limit == nil || *limit <= 0 {
			continue
		}
		for _, startDate := range callDates {
			endDate := startDate.AddDate(0, 0, 27)
			if endDate.After(last) {
				continue
			}
			var vars []solver.Var
			for _, d := range callDates {
				if d.Before(startDate) || d.After(endDate) {
					continue
				}
				if v, ok := sp.Call(provider, d); ok {
					vars = append(vars, v)
				}
			}
			if len(vars) > 0 {
				sp.Model().AddLinear(solver.Sum(vars...), solver.NoLower, int64(*limit))
			}
		}
	}
}

func addPostCallAfternoonBlocks(sp *Space, callDates []time.Time) {
	for _, d := range callDates {
		next := d.AddDate(0, 0, 1)
		if !sp.Calendar().HasSession(next, model.SessionAfternoon) {
			continue
		}
		for _, provider := range sp.Providers() {
			callVar, okCall := sp.Call(provider, d)
			pmVar, okPM := sp.Clinic(provider, next, model.SessionAfternoon)
			if okCall && okPM {
				sp.Model().AddLinear(solver.Sum(callVar, pmVar), solver.NoLower, 1)
			}
		}
	}
}
