package schedule

import (
	"fmt"
	"time"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/solver"
)

// AddRDOConstraints requires at least one eligible weekday per scheduling
// week with all of the provider's sessions off. Weeks already broken up by leave,
// inpatient service, or (for MD/DO roles) a holiday satisfy the requirement
// through those days and are skipped. A configured weekday preference charges
// a penalty when the day off lands elsewhere while the preferred day was
// available that week. Taking the day off right after a call night is allowed
// but penalized.
func AddRDOConstraints(sp *Space, leave []model.LeaveRequest, days []model.InpatientDay, committed *model.Commitments) {
	cfg := sp.Config()
	eligible := make(map[time.Weekday]bool, len(cfg.RandomDayOff.EligibleDays))
	for _, name := range cfg.RandomDayOff.EligibleDays {
		wd, err := calendar.ParseWeekday(name)
		if err != nil {
			continue
		}
		eligible[wd] = true
	}
	if len(eligible) == 0 {
		return
	}

	blocked := mergeWeekSets(leaveWeeks(leave), inpatientWeeks(days))
	holidayWeeks := make(map[time.Time]bool, len(cfg.HolidayDates))
	for _, h := range cfg.HolidayDates {
		holidayWeeks[calendar.WeekOf(h)] = true
	}

	weekOrder, daysByWeek := sp.Calendar().DaysByWeek()
	for _, provider := range sp.Providers() {
		p := cfg.Providers[provider]
		if !p.RequiresRDO() {
			continue
		}
		prefDay, prefErr := calendar.ParseWeekday(p.RDOPreference)
		hasPref := p.RDOPreference != "" && prefErr == nil

		for _, wk := range weekOrder {
			if blocked[provider][wk] {
				continue
			}
			if holidayWeeks[wk] && (p.Role == "MD" || p.Role == "DO") {
				continue
			}

			var candidates []time.Time
			for _, d := range daysByWeek[wk] {
				if !eligible[d.Weekday()] {
					continue
				}
				if committed.BusyOn(provider, d) {
					continue
				}
				if len(sp.DayVars(provider, d)) == 0 {
					continue
				}
				candidates = append(candidates, d)
			}
			if len(candidates) == 0 {
				continue
			}

			prefAvailable := false
			if hasPref {
				for _, d := range candidates {
					if d.Weekday() == prefDay {
						prefAvailable = true
						break
					}
				}
			}

			var indicators []solver.Var
			for _, d := range candidates {
				r := sp.addDayOffIndicator(provider, d, committed)
				if prefAvailable && d.Weekday() != prefDay {
					sp.Model().Minimize(solver.LinearExpr{}.Plus(r, preferenceWeight))
				}
				indicators = append(indicators, r)
			}
			sp.Model().AddLinear(solver.Sum(indicators...), 1, solver.NoUpper)
		}
	}
}

// addDayOffIndicator creates r with r = 1 iff every session of the provider's
// day is off, and charges a penalty when the day off lands right after call.
func (s *Space) addDayOffIndicator(provider string, date time.Time, committed *model.Commitments) solver.Var {
	sessions := s.DayVars(provider, date)
	k := int64(len(sessions))
	r := s.m.NewBool(fmt.Sprintf("%s_rdo_%s", provider, date.Format("2006-01-02")))

	daySum := solver.Sum(sessions...)
	s.m.AddLinear(daySum.Plus(r, k), solver.NoLower, k)
	s.m.AddLinear(daySum.Plus(r, 1), 1, solver.NoUpper)

	prev := date.AddDate(0, 0, -1)
	if committed.CalledOn(provider, prev) {
		s.m.Minimize(solver.LinearExpr{}.Plus(r, penaltyWeight))
	} else if callPrev, ok := s.Call(provider, prev); ok {
		q := s.m.NewBool(fmt.Sprintf("%s_post_call_rdo_%s", provider, date.Format("2006-01-02")))
		s.m.AddLinear(solver.Sum(callPrev, r).Plus(q, -1), solver.NoLower, 1)
		s.m.Minimize(solver.LinearExpr{}.Plus(q, penaltyWeight))
	}
	return r
}

func mergeWeekSets(sets ...map[string]map[time.Time]bool) map[string]map[time.Time]bool {
	out := make(map[string]map[time.Time]bool)
	for _, set := range sets {
		for provider, weeks := range set {
			if out[provider] == nil {
				out[provider] = make(map[time.Time]bool)
			}
			for wk := range weeks {
				out[provider][wk] = true
			}
		}
	}
	return out
}
