package schedule

import (
	"fmt"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/solver"
)

// AddSpecialtyConstraints staffs the specialty clinic: every clinic session
// on the designated weekday must include a capability-flagged provider, and
// a day split between two flagged providers (nobody covering both halves)
// is penalized.
func AddSpecialtyConstraints(sp *Space) {
	cfg := sp.Config()
	if cfg.SpecialtyDay == "" {
		return
	}
	specialtyWD, err := calendar.ParseWeekday(cfg.SpecialtyDay)
	if err != nil {
		return
	}
	var flagged []string
	for _, provider := range sp.Providers() {
		if cfg.Providers[provider].FractureClinic {
			flagged = append(flagged, provider)
		}
	}
	if len(flagged) == 0 {
		return
	}

	m := sp.Model()
	for _, d := range sp.Calendar().Days() {
		if d.Weekday() != specialtyWD {
			continue
		}

		for _, session := range sp.Calendar().Sessions(d) {
			if !model.IsClinicSession(session) {
				continue
			}
			var vars []solver.Var
			for _, provider := range flagged {
				if v, ok := sp.Clinic(provider, d, session); ok {
					vars = append(vars, v)
				}
			}
			if len(vars) > 0 {
				m.AddLinear(solver.Sum(vars...), 1, solver.NoUpper)
			}
		}

		if !sp.Calendar().HasSession(d, model.SessionMorning) ||
			!sp.Calendar().HasSession(d, model.SessionAfternoon) {
			continue
		}
		var fullDay []solver.Var
		for _, provider := range flagged {
			am, okAM := sp.Clinic(provider, d, model.SessionMorning)
			pm, okPM := sp.Clinic(provider, d, model.SessionAfternoon)
			if !okAM || !okPM {
				continue
			}
			fd := m.NewBool(fmt.Sprintf("%s_full_day_%s", provider, d.Format("2006-01-02")))
			m.AddLinear(solver.Sum(fd).Plus(am, -1), solver.NoLower, 0)
			m.AddLinear(solver.Sum(fd).Plus(pm, -1), solver.NoLower, 0)
			fullDay = append(fullDay, fd)
		}
		if len(fullDay) == 0 {
			continue
		}
		pen := m.NewBool(fmt.Sprintf("specialty_split_%s", d.Format("2006-01-02")))
		m.AddLinear(solver.Sum(fullDay...).Plus(pen, 1), 1, solver.NoUpper)
		m.Minimize(solver.LinearExpr{}.Plus(pen, penaltyWeight))
	}
}
