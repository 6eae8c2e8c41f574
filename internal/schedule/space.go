// Package schedule builds and solves department scheduling models: a boolean
// decision space over (provider, date, session), a catalogue of constraint
// builders, the adaptive minimum-staffing search, and cross-department
// sequencing.
package schedule

import (
	"time"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/solver"
)

type clinicKey struct {
	provider string
	date     time.Time
	session  string
}

type callKey struct {
	provider string
	date     time.Time
}

// Space is the decision-variable space for one department model. One boolean
// per eligible (provider, date, session); lookups are O(1). Providers flagged
// friday_only receive variables only on Fridays.
type Space struct {
	cfg       *model.DepartmentConfig
	cal       *calendar.Calendar
	m         *solver.Model
	providers []string
	clinic    map[clinicKey]solver.Var
	call      map[callKey]solver.Var
}

// NewSpace creates every decision variable for the department. Creation
// order is provider (sorted) then date (chronological) then session, so
// models built from equal inputs are identical.
func NewSpace(m *solver.Model, cfg *model.DepartmentConfig, cal *calendar.Calendar) *Space {
	sp := &Space{
		cfg:       cfg,
		cal:       cal,
		m:         m,
		providers: cfg.ProviderNames(),
		clinic:    make(map[clinicKey]solver.Var),
		call:      make(map[callKey]solver.Var),
	}
	for _, provider := range sp.providers {
		p := cfg.Providers[provider]
		for _, d := range cal.Days() {
			if p.FridayOnly && d.Weekday() != time.Friday {
				continue
			}
			for _, session := range cal.Sessions(d) {
				name := provider + "_" + d.Format("2006-01-02") + "_" + session
				v := m.NewBool(name)
				if session == model.SessionCall {
					sp.call[callKey{provider, d}] = v
				} else {
					sp.clinic[clinicKey{provider, d, session}] = v
				}
			}
		}
	}
	return sp
}

// Model returns the solver model the space was built against.
func (s *Space) Model() *solver.Model { return s.m }

// Config returns the department configuration.
func (s *Space) Config() *model.DepartmentConfig { return s.cfg }

// Calendar returns the department calendar.
func (s *Space) Calendar() *calendar.Calendar { return s.cal }

// Providers returns the roster in lexicographic order.
func (s *Space) Providers() []string { return s.providers }

// Clinic returns the variable for a clinic session, if one was created.
func (s *Space) Clinic(provider string, date time.Time, session string) (solver.Var, bool) {
	v, ok := s.clinic[clinicKey{provider, date, session}]
	return v, ok
}

// Call returns the call variable for a provider and date, if one was created.
func (s *Space) Call(provider string, date time.Time) (solver.Var, bool) {
	v, ok := s.call[callKey{provider, date}]
	return v, ok
}

// SessionVars returns the variables of every provider eligible for the given
// clinic session, in provider-sorted order.
func (s *Space) SessionVars(date time.Time, session string) []solver.Var {
	var out []solver.Var
	for _, provider := range s.providers {
		if v, ok := s.Clinic(provider, date, session); ok {
			out = append(out, v)
		}
	}
	return out
}

// CallVars returns (provider, variable) pairs for a call date, in
// provider-sorted order.
func (s *Space) CallVars(date time.Time) ([]string, []solver.Var) {
	var names []string
	var vars []solver.Var
	for _, provider := range s.providers {
		if v, ok := s.Call(provider, date); ok {
			names = append(names, provider)
			vars = append(vars, v)
		}
	}
	return names, vars
}

// DayVars returns every variable a provider holds on a date, call included.
func (s *Space) DayVars(provider string, date time.Time) []solver.Var {
	var out []solver.Var
	for _, session := range s.cal.Sessions(date) {
		if session == model.SessionCall {
			if v, ok := s.Call(provider, date); ok {
				out = append(out, v)
			}
			continue
		}
		if v, ok := s.Clinic(provider, date, session); ok {
			out = append(out, v)
		}
	}
	return out
}

// ClinicDayVars returns a provider's clinic-session variables on a date.
func (s *Space) ClinicDayVars(provider string, date time.Time) []solver.Var {
	var out []solver.Var
	for _, session := range s.cal.Sessions(date) {
		if !model.IsClinicSession(session) {
			continue
		}
		if v, ok := s.Clinic(provider, date, session); ok {
			out = append(out, v)
		}
	}
	return out
}

// FixDayZero pins every variable the provider holds on the date to zero.
func (s *Space) FixDayZero(provider string, date time.Time) {
	for _, v := range s.DayVars(provider, date) {
		s.m.FixZero(v)
	}
}
