package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
)

func callDept() *model.DepartmentConfig {
	return &model.DepartmentConfig{
		Name:       "peds",
		ClinicDays: []string{"Tuesday"},
		ClinicSessions: map[string][]string{
			"Tuesday": {model.SessionMorning, model.SessionAfternoon},
		},
		CallDays: []string{"Tuesday"},
		Staffing: model.Staffing{MinProvidersPerSession: 1, MaxProvidersPerSession: 2},
		Providers: map[string]model.Provider{
			"Dr. X": {Role: "MD", MaxClinicsPerWeek: 4},
			"Dr. Y": {Role: "MD", MaxClinicsPerWeek: 4},
		},
	}
}

func clinicDept() *model.DepartmentConfig {
	return &model.DepartmentConfig{
		Name:       "family",
		ClinicDays: []string{"Wednesday"},
		ClinicSessions: map[string][]string{
			"Wednesday": {model.SessionMorning, model.SessionAfternoon},
		},
		Staffing: model.Staffing{MinProvidersPerSession: 1, MaxProvidersPerSession: 2},
		Providers: map[string]model.Provider{
			"Dr. X": {Role: "MD", MaxClinicsPerWeek: 4},
			"Dr. Y": {Role: "MD", MaxClinicsPerWeek: 4},
		},
	}
}

func TestSequencer_CallDepartmentBindsDownstream(t *testing.T) {
	seq := Sequencer{
		Start:  calendar.Date(2025, 8, 4),
		End:    calendar.Date(2025, 8, 8),
		Params: SearchParams{Seed: 42, TimeLimit: 30 * time.Second},
	}
	run, err := seq.Run(context.Background(), []Department{
		{Cfg: clinicDept(), DependsOn: []string{"peds"}},
		{Cfg: callDept()},
	})
	require.NoError(t, err)
	require.Len(t, run.Departments, 2)

	// Dependency order puts the call department first.
	assert.Equal(t, "peds", run.Departments[0].Department)
	assert.Equal(t, "family", run.Departments[1].Department)
	require.True(t, run.Departments[0].Record.Status.Usable())
	require.True(t, run.Departments[1].Record.Status.Usable())

	// Whoever carried Tuesday call is off the shared Wednesday afternoon.
	var onCall string
	for _, row := range run.Departments[0].Schedule {
		if row.Session == model.SessionCall {
			require.Len(t, row.Providers, 1)
			onCall = row.Providers[0]
		}
	}
	require.NotEmpty(t, onCall)
	for _, row := range run.Departments[1].Schedule {
		if row.Session == model.SessionAfternoon {
			assert.NotContains(t, row.Providers, onCall)
		}
	}
}

func TestSequencer_DependencyFailureCascades(t *testing.T) {
	// A lone provider on leave over the only call night makes the call
	// coverage requirement unsatisfiable at every staffing floor.
	impossible := callDept()
	impossible.Name = "doomed"
	impossible.Providers = map[string]model.Provider{
		"Dr. X": {Role: "MD", MaxClinicsPerWeek: 4},
	}
	impossibleLeave := Inputs{Leave: []model.LeaveRequest{
		{Provider: "Dr. X", Date: calendar.Date(2025, 8, 5)},
	}}

	dependent := clinicDept()
	dependent.Name = "dependent"

	independent := clinicDept()
	independent.Name = "independent"

	seq := Sequencer{
		Start:  calendar.Date(2025, 8, 4),
		End:    calendar.Date(2025, 8, 8),
		Params: SearchParams{Seed: 42, TimeLimit: 30 * time.Second},
	}
	run, err := seq.Run(context.Background(), []Department{
		{Cfg: impossible, Inputs: impossibleLeave},
		{Cfg: dependent, DependsOn: []string{"doomed"}},
		{Cfg: independent},
	})
	require.NoError(t, err)
	require.Len(t, run.Departments, 3)

	byName := make(map[string]model.DepartmentResult)
	for _, d := range run.Departments {
		byName[d.Department] = d
	}
	assert.Equal(t, model.StatusInfeasible, byName["doomed"].Record.Status)
	assert.Equal(t, model.StatusError, byName["dependent"].Record.Status)
	assert.Empty(t, byName["dependent"].Schedule)
	assert.True(t, byName["independent"].Record.Status.Usable())
}

func TestSequencer_UnknownDependency(t *testing.T) {
	seq := Sequencer{
		Start: calendar.Date(2025, 8, 4),
		End:   calendar.Date(2025, 8, 8),
	}
	_, err := seq.Run(context.Background(), []Department{
		{Cfg: clinicDept(), DependsOn: []string{"ghost"}},
	})
	var cerr *model.ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestOrderByDependency_Cycle(t *testing.T) {
	a := clinicDept()
	a.Name = "a"
	b := clinicDept()
	b.Name = "b"

	_, err := orderByDependency([]Department{
		{Cfg: a, DependsOn: []string{"b"}},
		{Cfg: b, DependsOn: []string{"a"}},
	})
	var cerr *model.ConfigError
	require.ErrorAs(t, err, &cerr)
}
