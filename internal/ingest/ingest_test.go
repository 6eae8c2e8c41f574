package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig() *model.DepartmentConfig {
	return &model.DepartmentConfig{
		Name:       "pediatrics",
		ClinicDays: []string{"Monday", "Tuesday"},
		Providers: map[string]model.Provider{
			"Dr. Adams": {Role: "MD", MaxClinicsPerWeek: 8},
			"Dr. Brown": {Role: "DO", MaxClinicsPerWeek: 6},
		},
	}
}

func TestLoadDepartmentConfig_Valid(t *testing.T) {
	path := writeFile(t, "dept.yaml", `
name: pediatrics
clinic_days: [Monday, Tuesday, Wednesday]
clinic_sessions:
  Monday: [morning, afternoon]
  Tuesday: [morning, afternoon]
  Wednesday: [morning]
call_days: [Tuesday]
staffing:
  min_providers_per_session: 4
  max_providers_per_session: 7
random_day_off:
  eligible_days: [Monday, Friday]
providers:
  Dr. Adams:
    role: MD
    max_clinics_per_week: 8
  Dr. Brown:
    role: NP
    max_clinics_per_week: 6
    needs_rdo: false
`)

	cfg, err := LoadDepartmentConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "pediatrics", cfg.Name)
	assert.True(t, cfg.HasCall())
	assert.Equal(t, 4, cfg.Staffing.MinProvidersPerSession)
	assert.True(t, cfg.Providers["Dr. Adams"].RequiresRDO())
	assert.False(t, cfg.Providers["Dr. Brown"].RequiresRDO())
	assert.Equal(t, []string{"Dr. Adams", "Dr. Brown"}, cfg.ProviderNames())
}

func TestLoadDepartmentConfig_BadWeekday(t *testing.T) {
	path := writeFile(t, "dept.yaml", `
name: pediatrics
clinic_days: [Mondayy]
providers:
  Dr. Adams:
    role: MD
    max_clinics_per_week: 8
`)

	_, err := LoadDepartmentConfig(path)
	require.Error(t, err)
	var cerr *model.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestLoadDepartmentConfig_NoProviders(t *testing.T) {
	path := writeFile(t, "dept.yaml", "name: empty\nclinic_days: [Monday]\n")

	_, err := LoadDepartmentConfig(path)
	var cerr *model.ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestLoadLeave_DropsUnknownProviders(t *testing.T) {
	path := writeFile(t, "leave.csv",
		"provider,date\nDr. Adams,2025-08-04\nDr. Nobody,2025-08-05\nDr. Brown,2025-08-06\n")

	leave, err := LoadLeave(path, testConfig())
	require.NoError(t, err)
	require.Len(t, leave, 2)
	assert.Equal(t, "Dr. Adams", leave[0].Provider)
	assert.Equal(t, calendar.Date(2025, 8, 4), leave[0].Date)
	assert.Equal(t, "Dr. Brown", leave[1].Provider)
}

func TestLoadLeave_MalformedDate(t *testing.T) {
	path := writeFile(t, "leave.csv", "provider,date\nDr. Adams,08/04/2025\n")

	_, err := LoadLeave(path, testConfig())
	var derr *model.DataError
	require.ErrorAs(t, err, &derr)
}

func TestLoadLeave_NoHeader(t *testing.T) {
	path := writeFile(t, "leave.csv", "Dr. Adams,2025-08-04\n")

	leave, err := LoadLeave(path, testConfig())
	require.NoError(t, err)
	require.Len(t, leave, 1)
}

func TestLoadInpatient(t *testing.T) {
	path := writeFile(t, "inpatient.csv", "provider,date\nDr. Adams,2025-08-05\n")

	starts, err := LoadInpatient(path, testConfig())
	require.NoError(t, err)
	require.Len(t, starts, 1)
	assert.Equal(t, calendar.Date(2025, 8, 5), starts[0].Date)
}

func TestExpandInpatient_DefaultWeek(t *testing.T) {
	cfg := testConfig()
	starts := []model.InpatientStart{{Provider: "Dr. Adams", Date: calendar.Date(2025, 8, 5)}}

	days := ExpandInpatient(starts, cfg)
	require.Len(t, days, 7)
	assert.Equal(t, calendar.Date(2025, 8, 5), days[0].Date)
	assert.Equal(t, calendar.Date(2025, 8, 11), days[6].Date)
}

func TestExpandInpatient_ConfiguredLength(t *testing.T) {
	cfg := testConfig()
	cfg.InpatientSchedule.InpatientLength = 14
	starts := []model.InpatientStart{{Provider: "Dr. Adams", Date: calendar.Date(2025, 8, 5)}}

	days := ExpandInpatient(starts, cfg)
	assert.Len(t, days, 14)
}
