package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/clinic-scheduler/internal/model"
)

func weekdayConfig() model.DepartmentConfig {
	return model.DepartmentConfig{
		Name:       "pediatrics",
		ClinicDays: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		ClinicSessions: map[string][]string{
			"Monday":    {model.SessionMorning, model.SessionAfternoon},
			"Tuesday":   {model.SessionMorning, model.SessionAfternoon},
			"Wednesday": {model.SessionMorning, model.SessionAfternoon},
			"Thursday":  {model.SessionAfternoon},
			"Friday":    {model.SessionMorning, model.SessionAfternoon},
		},
	}
}

func TestBuild_WeekdayRange(t *testing.T) {
	cal, err := Build(Date(2025, 8, 4), Date(2025, 8, 29), weekdayConfig())
	require.NoError(t, err)

	// Four full Monday-Friday weeks.
	assert.Len(t, cal.Days(), 20)
	for _, d := range cal.Days() {
		wd := d.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestBuild_ThursdayAfternoonOnly(t *testing.T) {
	cal, err := Build(Date(2025, 8, 4), Date(2025, 8, 29), weekdayConfig())
	require.NoError(t, err)

	thu := Date(2025, 8, 7)
	assert.Equal(t, []string{model.SessionAfternoon}, cal.Sessions(thu))
	assert.False(t, cal.HasSession(thu, model.SessionMorning))
}

func TestBuild_SkipsHolidays(t *testing.T) {
	cfg := weekdayConfig()
	cfg.HolidayDates = []time.Time{Date(2025, 8, 6)}

	cal, err := Build(Date(2025, 8, 4), Date(2025, 8, 8), cfg)
	require.NoError(t, err)
	assert.Len(t, cal.Days(), 4)
	assert.False(t, cal.Contains(Date(2025, 8, 6)))
}

func TestBuild_CallSessions(t *testing.T) {
	cfg := weekdayConfig()
	cfg.CallDays = []string{"Tuesday", "Saturday"}

	cal, err := Build(Date(2025, 8, 4), Date(2025, 8, 10), cfg)
	require.NoError(t, err)

	// Weekday call rides along with clinic sessions; weekend call days
	// enter the calendar carrying only the call session.
	assert.True(t, cal.HasSession(Date(2025, 8, 5), model.SessionCall))
	sat := Date(2025, 8, 9)
	require.True(t, cal.Contains(sat))
	assert.Equal(t, []string{model.SessionCall}, cal.Sessions(sat))
	assert.Equal(t, []time.Time{Date(2025, 8, 5), sat}, cal.CallDates())
}

func TestBuild_StartAfterEnd(t *testing.T) {
	_, err := Build(Date(2025, 8, 10), Date(2025, 8, 4), weekdayConfig())
	var cerr *model.ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestBuild_UnknownWeekday(t *testing.T) {
	cfg := weekdayConfig()
	cfg.ClinicDays = append(cfg.ClinicDays, "Funday")

	_, err := Build(Date(2025, 8, 4), Date(2025, 8, 8), cfg)
	var cerr *model.ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestWeekOf_SundayStart(t *testing.T) {
	// Friday 2025-08-08 and the following Saturday share a week; the next
	// Sunday starts a new one.
	assert.Equal(t, Date(2025, 8, 3), WeekOf(Date(2025, 8, 8)))
	assert.Equal(t, Date(2025, 8, 3), WeekOf(Date(2025, 8, 9)))
	assert.Equal(t, Date(2025, 8, 10), WeekOf(Date(2025, 8, 10)))
	assert.Equal(t, Date(2025, 8, 3), WeekOf(Date(2025, 8, 3)))
}

func TestDaysByWeek_Ordering(t *testing.T) {
	cal, err := Build(Date(2025, 8, 4), Date(2025, 8, 15), weekdayConfig())
	require.NoError(t, err)

	order, byWeek := cal.DaysByWeek()
	require.Len(t, order, 2)
	assert.Equal(t, Date(2025, 8, 3), order[0])
	assert.Equal(t, Date(2025, 8, 10), order[1])
	assert.Len(t, byWeek[order[0]], 5)
	assert.Len(t, byWeek[order[1]], 5)
}
