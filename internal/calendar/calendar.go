// Package calendar derives the set of schedulable (date, session) pairs from
// a date range, a weekday-to-session map, and holiday exclusions.
package calendar

import (
	"time"

	"github.com/sells-group/clinic-scheduler/internal/model"
)

// Calendar maps each in-scope date to its ordered session labels.
// Dates are UTC midnights; iteration via Days is chronological.
type Calendar struct {
	days     []time.Time
	sessions map[time.Time][]string
}

// Date normalizes to a UTC midnight calendar date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Normalize strips any time component, returning the UTC calendar date.
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday resolves a weekday name from configuration.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[name]
	if !ok {
		return 0, model.ConfigErrorf("unrecognized weekday %q", name)
	}
	return wd, nil
}

func validateWeekdays(names []string) error {
	for _, n := range names {
		if _, err := ParseWeekday(n); err != nil {
			return err
		}
	}
	return nil
}

// Build generates the calendar for [start, end] inclusive. A date is included
// iff its weekday is a configured clinic day (with that weekday's session
// list) or, for call-bearing departments, a configured call day (appending a
// call session). Holiday dates are skipped entirely.
func Build(start, end time.Time, cfg model.DepartmentConfig) (*Calendar, error) {
	start, end = Normalize(start), Normalize(end)
	if start.After(end) {
		return nil, model.ConfigErrorf("start date %s after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	if err := validateWeekdays(cfg.ClinicDays); err != nil {
		return nil, err
	}
	if err := validateWeekdays(cfg.CallDays); err != nil {
		return nil, err
	}
	if err := validateWeekdays(cfg.RandomDayOff.EligibleDays); err != nil {
		return nil, err
	}
	for wd := range cfg.ClinicSessions {
		if _, err := ParseWeekday(wd); err != nil {
			return nil, err
		}
	}

	clinicDays := make(map[string]bool, len(cfg.ClinicDays))
	for _, d := range cfg.ClinicDays {
		clinicDays[d] = true
	}
	callDays := make(map[string]bool, len(cfg.CallDays))
	for _, d := range cfg.CallDays {
		callDays[d] = true
	}
	holidays := make(map[time.Time]bool, len(cfg.HolidayDates))
	for _, h := range cfg.HolidayDates {
		holidays[Normalize(h)] = true
	}

	cal := &Calendar{sessions: make(map[time.Time][]string)}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if holidays[d] {
			continue
		}
		weekday := d.Weekday().String()

		var sessions []string
		if clinicDays[weekday] {
			sessions = append(sessions, cfg.ClinicSessions[weekday]...)
		}
		if callDays[weekday] {
			sessions = append(sessions, model.SessionCall)
		}
		if len(sessions) == 0 {
			continue
		}
		cal.days = append(cal.days, d)
		cal.sessions[d] = sessions
	}
	return cal, nil
}

// Days returns the in-scope dates in chronological order.
func (c *Calendar) Days() []time.Time { return c.days }

// Sessions returns the session labels for a date, nil if out of scope.
func (c *Calendar) Sessions(date time.Time) []string { return c.sessions[date] }

// Contains reports whether the date is in scope.
func (c *Calendar) Contains(date time.Time) bool {
	_, ok := c.sessions[date]
	return ok
}

// HasSession reports whether the date carries the given session.
func (c *Calendar) HasSession(date time.Time, session string) bool {
	for _, s := range c.sessions[date] {
		if s == session {
			return true
		}
	}
	return false
}

// CallDates returns the dates carrying a call session, chronologically.
func (c *Calendar) CallDates() []time.Time {
	var out []time.Time
	for _, d := range c.days {
		if c.HasSession(d, model.SessionCall) {
			out = append(out, d)
		}
	}
	return out
}

// WeekOf returns the Sunday that starts the scheduling week containing d.
// Scheduling weeks run Sunday through Saturday.
func WeekOf(d time.Time) time.Time {
	d = Normalize(d)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// ISOWeek returns the ISO week key used by the summary tables.
func ISOWeek(d time.Time) model.WeekKey {
	y, w := d.ISOWeek()
	return model.WeekKey{Year: y, Week: w}
}

// DaysByWeek groups the calendar's dates by scheduling week (Sunday start),
// returning week-start keys in chronological order.
func (c *Calendar) DaysByWeek() ([]time.Time, map[time.Time][]time.Time) {
	byWeek := make(map[time.Time][]time.Time)
	var order []time.Time
	for _, d := range c.days {
		wk := WeekOf(d)
		if _, seen := byWeek[wk]; !seen {
			order = append(order, wk)
		}
		byWeek[wk] = append(byWeek[wk], d)
	}
	return order, byWeek
}
