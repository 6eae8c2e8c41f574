package schedule

import (
	"time"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
)

// rotationEnd returns the last covered day of a rotation.
func rotationEnd(start model.InpatientStart, cfg *model.DepartmentConfig) time.Time {
	return start.Date.AddDate(0, 0, cfg.InpatientSchedule.Length()-1)
}

// preLeaveDate returns the configured pre-rotation recovery day: the nearest
// matching weekday strictly before the rotation start. Zero time when no
// pre-leave weekday is configured.
func preLeaveDate(start model.InpatientStart, cfg *model.DepartmentConfig) time.Time {
	return nearestWeekday(start.Date, cfg.InpatientSchedule.PreInpatientLeave, -1)
}

// postLeaveDate returns the configured post-rotation recovery day: the
// nearest matching weekday strictly after the rotation end.
func postLeaveDate(start model.InpatientStart, cfg *model.DepartmentConfig) time.Time {
	return nearestWeekday(rotationEnd(start, cfg), cfg.InpatientSchedule.PostInpatientLeave, 1)
}

func nearestWeekday(from time.Time, weekday string, step int) time.Time {
	wd, err := calendar.ParseWeekday(weekday)
	if err != nil {
		return time.Time{}
	}
	for d := from.AddDate(0, 0, step); ; d = d.AddDate(0, 0, step) {
		if d.Weekday() == wd {
			return d
		}
	}
}

// AddInpatientConstraints blocks all sessions on every inpatient day plus
// the configured recovery weekdays bracketing each rotation.
func AddInpatientConstraints(sp *Space, starts []model.InpatientStart, days []model.InpatientDay) {
	for _, day := range days {
		sp.FixDayZero(day.Provider, day.Date)
	}
	for _, start := range starts {
		if pre := preLeaveDate(start, sp.Config()); !pre.IsZero() {
			sp.FixDayZero(start.Provider, pre)
		}
		if post := postLeaveDate(start, sp.Config()); !post.IsZero() {
			sp.FixDayZero(start.Provider, post)
		}
	}
}

// inpatientWeeks returns the set of scheduling weeks in which each provider
// serves at least one inpatient day.
func inpatientWeeks(days []model.InpatientDay) map[string]map[time.Time]bool {
	weeks := make(map[string]map[time.Time]bool)
	for _, day := range days {
		wk := calendar.WeekOf(day.Date)
		if weeks[day.Provider] == nil {
			weeks[day.Provider] = make(map[time.Time]bool)
		}
		weeks[day.Provider][wk] = true
	}
	return weeks
}

// postInpatientWeeks returns, per provider, the scheduling week immediately
// following each rotation. Weekly clinic targets drop there.
func postInpatientWeeks(starts []model.InpatientStart, cfg *model.DepartmentConfig) map[string]map[time.Time]bool {
	weeks := make(map[string]map[time.Time]bool)
	for _, start := range starts {
		dayAfter := rotationEnd(start, cfg).AddDate(0, 0, 1)
		wk := calendar.WeekOf(dayAfter)
		if weeks[start.Provider] == nil {
			weeks[start.Provider] = make(map[time.Time]bool)
		}
		weeks[start.Provider][wk] = true
	}
	return weeks
}

// inpatientBlockedDates returns per-provider sets of all dates blocked by a
// rotation, recovery days included.
func inpatientBlockedDates(starts []model.InpatientStart, days []model.InpatientDay, cfg *model.DepartmentConfig) map[string]map[time.Time]bool {
	blocked := make(map[string]map[time.Time]bool)
	add := func(provider string, d time.Time) {
		if d.IsZero() {
			return
		}
		if blocked[provider] == nil {
			blocked[provider] = make(map[time.Time]bool)
		}
		blocked[provider][d] = true
	}
	for _, day := range days {
		add(day.Provider, day.Date)
	}
	for _, start := range starts {
		add(start.Provider, preLeaveDate(start, cfg))
		add(start.Provider, postLeaveDate(start, cfg))
	}
	return blocked
}
