package schedule

import (
	"time"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
)

// AddLeaveConstraints blocks every session on each approved leave day, and
// blocks call on the evening before leave begins.
func AddLeaveConstraints(sp *Space, leave []model.LeaveRequest) {
	for _, req := range leave {
		sp.FixDayZero(req.Provider, req.Date)

		dayBefore := req.Date.AddDate(0, 0, -1)
		if v, ok := sp.Call(req.Provider, dayBefore); ok {
			sp.Model().FixZero(v)
		}
	}
}

// leaveWeeks returns the set of scheduling weeks in which each provider has
// at least one leave day.
func leaveWeeks(leave []model.LeaveRequest) map[string]map[time.Time]bool {
	weeks := make(map[string]map[time.Time]bool)
	for _, req := range leave {
		wk := calendar.WeekOf(req.Date)
		if weeks[req.Provider] == nil {
			weeks[req.Provider] = make(map[time.Time]bool)
		}
		weeks[req.Provider][wk] = true
	}
	return weeks
}

// leaveBlockedCallDates returns per-provider sets of dates on which call is
// blocked by leave: the leave day itself and the day before.
func leaveBlockedCallDates(leave []model.LeaveRequest) map[string]map[time.Time]bool {
	blocked := make(map[string]map[time.Time]bool)
	for _, req := range leave {
		if blocked[req.Provider] == nil {
			blocked[req.Provider] = make(map[time.Time]bool)
		}
		blocked[req.Provider][req.Date] = true
		blocked[req.Provider][req.Date.AddDate(0, 0, -1)] = true
	}
	return blocked
}
