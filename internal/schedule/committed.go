package schedule

import (
	"github.com/sells-group/clinic-scheduler/internal/model"
)

// AddCommittedConstraints injects assignments already fixed by an earlier
// department's solve. A committed clinic session zeroes the matching session
// here; a committed call night zeroes any call variable that date and the
// next day's afternoon session (post-call rest). Workload caps and day-off
// eligibility account for commitments in their own builders.
func AddCommittedConstraints(sp *Space, committed *model.Commitments) {
	if committed.Empty() {
		return
	}
	m := sp.Model()
	for _, provider := range sp.Providers() {
		for date, sessions := range committed.Clinic[provider] {
			for session := range sessions {
				if v, ok := sp.Clinic(provider, date, session); ok {
					m.FixZero(v)
				}
			}
		}
		for date := range committed.Call[provider] {
			if v, ok := sp.Call(provider, date); ok {
				m.FixZero(v)
			}
			next := date.AddDate(0, 0, 1)
			if v, ok := sp.Clinic(provider, next, model.SessionAfternoon); ok {
				m.FixZero(v)
			}
		}
	}
}
