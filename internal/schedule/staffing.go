package schedule

import (
	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/solver"
)

// AddStaffingConstraints bounds the provider count of every clinic session.
// The minimum comes from the caller so the adaptive search can vary it per
// iteration; the maximum is the configured ceiling.
func AddStaffingConstraints(sp *Space, minPerSession int) {
	maxPerSession := sp.Config().Staffing.MaxProvidersPerSession
	for _, d := range sp.Calendar().Days() {
		for _, session := range sp.Calendar().Sessions(d) {
			if !model.IsClinicSession(session) {
				continue
			}
			vars := sp.SessionVars(d, session)
			if len(vars) == 0 {
				continue
			}
			hi := solver.NoUpper
			if maxPerSession > 0 {
				hi = int64(maxPerSession)
			}
			sp.Model().AddLinear(solver.Sum(vars...), int64(minPerSession), hi)
		}
	}
}
