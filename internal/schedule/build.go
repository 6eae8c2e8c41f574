package schedule

import (
	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/solver"
)

// Inputs bundles one department's availability data.
type Inputs struct {
	Leave           []model.LeaveRequest
	InpatientStarts []model.InpatientStart
	InpatientDays   []model.InpatientDay
}

// BuildModel assembles a complete department model at the given staffing
// floor. Each call builds a fresh model; the adaptive search rebuilds rather
// than mutating.
func BuildModel(cfg *model.DepartmentConfig, cal *calendar.Calendar, in Inputs, floor int, committed *model.Commitments) *Space {
	m := solver.NewModel()
	sp := NewSpace(m, cfg, cal)

	AddCommittedConstraints(sp, committed)
	AddLeaveConstraints(sp, in.Leave)
	AddInpatientConstraints(sp, in.InpatientStarts, in.InpatientDays)
	AddStaffingConstraints(sp, floor)
	AddWorkloadConstraints(sp, in.InpatientStarts, committed)
	AddRDOConstraints(sp, in.Leave, in.InpatientDays, committed)
	AddCallConstraints(sp, in.Leave, in.InpatientStarts, in.InpatientDays)
	AddSpecialtyConstraints(sp)

	return sp
}
