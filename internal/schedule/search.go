package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/solver"
)

// SearchParams tunes the adaptive minimum-staffing search.
type SearchParams struct {
	InitialFloor int
	MinFloor     int
	FloorStep    int
	Seed         int64
	TimeLimit    time.Duration
}

func (p SearchParams) withDefaults() SearchParams {
	if p.InitialFloor <= 0 {
		p.InitialFloor = 4
	}
	if p.FloorStep <= 0 {
		p.FloorStep = 1
	}
	if p.TimeLimit <= 0 {
		p.TimeLimit = 5 * time.Minute
	}
	return p
}

// Outcome is the result of one department's adaptive search: the retained
// record plus, when the record is usable, the space and assignment it was
// extracted from.
type Outcome struct {
	Record model.SolutionRecord
	Space  *Space
	Result solver.Result
}

// RunAdaptiveSearch finds the largest per-session staffing floor the
// department can satisfy. It tries the initial floor first and walks down,
// rebuilding the full model at each candidate, until a solve comes back
// usable or the floor range is exhausted. The answer is the worst-case
// achievable staffing with every leave request honored.
func RunAdaptiveSearch(ctx context.Context, cfg *model.DepartmentConfig, cal *calendar.Calendar, in Inputs, committed *model.Commitments, params SearchParams) *Outcome {
	params = params.withDefaults()
	log := zap.L().With(zap.String("department", cfg.Name))

	out := &Outcome{Record: model.SolutionRecord{
		ID:         uuid.NewString(),
		Department: cfg.Name,
		Status:     model.StatusUnknown,
	}}

	for floor := params.InitialFloor; floor >= params.MinFloor; floor -= params.FloorStep {
		sp := BuildModel(cfg, cal, in, floor, committed)
		log.Info("solving",
			zap.Int("staffing_floor", floor),
			zap.Int("variables", sp.Model().NumVars()),
			zap.Int("constraints", sp.Model().NumConstraints()),
		)

		res := solver.Solver{Seed: params.Seed, TimeLimit: params.TimeLimit}.Solve(ctx, sp.Model())
		status := model.SolveStatus(res.Status)

		out.Record.FloorsAttempted = append(out.Record.FloorsAttempted, floor)
		out.Record.TotalSolveTime += res.WallTime
		out.Record.Status = status
		out.Record.StaffingFloor = floor
		out.Record.SolveTime = res.WallTime
		out.Record.Branches = res.Branches
		out.Record.Conflicts = res.Conflicts

		if status.Usable() {
			if res.HasObjective {
				obj := res.Objective
				out.Record.ObjectiveValue = &obj
			}
			out.Space = sp
			out.Result = res
			log.Info("solved",
				zap.Int("staffing_floor", floor),
				zap.String("status", string(status)),
				zap.Duration("solve_time", res.WallTime),
				zap.Duration("total_solve_time", out.Record.TotalSolveTime),
			)
			return out
		}

		log.Warn("no solution at floor",
			zap.Int("staffing_floor", floor),
			zap.String("status", string(status)),
			zap.Duration("solve_time", res.WallTime),
		)
		if ctx.Err() != nil {
			break
		}
	}

	log.Error("staffing floor range exhausted without a schedule",
		zap.String("status", string(out.Record.Status)),
		zap.Duration("total_solve_time", out.Record.TotalSolveTime),
	)
	return out
}
