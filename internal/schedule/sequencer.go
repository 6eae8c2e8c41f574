package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-scheduler/internal/calendar"
	"github.com/sells-group/clinic-scheduler/internal/model"
)

// Department is one sequencing unit: a configuration, its availability
// data, and the departments whose solved schedules bind it.
type Department struct {
	Cfg       *model.DepartmentConfig
	Inputs    Inputs
	DependsOn []string
}

// Sequencer solves departments strictly in dependency order. A department
// with call coverage (or any other tight constraint) is listed as a
// dependency of the departments sharing its providers; its committed
// assignments become forced zeros downstream.
type Sequencer struct {
	Start  time.Time
	End    time.Time
	Params SearchParams
}

type solvedDept struct {
	space  *Space
	result Outcome
}

// Run solves every department and assembles the run record. Configuration
// problems abort the run; a department that fails to schedule is recorded
// with its failure status, fails its dependents, and leaves unrelated
// departments untouched.
func (s Sequencer) Run(ctx context.Context, depts []Department) (*model.Run, error) {
	ordered, err := orderByDependency(depts)
	if err != nil {
		return nil, err
	}

	run := &model.Run{
		ID:        uuid.NewString(),
		Start:     calendar.Normalize(s.Start),
		End:       calendar.Normalize(s.End),
		CreatedAt: time.Now().UTC(),
	}
	solved := make(map[string]*solvedDept)

	for _, dept := range ordered {
		name := dept.Cfg.Name
		log := zap.L().With(zap.String("department", name))

		if failed := failedDependency(dept, solved); failed != "" {
			err := &model.DependencyError{Department: name, DependsOn: failed}
			log.Error("skipping department", zap.Error(err))
			run.Departments = append(run.Departments, model.DepartmentResult{
				Department: name,
				Record: model.SolutionRecord{
					ID:         uuid.NewString(),
					Department: name,
					Status:     model.StatusError,
				},
			})
			continue
		}

		cal, err := calendar.Build(s.Start, s.End, *dept.Cfg)
		if err != nil {
			return nil, err
		}

		committed := model.NewCommitments()
		for _, depName := range dept.DependsOn {
			dep := solved[depName]
			shared := sharedProviders(dep.space.Config(), dept.Cfg)
			if len(shared) == 0 {
				continue
			}
			mergeCommitments(committed, ExtractCommitments(dep.space, dep.result.Result, shared))
		}

		params := s.Params
		if dept.Cfg.Staffing.MinProvidersPerSession > 0 {
			params.InitialFloor = dept.Cfg.Staffing.MinProvidersPerSession
		}

		outcome := RunAdaptiveSearch(ctx, dept.Cfg, cal, dept.Inputs, committed, params)
		result := model.DepartmentResult{Department: name, Record: outcome.Record}
		if outcome.Record.Status.Usable() {
			result.Schedule = ExtractSchedule(outcome.Space, outcome.Result)
			result.ProviderSummary = ExtractProviderSummary(outcome.Space, outcome.Result)
			result.CallSummary = ExtractCallSummary(outcome.Space, outcome.Result)
			solved[name] = &solvedDept{space: outcome.Space, result: *outcome}
		}
		run.Departments = append(run.Departments, result)
	}
	return run, nil
}

// orderByDependency returns the departments with every dependency ahead of
// its dependents, preserving the configured order otherwise.
func orderByDependency(depts []Department) ([]Department, error) {
	byName := make(map[string]Department, len(depts))
	for _, d := range depts {
		if _, dup := byName[d.Cfg.Name]; dup {
			return nil, model.ConfigErrorf("duplicate department %s", d.Cfg.Name)
		}
		byName[d.Cfg.Name] = d
	}

	var ordered []Department
	placed := make(map[string]bool, len(depts))
	visiting := make(map[string]bool, len(depts))

	var place func(d Department) error
	place = func(d Department) error {
		if placed[d.Cfg.Name] {
			return nil
		}
		if visiting[d.Cfg.Name] {
			return model.ConfigErrorf("dependency cycle through department %s", d.Cfg.Name)
		}
		visiting[d.Cfg.Name] = true
		for _, depName := range d.DependsOn {
			dep, ok := byName[depName]
			if !ok {
				return model.ConfigErrorf("department %s depends on unknown department %s", d.Cfg.Name, depName)
			}
			if err := place(dep); err != nil {
				return err
			}
		}
		visiting[d.Cfg.Name] = false
		placed[d.Cfg.Name] = true
		ordered = append(ordered, d)
		return nil
	}
	for _, d := range depts {
		if err := place(d); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

func failedDependency(dept Department, solved map[string]*solvedDept) string {
	for _, depName := range dept.DependsOn {
		if _, ok := solved[depName]; !ok {
			return depName
		}
	}
	return ""
}

// sharedProviders returns the providers on both rosters.
func sharedProviders(a, b *model.DepartmentConfig) map[string]bool {
	out := make(map[string]bool)
	for name := range a.Providers {
		if _, ok := b.Providers[name]; ok {
			out[name] = true
		}
	}
	return out
}

func mergeCommitments(dst, src *model.Commitments) {
	for provider, days := range src.Clinic {
		for date, sessions := range days {
			for session := range sessions {
				dst.AddClinic(provider, date, session)
			}
		}
	}
	for provider, days := range src.Call {
		for date := range days {
			dst.AddCall(provider, date)
		}
	}
}
