package schedule

import (
	"fmt"
	"time"

	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/solver"
)

const (
	penaltyWeight    = 100
	preferenceWeight = 10
	slackCap         = 10
)

// AddWorkloadConstraints bounds each provider's weekly clinic-session count.
// The cap is hard; hitting the target is soft, charged per missing session.
// The post-rotation week after inpatient service drops both by two, and
// sessions already committed to another department reduce the remaining cap.
func AddWorkloadConstraints(sp *Space, starts []model.InpatientStart, committed *model.Commitments) {
	postWeeks := postInpatientWeeks(starts, sp.Config())
	weekOrder, daysByWeek := sp.Calendar().DaysByWeek()

	for _, provider := range sp.Providers() {
		base := sp.Config().Providers[provider].MaxClinicsPerWeek

		for _, wk := range weekOrder {
			var vars []solver.Var
			committedCount := 0
			for _, d := range daysByWeek[wk] {
				vars = append(vars, sp.ClinicDayVars(provider, d)...)
				committedCount += committedClinicCount(committed, provider, d)
			}
			if len(vars) == 0 {
				continue
			}

			target := base
			if postWeeks[provider][wk] {
				target -= 2
			}
			target -= committedCount
			if target < 0 {
				target = 0
			}

			expr := solver.Sum(vars...)
			sp.Model().AddLinear(expr, solver.NoLower, int64(target))

			// A week squeezed down to a single session carries no
			// under-target charge.
			if target <= 1 {
				continue
			}
			under := sp.Model().NewInt(
				fmt.Sprintf("under_min_%s_%s", provider, wk.Format("2006-01-02")),
				0, slackCap,
			)
			sp.Model().AddLinear(expr.Plus(under, 1), int64(target), solver.NoUpper)
			sp.Model().Minimize(solver.LinearExpr{}.Plus(under, penaltyWeight))
		}
	}
}

func committedClinicCount(committed *model.Commitments, provider string, date time.Time) int {
	if committed == nil {
		return 0
	}
	return len(committed.Clinic[provider][date])
}
