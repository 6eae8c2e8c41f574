package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-scheduler/internal/ingest"
	"github.com/sells-group/clinic-scheduler/internal/model"
	"github.com/sells-group/clinic-scheduler/internal/schedule"
)

const dateLayout = "2006-01-02"

var (
	scheduleStart string
	scheduleEnd   string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Solve schedules for all configured departments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		start, err := time.Parse(dateLayout, scheduleStart)
		if err != nil {
			return eris.Wrapf(err, "parse start date %q", scheduleStart)
		}
		end, err := time.Parse(dateLayout, scheduleEnd)
		if err != nil {
			return eris.Wrapf(err, "parse end date %q", scheduleEnd)
		}

		if len(cfg.Departments) == 0 {
			return eris.New("no departments configured")
		}

		depts, err := loadDepartments()
		if err != nil {
			return err
		}

		params, err := searchParams()
		if err != nil {
			return err
		}

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		seq := schedule.Sequencer{Start: start, End: end, Params: params}
		run, err := seq.Run(ctx, depts)
		if err != nil {
			return eris.Wrap(err, "schedule run")
		}

		if err := st.SaveRun(ctx, run); err != nil {
			return eris.Wrap(err, "save run")
		}

		zap.L().Info("run saved",
			zap.String("run_id", run.ID),
			zap.Int("departments", len(run.Departments)),
		)

		formatRunSummary(os.Stdout, run)
		return nil
	},
}

// loadDepartments reads every configured department's YAML config and
// availability CSVs.
func loadDepartments() ([]schedule.Department, error) {
	depts := make([]schedule.Department, 0, len(cfg.Departments))
	for _, dc := range cfg.Departments {
		deptCfg, err := ingest.LoadDepartmentConfig(dc.Config)
		if err != nil {
			return nil, eris.Wrapf(err, "department %s", dc.Name)
		}

		var in schedule.Inputs
		if dc.Leave != "" {
			in.Leave, err = ingest.LoadLeave(dc.Leave, deptCfg)
			if err != nil {
				return nil, eris.Wrapf(err, "department %s: leave", dc.Name)
			}
		}
		if dc.Inpatient != "" {
			in.InpatientStarts, err = ingest.LoadInpatient(dc.Inpatient, deptCfg)
			if err != nil {
				return nil, eris.Wrapf(err, "department %s: inpatient", dc.Name)
			}
			in.InpatientDays = ingest.ExpandInpatient(in.InpatientStarts, deptCfg)
		}

		depts = append(depts, schedule.Department{
			Cfg:       deptCfg,
			Inputs:    in,
			DependsOn: dc.DependsOn,
		})
	}
	return depts, nil
}

func searchParams() (schedule.SearchParams, error) {
	limit, err := time.ParseDuration(cfg.Solver.TimeLimit)
	if err != nil {
		return schedule.SearchParams{}, eris.Wrapf(err, "parse solver time limit %q", cfg.Solver.TimeLimit)
	}
	return schedule.SearchParams{
		InitialFloor: cfg.Solver.InitialFloor,
		MinFloor:     cfg.Solver.MinFloor,
		FloorStep:    cfg.Solver.FloorStep,
		Seed:         cfg.Solver.Seed,
		TimeLimit:    limit,
	}, nil
}

// formatRunSummary writes a per-department result table to w.
func formatRunSummary(out io.Writer, run *model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Run %s (%s to %s)\n",
		run.ID,
		run.Start.Format(dateLayout),
		run.End.Format(dateLayout),
	)
	_, _ = fmt.Fprintln(w, "DEPARTMENT\tSTATUS\tFLOOR\tOBJECTIVE\tROWS\tSOLVE_TIME")
	_, _ = fmt.Fprintln(w, "----------\t------\t-----\t---------\t----\t----------")

	for _, dept := range run.Departments {
		obj := "-"
		if dept.Record.ObjectiveValue != nil {
			obj = fmt.Sprintf("%.0f", *dept.Record.ObjectiveValue)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\n",
			dept.Department,
			dept.Record.Status,
			dept.Record.StaffingFloor,
			obj,
			len(dept.Schedule),
			dept.Record.TotalSolveTime.Round(time.Millisecond),
		)
	}
	_ = w.Flush()
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleStart, "start", "", "schedule start date (YYYY-MM-DD, required)")
	scheduleCmd.Flags().StringVar(&scheduleEnd, "end", "", "schedule end date (YYYY-MM-DD, required)")
	_ = scheduleCmd.MarkFlagRequired("start")
	_ = scheduleCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(scheduleCmd)
}
