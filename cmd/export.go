package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-scheduler/internal/export"
	"github.com/sells-group/clinic-scheduler/internal/model"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a run's schedules to CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "export")
		}
		if run == nil {
			return eris.Errorf("run %s not found", args[0])
		}

		switch exportFormat {
		case "csv":
			return exportCSV(run, exportOut)
		case "xlsx":
			out := exportOut
			if out == "" {
				out = fmt.Sprintf("run_%s.xlsx", truncateID(run.ID))
			}
			if err := export.WriteRunXLSX(out, run); err != nil {
				return err
			}
			zap.L().Info("run exported", zap.String("path", out))
			return nil
		default:
			return eris.Errorf("unsupported format: %s", exportFormat)
		}
	},
}

// exportCSV writes one CSV per department table into dir.
func exportCSV(run *model.Run, dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "export: create output dir")
	}

	for _, dept := range run.Departments {
		slug := deptSlug(dept.Department)

		if len(dept.Schedule) > 0 {
			if err := writeCSVFile(filepath.Join(dir, slug+"_schedule.csv"), func(f *os.File) error {
				return export.WriteScheduleCSV(f, dept.Schedule)
			}); err != nil {
				return err
			}
		}
		if len(dept.ProviderSummary) > 0 {
			if err := writeCSVFile(filepath.Join(dir, slug+"_providers.csv"), func(f *os.File) error {
				return export.WriteProviderSummaryCSV(f, dept.ProviderSummary)
			}); err != nil {
				return err
			}
		}
		if len(dept.CallSummary) > 0 {
			if err := writeCSVFile(filepath.Join(dir, slug+"_call.csv"), func(f *os.File) error {
				return export.WriteCallSummaryCSV(f, dept.CallSummary)
			}); err != nil {
				return err
			}
		}
	}

	zap.L().Info("run exported", zap.String("dir", dir), zap.Int("departments", len(run.Departments)))
	return nil
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := write(f); err != nil {
		f.Close() //nolint:errcheck,gosec
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}
	return nil
}

func deptSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format (csv, xlsx)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (csv) or file path (xlsx)")
	rootCmd.AddCommand(exportCmd)
}
