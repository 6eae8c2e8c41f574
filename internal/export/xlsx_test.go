package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/clinic-scheduler/internal/model"
)

func TestWriteRunXLSX_Roundtrip(t *testing.T) {
	run := &model.Run{
		ID: "run-1",
		Departments: []model.DepartmentResult{
			{
				Department: "pediatrics",
				Schedule: []model.ScheduleRow{
					{
						Date:      time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
						DayOfWeek: "Monday",
						Session:   "morning",
						Providers: []string{"Dr. A", "Dr. B"},
						Count:     2,
					},
				},
				ProviderSummary: []model.ProviderSummaryRow{
					{
						Provider: "Dr. A",
						Weeks: []model.ProviderWeek{
							{Week: model.WeekKey{Year: 2025, Week: 32}, Sessions: 4, Consecutive: 3},
						},
						TotalSessions:   4,
						MondayFridayOff: 1,
						TotalAM:         2,
						TotalPM:         2,
					},
				},
				CallSummary: []model.CallSummaryRow{
					{
						Provider: "Dr. A",
						Weeks: []model.CallWeek{
							{Week: model.WeekKey{Year: 2025, Week: 32}, Calls: 1},
						},
						TotalCalls: 1,
					},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "run.xlsx")
	require.NoError(t, WriteRunXLSX(path, run))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)

	assert.Equal(t, "pediatrics schedule", f.Sheets[0].Name)
	assert.Equal(t, "pediatrics providers", f.Sheets[1].Name)
	assert.Equal(t, "pediatrics call", f.Sheets[2].Name)

	sched := f.Sheets[0]
	require.Len(t, sched.Rows, 2)
	assert.Equal(t, "date", sched.Rows[0].Cells[0].String())
	assert.Equal(t, "2025-08-04", sched.Rows[1].Cells[0].String())
	assert.Equal(t, "Dr. A; Dr. B", sched.Rows[1].Cells[3].String())
}

func TestWriteRunXLSX_SkipsEmptyTables(t *testing.T) {
	run := &model.Run{
		ID: "run-2",
		Departments: []model.DepartmentResult{
			{Department: "family practice"},
			{
				Department: "pediatrics",
				Schedule: []model.ScheduleRow{
					{
						Date:      time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
						DayOfWeek: "Monday",
						Session:   "morning",
						Providers: []string{"Dr. A"},
						Count:     1,
					},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "run.xlsx")
	require.NoError(t, WriteRunXLSX(path, run))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, "pediatrics schedule", f.Sheets[0].Name)
}
