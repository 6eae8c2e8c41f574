package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/clinic-scheduler/internal/model"
)

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abcd1234", truncateID("abcd1234-ef56-7890"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestDeptSlug(t *testing.T) {
	assert.Equal(t, "family_practice", deptSlug("Family Practice"))
	assert.Equal(t, "pediatrics", deptSlug("pediatrics"))
}

func TestFormatRunSummary(t *testing.T) {
	obj := 200.0
	run := &model.Run{
		ID:    "run-1",
		Start: time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC),
		Departments: []model.DepartmentResult{
			{
				Department: "pediatrics",
				Record: model.SolutionRecord{
					Status:         model.StatusOptimal,
					StaffingFloor:  2,
					ObjectiveValue: &obj,
					TotalSolveTime: 1500 * time.Millisecond,
				},
				Schedule: []model.ScheduleRow{{}, {}},
			},
			{
				Department: "family practice",
				Record: model.SolutionRecord{
					Status: model.StatusInfeasible,
				},
			},
		},
	}

	var buf bytes.Buffer
	formatRunSummary(&buf, run)
	out := buf.String()

	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "2025-08-04 to 2025-08-29")
	assert.Contains(t, out, "pediatrics")
	assert.Contains(t, out, "OPTIMAL")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "INFEASIBLE")
}

func TestFormatRunsList(t *testing.T) {
	runs := []model.Run{
		{
			ID:        "abcd1234-ef56-7890",
			Start:     time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
			End:       time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2025, 8, 29, 10, 30, 0, 0, time.UTC),
			Departments: []model.DepartmentResult{
				{Record: model.SolutionRecord{Status: model.StatusOptimal}},
				{Record: model.SolutionRecord{Status: model.StatusError}},
			},
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)
	out := buf.String()

	assert.Contains(t, out, "abcd1234")
	assert.NotContains(t, out, "ef56")
	assert.Contains(t, out, "2025-08-29 10:30")
}

func TestFormatRunSummary_DateRange(t *testing.T) {
	var buf bytes.Buffer
	formatRunSummary(&buf, &model.Run{
		ID:    "empty",
		Start: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, buf.String(), "2025-01-06 to 2025-01-10")
}
