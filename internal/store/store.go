package store

import (
	"context"

	"github.com/sells-group/clinic-scheduler/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Department string `json:"department,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for scheduling runs.
type Store interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
