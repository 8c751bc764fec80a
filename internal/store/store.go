// Package store persists migration runs and their output datasets.
package store

import (
	"context"

	"github.com/sells-group/crm-migrate/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Source string          `json:"source,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for migration runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Output datasets
	SaveDeals(ctx context.Context, runID string, deals []model.TransformedDeal) (int64, error)
	SaveSites(ctx context.Context, runID string, sites []model.SiteRecord) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New opens the store named by driver: "postgres" or "sqlite".
func New(ctx context.Context, driver, dsn string) (Store, error) {
	if driver == "postgres" {
		return NewPostgres(ctx, dsn, nil)
	}
	return NewSQLite(dsn)
}
