package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crm-migrate/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// --- Runs ---

func TestSQLite_CreateRun_And_GetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "extracts/2024-01")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.Equal(t, "extracts/2024-01", run.Source)

	fetched, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, fetched.ID)
	assert.Equal(t, "extracts/2024-01", fetched.Source)
	assert.Nil(t, fetched.Result)
}

func TestSQLite_GetRun_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "extracts/2024-01")
	require.NoError(t, err)

	err = st.UpdateRunStatus(ctx, run.ID, model.RunStatusMapping)
	require.NoError(t, err)

	fetched, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusMapping, fetched.Status)
}

func TestSQLite_UpdateRunStatus_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "nonexistent-run", model.RunStatusComplete)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunResult(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "extracts/2024-01")
	require.NoError(t, err)

	result := &model.RunResult{
		DealCount:       57,
		SiteRecordCount: 126,
		CommCount:       410,
		SocialCount:     88,
		Stages: []model.StageResult{
			{Name: "map_stages", Status: model.StageStatusComplete, Records: 57},
		},
	}
	err = st.UpdateRunResult(ctx, run.ID, result)
	require.NoError(t, err)

	fetched, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, fetched.Status)
	require.NotNil(t, fetched.Result)
	assert.Equal(t, 57, fetched.Result.DealCount)
	require.Len(t, fetched.Result.Stages, 1)
	assert.Equal(t, "map_stages", fetched.Result.Stages[0].Name)
}

func TestSQLite_UpdateRunResult_ErrorMarksFailed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "extracts/2024-01")
	require.NoError(t, err)

	err = st.UpdateRunResult(ctx, run.ID, &model.RunResult{Error: "normalize: missing required columns"})
	require.NoError(t, err)

	fetched, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, fetched.Status)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateRun(ctx, "extracts/a")
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "extracts/b")
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSQLite_ListRuns_FilterByStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "extracts/a")
	require.NoError(t, err)
	err = st.UpdateRunStatus(ctx, run.ID, model.RunStatusComplete)
	require.NoError(t, err)

	// Second run stays queued.
	_, err = st.CreateRun(ctx, "extracts/b")
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete, Limit: 10})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestSQLite_ListRuns_FilterBySource(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateRun(ctx, "extracts/a")
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "extracts/b")
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{Source: "extracts/b", Limit: 10})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "extracts/b", runs[0].Source)
}

// --- Deals ---

func TestSQLite_SaveDeals_And_Rerun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "extracts/2024-01")
	require.NoError(t, err)

	deals := []model.TransformedDeal{
		{ID: 101, Name: "Acme sensor", Pipeline: model.PipelineSales, Stage: "Design In", Status: model.DealInProgress, Amount: 50000, Confidence: 0.9},
		{ID: 102, Name: "Beta study", Pipeline: model.PipelineStudies, Stage: "02-Qualifiée", Status: model.DealInProgress, Amount: 12000, Confidence: 0.7},
	}
	n, err := st.SaveDeals(ctx, run.ID, deals)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Re-saving the same run rewrites rows instead of duplicating them.
	deals[0].Stage = "Design Win"
	n, err = st.SaveDeals(ctx, run.ID, deals)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var count int
	row := st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_deals WHERE run_id = ?`, run.ID)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 2, count)

	var stage string
	row = st.db.QueryRowContext(ctx, `SELECT stage FROM run_deals WHERE run_id = ? AND record_id = 101`, run.ID)
	require.NoError(t, row.Scan(&stage))
	assert.Equal(t, "Design Win", stage)
}

func TestSQLite_SaveDeals_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	n, err := st.SaveDeals(context.Background(), "any-run", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// --- Site records ---

func TestSQLite_SaveSites(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "extracts/2024-01")
	require.NoError(t, err)

	sites := []model.SiteRecord{
		{CompanyID: 201, Kind: model.RecordParentAggregator, CompanyName: "Acme", ParentCompanyID: 0},
		{CompanyID: 1, Kind: model.RecordSite, CompanyName: "Acme Grenoble", ParentCompanyID: 201, SiteOrder: 1},
		{CompanyID: 2, Kind: model.RecordSite, CompanyName: "Acme Paris", ParentCompanyID: 201, SiteOrder: 2},
	}
	n, err := st.SaveSites(ctx, run.ID, sites)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	var parents int
	row := st.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM run_site_records WHERE run_id = ? AND record_type = ?`,
		run.ID, string(model.RecordParentAggregator))
	require.NoError(t, row.Scan(&parents))
	assert.Equal(t, 1, parents)
}

// --- Migrate ---

func TestSQLite_Migrate_Idempotent(t *testing.T) {
	st := newTestSQLiteStore(t)

	// Migrate already ran in newTestSQLiteStore; running again should not error.
	err := st.Migrate(context.Background())
	require.NoError(t, err)
}
