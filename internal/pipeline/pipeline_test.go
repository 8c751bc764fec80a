package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/crm-migrate/internal/config"
	"github.com/sells-group/crm-migrate/internal/dataset"
	"github.com/sells-group/crm-migrate/internal/model"
	"github.com/sells-group/crm-migrate/internal/store"
)

// fakeStore records run lifecycle calls in memory.
type fakeStore struct {
	statuses []model.RunStatus
	result   *model.RunResult
}

func (f *fakeStore) CreateRun(ctx context.Context, source string) (*model.Run, error) {
	return &model.Run{ID: "test-run", Source: source, Status: model.RunStatusQueued}, nil
}

func (f *fakeStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeStore) UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error {
	f.result = result
	return nil
}

func (f *fakeStore) GetRun(ctx context.Context, runID string) (*model.Run, error) { return nil, nil }
func (f *fakeStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	return nil, nil
}
func (f *fakeStore) SaveDeals(ctx context.Context, runID string, deals []model.TransformedDeal) (int64, error) {
	return int64(len(deals)), nil
}
func (f *fakeStore) SaveSites(ctx context.Context, runID string, sites []model.SiteRecord) (int64, error) {
	return int64(len(sites)), nil
}
func (f *fakeStore) Migrate(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                      { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Input.Source = "./testdata"
	cfg.Pipeline.DefaultOwnerID = 27
	cfg.Pipeline.LowConfidenceThreshold = 0.8
	cfg.Pipeline.ReferenceDate = "2024-03-15"
	cfg.Pipeline.Brand = "ICALPS"
	return cfg
}

func fullExtract() *dataset.Extract {
	return extractOf(map[string]*dataset.Table{
		dataset.EntityCompanies: dataset.New(dataset.EntityCompanies,
			[]string{"Comp_CompanyId", "Comp_Name", "Comp_Website"},
			[][]string{
				{"1", "Acme Grenoble", "acme.com"},
				{"2", "Acme Paris", "acme.com"},
				{"3", "Beta Corp", "beta.io"},
			},
		),
		dataset.EntityContacts: dataset.New(dataset.EntityContacts,
			[]string{"Pers_PersonId", "Pers_FirstName", "Pers_LastName", "Pers_EmailAddress", "Comp_CompanyId"},
			[][]string{
				{"10", "Alice", "Martin", "alice@acme.com", "1"},
			},
		),
		dataset.EntityOpportunities: dataset.New(dataset.EntityOpportunities,
			[]string{"Oppo_OpportunityId", "Oppo_PrimaryCompanyId", "Oppo_PrimaryPersonId", "Oppo_Type", "Oppo_Status", "Oppo_Stage", "Oppo_Forecast", "Oppo_Certainty", "Oppo_CreatedDate"},
			[][]string{
				{"100", "1", "10", "Affaire", "En cours", "Qualification", "50000", "60", "2024-01-15"},
				{"101", "3", "", "Preetude", "Won", "Negotiation", "12000", "100", "2023-11-01"},
			},
		),
		dataset.EntityCommunications: dataset.New(dataset.EntityCommunications,
			[]string{"Comm_CommunicationId", "Comm_Subject", "comm_type", "Comp_CompanyId", "Pers_PersonId", "Oppo_OpportunityId"},
			[][]string{
				{"1", "Kickoff", "MEETING", "1", "10", "100"},
				{"2", "Ping", "EMAIL", "999", "10", ""},
			},
		),
		dataset.EntitySocialLinks: dataset.New(dataset.EntitySocialLinks,
			[]string{"sone_networklink", "network_type", "Related_TableID", "Related_RecordID"},
			[][]string{
				{"https://linkedin.com/company/acme", "LinkedIn", "5", "1"},
				{"#AUTO#", "LinkedIn", "5", "2"},
			},
		),
	})
}

func TestNew_InvalidReferenceDate(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.ReferenceDate = "15/03/2024"

	_, err := New(cfg, &fakeStore{}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference date")
}

func TestPipeline_Run(t *testing.T) {
	st := &fakeStore{}
	p, err := New(testConfig(), st, time.Now())
	require.NoError(t, err)

	result, err := p.Run(context.Background(), fullExtract())
	require.NoError(t, err)
	assert.Equal(t, "test-run", result.RunID)

	// Every stage ran to completion.
	require.Len(t, result.Stages, 5)
	names := make([]string, 0, 5)
	for _, s := range result.Stages {
		names = append(names, s.Name)
		assert.Equal(t, model.StageStatusComplete, s.Status, s.Name)
	}
	assert.Equal(t, []string{"normalize", "map_stages", "aggregate_sites", "resolve_associations", "report"}, names)

	// Outputs flow through.
	require.Len(t, result.Deals, 2)
	assert.Equal(t, StageSalesQualified, result.Deals[0].Stage)
	assert.Equal(t, StageClosedWon, result.Deals[1].Stage)
	assert.NotZero(t, result.Deals[0].Metrics.WeightedForecast)

	// Two Acme sites, one parent, one standalone.
	require.Len(t, result.Sites, 4)
	assert.Equal(t, model.RecordParentAggregator, result.Sites[0].Kind)

	require.Len(t, result.Comms, 2)
	assert.Equal(t, model.AssociationNotFound, result.Comms[1].CompanyStatus)
	require.Len(t, result.Socials, 1) // #AUTO# dropped

	require.NotNil(t, result.Report)
	assert.Equal(t, 2, result.Report.PipelineStats.TotalOpportunities)

	// Status progression lands on complete, and the persisted result
	// mirrors the in-memory one.
	require.NotEmpty(t, st.statuses)
	assert.Equal(t, model.RunStatusComplete, st.statuses[len(st.statuses)-1])
	require.NotNil(t, st.result)
	assert.Equal(t, 2, st.result.DealCount)
	assert.Equal(t, 4, st.result.SiteRecordCount)
}

func TestPipeline_Run_ReferenceDatePinsMetrics(t *testing.T) {
	p1, err := New(testConfig(), &fakeStore{}, time.Now())
	require.NoError(t, err)
	p2, err := New(testConfig(), &fakeStore{}, time.Now().Add(48*time.Hour))
	require.NoError(t, err)

	r1, err := p1.Run(context.Background(), fullExtract())
	require.NoError(t, err)
	r2, err := p2.Run(context.Background(), fullExtract())
	require.NoError(t, err)

	// Identical input and reference date produce identical deal metrics
	// regardless of wall-clock time.
	assert.Equal(t, r1.Deals, r2.Deals)
}

func TestPipeline_Run_EmptyExtractSkipsStages(t *testing.T) {
	st := &fakeStore{}
	p, err := New(testConfig(), st, time.Now())
	require.NoError(t, err)

	result, err := p.Run(context.Background(), extractOf(map[string]*dataset.Table{}))
	require.NoError(t, err)

	byName := make(map[string]model.StageResult, len(result.Stages))
	for _, s := range result.Stages {
		byName[s.Name] = s
	}
	assert.Equal(t, model.StageStatusSkipped, byName["map_stages"].Status)
	assert.Equal(t, model.StageStatusSkipped, byName["aggregate_sites"].Status)
	assert.Equal(t, model.StageStatusComplete, byName["report"].Status)
	assert.Empty(t, result.Deals)
	assert.Empty(t, result.Sites)
}
