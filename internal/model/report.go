package model

// EntitySummary describes one entity dataset in the report.
type EntitySummary struct {
	TotalRecords int `json:"total_records"`
	ColumnsCount int `json:"columns_count"`
}

// PipelineStats summarizes the stage-mapping output.
type PipelineStats struct {
	TotalOpportunities    int            `json:"total_opportunities"`
	PipelineDistribution  map[string]int `json:"pipeline_distribution"`
	StageDistribution     map[string]int `json:"stage_distribution"`
	StatusDistribution    map[string]int `json:"status_distribution"`
	AverageConfidence     float64        `json:"average_mapping_confidence"`
	LowConfidenceCount    int            `json:"low_confidence_count"`
	TotalDealValue        float64        `json:"total_deal_value"`
	AverageCertainty      float64        `json:"average_certainty"`
	StudiesCount          int            `json:"studies_count"`
	OpportunitiesCount    int            `json:"opportunities_count"`
}

// MetricSummary holds basic distribution statistics for one computed field.
type MetricSummary struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ComputedSummary summarizes the computed-field output.
type ComputedSummary struct {
	Metrics          map[string]MetricSummary `json:"metrics"`
	RiskDistribution map[string]int           `json:"risk_distribution"`
}

// ValidationResult is the outcome of data-quality validation for one entity.
type ValidationResult struct {
	EntityType   string   `json:"entity_type"`
	TotalRecords int      `json:"total_records"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
	QualityScore float64  `json:"quality_score"`
}

// AssociationStats summarizes association-resolution outcomes.
type AssociationStats struct {
	Communications map[string]int `json:"communications"`
	SocialLinks    map[string]int `json:"social_links"`
}

// SiteStats summarizes the site-aggregation output.
type SiteStats struct {
	TotalRecords     int `json:"total_records"`
	SiteRecords      int `json:"site_records"`
	ParentRecords    int `json:"parent_aggregator_records"`
	MultiSiteGroups  int `json:"multi_site_groups"`
	TotalContacts    int `json:"total_contacts"`
	WithContacts     int `json:"companies_with_contacts"`
	StandaloneCount  int `json:"standalone_count"`
}

// Report is the JSON-serializable observability output of a run.
type Report struct {
	Summary         map[string]EntitySummary    `json:"summary"`
	PipelineStats   PipelineStats               `json:"pipeline_stats"`
	ComputedMetrics ComputedSummary             `json:"computed_metrics"`
	SiteStats       SiteStats                   `json:"site_stats"`
	Associations    AssociationStats            `json:"association_stats"`
	Validation      map[string]ValidationResult `json:"validation_results"`
	Recommendations []string                    `json:"recommendations"`
}
