package model

import "time"

// Opportunity is a normalized legacy opportunity row. Reference IDs are 0
// when absent. Forecast, Certainty, and Cost are already coerced to numeric
// with a zero fallback by the normalizer.
type Opportunity struct {
	ID          int       `json:"id"`
	CompanyID   int       `json:"company_id,omitempty"`
	ContactID   int       `json:"contact_id,omitempty"`
	OwnerID     int       `json:"owner_id,omitempty"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Stage       string    `json:"stage"`
	Source      string    `json:"source"`
	Note        string    `json:"note"`
	Forecast    float64   `json:"forecast"`
	Certainty   float64   `json:"certainty"`
	Cost        float64   `json:"cost"`
	CreatedDate time.Time `json:"created_date"`
	UpdatedDate time.Time `json:"updated_date"`
	TargetClose time.Time `json:"target_close"`
}

// PipelineType identifies one of the two parallel deal-progression tracks.
type PipelineType string

const (
	PipelineStudies PipelineType = "Studies Pipeline"
	PipelineSales   PipelineType = "Sales Pipeline"
)

// DealStatus is the coarse deal outcome carried on a transformed deal.
type DealStatus string

const (
	DealWon        DealStatus = "Won"
	DealLost       DealStatus = "Lost"
	DealInProgress DealStatus = "In Progress"
)

// DealCategory distinguishes pre-study engagements from sales opportunities.
type DealCategory string

const (
	CategoryStudy       DealCategory = "Study"
	CategoryOpportunity DealCategory = "Opportunity"
)

// RiskLevel buckets a deal by its certainty percentage.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High Risk"
	RiskMedium RiskLevel = "Medium Risk"
	RiskLow    RiskLevel = "Low Risk"
)

// PriorityLevel buckets a deal's composite priority score.
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "Low"
	PriorityMedium PriorityLevel = "Medium"
	PriorityHigh   PriorityLevel = "High"
)

// DealMetrics holds the derived financial and temporal fields computed for
// one transformed deal. NetWeightedAmount depends on NetAmount; the engine
// computes fields in dependency order.
type DealMetrics struct {
	WeightedForecast  float64   `json:"weighted_forecast"`
	NetAmount         float64   `json:"net_amount"`
	NetWeightedAmount float64   `json:"net_weighted_amount"`
	DealAgeDays       int       `json:"deal_age_days"`
	StageDurationDays int       `json:"stage_duration_days"`
	Risk              RiskLevel `json:"risk_assessment"`
	MarginPct         float64   `json:"margin_percentage"`
	ROIPct            float64   `json:"roi_percentage"`

	// Business-rule extensions over the mapped stage.
	StageMultiplier    float64       `json:"stage_multiplier"`
	AdjustedForecast   float64       `json:"adjusted_forecast"`
	StageDurationLimit int           `json:"stage_duration_limit"`
	StageOverdue       bool          `json:"stage_overdue"`
	PriorityScore      float64       `json:"priority_score"`
	Priority           PriorityLevel `json:"calculated_priority"`
}

// TransformedDeal is the pipeline-mapped form of an Opportunity, created
// once by the stage mapper and immutable for the rest of the run.
type TransformedDeal struct {
	ID             int          `json:"record_id"`
	Name           string       `json:"deal_name"`
	Pipeline       PipelineType `json:"pipeline"`
	Stage          string       `json:"deal_stage"`
	Status         DealStatus   `json:"deal_status"`
	Category       DealCategory `json:"deal_category"`
	Amount         float64      `json:"deal_amount"`
	Certainty      float64      `json:"deal_certainty"`
	Type           string       `json:"deal_type"`
	Source         string       `json:"deal_source"`
	Brand          string       `json:"deal_brand"`
	Note           string       `json:"deal_notes"`
	CompanyID      int          `json:"deal_company_id,omitempty"`
	ContactID      int          `json:"deal_contact_id,omitempty"`
	OwnerID        int          `json:"deal_owner"`
	CreatedDate    time.Time    `json:"deal_created_date"`
	CloseDate      time.Time    `json:"deal_close_date"`
	OriginalStage  string       `json:"original_stage"`
	OriginalStatus string       `json:"original_status"`
	Confidence     float64      `json:"mapping_confidence"`
	Transformation string       `json:"transformation_notes"`
	Metrics        DealMetrics  `json:"metrics"`
}
