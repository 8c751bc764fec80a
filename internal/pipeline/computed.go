package pipeline

import (
	"time"

	"github.com/sells-group/crm-migrate/internal/model"
)

// Risk thresholds on certainty percentage.
const (
	highRiskBelow = 30
	lowRiskAbove  = 70
)

// stageMultipliers adjust the raw forecast by stage maturity.
var stageMultipliers = map[string]float64{
	StageStudiesIdentification: 0.1,
	StageSalesIdentified:       0.1,
	StageStudiesQualified:      0.25,
	StageSalesQualified:        0.25,
	StageStudiesEvaluation:     0.5,
	StageSalesDesignIn:         0.5,
	StageStudiesPropositions:   0.75,
	StageSalesNegotiate:        0.75,
	StageStudiesNegotiation:    0.9,
	StageSalesDesignWin:        0.9,
	StageClosedWon:             1.0,
	StageClosedLost:            0.0,
	StageClosedDead:            0.0,
}

const defaultStageMultiplier = 0.5

// stageDurationLimits is the number of days a deal may sit in a stage
// before it is flagged overdue.
var stageDurationLimits = map[string]int{
	StageStudiesIdentification: 30,
	StageSalesIdentified:       30,
	StageStudiesQualified:      45,
	StageSalesQualified:        45,
	StageStudiesEvaluation:     60,
	StageSalesDesignIn:         60,
	StageStudiesPropositions:   45,
	StageSalesNegotiate:        45,
	StageStudiesNegotiation:    30,
	StageSalesDesignWin:        30,
}

const defaultStageDurationLimit = 60

// Engine derives financial and temporal metrics for transformed deals.
// All date arithmetic uses the injected reference time so identical inputs
// produce identical outputs across re-runs.
type Engine struct {
	now time.Time
}

// NewEngine creates an Engine pinned to the given reference time.
func NewEngine(now time.Time) *Engine {
	return &Engine{now: now}
}

// WeightedForecast is forecast scaled by certainty.
func WeightedForecast(forecast, certainty float64) float64 {
	return forecast * (certainty / 100)
}

// NetAmount is forecast minus cost.
func NetAmount(forecast, cost float64) float64 {
	return forecast - cost
}

// NetWeightedAmount is the net amount scaled by certainty.
func NetWeightedAmount(netAmount, certainty float64) float64 {
	return netAmount * (certainty / 100)
}

// DaysSince counts whole days from t to the reference time, clamped at 0.
// A zero time yields 0.
func (e *Engine) DaysSince(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	days := int(e.now.Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// RiskLevel buckets a deal by certainty.
func RiskLevel(certainty float64) model.RiskLevel {
	switch {
	case certainty < highRiskBelow:
		return model.RiskHigh
	case certainty <= lowRiskAbove:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// MarginPct is net amount over forecast, 0 when forecast is not positive.
func MarginPct(netAmount, forecast float64) float64 {
	if forecast <= 0 {
		return 0
	}
	return netAmount / forecast * 100
}

// ROIPct is net amount over cost, 0 when cost is not positive.
func ROIPct(netAmount, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return netAmount / cost * 100
}

// Compute derives all metrics for the deals, in dependency order, and adds
// them to each deal in place. Priority scoring normalizes against the
// batch maxima, so it needs the whole slice.
func (e *Engine) Compute(deals []model.TransformedDeal, opps []model.Opportunity) {
	costs := make(map[int]float64, len(opps))
	updated := make(map[int]time.Time, len(opps))
	for _, o := range opps {
		costs[o.ID] = o.Cost
		updated[o.ID] = o.UpdatedDate
	}

	var maxForecast float64
	var maxAge int
	for i := range deals {
		d := &deals[i]
		cost := costs[d.ID]

		m := &d.Metrics
		m.WeightedForecast = WeightedForecast(d.Amount, d.Certainty)
		m.NetAmount = NetAmount(d.Amount, cost)
		m.NetWeightedAmount = NetWeightedAmount(m.NetAmount, d.Certainty)
		m.DealAgeDays = e.DaysSince(d.CreatedDate)
		m.StageDurationDays = e.DaysSince(updated[d.ID])
		m.Risk = RiskLevel(d.Certainty)
		m.MarginPct = MarginPct(m.NetAmount, d.Amount)
		m.ROIPct = ROIPct(m.NetAmount, cost)

		m.StageMultiplier = defaultStageMultiplier
		if mult, ok := stageMultipliers[d.Stage]; ok {
			m.StageMultiplier = mult
		}
		m.AdjustedForecast = d.Amount * m.StageMultiplier

		m.StageDurationLimit = defaultStageDurationLimit
		if limit, ok := stageDurationLimits[d.Stage]; ok {
			m.StageDurationLimit = limit
		}
		m.StageOverdue = m.StageDurationDays > m.StageDurationLimit

		if d.Amount > maxForecast {
			maxForecast = d.Amount
		}
		if m.DealAgeDays > maxAge {
			maxAge = m.DealAgeDays
		}
	}

	for i := range deals {
		m := &deals[i].Metrics
		m.PriorityScore = priorityScore(deals[i].Amount, deals[i].Certainty, maxForecast, m.DealAgeDays, maxAge)
		m.Priority = priorityLevel(m.PriorityScore)
	}
}

// priorityScore weighs deal value 0.4, certainty 0.3, and recency 0.3.
// Value and age are normalized against the batch maxima.
func priorityScore(forecast, certainty, maxForecast float64, ageDays, maxAge int) float64 {
	var score float64
	if maxForecast > 0 {
		score += forecast / maxForecast * 0.4
	}
	score += certainty / 100 * 0.3
	if maxAge > 0 {
		score += (1 - float64(ageDays)/float64(maxAge)) * 0.3
	}
	return score
}

func priorityLevel(score float64) model.PriorityLevel {
	switch {
	case score <= 0.33:
		return model.PriorityLow
	case score <= 0.66:
		return model.PriorityMedium
	default:
		return model.PriorityHigh
	}
}
