package pipeline

import (
	"fmt"

	"github.com/sells-group/crm-migrate/internal/dataset"
	"github.com/sells-group/crm-migrate/internal/model"
)

// Reporter aggregates run outputs into the observability report.
type Reporter struct {
	lowConfidenceThreshold float64
}

// NewReporter creates a Reporter. Deals mapped below the threshold are
// counted as low-confidence and surfaced in the recommendations.
func NewReporter(lowConfidenceThreshold float64) *Reporter {
	return &Reporter{lowConfidenceThreshold: lowConfidenceThreshold}
}

// Build assembles the report from the extract shapes and every stage's
// output.
func (r *Reporter) Build(
	ex *dataset.Extract,
	normalized *Normalized,
	deals []model.TransformedDeal,
	sites []model.SiteRecord,
	comms []model.CommunicationAssociation,
	socials []model.SocialLinkAssociation,
) *model.Report {
	report := &model.Report{
		Summary:         r.summarize(ex),
		PipelineStats:   r.pipelineStats(deals),
		ComputedMetrics: r.computedMetrics(deals),
		SiteStats:       r.siteStats(sites),
		Associations:    r.associationStats(comms, socials),
		Validation:      normalized.Validation,
	}
	report.Recommendations = r.recommendations(report)
	return report
}

func (r *Reporter) summarize(ex *dataset.Extract) map[string]model.EntitySummary {
	summary := make(map[string]model.EntitySummary, len(dataset.Entities))
	for _, entity := range dataset.Entities {
		t := ex.Table(entity)
		if t == nil {
			summary[entity] = model.EntitySummary{}
			continue
		}
		summary[entity] = model.EntitySummary{
			TotalRecords: t.Len(),
			ColumnsCount: len(t.Columns),
		}
	}
	return summary
}

func (r *Reporter) pipelineStats(deals []model.TransformedDeal) model.PipelineStats {
	stats := model.PipelineStats{
		TotalOpportunities:   len(deals),
		PipelineDistribution: make(map[string]int),
		StageDistribution:    make(map[string]int),
		StatusDistribution:   make(map[string]int),
	}
	if len(deals) == 0 {
		return stats
	}

	var confidenceSum, certaintySum float64
	for _, d := range deals {
		stats.PipelineDistribution[string(d.Pipeline)]++
		stats.StageDistribution[d.Stage]++
		stats.StatusDistribution[string(d.Status)]++
		stats.TotalDealValue += d.Amount
		confidenceSum += d.Confidence
		certaintySum += d.Certainty
		if d.Confidence < r.lowConfidenceThreshold {
			stats.LowConfidenceCount++
		}
		if d.Category == model.CategoryStudy {
			stats.StudiesCount++
		} else {
			stats.OpportunitiesCount++
		}
	}
	stats.AverageConfidence = confidenceSum / float64(len(deals))
	stats.AverageCertainty = certaintySum / float64(len(deals))
	return stats
}

func (r *Reporter) computedMetrics(deals []model.TransformedDeal) model.ComputedSummary {
	summary := model.ComputedSummary{
		Metrics:          make(map[string]model.MetricSummary),
		RiskDistribution: make(map[string]int),
	}
	if len(deals) == 0 {
		return summary
	}

	collect := func(name string, get func(model.DealMetrics) float64) {
		s := model.MetricSummary{Min: get(deals[0].Metrics), Max: get(deals[0].Metrics)}
		var sum float64
		for _, d := range deals {
			v := get(d.Metrics)
			sum += v
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		s.Mean = sum / float64(len(deals))
		summary.Metrics[name] = s
	}

	collect("weighted_forecast", func(m model.DealMetrics) float64 { return m.WeightedForecast })
	collect("net_amount", func(m model.DealMetrics) float64 { return m.NetAmount })
	collect("net_weighted_amount", func(m model.DealMetrics) float64 { return m.NetWeightedAmount })
	collect("deal_age_days", func(m model.DealMetrics) float64 { return float64(m.DealAgeDays) })
	collect("stage_duration_days", func(m model.DealMetrics) float64 { return float64(m.StageDurationDays) })
	collect("margin_percentage", func(m model.DealMetrics) float64 { return m.MarginPct })
	collect("roi_percentage", func(m model.DealMetrics) float64 { return m.ROIPct })
	collect("adjusted_forecast", func(m model.DealMetrics) float64 { return m.AdjustedForecast })
	collect("priority_score", func(m model.DealMetrics) float64 { return m.PriorityScore })

	for _, d := range deals {
		summary.RiskDistribution[string(d.Metrics.Risk)]++
	}
	return summary
}

func (r *Reporter) siteStats(sites []model.SiteRecord) model.SiteStats {
	stats := model.SiteStats{TotalRecords: len(sites)}
	for _, s := range sites {
		switch s.Kind {
		case model.RecordParentAggregator:
			stats.ParentRecords++
			stats.MultiSiteGroups++
			stats.TotalContacts += s.ContactCount
		case model.RecordSite:
			stats.SiteRecords++
			if !s.HasMultipleSites {
				stats.StandaloneCount++
				stats.TotalContacts += s.ContactCount
			}
			if s.ContactCount > 0 {
				stats.WithContacts++
			}
		}
	}
	return stats
}

func (r *Reporter) associationStats(comms []model.CommunicationAssociation, socials []model.SocialLinkAssociation) model.AssociationStats {
	stats := model.AssociationStats{
		Communications: make(map[string]int),
		SocialLinks:    make(map[string]int),
	}
	for _, c := range comms {
		stats.Communications["company_"+string(c.CompanyStatus)]++
		stats.Communications["contact_"+string(c.ContactStatus)]++
		stats.Communications["deal_"+string(c.DealStatus)]++
	}
	for _, s := range socials {
		stats.SocialLinks[string(s.Status)]++
	}
	return stats
}

func (r *Reporter) recommendations(report *model.Report) []string {
	var recs []string
	// Stable iteration order so re-runs emit identical recommendations.
	for _, entity := range dataset.Entities {
		if v, ok := report.Validation[entity]; ok && v.QualityScore < 0.8 {
			recs = append(recs, fmt.Sprintf("Improve data quality for %s - current score: %.2f", entity, v.QualityScore))
		}
	}
	if report.PipelineStats.LowConfidenceCount > 0 {
		recs = append(recs, fmt.Sprintf("Review %d opportunities with low mapping confidence", report.PipelineStats.LowConfidenceCount))
	}
	if notFound := report.Associations.SocialLinks[string(model.AssociationNotFound)]; notFound > 0 {
		recs = append(recs, fmt.Sprintf("Resolve %d social links with no matching entity", notFound))
	}
	return recs
}
