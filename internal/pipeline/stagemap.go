package pipeline

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/crm-migrate/internal/model"
)

// Studies pipeline stage labels.
const (
	StageStudiesIdentification = "01-Identification"
	StageStudiesQualified      = "02-Qualifiée"
	StageStudiesEvaluation     = "03-Evaluation technique"
	StageStudiesPropositions   = "04-Construction propositions"
	StageStudiesNegotiation    = "05-Négociation"
)

// Sales pipeline stage labels.
const (
	StageSalesIdentified = "Identified"
	StageSalesQualified  = "Qualified"
	StageSalesDesignIn   = "Design In"
	StageSalesNegotiate  = "Negotiate"
	StageSalesDesignWin  = "Design Win"
)

// Terminal stage labels shared by both pipelines.
const (
	StageClosedWon  = "Closed Won"
	StageClosedLost = "Closed Lost"
	StageClosedDead = "Closed Dead"
)

// activeStageRule maps a legacy stage substring to a target stage. Rules
// are checked in order; the first substring match wins.
type activeStageRule struct {
	match string
	stage string
}

// Active-stage vocabularies, keyed by folded (lower-case, unaccented)
// substrings of the legacy stage text. "construction offre" is an older
// spelling of the propositions stage.
var (
	studiesStageRules = []activeStageRule{
		{"identification", StageStudiesIdentification},
		{"qualif", StageStudiesQualified},
		{"evaluation technique", StageStudiesEvaluation},
		{"construction propositions", StageStudiesPropositions},
		{"construction offre", StageStudiesPropositions},
		{"negoti", StageStudiesNegotiation},
		{"negoci", StageStudiesNegotiation},
	}
	salesStageRules = []activeStageRule{
		{"identification", StageSalesIdentified},
		{"qualif", StageSalesQualified},
		{"evaluation technique", StageSalesDesignIn},
		{"construction propositions", StageSalesNegotiate},
		{"construction offre", StageSalesNegotiate},
		{"negoti", StageSalesDesignWin},
		{"negoci", StageSalesDesignWin},
	}
)

// Mapping holds one stage-mapping decision.
type Mapping struct {
	Pipeline   model.PipelineType
	Stage      string
	Status     model.DealStatus
	Confidence float64
	Note       string
}

// StageMapper maps legacy (status, stage, type, certainty) tuples onto the
// two target pipelines. Mapping is total: every input maps to a stage.
type StageMapper struct {
	defaultOwnerID int
	brand          string
}

// NewStageMapper creates a StageMapper.
func NewStageMapper(defaultOwnerID int, brand string) *StageMapper {
	return &StageMapper{defaultOwnerID: defaultOwnerID, brand: brand}
}

// DeterminePipeline selects the pipeline from the legacy opportunity type.
// Preetude deals track the Studies pipeline, everything else is Sales.
func DeterminePipeline(dealType string) model.PipelineType {
	if strings.TrimSpace(dealType) == "Preetude" {
		return model.PipelineStudies
	}
	return model.PipelineSales
}

// Map resolves the target pipeline and stage for one legacy opportunity.
// Precedence: abandoned+low-certainty, Won, Lost/NoGo, Sleap hold, then
// active-stage lookup with a level-1 default.
func (m *StageMapper) Map(status, stage, dealType string, certainty float64) Mapping {
	status = cleanString(status)
	stage = cleanString(stage)
	dealType = cleanString(dealType)

	pipeline := DeterminePipeline(dealType)
	confidence := mappingConfidence(status, stage, dealType)

	foldedStatus := fold(status)

	// Abandoned deals with certainty at or below 10 are dead, above that
	// they fall through to active mapping.
	if (foldedStatus == "abandonne" || foldedStatus == "abandonnee") && certainty <= 10 {
		return Mapping{pipeline, StageClosedDead, model.DealLost, confidence, "Moved to Closed Dead (abandoned + low certainty)"}
	}

	switch foldedStatus {
	case "won":
		return Mapping{pipeline, StageClosedWon, model.DealWon, confidence, "Deal successfully closed"}
	case "lost", "nogo":
		return Mapping{pipeline, StageClosedLost, model.DealLost, confidence, "Deal closed as lost"}
	case "sleap":
		// On-hold deals park in the last pre-close stage of their
		// pipeline rather than keeping their prior stage.
		if pipeline == model.PipelineStudies {
			return Mapping{pipeline, StageStudiesNegotiation, model.DealInProgress, confidence, "Deal on hold (Sleap)"}
		}
		return Mapping{pipeline, StageSalesDesignWin, model.DealInProgress, confidence, "Deal on hold (Sleap)"}
	}

	return m.mapActiveStage(pipeline, stage, confidence)
}

func (m *StageMapper) mapActiveStage(pipeline model.PipelineType, stage string, confidence float64) Mapping {
	rules := salesStageRules
	note := "Mapped to Sales Pipeline"
	if pipeline == model.PipelineStudies {
		rules = studiesStageRules
		note = "Mapped to Studies Pipeline"
	}

	folded := fold(stage)
	for _, r := range rules {
		if strings.Contains(folded, r.match) {
			return Mapping{pipeline, r.stage, model.DealInProgress, confidence, note}
		}
	}

	defaultStage := StageSalesIdentified
	if pipeline == model.PipelineStudies {
		defaultStage = StageStudiesIdentification
	}
	// Unmatched stage text costs 0.1. Empty stage text already paid the
	// missing-input penalty and is not charged again here.
	if stage != "" {
		confidence = clampConfidence(confidence - 0.1)
	}
	return Mapping{pipeline, defaultStage, model.DealInProgress, confidence, "Default mapping applied"}
}

// mappingConfidence scores the quality of a mapping's inputs. Advisory
// only: mapping never fails regardless of the score.
func mappingConfidence(status, stage, dealType string) float64 {
	confidence := 1.0
	if status == "" {
		confidence -= 0.2
	}
	if stage == "" {
		confidence -= 0.2
	}
	if dealType == "" {
		confidence -= 0.1
	}
	folded := fold(status)
	if folded == "won" || folded == "lost" {
		confidence += 0.2
		if confidence > 1.0 {
			confidence = 1.0
		}
	}
	return clampConfidence(confidence)
}

func clampConfidence(c float64) float64 {
	if c < 0.1 {
		return 0.1
	}
	if c > 1.0 {
		return 1.0
	}
	return c
}

// Transform maps every normalized opportunity to a TransformedDeal.
func (m *StageMapper) Transform(opps []model.Opportunity) []model.TransformedDeal {
	deals := make([]model.TransformedDeal, 0, len(opps))
	for _, o := range opps {
		mapping := m.Map(o.Status, o.Stage, o.Type, o.Certainty)

		category := model.CategoryOpportunity
		if mapping.Pipeline == model.PipelineStudies {
			category = model.CategoryStudy
		}

		owner := o.OwnerID
		if owner == 0 {
			owner = m.defaultOwnerID
		}

		deals = append(deals, model.TransformedDeal{
			ID:             o.ID,
			Name:           o.Description,
			Pipeline:       mapping.Pipeline,
			Stage:          mapping.Stage,
			Status:         mapping.Status,
			Category:       category,
			Amount:         o.Forecast,
			Certainty:      o.Certainty,
			Type:           o.Type,
			Source:         o.Source,
			Brand:          m.brand,
			Note:           o.Note,
			CompanyID:      o.CompanyID,
			ContactID:      o.ContactID,
			OwnerID:        owner,
			CreatedDate:    o.CreatedDate,
			CloseDate:      o.TargetClose,
			OriginalStage:  o.Stage,
			OriginalStatus: o.Status,
			Confidence:     mapping.Confidence,
			Transformation: mapping.Note,
		})
	}
	return deals
}

// ValidateRules checks the static stage vocabularies: both pipelines must
// carry full rule sets, and their stage labels must not overlap.
func ValidateRules() error {
	if len(studiesStageRules) == 0 || len(salesStageRules) == 0 {
		return eris.New("stagemap: empty stage vocabulary")
	}

	studies := make(map[string]bool, len(studiesStageRules))
	for _, r := range studiesStageRules {
		studies[r.stage] = true
	}
	for _, r := range salesStageRules {
		if studies[r.stage] {
			return eris.Errorf("stagemap: stage %q appears in both pipelines", r.stage)
		}
	}
	return nil
}
