package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/crm-migrate/internal/config"
	"github.com/sells-group/crm-migrate/internal/dataset"
	"github.com/sells-group/crm-migrate/internal/model"
	"github.com/sells-group/crm-migrate/internal/store"
)

// Result carries every dataset produced by one run.
type Result struct {
	RunID      string
	Extract    *dataset.Extract
	Normalized *Normalized
	Deals      []model.TransformedDeal
	Sites      []model.SiteRecord
	Comms      []model.CommunicationAssociation
	Socials    []model.SocialLinkAssociation
	Report     *model.Report
	Stages     []model.StageResult
}

// Pipeline orchestrates the transformation stages in dependency order.
type Pipeline struct {
	cfg   *config.Config
	store store.Store
	now   time.Time
}

// New creates a Pipeline. The reference time pins all date arithmetic; it
// comes from config when set, otherwise from the caller's clock.
func New(cfg *config.Config, st store.Store, now time.Time) (*Pipeline, error) {
	if err := ValidateRules(); err != nil {
		return nil, err
	}
	if cfg.Pipeline.ReferenceDate != "" {
		ref, err := time.Parse("2006-01-02", cfg.Pipeline.ReferenceDate)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: parse reference date")
		}
		now = ref
	}
	return &Pipeline{cfg: cfg, store: st, now: now}, nil
}

// Run executes a full migration run over the given extract.
func (p *Pipeline) Run(ctx context.Context, ex *dataset.Extract) (*Result, error) {
	log := zap.L().With(zap.String("source", p.cfg.Input.Source))
	log.Info("pipeline: starting run")

	result := &Result{Extract: ex}

	run, err := p.store.CreateRun(ctx, p.cfg.Input.Source)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	result.RunID = run.ID

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	trackStage := func(name string, fn func() (*model.StageResult, error)) *model.StageResult {
		start := time.Now()
		stageResult, fnErr := fn()
		duration := time.Since(start).Milliseconds()

		if stageResult == nil {
			stageResult = &model.StageResult{}
		}
		stageResult.Name = name
		stageResult.Duration = duration

		if fnErr != nil {
			stageResult.Status = model.StageStatusFailed
			stageResult.Error = fnErr.Error()
			log.Warn("pipeline: stage failed, downstream sees empty data",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		} else if stageResult.Status == "" {
			stageResult.Status = model.StageStatusComplete
			log.Info("pipeline: stage complete",
				zap.String("stage", name),
				zap.Int("records", stageResult.Records),
				zap.Int64("duration_ms", duration),
			)
		}

		result.Stages = append(result.Stages, *stageResult)
		return stageResult
	}

	// ===== Stage 1: Normalize =====
	setStatus(model.RunStatusNormalizing)

	var normalized *Normalized
	trackStage("normalize", func() (*model.StageResult, error) {
		normalized = NewNormalizer().Normalize(ex)
		records := len(normalized.Companies) + len(normalized.Contacts) +
			len(normalized.Opportunities) + len(normalized.Communications) + len(normalized.SocialLinks)
		meta := make(map[string]any, len(normalized.Validation))
		for entity, v := range normalized.Validation {
			meta[entity+"_quality"] = v.QualityScore
		}
		return &model.StageResult{Records: records, Metadata: meta}, nil
	})
	result.Normalized = normalized

	// ===== Stage 2: Map stages and compute metrics =====
	setStatus(model.RunStatusMapping)

	trackStage("map_stages", func() (*model.StageResult, error) {
		if len(normalized.Opportunities) == 0 {
			return &model.StageResult{
				Status:   model.StageStatusSkipped,
				Metadata: map[string]any{"reason": "no opportunities"},
			}, nil
		}
		mapper := NewStageMapper(p.cfg.Pipeline.DefaultOwnerID, p.cfg.Pipeline.Brand)
		result.Deals = mapper.Transform(normalized.Opportunities)
		NewEngine(p.now).Compute(result.Deals, normalized.Opportunities)
		return &model.StageResult{Records: len(result.Deals)}, nil
	})

	// ===== Stage 3: Aggregate sites =====
	setStatus(model.RunStatusAggregating)

	trackStage("aggregate_sites", func() (*model.StageResult, error) {
		if len(normalized.Companies) == 0 {
			return &model.StageResult{
				Status:   model.StageStatusSkipped,
				Metadata: map[string]any{"reason": "no companies"},
			}, nil
		}
		result.Sites = NewAggregator().Aggregate(normalized.Companies, normalized.Contacts)
		return &model.StageResult{Records: len(result.Sites)}, nil
	})

	// ===== Stage 4: Resolve associations =====
	setStatus(model.RunStatusResolving)

	trackStage("resolve_associations", func() (*model.StageResult, error) {
		resolver := NewResolver(normalized.Companies, normalized.Contacts, result.Deals)
		result.Comms = resolver.ResolveCommunications(normalized.Communications)
		result.Socials = resolver.ResolveSocialLinks(normalized.SocialLinks)
		return &model.StageResult{Records: len(result.Comms) + len(result.Socials)}, nil
	})

	// ===== Stage 5: Report =====
	setStatus(model.RunStatusReporting)

	trackStage("report", func() (*model.StageResult, error) {
		result.Report = NewReporter(p.cfg.Pipeline.LowConfidenceThreshold).Build(
			ex, normalized, result.Deals, result.Sites, result.Comms, result.Socials,
		)
		return &model.StageResult{}, nil
	})

	setStatus(model.RunStatusComplete)

	runResult := &model.RunResult{
		Stages:          result.Stages,
		DealCount:       len(result.Deals),
		SiteRecordCount: len(result.Sites),
		CommCount:       len(result.Comms),
		SocialCount:     len(result.Socials),
		Report:          result.Report,
	}
	if saveErr := p.store.UpdateRunResult(ctx, run.ID, runResult); saveErr != nil {
		log.Warn("pipeline: failed to save run result", zap.Error(saveErr))
	}

	log.Info("pipeline: run complete",
		zap.String("run_id", run.ID),
		zap.Int("deals", len(result.Deals)),
		zap.Int("site_records", len(result.Sites)),
		zap.Int("communications", len(result.Comms)),
		zap.Int("social_links", len(result.Socials)),
	)
	return result, nil
}
