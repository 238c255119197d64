package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"scenario-engine/internal/baselinestore"
	"scenario-engine/internal/capacity"
	"scenario-engine/internal/evalcache"
	"scenario-engine/internal/metrics"
	"scenario-engine/internal/model"
)

var ErrNoBaseline = errors.New("no baseline configured")

// Service is the orchestration boundary around the pure engine. It holds the
// one current Settings value and takes a snapshot of it at the start of
// every operation, so an operation never sees a settings change half way.
type Service struct {
	settings  atomic.Pointer[model.Settings]
	baselines *baselinestore.Store
	cache     *evalcache.Cache
	metrics   *metrics.Recorder
	logger    *zap.Logger
	workers   int
}

type Option func(*Service)

// WithCache enables memoization of scenario evaluations.
func WithCache(c *evalcache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithWorkers bounds the concurrency of batch sweeps.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

func NewService(settings model.Settings, baselines *baselinestore.Store, opts ...Option) *Service {
	s := &Service{
		baselines: baselines,
		logger:    zap.NewNop(),
		workers:   4,
	}
	for _, opt := range opts {
		opt(s)
	}
	if msgs := s.SetSettings(settings); len(msgs) > 0 {
		s.logger.Warn("initial settings normalised", zap.Int("diagnostics", len(msgs)))
	}
	return s
}

// Settings returns a copy of the current settings.
func (s *Service) Settings() model.Settings {
	return s.settings.Load().Clone()
}

// SetSettings normalises and installs new settings and invalidates every
// cached evaluation.
func (s *Service) SetSettings(in model.Settings) []model.CalculationMessage {
	norm, msgs := NormalizeSettings(in)
	s.settings.Store(&norm)
	s.cache.Purge()
	s.metrics.Diagnostics(msgs)
	for _, m := range msgs {
		s.logger.Warn("settings value replaced", zap.String("code", m.Code), zap.String("detail", m.Message))
	}
	return msgs
}

func (s *Service) snapshot() model.Settings {
	return *s.settings.Load()
}

// evaluate consults the cache before falling back to a fresh evaluation.
// The snapshot must already be normalised.
func (s *Service) evaluate(cfg model.Configuration, snap model.Settings) (model.ScenarioResult, []model.CalculationMessage) {
	if s.cache != nil {
		if r, msgs, ok := s.cache.Get(cfg, snap); ok {
			s.metrics.CacheLookup(true)
			return r, msgs
		}
		s.metrics.CacheLookup(false)
	}
	r, msgs := evaluateNormalized(cfg, snap)
	s.cache.Store(cfg, snap, r, msgs)
	return r, msgs
}

func (s *Service) record(kind string, start time.Time, msgs []model.CalculationMessage) {
	s.metrics.Observe(kind, model.OutcomeSuccess, time.Since(start))
	s.metrics.Diagnostics(msgs)
	for _, m := range msgs {
		if m.Code == model.CodeCostReconciliation {
			s.logger.Warn("cost identity mismatch", zap.String("kind", kind), zap.String("detail", m.Message))
		}
	}
}

func clampIfAsked(cfg model.Configuration, snap model.Settings, clamp bool) (model.Configuration, []model.CalculationMessage) {
	if !clamp {
		return cfg, nil
	}
	// Clamp against the horizon the evaluation will actually use.
	norm, _ := NormalizeConfiguration(cfg, snap)
	clamped, changed := capacity.ClampCohorts(norm)
	if !changed {
		return cfg, nil
	}
	msg := model.Warning(model.CodeCohortsClamped,
		fmt.Sprintf("%s: %d cohorts exceed the feasible ceiling; clamped to %d", cfg.Tier, cfg.Cohorts, clamped.Cohorts))
	cfg.Cohorts = clamped.Cohorts
	return cfg, []model.CalculationMessage{msg}
}

// EvaluateScenario evaluates one configuration under the current settings.
func (s *Service) EvaluateScenario(p model.ScenarioProperties) (model.ScenarioOutput, []model.CalculationMessage) {
	start := time.Now()
	snap := s.snapshot()

	cfg, msgs := clampIfAsked(p.Configuration, snap, p.ClampCohorts)
	r, evalMsgs := s.evaluate(cfg, snap)
	msgs = append(msgs, evalMsgs...)

	s.record("scenario", start, msgs)
	return model.ScenarioOutput{Scenario: r, Headline: Headline(r.Aggregate(), snap)}, msgs
}

// EvaluatePortfolio evaluates a set of tiers, optionally comparing the
// result against the baseline and allocating a graduate target gap.
func (s *Service) EvaluatePortfolio(p model.PortfolioProperties) (model.PortfolioOutput, []model.CalculationMessage) {
	start := time.Now()
	snap := s.snapshot()

	tiers := make(map[model.Tier]model.Configuration, len(p.Tiers))
	for tier, cfg := range p.Tiers {
		tiers[tier] = cfg
	}
	var msgs []model.CalculationMessage
	for _, tier := range model.Tiers {
		cfg, ok := tiers[tier]
		if !ok {
			continue
		}
		if cfg.Tier == "" {
			cfg.Tier = tier
		}
		cfg, clampMsgs := clampIfAsked(cfg, snap, p.ClampCohorts)
		msgs = append(msgs, clampMsgs...)
		tiers[tier] = cfg
	}

	res, evalMsgs := evaluatePortfolio(tiers, snap, s.evaluate)
	msgs = append(msgs, evalMsgs...)

	out := model.PortfolioOutput{Portfolio: res, Headline: Headline(res.Totals, snap)}

	if p.CompareToBaseline {
		cmp, cmpMsgs := s.compare(tiers, res, snap)
		msgs = append(msgs, cmpMsgs...)
		out.Comparison = cmp
	}
	if p.TargetGraduates != nil {
		if target := *p.TargetGraduates; finite(target) {
			alloc := AllocateGap(res, target)
			out.GapAllocation = &alloc
		} else {
			msgs = append(msgs, model.Warning(model.CodeInvalidValue,
				"target_graduates is not a finite number; gap allocation skipped"))
		}
	}

	s.record("portfolio", start, msgs)
	return out, msgs
}

func (s *Service) compare(tiers map[model.Tier]model.Configuration, candidate model.PortfolioResult, snap model.Settings) (*model.Comparison, []model.CalculationMessage) {
	baseTiers, ok := s.baselines.Get()
	if !ok {
		return nil, []model.CalculationMessage{model.Warning(model.CodeNoBaseline,
			"no baseline configured; incremental metrics were not computed")}
	}
	base, baseMsgs := evaluatePortfolio(baseTiers, snap, s.evaluate)
	msgs := make([]model.CalculationMessage, 0, len(baseMsgs))
	for _, m := range baseMsgs {
		m.Message = "baseline: " + m.Message
		msgs = append(msgs, m)
	}

	cmp := Compare(base, candidate)
	changes, err := ConfigurationChanges(baseTiers, tiers)
	if err != nil {
		s.logger.Warn("configuration diff failed", zap.Error(err))
	}
	cmp.ConfigurationChanges = changes
	return &cmp, msgs
}

// Baseline evaluates the stored baseline under the current settings.
func (s *Service) Baseline() (model.BaselineView, error) {
	tiers, ok := s.baselines.Get()
	if !ok {
		return model.BaselineView{Tiers: tiers}, ErrNoBaseline
	}
	snap := s.snapshot()
	res, msgs := evaluatePortfolio(tiers, snap, s.evaluate)
	h := Headline(res.Totals, snap)
	return model.BaselineView{
		Tiers:     tiers,
		UpdatedAt: s.baselines.UpdatedAt().Format(time.RFC3339),
		Portfolio: &res,
		Headline:  &h,
		Messages:  msgs,
	}, nil
}

// SetBaseline replaces the stored baseline configurations.
func (s *Service) SetBaseline(tiers map[model.Tier]model.Configuration) error {
	if err := s.baselines.Put(tiers); err != nil {
		return fmt.Errorf("store baseline: %w", err)
	}
	s.logger.Info("baseline replaced", zap.Int("tiers", len(tiers)))
	return nil
}

// EvaluateBatch evaluates many saved configurations against one frozen
// settings snapshot. Results keep the input order.
func (s *Service) EvaluateBatch(ctx context.Context, cfgs []model.Configuration) (model.BatchOutput, error) {
	start := time.Now()
	snap := s.snapshot()
	items := make([]model.BatchItem, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, cfg := range cfgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, msgs := s.evaluate(cfg, snap)
			items[i] = model.BatchItem{Scenario: r, Messages: msgs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.BatchOutput{}, fmt.Errorf("batch evaluation: %w", err)
	}

	var all []model.CalculationMessage
	for _, it := range items {
		all = append(all, it.Messages...)
	}
	s.record("batch", start, all)
	return model.BatchOutput{Items: items}, nil
}

// CostSensitivity re-evaluates cfg at each cost per trainee per month in
// costs, all under the same settings snapshot.
func (s *Service) CostSensitivity(ctx context.Context, p model.CostSweepProperties) (model.CostSweep, []model.CalculationMessage, error) {
	cfgs := make([]model.Configuration, len(p.Costs))
	for i, c := range p.Costs {
		cfg := p.Configuration
		cfg.CostPerTraineePerMonth = c
		cfgs[i] = cfg
	}

	batch, err := s.EvaluateBatch(ctx, cfgs)
	if err != nil {
		return model.CostSweep{}, nil, err
	}

	sweep := model.CostSweep{Points: make([]model.SweepPoint, len(batch.Items))}
	endorsements := make([]float64, len(batch.Items))
	var msgs []model.CalculationMessage
	for i, it := range batch.Items {
		r := it.Scenario
		sweep.Points[i] = model.SweepPoint{
			CostPerTraineePerMonth: r.Configuration.CostPerTraineePerMonth,
			EndorsementPct:         r.Preference.EndorsementPct,
			EconomicCost:           r.Cost.EconomicCostAllCohorts,
			NetBenefit:             r.NetBenefitAllCohorts,
			BCR:                    r.BCR,
		}
		endorsements[i] = r.Preference.EndorsementPct
		msgs = append(msgs, it.Messages...)
	}
	if len(endorsements) > 0 {
		sweep.MeanEndorsementPct = stat.Mean(endorsements, nil)
	}
	return sweep, msgs, nil
}
