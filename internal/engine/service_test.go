package engine

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"scenario-engine/internal/baselinestore"
	"scenario-engine/internal/evalcache"
	"scenario-engine/internal/metrics"
	"scenario-engine/internal/model"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *evalcache.Cache) {
	t.Helper()
	store, err := baselinestore.Open("")
	require.NoError(t, err)
	cache := evalcache.New()
	opts = append([]Option{
		WithCache(cache),
		WithLogger(zaptest.NewLogger(t)),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	}, opts...)
	return NewService(model.DefaultSettings(), store, opts...), cache
}

func TestServiceCachesAndPurgesOnSettingsChange(t *testing.T) {
	svc, cache := newTestService(t)
	p := model.ScenarioProperties{Configuration: model.DefaultConfiguration(model.TierFrontline)}

	first, _ := svc.EvaluateScenario(p)
	again, _ := svc.EvaluateScenario(p)
	assert.Equal(t, first.Scenario, again.Scenario)
	assert.Equal(t, 1, cache.Len())
	hits, _ := cache.Stats()
	assert.Equal(t, uint64(1), hits)

	s := svc.Settings()
	ts := s.Tiers[model.TierFrontline]
	ts.ValuePerGraduate *= 2
	s.Tiers[model.TierFrontline] = ts
	assert.Empty(t, svc.SetSettings(s))
	assert.Zero(t, cache.Len())

	after, _ := svc.EvaluateScenario(p)
	assert.Greater(t, after.Scenario.Benefit.BenefitAllCohorts, first.Scenario.Benefit.BenefitAllCohorts)
}

func TestServiceSettingsAreCopies(t *testing.T) {
	svc, _ := newTestService(t)
	s := svc.Settings()
	s.Tiers[model.TierAdvanced] = model.TierSettings{}

	assert.Equal(t, model.DefaultSettings().Tiers[model.TierAdvanced], svc.Settings().Tiers[model.TierAdvanced])
}

func TestServiceClampCohorts(t *testing.T) {
	svc, _ := newTestService(t)
	cfg := model.DefaultConfiguration(model.TierFrontline)
	cfg.PlanningHorizonYears = 1
	cfg.AvailableTrainingSites = 4
	cfg.Cohorts = 40

	out, msgs := svc.EvaluateScenario(model.ScenarioProperties{Configuration: cfg, ClampCohorts: true})
	assert.Equal(t, 16, out.Scenario.Configuration.Cohorts)
	assert.True(t, hasCode(msgs, model.CodeCohortsClamped))

	out, msgs = svc.EvaluateScenario(model.ScenarioProperties{Configuration: cfg})
	assert.Equal(t, 40, out.Scenario.Configuration.Cohorts)
	assert.False(t, hasCode(msgs, model.CodeCohortsClamped))
	assert.Equal(t, model.RequiresExpansion, out.Scenario.Capacity.Status)
}

func TestServiceCompareWithoutBaseline(t *testing.T) {
	svc, _ := newTestService(t)
	out, msgs := svc.EvaluatePortfolio(model.PortfolioProperties{Tiers: mixedPortfolio(), CompareToBaseline: true})

	assert.Nil(t, out.Comparison)
	assert.True(t, hasCode(msgs, model.CodeNoBaseline))

	_, err := svc.Baseline()
	assert.ErrorIs(t, err, ErrNoBaseline)
}

func TestServiceCompareAgainstBaseline(t *testing.T) {
	svc, _ := newTestService(t)
	base := mixedPortfolio()
	require.NoError(t, svc.SetBaseline(base))

	cand := mixedPortfolio()
	front := cand[model.TierFrontline]
	front.Cohorts += 2
	cand[model.TierFrontline] = front

	target := 1000.0
	out, msgs := svc.EvaluatePortfolio(model.PortfolioProperties{Tiers: cand, CompareToBaseline: true, TargetGraduates: &target})
	assert.False(t, hasCode(msgs, model.CodeNoBaseline))
	require.NotNil(t, out.Comparison)
	assert.Greater(t, out.Comparison.DeltaCost, 0.0)
	assert.True(t, out.Comparison.IncrementalBCR.Defined)
	require.Len(t, out.Comparison.ConfigurationChanges, 1)
	assert.Equal(t, "/frontline/cohorts", out.Comparison.ConfigurationChanges[0].Path)

	require.NotNil(t, out.GapAllocation)
	assert.Len(t, out.GapAllocation.Tiers, 2)

	view, err := svc.Baseline()
	require.NoError(t, err)
	require.NotNil(t, view.Portfolio)
	assert.Len(t, view.Portfolio.Tiers, 2)
	assert.NotEmpty(t, view.UpdatedAt)
}

func TestServiceBatchKeepsOrder(t *testing.T) {
	svc, _ := newTestService(t, WithWorkers(2))
	var cfgs []model.Configuration
	for i := 1; i <= 9; i++ {
		cfg := model.DefaultConfiguration(model.TierIntermediate)
		cfg.Cohorts = i
		cfgs = append(cfgs, cfg)
	}

	out, err := svc.EvaluateBatch(context.Background(), cfgs)
	require.NoError(t, err)
	require.Len(t, out.Items, len(cfgs))
	for i, it := range out.Items {
		assert.Equal(t, i+1, it.Scenario.Configuration.Cohorts)
	}
}

func TestServiceBatchCancelled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.EvaluateBatch(ctx, []model.Configuration{model.DefaultConfiguration(model.TierFrontline)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServiceCostSensitivity(t *testing.T) {
	svc, _ := newTestService(t)
	costs := []float64{50000, 150000, 300000}

	sweep, _, err := svc.CostSensitivity(context.Background(), model.CostSweepProperties{
		Configuration: workedExample(),
		Costs:         costs,
	})
	require.NoError(t, err)
	require.Len(t, sweep.Points, 3)

	var sum float64
	for i, pt := range sweep.Points {
		assert.Equal(t, costs[i], pt.CostPerTraineePerMonth)
		sum += pt.EndorsementPct
		if i > 0 {
			assert.Less(t, pt.EndorsementPct, sweep.Points[i-1].EndorsementPct)
			assert.Greater(t, pt.EconomicCost, sweep.Points[i-1].EconomicCost)
		}
	}
	assert.InDelta(t, sum/3, sweep.MeanEndorsementPct, 1e-9)
}

func TestProcessEvaluateScenario(t *testing.T) {
	svc, _ := newTestService(t)
	props, err := json.Marshal(model.ScenarioProperties{Configuration: workedExample()})
	require.NoError(t, err)

	resp := svc.Process(context.Background(), &model.CalculationRequest{
		RequestID:  "req-1",
		Operation:  model.OperationEvaluateScenario,
		Properties: props,
	})

	assert.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	assert.Equal(t, "req-1", resp.CalculationMetadata.RequestID)
	assert.NotEmpty(t, resp.CalculationMetadata.CalculationID)
	assert.NotNil(t, resp.Messages)
	out, ok := resp.Result.(model.ScenarioOutput)
	require.True(t, ok)
	assert.InDelta(t, 78.6, out.Scenario.Preference.EndorsementPct, 0.5)
}

func TestProcessNumbersMessages(t *testing.T) {
	svc, _ := newTestService(t)
	cfg := workedExample()
	cfg.ResponseTime = model.Response15Day
	cfg.TraineesPerCohort = -1
	props, err := json.Marshal(model.ScenarioProperties{Configuration: cfg})
	require.NoError(t, err)

	resp := svc.Process(context.Background(), &model.CalculationRequest{Operation: model.OperationEvaluateScenario, Properties: props})
	assert.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	require.Len(t, resp.Messages, 2)
	for i, m := range resp.Messages {
		assert.Equal(t, i, m.ID)
		assert.Equal(t, model.LevelWarning, m.Level)
	}
}

func TestProcessFailures(t *testing.T) {
	tests := []struct {
		name string
		req  model.CalculationRequest
		code string
	}{
		{"unknown operation", model.CalculationRequest{Operation: "optimise"}, model.CodeUnknownOperation},
		{"missing properties", model.CalculationRequest{Operation: model.OperationEvaluateScenario}, model.CodeInvalidProperties},
		{"malformed properties", model.CalculationRequest{Operation: model.OperationEvaluatePortfolio, Properties: json.RawMessage(`{"tiers": 3}`)}, model.CodeInvalidProperties},
		{"empty batch", model.CalculationRequest{Operation: model.OperationBatch, Properties: json.RawMessage(`{"configurations": []}`)}, model.CodeInvalidProperties},
		{"empty sweep", model.CalculationRequest{Operation: model.OperationCostSweep, Properties: json.RawMessage(`{"costs": []}`)}, model.CodeInvalidProperties},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			resp := svc.Process(context.Background(), &tt.req)

			assert.Equal(t, model.OutcomeFailure, resp.CalculationMetadata.CalculationOutcome)
			assert.Nil(t, resp.Result)
			require.NotEmpty(t, resp.Messages)
			last := resp.Messages[len(resp.Messages)-1]
			assert.Equal(t, model.LevelCritical, last.Level)
			assert.Equal(t, tt.code, last.Code)
		})
	}
}

func TestProcessCompareBaseline(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.SetBaseline(mixedPortfolio()))
	props, err := json.Marshal(model.PortfolioProperties{Tiers: mixedPortfolio()})
	require.NoError(t, err)

	resp := svc.Process(context.Background(), &model.CalculationRequest{Operation: model.OperationCompareBaseline, Properties: props})
	require.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	out := resp.Result.(model.PortfolioOutput)
	require.NotNil(t, out.Comparison)
	assert.Zero(t, out.Comparison.DeltaCost)
	assert.False(t, out.Comparison.IncrementalBCR.Defined)
	assert.Empty(t, out.Comparison.ConfigurationChanges)
}

func TestServiceCompareReportsBaselineMessages(t *testing.T) {
	svc, _ := newTestService(t)
	base := mixedPortfolio()
	adv := base[model.TierAdvanced]
	adv.Delivery = "hybrid"
	base[model.TierAdvanced] = adv
	require.NoError(t, svc.SetBaseline(base))

	out, msgs := svc.EvaluatePortfolio(model.PortfolioProperties{Tiers: mixedPortfolio(), CompareToBaseline: true})
	require.NotNil(t, out.Comparison)

	var found bool
	for _, m := range msgs {
		if m.Code == model.CodeUnknownEnum {
			found = true
			assert.Contains(t, m.Message, "baseline: ")
		}
	}
	assert.True(t, found, "baseline UNKNOWN_ENUM warning missing from %v", msgs)
}
