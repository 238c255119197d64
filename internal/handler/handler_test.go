package handler

import (
	"context"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"scenario-engine/internal/baselinestore"
	"scenario-engine/internal/engine"
	"scenario-engine/internal/evalcache"
	"scenario-engine/internal/metrics"
	"scenario-engine/internal/model"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	store, err := baselinestore.Open("")
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	svc := engine.NewService(model.DefaultSettings(), store,
		engine.WithCache(evalcache.New()),
		engine.WithMetrics(metrics.New(reg)))
	return New(context.Background(), svc, zap.NewNop(), reg)
}

func do(h *Handler, method, uri, body string) *fasthttp.Response {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	req.SetBodyString(body)

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	h.Serve(&ctx)
	return &ctx.Response
}

func TestEvaluateScenarioEndpoint(t *testing.T) {
	h := newTestHandler(t)
	resp := do(h, fasthttp.MethodPost, "/v1/scenarios/evaluate",
		`{"configuration": {"tier": "intermediate", "career_incentive": "certificate", "mentorship": "medium",
		  "delivery": "in_person", "response_time": "7_day", "cost_per_trainee_per_month": 100000,
		  "trainees_per_cohort": 15, "cohorts": 2}}`)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())

	var out struct {
		Metadata model.CalculationMetadata  `json:"calculation_metadata"`
		Messages []model.CalculationMessage `json:"messages"`
		Result   model.ScenarioOutput       `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resp.Body(), &out))
	assert.Equal(t, model.OutcomeSuccess, out.Metadata.CalculationOutcome)
	assert.InDelta(t, 78.6, out.Result.Scenario.Preference.EndorsementPct, 0.5)
	assert.True(t, out.Result.Scenario.BCR.Defined)
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	h := newTestHandler(t)
	for _, uri := range []string{"/v1/scenarios/evaluate", "/v1/calculations"} {
		resp := do(h, fasthttp.MethodPost, uri, `{"configuration":`)
		assert.Equal(t, fasthttp.StatusBadRequest, resp.StatusCode(), uri)

		var e model.ErrorResponse
		require.NoError(t, json.Unmarshal(resp.Body(), &e))
		assert.Equal(t, fasthttp.StatusBadRequest, e.Status)
	}
}

func TestCalculationsEnvelope(t *testing.T) {
	h := newTestHandler(t)
	resp := do(h, fasthttp.MethodPost, "/v1/calculations", `{"operation": "optimise", "properties": {}}`)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())

	var out model.CalculationResponse
	require.NoError(t, json.Unmarshal(resp.Body(), &out))
	assert.Equal(t, model.OutcomeFailure, out.CalculationMetadata.CalculationOutcome)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, model.CodeUnknownOperation, out.Messages[0].Code)
}

func TestBaselineLifecycle(t *testing.T) {
	h := newTestHandler(t)

	resp := do(h, fasthttp.MethodGet, "/v1/baseline", "")
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())

	resp = do(h, fasthttp.MethodPut, "/v1/baseline", `{"tiers": {"expert": {}}}`)
	assert.Equal(t, fasthttp.StatusBadRequest, resp.StatusCode())

	resp = do(h, fasthttp.MethodPut, "/v1/baseline",
		`{"tiers": {"frontline": {"cost_per_trainee_per_month": 80000, "trainees_per_cohort": 20, "cohorts": 4}}}`)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())

	var view model.BaselineView
	require.NoError(t, json.Unmarshal(resp.Body(), &view))
	require.NotNil(t, view.Portfolio)
	assert.Equal(t, model.TierFrontline, view.Tiers[model.TierFrontline].Tier)

	resp = do(h, fasthttp.MethodPost, "/v1/baseline/compare",
		`{"tiers": {"frontline": {"cost_per_trainee_per_month": 80000, "trainees_per_cohort": 20, "cohorts": 6}}}`)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), `"incremental_bcr"`)
	assert.Contains(t, string(resp.Body()), `/frontline/cohorts`)
}

func TestSettingsRoundTrip(t *testing.T) {
	h := newTestHandler(t)

	resp := do(h, fasthttp.MethodPut, "/v1/settings", `{"general": {"planning_horizon_years": 10, "discount_rate": 2, "currency_rate": 80}}`)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())

	var out settingsResponse
	require.NoError(t, json.Unmarshal(resp.Body(), &out))
	assert.Equal(t, 10.0, out.Settings.General.PlanningHorizonYears)
	assert.Equal(t, model.DefaultSettings().General.DiscountRate, out.Settings.General.DiscountRate)
	require.Len(t, out.Messages, 1)
	assert.Equal(t, model.CodeInvalidValue, out.Messages[0].Code)

	resp = do(h, fasthttp.MethodGet, "/v1/settings", "")
	require.NoError(t, json.Unmarshal(resp.Body(), &out))
	assert.Equal(t, 80.0, out.Settings.General.CurrencyRate)
}

func TestMetricsAndHealth(t *testing.T) {
	h := newTestHandler(t)
	do(h, fasthttp.MethodPost, "/v1/scenarios/evaluate", `{"configuration": {"tier": "frontline"}}`)

	resp := do(h, fasthttp.MethodGet, "/metrics", "")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.True(t, strings.Contains(string(resp.Body()), "scenario_engine_evaluations_total"))

	resp = do(h, fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, "ok", string(resp.Body()))
}

func TestRoutingErrors(t *testing.T) {
	h := newTestHandler(t)
	assert.Equal(t, fasthttp.StatusNotFound, do(h, fasthttp.MethodGet, "/v2/anything", "").StatusCode())
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, do(h, fasthttp.MethodGet, "/v1/sweeps/cost", "").StatusCode())
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, do(h, fasthttp.MethodDelete, "/v1/settings", "").StatusCode())
}
