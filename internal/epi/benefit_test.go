package epi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scenario-engine/internal/model"
)

func TestPresentValueFactor(t *testing.T) {
	assert.Equal(t, 5.0, PresentValueFactor(0, 5))
	assert.Equal(t, 0.0, PresentValueFactor(0.03, 0))
	assert.Equal(t, 0.0, PresentValueFactor(0, 0))
	assert.Equal(t, 0.0, PresentValueFactor(0.5, -2))
	assert.InDelta(t, 8.530, PresentValueFactor(0.03, 10), 0.001)
	assert.Equal(t, 3.0, PresentValueFactor(-0.1, 3))
}

func TestResponseMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, ResponseMultiplier(model.Response30Day))
	assert.Equal(t, 1.2, ResponseMultiplier(model.Response15Day))
	assert.Equal(t, 1.5, ResponseMultiplier(model.Response7Day))
	assert.Equal(t, 1.0, ResponseMultiplier("3_day"))
}

func TestClampCrossSector(t *testing.T) {
	assert.Equal(t, 0.8, ClampCrossSector(0.1))
	assert.Equal(t, 2.0, ClampCrossSector(5))
	assert.Equal(t, 1.4, ClampCrossSector(1.4))
}

func benefitSettings() model.Settings {
	s := model.DefaultSettings()
	s.General.DiscountRate = 0
	s.Tiers[model.TierFrontline] = model.TierSettings{
		CompletionRate:              0.9,
		OutbreaksPerGraduatePerYear: 0.5,
		ValuePerOutbreak:            1000,
		ValuePerGraduate:            100,
	}
	return s
}

func TestEvaluateFiltersGraduatesByEndorsement(t *testing.T) {
	cfg := model.DefaultConfiguration(model.TierFrontline)
	cfg.TraineesPerCohort = 20
	cfg.Cohorts = 2
	cfg.PlanningHorizonYears = 4
	cfg.ResponseTime = model.Response7Day
	cfg.CrossSectorBenefitMultiplier = 1

	b := Evaluate(cfg, 50, benefitSettings())

	assert.InDelta(t, 18, b.CompletedPerCohort, 1e-9)
	assert.InDelta(t, 9, b.EffectiveGraduatesPerCohort, 1e-9)
	assert.InDelta(t, 18, b.GraduatesAllCohorts, 1e-9)
	assert.InDelta(t, 9*0.5*1.5, b.OutbreakResponsesPerYearPerCohort, 1e-9)
	assert.Equal(t, 4.0, b.PresentValueFactor)
	assert.InDelta(t, 9*100*4, b.GraduateBenefitPerCohort, 1e-6)
	assert.InDelta(t, 6.75*1000*4, b.OutbreakBenefitPerCohort, 1e-6)
	assert.InDelta(t, 2*(3600+27000), b.BenefitAllCohorts, 1e-6)
}

func TestEvaluateCompletionOverrideAndMultiplier(t *testing.T) {
	cfg := model.DefaultConfiguration(model.TierFrontline)
	cfg.TraineesPerCohort = 10
	cfg.Cohorts = 1
	cfg.PlanningHorizonYears = 1
	override := 0.5
	cfg.CompletionRateOverride = &override
	cfg.CrossSectorBenefitMultiplier = 3

	b := Evaluate(cfg, 100, benefitSettings())

	assert.Equal(t, 0.5, b.CompletionRate)
	assert.Equal(t, 2.0, b.CrossSectorMultiplier)
	assert.InDelta(t, 5*100*2, b.GraduateBenefitPerCohort, 1e-9)
}

func TestEvaluateZeroEndorsementYieldsNoBenefit(t *testing.T) {
	cfg := model.DefaultConfiguration(model.TierFrontline)
	b := Evaluate(cfg, 0, benefitSettings())
	assert.Equal(t, 0.0, b.BenefitAllCohorts)
	assert.Equal(t, 0.0, b.GraduatesAllCohorts)
}
