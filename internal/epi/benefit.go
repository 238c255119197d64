package epi

import (
	"math"

	"scenario-engine/internal/model"
)

// ResponseMultiplier scales outbreak-response throughput by the response
// time target. Unknown targets scale by 1.
func ResponseMultiplier(r model.ResponseTime) float64 {
	switch r {
	case model.Response15Day:
		return 1.2
	case model.Response7Day:
		return 1.5
	default:
		return 1.0
	}
}

// PresentValueFactor converts a constant annual amount over years into its
// discounted total.
func PresentValueFactor(rate, years float64) float64 {
	if years <= 0 {
		return 0
	}
	if rate <= 0 {
		return years
	}
	return (1 - math.Pow(1+rate, -years)) / rate
}

func ClampCrossSector(m float64) float64 {
	return math.Min(model.MaxCrossSectorMultiplier, math.Max(model.MinCrossSectorMultiplier, m))
}

// CompletionRate picks the override when present, otherwise the tier
// default from settings.
func CompletionRate(cfg model.Configuration, ts model.TierSettings) float64 {
	if cfg.CompletionRateOverride != nil {
		return *cfg.CompletionRateOverride
	}
	return ts.CompletionRate
}

// Evaluate computes graduate output, outbreak-response throughput and the
// discounted monetary benefit. Completions are filtered by the predicted
// endorsement share.
func Evaluate(cfg model.Configuration, endorsementPct float64, s model.Settings) model.BenefitBreakdown {
	ts := s.Tier(cfg.Tier)

	b := model.BenefitBreakdown{
		CompletionRate:        CompletionRate(cfg, ts),
		ResponseMultiplier:    ResponseMultiplier(cfg.ResponseTime),
		PresentValueFactor:    PresentValueFactor(s.General.DiscountRate, cfg.PlanningHorizonYears),
		CrossSectorMultiplier: ClampCrossSector(cfg.CrossSectorBenefitMultiplier),
	}

	b.CompletedPerCohort = float64(cfg.TraineesPerCohort) * b.CompletionRate
	b.EffectiveGraduatesPerCohort = b.CompletedPerCohort * (endorsementPct / 100)
	b.GraduatesAllCohorts = b.EffectiveGraduatesPerCohort * float64(cfg.Cohorts)

	b.OutbreakResponsesPerYearPerCohort = b.EffectiveGraduatesPerCohort * ts.OutbreaksPerGraduatePerYear * b.ResponseMultiplier
	b.OutbreakResponsesPerYearAllCohorts = b.OutbreakResponsesPerYearPerCohort * float64(cfg.Cohorts)

	b.GraduateBenefitPerCohort = b.EffectiveGraduatesPerCohort * ts.ValuePerGraduate * b.PresentValueFactor * b.CrossSectorMultiplier
	b.OutbreakBenefitPerCohort = b.OutbreakResponsesPerYearPerCohort * ts.ValuePerOutbreak * b.PresentValueFactor * b.CrossSectorMultiplier
	b.BenefitPerCohort = b.GraduateBenefitPerCohort + b.OutbreakBenefitPerCohort
	b.BenefitAllCohorts = b.BenefitPerCohort * float64(cfg.Cohorts)

	return b
}
