package engine

import (
	"fmt"

	"scenario-engine/internal/capacity"
	"scenario-engine/internal/costing"
	"scenario-engine/internal/epi"
	"scenario-engine/internal/model"
	"scenario-engine/internal/preference"
)

// Evaluate computes the full result for one tier configuration under the
// given settings. It is pure: identical inputs give identical results.
func Evaluate(cfg model.Configuration, s model.Settings) (model.ScenarioResult, []model.CalculationMessage) {
	s, msgs := NormalizeSettings(s)
	res, scenarioMsgs := evaluateNormalized(cfg, s)
	return res, append(msgs, scenarioMsgs...)
}

// evaluateNormalized expects settings that already went through
// NormalizeSettings.
func evaluateNormalized(cfg model.Configuration, s model.Settings) (model.ScenarioResult, []model.CalculationMessage) {
	cfg, msgs := NormalizeConfiguration(cfg, s)

	pref := preference.Evaluate(cfg)
	capa := capacity.Evaluate(cfg)
	cost, costMsgs := costing.Evaluate(cfg)
	msgs = append(msgs, costMsgs...)
	benefit := epi.Evaluate(cfg, pref.EndorsementPct, s)

	months := cfg.Tier.DurationMonths()
	res := model.ScenarioResult{
		Configuration: cfg,
		Preference:    pref,
		Capacity:      capa,
		Cost:          cost,
		Benefit:       benefit,
	}
	res.WTPPerCohort = pref.WTPPerTraineePerMonth * months * float64(cfg.TraineesPerCohort)
	res.WTPAllCohorts = res.WTPPerCohort * float64(cfg.Cohorts)
	res.NetBenefitPerCohort = benefit.BenefitPerCohort - cost.EconomicCostPerCohort
	res.NetBenefitAllCohorts = benefit.BenefitAllCohorts - cost.EconomicCostAllCohorts
	msgs = append(msgs, replaceNonFinite(&res)...)
	res.BCR = model.RatioOf(res.Benefit.BenefitAllCohorts, res.Cost.EconomicCostAllCohorts)

	return res, msgs
}

// replaceNonFinite zeroes any reported total that overflowed or became NaN
// so the result stays encodable.
func replaceNonFinite(res *model.ScenarioResult) []model.CalculationMessage {
	fields := []struct {
		name string
		v    *float64
	}{
		{"preference.wtp_per_trainee_per_month", &res.Preference.WTPPerTraineePerMonth},
		{"cost.programme_cost_per_cohort", &res.Cost.ProgrammeCostPerCohort},
		{"cost.mentor_cost_per_cohort", &res.Cost.MentorCostPerCohort},
		{"cost.direct_cost_per_cohort", &res.Cost.DirectCostPerCohort},
		{"cost.existing_opportunity_cost_raw", &res.Cost.ExistingOpportunityCostRaw},
		{"cost.existing_opportunity_cost_per_cohort", &res.Cost.ExistingOpportunityCostPerCohort},
		{"cost.salary_opportunity.raw", &res.Cost.SalaryOpportunity.Raw},
		{"cost.salary_opportunity_cost_per_cohort", &res.Cost.SalaryOpportunityCostPerCohort},
		{"cost.economic_cost_per_cohort", &res.Cost.EconomicCostPerCohort},
		{"cost.direct_cost_all_cohorts", &res.Cost.DirectCostAllCohorts},
		{"cost.economic_cost_all_cohorts", &res.Cost.EconomicCostAllCohorts},
		{"benefit.graduates_all_cohorts", &res.Benefit.GraduatesAllCohorts},
		{"benefit.outbreak_responses_per_year_all_cohorts", &res.Benefit.OutbreakResponsesPerYearAllCohorts},
		{"benefit.graduate_benefit_per_cohort", &res.Benefit.GraduateBenefitPerCohort},
		{"benefit.outbreak_benefit_per_cohort", &res.Benefit.OutbreakBenefitPerCohort},
		{"benefit.benefit_per_cohort", &res.Benefit.BenefitPerCohort},
		{"benefit.benefit_all_cohorts", &res.Benefit.BenefitAllCohorts},
		{"wtp_per_cohort", &res.WTPPerCohort},
		{"wtp_all_cohorts", &res.WTPAllCohorts},
		{"net_benefit_per_cohort", &res.NetBenefitPerCohort},
		{"net_benefit_all_cohorts", &res.NetBenefitAllCohorts},
	}

	var msgs []model.CalculationMessage
	for _, f := range fields {
		if finite(*f.v) {
			continue
		}
		msgs = append(msgs, model.Warning(model.CodeNonFiniteResult,
			fmt.Sprintf("%s is not a finite number; reported as 0", f.name)))
		*f.v = 0
	}
	for i := range res.Cost.Components {
		if c := &res.Cost.Components[i]; !finite(c.AmountPerCohort) {
			msgs = append(msgs, model.Warning(model.CodeNonFiniteResult,
				fmt.Sprintf("cost component %s is not a finite number; reported as 0", c.ID)))
			c.AmountPerCohort = 0
		}
	}
	return msgs
}

type evaluator func(model.Configuration, model.Settings) (model.ScenarioResult, []model.CalculationMessage)
