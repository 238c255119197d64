package engine

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"scenario-engine/internal/model"
)

// EvaluatePortfolio evaluates each tier independently and combines them.
// Endorsement is weighted by trainees (cohorts x trainees per cohort);
// money and counts are summed; BCR is the ratio of the sums.
func EvaluatePortfolio(tiers map[model.Tier]model.Configuration, s model.Settings) (model.PortfolioResult, []model.CalculationMessage) {
	s, msgs := NormalizeSettings(s)
	res, portfolioMsgs := evaluatePortfolio(tiers, s, evaluateNormalized)
	return res, append(msgs, portfolioMsgs...)
}

func evaluatePortfolio(tiers map[model.Tier]model.Configuration, s model.Settings, eval evaluator) (model.PortfolioResult, []model.CalculationMessage) {
	var msgs []model.CalculationMessage
	var unknown []string
	for key := range tiers {
		if !key.Valid() {
			unknown = append(unknown, string(key))
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		msgs = append(msgs, model.Warning(model.CodeUnknownEnum,
			fmt.Sprintf("portfolio tier %q is not a programme tier and was skipped", key)))
	}

	out := model.PortfolioResult{Tiers: make(map[model.Tier]model.ScenarioResult, len(tiers))}
	var weights, endorsements []float64

	for _, tier := range model.Tiers {
		cfg, ok := tiers[tier]
		if !ok {
			continue
		}
		if cfg.Tier != tier {
			if cfg.Tier != "" {
				msgs = append(msgs, model.Warning(model.CodeTierMismatch,
					fmt.Sprintf("configuration under %s declared tier %q; using %s", tier, cfg.Tier, tier)))
			}
			cfg.Tier = tier
		}

		r, tierMsgs := eval(cfg, s)
		msgs = append(msgs, tierMsgs...)
		out.Tiers[tier] = r

		weights = append(weights, float64(r.Configuration.Cohorts)*float64(r.Configuration.TraineesPerCohort))
		endorsements = append(endorsements, r.Preference.EndorsementPct)

		out.EconomicCost += r.Cost.EconomicCostAllCohorts
		out.Benefit += r.Benefit.BenefitAllCohorts
		out.NetBenefit += r.NetBenefitAllCohorts
		out.Graduates += r.Benefit.GraduatesAllCohorts
		out.OutbreakResponsesPerYear += r.Benefit.OutbreakResponsesPerYearAllCohorts
		out.WTP += r.WTPAllCohorts
		if tier == model.TierIntermediate || tier == model.TierAdvanced {
			out.WorkforceStockGraduates += r.Benefit.GraduatesAllCohorts
		}
	}

	switch {
	case len(endorsements) == 0:
		out.OptOutPct = 100
	case floats.Sum(weights) > 0:
		out.EndorsementPct = floats.Dot(weights, endorsements) / floats.Sum(weights)
		out.OptOutPct = 100 - out.EndorsementPct
	default:
		out.EndorsementPct = floats.Sum(endorsements) / float64(len(endorsements))
		out.OptOutPct = 100 - out.EndorsementPct
	}
	out.BCR = model.RatioOf(out.Benefit, out.EconomicCost)

	return out, msgs
}
