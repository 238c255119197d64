package engine

import (
	"scenario-engine/internal/jsonpatch"
	"scenario-engine/internal/model"
)

// Compare reports candidate minus baseline. The incremental BCR is defined
// only when the candidate costs strictly more than the baseline.
func Compare(baseline, candidate model.Outcome) model.Comparison {
	b := baseline.Aggregate()
	c := candidate.Aggregate()

	cmp := model.Comparison{
		Baseline:               b,
		Candidate:              c,
		DeltaCost:              c.EconomicCost - b.EconomicCost,
		DeltaBenefit:           c.Benefit - b.Benefit,
		DeltaGraduates:         c.Graduates - b.Graduates,
		DeltaOutbreakResponses: c.OutbreakResponsesPerYear - b.OutbreakResponsesPerYear,
	}
	cmp.DeltaNetBenefit = cmp.DeltaBenefit - cmp.DeltaCost
	cmp.IncrementalBCR = model.RatioOf(cmp.DeltaBenefit, cmp.DeltaCost)
	return cmp
}

// ConfigurationChanges lists the edits that turn the baseline tier
// configurations into the candidate ones.
func ConfigurationChanges(baseline, candidate map[model.Tier]model.Configuration) ([]jsonpatch.Operation, error) {
	return jsonpatch.DiffValues(baseline, candidate)
}
