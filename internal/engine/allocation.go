package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"scenario-engine/internal/model"
)

// AllocateGap splits the shortfall between target and current graduates
// across the portfolio's tiers in proportion to each tier's present share of
// graduates, or equally when no tier produces graduates yet. It reports the
// extra cohorts each tier would need; there is no search over alternatives.
func AllocateGap(p model.PortfolioResult, targetGraduates float64) model.GapAllocation {
	alloc := model.GapAllocation{
		TargetGraduates:  targetGraduates,
		CurrentGraduates: p.Graduates,
	}
	if finite(targetGraduates) && targetGraduates > p.Graduates {
		alloc.Gap = targetGraduates - p.Graduates
	}

	var present []model.Tier
	for _, tier := range model.Tiers {
		if _, ok := p.Tiers[tier]; ok {
			present = append(present, tier)
		}
	}

	for _, tier := range present {
		r := p.Tiers[tier]
		share := 1 / float64(len(present))
		if p.Graduates > 0 {
			share = r.Benefit.GraduatesAllCohorts / p.Graduates
		}

		ta := model.TierAllocation{
			Tier:               tier,
			Share:              share,
			GraduatesNeeded:    share * alloc.Gap,
			GraduatesPerCohort: r.Benefit.EffectiveGraduatesPerCohort,
		}
		switch {
		case ta.GraduatesNeeded == 0:
		case ta.GraduatesPerCohort <= 0:
			ta.Note = "tier yields no graduates per cohort under current settings"
		default:
			ta.AdditionalCohorts = cohortsFor(ta.GraduatesNeeded, ta.GraduatesPerCohort)
		}
		alloc.Tiers = append(alloc.Tiers, ta)
	}

	return alloc
}

// cohortsFor rounds needed/perCohort up, ignoring float noise below a
// millionth of a cohort.
func cohortsFor(needed, perCohort float64) int {
	if !finite(needed / perCohort) {
		return math.MaxInt
	}
	q := math.Ceil(decimal.NewFromFloat(needed).Div(decimal.NewFromFloat(perCohort)).Round(6).InexactFloat64())
	if q >= math.MaxInt {
		return math.MaxInt
	}
	return int(q)
}
