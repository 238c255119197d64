package capacity

import (
	"math"

	"scenario-engine/internal/model"
)

func FellowsPerMentor(m model.MentorshipIntensity) float64 {
	switch m {
	case model.MentorshipHigh:
		return 2
	case model.MentorshipMedium:
		return 3.5
	default:
		return 5
	}
}

func MentorsPerCohort(trainees int, m model.MentorshipIntensity) int {
	if trainees <= 0 {
		return 0
	}
	return int(math.Ceil(float64(trainees) / FellowsPerMentor(m)))
}

// MaxFeasibleCohorts is the cohort ceiling implied by tier duration, the
// planning horizon and the number of training sites. It is never below 1.
func MaxFeasibleCohorts(t model.Tier, horizonYears float64, sites int) int {
	duration := t.DurationMonths()
	if duration <= 0 || horizonYears <= 0 || sites <= 0 {
		return 1
	}
	n := math.Floor(horizonYears * 12 / duration * float64(sites))
	if !(n >= 1) {
		return 1
	}
	return toInt(n)
}

// ClampCohorts caps cfg.Cohorts at the feasible ceiling and reports whether
// it had to.
func ClampCohorts(cfg model.Configuration) (model.Configuration, bool) {
	ceiling := MaxFeasibleCohorts(cfg.Tier, cfg.PlanningHorizonYears, cfg.AvailableTrainingSites)
	if cfg.Cohorts <= ceiling {
		return cfg, false
	}
	cfg.Cohorts = ceiling
	return cfg, true
}

func Evaluate(cfg model.Configuration) model.Capacity {
	perCohort := MentorsPerCohort(cfg.TraineesPerCohort, cfg.Mentorship)
	required := mul(perCohort, cfg.Cohorts)

	c := model.Capacity{
		FellowsPerMentor:     FellowsPerMentor(cfg.Mentorship),
		MentorsPerCohort:     perCohort,
		TotalMentorsRequired: required,
		AvailableMentors:     cfg.AvailableMentorsNational,
		MentorShortfall:      max(0, required-cfg.AvailableMentorsNational),
		Status:               model.WithinCapacity,
		MaxFeasibleCohorts:   MaxFeasibleCohorts(cfg.Tier, cfg.PlanningHorizonYears, cfg.AvailableTrainingSites),
	}
	if required > cfg.AvailableMentorsNational {
		c.Status = model.RequiresExpansion
	}

	if cfg.AvailableTrainingSites > 0 && cfg.MaxCohortsPerSitePerYear > 0 {
		c.SiteAssessed = true
		c.SiteCapacity = mul(cfg.AvailableTrainingSites, cfg.MaxCohortsPerSitePerYear)
		c.SiteGap = max(0, cfg.Cohorts-c.SiteCapacity)
	}

	return c
}

// mul multiplies two non-negative counts, saturating at math.MaxInt.
func mul(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

func toInt(f float64) int {
	if f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}
