package engine

import (
	"fmt"
	"math"

	"scenario-engine/internal/model"
	"scenario-engine/internal/preference"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NormalizeConfiguration replaces non-finite or out-of-range numeric fields
// with documented defaults and pins the response time. Unknown enum levels
// are kept; they contribute no utility. Every substitution is reported.
func NormalizeConfiguration(cfg model.Configuration, s model.Settings) (model.Configuration, []model.CalculationMessage) {
	var msgs []model.CalculationMessage
	def := model.DefaultConfiguration(cfg.Tier)

	invalid := func(field string, got, used interface{}) {
		msgs = append(msgs, model.Warning(model.CodeInvalidValue,
			fmt.Sprintf("%s: %s %v is out of range, using %v", cfg.Tier, field, got, used)))
	}

	if !cfg.Tier.Valid() {
		msgs = append(msgs, model.Warning(model.CodeUnknownEnum, fmt.Sprintf("unknown tier %q", cfg.Tier)))
	}
	if cfg.ResponseTime == "" {
		cfg.ResponseTime = model.PinnedResponseTime
	} else if cfg.ResponseTime != model.PinnedResponseTime {
		msgs = append(msgs, model.Warning(model.CodeResponseTimePinned,
			fmt.Sprintf("%s: response time %q replaced by policy target %q", cfg.Tier, cfg.ResponseTime, model.PinnedResponseTime)))
		cfg.ResponseTime = model.PinnedResponseTime
	}
	if !preference.Known(cfg) && cfg.Tier.Valid() {
		msgs = append(msgs, model.Warning(model.CodeUnknownEnum,
			fmt.Sprintf("%s: unrecognised attribute level, treated as having no effect", cfg.Tier)))
	}

	// amount replaces invalid values with the default and clamps values
	// above max.
	amount := func(field string, v *float64, def, hi float64) {
		switch {
		case !finite(*v) || *v < 0:
			invalid(field, *v, def)
			*v = def
		case *v > hi:
			invalid(field, *v, hi)
			*v = hi
		}
	}
	count := func(field string, v *int, lo, def, hi int) {
		switch {
		case *v < lo:
			invalid(field, *v, def)
			*v = def
		case *v > hi:
			invalid(field, *v, hi)
			*v = hi
		}
	}

	amount("cost_per_trainee_per_month", &cfg.CostPerTraineePerMonth, def.CostPerTraineePerMonth, model.MaxMonthlyAmount)
	count("trainees_per_cohort", &cfg.TraineesPerCohort, 1, def.TraineesPerCohort, model.MaxTraineesPerCohort)
	count("cohorts", &cfg.Cohorts, 0, def.Cohorts, model.MaxCohorts)

	if cfg.PlanningHorizonYears > model.MaxPlanningHorizonYears {
		invalid("planning_horizon_years", cfg.PlanningHorizonYears, model.MaxPlanningHorizonYears)
		cfg.PlanningHorizonYears = model.MaxPlanningHorizonYears
	}
	if !finite(cfg.PlanningHorizonYears) || cfg.PlanningHorizonYears <= 0 {
		horizon := s.General.PlanningHorizonYears
		if !finite(horizon) || horizon <= 0 {
			horizon = def.PlanningHorizonYears
		}
		// Zero means "not set" and silently inherits the general horizon.
		if cfg.PlanningHorizonYears != 0 {
			invalid("planning_horizon_years", cfg.PlanningHorizonYears, horizon)
		}
		cfg.PlanningHorizonYears = horizon
	}

	if o := cfg.CompletionRateOverride; o != nil {
		switch {
		case !finite(*o) || *o < 0:
			invalid("completion_rate_override", *o, "tier default")
			cfg.CompletionRateOverride = nil
		default:
			rate := *o
			if rate > 1 {
				rate /= 100
			}
			rate = math.Min(rate, 1)
			cfg.CompletionRateOverride = &rate
		}
	}

	amount("mentor_support_cost_base", &cfg.MentorSupportCostBase, def.MentorSupportCostBase, model.MaxMonthlyAmount)
	count("available_mentors_national", &cfg.AvailableMentorsNational, 0, 0, model.MaxHeadcount)
	count("available_training_sites", &cfg.AvailableTrainingSites, 0, 0, model.MaxHeadcount)
	count("max_cohorts_per_site_per_year", &cfg.MaxCohortsPerSitePerYear, 0, 0, model.MaxHeadcount)

	switch m := cfg.CrossSectorBenefitMultiplier; {
	case m == 0:
		cfg.CrossSectorBenefitMultiplier = def.CrossSectorBenefitMultiplier
	case !finite(m) || m < 0:
		invalid("cross_sector_benefit_multiplier", m, def.CrossSectorBenefitMultiplier)
		cfg.CrossSectorBenefitMultiplier = def.CrossSectorBenefitMultiplier
	default:
		cfg.CrossSectorBenefitMultiplier = math.Min(model.MaxCrossSectorMultiplier, math.Max(model.MinCrossSectorMultiplier, m))
	}

	salaries := []struct {
		name string
		v    *float64
		def  float64
	}{
		{"faculty_salary_monthly", &cfg.FacultySalaryMonthly, def.FacultySalaryMonthly},
		{"coordinator_salary_monthly", &cfg.CoordinatorSalaryMonthly, def.CoordinatorSalaryMonthly},
		{"participant_salary_monthly", &cfg.ParticipantSalaryMonthly, def.ParticipantSalaryMonthly},
	}
	for _, sal := range salaries {
		amount(sal.name, sal.v, sal.def, model.MaxMonthlyAmount)
	}

	return cfg, msgs
}

// NormalizeSettings validates a settings value against its documented ranges
// and fills tiers the value does not carry. The result shares no memory with
// the input.
func NormalizeSettings(in model.Settings) (model.Settings, []model.CalculationMessage) {
	var msgs []model.CalculationMessage
	def := model.DefaultSettings()
	s := in.Clone()

	invalid := func(field string, got, used float64) {
		msgs = append(msgs, model.Warning(model.CodeInvalidValue,
			fmt.Sprintf("settings: %s %v is out of range, using %v", field, got, used)))
	}

	g := &s.General
	if !finite(g.PlanningHorizonYears) || g.PlanningHorizonYears <= 0 || g.PlanningHorizonYears > model.MaxPlanningHorizonYears {
		invalid("general.planning_horizon_years", g.PlanningHorizonYears, def.General.PlanningHorizonYears)
		g.PlanningHorizonYears = def.General.PlanningHorizonYears
	}
	if !finite(g.DiscountRate) || g.DiscountRate < 0 || g.DiscountRate >= 1 {
		invalid("general.discount_rate", g.DiscountRate, def.General.DiscountRate)
		g.DiscountRate = def.General.DiscountRate
	}
	if !finite(g.CurrencyRate) || g.CurrencyRate <= 0 || g.CurrencyRate > model.MaxCurrencyRate {
		invalid("general.currency_rate", g.CurrencyRate, def.General.CurrencyRate)
		g.CurrencyRate = def.General.CurrencyRate
	}

	for _, tier := range model.Tiers {
		ts, ok := s.Tiers[tier]
		d := def.Tiers[tier]
		if !ok {
			s.Tiers[tier] = d
			continue
		}
		prefix := "tiers." + string(tier) + "."
		if !finite(ts.CompletionRate) || ts.CompletionRate < 0 || ts.CompletionRate > 1 {
			invalid(prefix+"completion_rate", ts.CompletionRate, d.CompletionRate)
			ts.CompletionRate = d.CompletionRate
		}
		if !finite(ts.OutbreaksPerGraduatePerYear) || ts.OutbreaksPerGraduatePerYear < 0 || ts.OutbreaksPerGraduatePerYear > model.MaxOutbreaksPerGraduatePerYear {
			invalid(prefix+"outbreaks_per_graduate_per_year", ts.OutbreaksPerGraduatePerYear, d.OutbreaksPerGraduatePerYear)
			ts.OutbreaksPerGraduatePerYear = d.OutbreaksPerGraduatePerYear
		}
		if !finite(ts.ValuePerOutbreak) || ts.ValuePerOutbreak < 0 || ts.ValuePerOutbreak > model.MaxMonetaryValue {
			invalid(prefix+"value_per_outbreak", ts.ValuePerOutbreak, d.ValuePerOutbreak)
			ts.ValuePerOutbreak = d.ValuePerOutbreak
		}
		if !finite(ts.ValuePerGraduate) || ts.ValuePerGraduate < 0 || ts.ValuePerGraduate > model.MaxMonetaryValue {
			invalid(prefix+"value_per_graduate", ts.ValuePerGraduate, d.ValuePerGraduate)
			ts.ValuePerGraduate = d.ValuePerGraduate
		}
		s.Tiers[tier] = ts
	}

	return s, msgs
}
