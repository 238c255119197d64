// Package costing computes programme, mentor and opportunity costs for a
// tier configuration. Opportunity cost is reported by two independent
// methods: the template rate and salary/time accounting.
package costing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"scenario-engine/internal/capacity"
	"scenario-engine/internal/model"
)

const daysPerMonth = 30

// facultyOffContactWeight is the share of non-contact time faculty spend on
// blended and online programmes.
const facultyOffContactWeight = 0.5

// reconciliationTolerance is relative to the economic cost per cohort.
const reconciliationTolerance = 1e-9

func MentorMultiplier(m model.MentorshipIntensity) float64 {
	switch m {
	case model.MentorshipHigh:
		return 1.7
	case model.MentorshipMedium:
		return 1.3
	default:
		return 1.0
	}
}

// BlendedContactDays is the in-person time within a blended programme.
func BlendedContactDays(t model.Tier) float64 {
	switch t {
	case model.TierFrontline:
		return 20
	case model.TierIntermediate:
		return 60
	case model.TierAdvanced:
		return 90
	}
	return 0
}

// ContactDays returns days of in-person contact per cohort. Unknown delivery
// modes are treated as having no contact time.
func ContactDays(t model.Tier, d model.DeliveryMode) float64 {
	switch d {
	case model.DeliveryInPerson:
		return t.DurationMonths() * daysPerMonth
	case model.DeliveryBlended:
		return BlendedContactDays(t)
	default:
		return 0
	}
}

// SalaryOpportunityCost values the working time participants, the
// coordinator and faculty divert to one cohort.
func SalaryOpportunityCost(cfg model.Configuration) model.SalaryOpportunityCost {
	months := cfg.Tier.DurationMonths()
	totalDays := months * daysPerMonth
	contact := ContactDays(cfg.Tier, cfg.Delivery)

	s := model.SalaryOpportunityCost{
		TotalDays:        totalDays,
		ContactDays:      contact,
		ParticipantCount: cfg.TraineesPerCohort,
		CoordinatorCount: 1,
		FacultyCount:     capacity.MentorsPerCohort(cfg.TraineesPerCohort, cfg.Mentorship),
	}

	if cfg.Delivery == model.DeliveryInPerson {
		s.Participant = cfg.ParticipantSalaryMonthly * months * float64(s.ParticipantCount)
		s.Coordinator = cfg.CoordinatorSalaryMonthly * months * float64(s.CoordinatorCount)
		s.Faculty = cfg.FacultySalaryMonthly * months * float64(s.FacultyCount)
	} else {
		contactMonths := contact / daysPerMonth
		s.Participant = cfg.ParticipantSalaryMonthly * contactMonths * float64(s.ParticipantCount)
		s.Coordinator = cfg.CoordinatorSalaryMonthly * contactMonths * float64(s.CoordinatorCount)
		s.Faculty = cfg.FacultySalaryMonthly *
			(contactMonths + facultyOffContactWeight*((totalDays-contact)/daysPerMonth)) *
			float64(s.FacultyCount)
	}

	s.Raw = s.Participant + s.Coordinator + s.Faculty
	return s
}

// Evaluate computes the cost breakdown for cfg. The returned messages carry
// reconciliation warnings; they never invalidate the breakdown.
func Evaluate(cfg model.Configuration) (model.CostBreakdown, []model.CalculationMessage) {
	months := cfg.Tier.DurationMonths()
	tmpl := TemplateFor(cfg.Tier)

	b := model.CostBreakdown{
		DurationMonths:         months,
		ProgrammeCostPerCohort: cfg.CostPerTraineePerMonth * months * float64(cfg.TraineesPerCohort),
		MentorCostPerCohort:    cfg.MentorSupportCostBase * MentorMultiplier(cfg.Mentorship),
		OpportunityRate:        tmpl.OpportunityRate,
		SalaryOpportunity:      SalaryOpportunityCost(cfg),
	}
	b.DirectCostPerCohort = b.ProgrammeCostPerCohort + b.MentorCostPerCohort
	b.ExistingOpportunityCostRaw = b.ProgrammeCostPerCohort * tmpl.OpportunityRate

	if cfg.OpportunityCostIncluded {
		b.ExistingOpportunityCostPerCohort = b.ExistingOpportunityCostRaw
		b.SalaryOpportunityCostPerCohort = b.SalaryOpportunity.Raw
	}

	b.EconomicCostPerCohort = b.DirectCostPerCohort + b.ExistingOpportunityCostPerCohort + b.SalaryOpportunityCostPerCohort
	b.DirectCostAllCohorts = b.DirectCostPerCohort * float64(cfg.Cohorts)
	b.EconomicCostAllCohorts = b.EconomicCostPerCohort * float64(cfg.Cohorts)

	b.Components = make([]model.CostComponent, 0, len(tmpl.Components))
	for _, c := range tmpl.Components {
		b.Components = append(b.Components, model.CostComponent{
			ID:              c.ID,
			Label:           c.Label,
			Share:           c.DirectShare,
			AmountPerCohort: b.DirectCostPerCohort * c.DirectShare,
		})
	}

	return b, Reconcile(b, cfg.Cohorts)
}

// Reconcile re-derives the cost identities in decimal arithmetic and reports
// any that the float breakdown does not satisfy.
func Reconcile(b model.CostBreakdown, cohorts int) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	check := func(name string, got float64, parts ...float64) {
		for _, v := range append([]float64{got}, parts...) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				msgs = append(msgs, model.Warning(model.CodeCostReconciliation,
					fmt.Sprintf("%s could not be reconciled: non-finite amount", name)))
				return
			}
		}
		want := decimal.Zero
		for _, p := range parts {
			want = want.Add(decimal.NewFromFloat(p))
		}
		diff := decimal.NewFromFloat(got).Sub(want).Abs()
		limit := decimal.Max(decimal.NewFromInt(1), want.Abs()).Mul(decimal.NewFromFloat(reconciliationTolerance))
		if diff.GreaterThan(limit) {
			msgs = append(msgs, model.Warning(model.CodeCostReconciliation,
				fmt.Sprintf("%s is %.2f but its components sum to %s", name, got, want.StringFixed(2))))
		}
	}

	check("direct cost per cohort", b.DirectCostPerCohort, b.ProgrammeCostPerCohort, b.MentorCostPerCohort)
	check("economic cost per cohort", b.EconomicCostPerCohort,
		b.DirectCostPerCohort, b.ExistingOpportunityCostPerCohort, b.SalaryOpportunityCostPerCohort)
	check("salary opportunity cost", b.SalaryOpportunity.Raw,
		b.SalaryOpportunity.Participant, b.SalaryOpportunity.Coordinator, b.SalaryOpportunity.Faculty)

	perCohort := b.EconomicCostPerCohort * float64(cohorts)
	if !math.IsNaN(b.EconomicCostPerCohort) && !math.IsInf(b.EconomicCostPerCohort, 0) {
		perCohort = decimal.NewFromFloat(b.EconomicCostPerCohort).Mul(decimal.NewFromInt(int64(cohorts))).InexactFloat64()
	}
	check("economic cost all cohorts", b.EconomicCostAllCohorts, perCohort)

	return msgs
}
