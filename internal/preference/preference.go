// Package preference implements the discrete-choice model: programme and
// opt-out utilities, endorsement probabilities and willingness to pay.
package preference

import (
	"math"

	"scenario-engine/internal/model"
)

const (
	ASCProgram = 0.168
	ASCOptOut  = -0.601
	// CostCoefficient applies to cost per trainee per month in thousands.
	CostCoefficient = -0.005
)

var tierEffects = map[model.Tier]float64{
	model.TierFrontline:    0,
	model.TierIntermediate: 0.220,
	model.TierAdvanced:     0.487,
}

var careerEffects = map[model.CareerIncentive]float64{
	model.CareerCertificate:       0,
	model.CareerUniversity:        0.017,
	model.CareerGovernmentPathway: -0.122,
}

var mentorshipEffects = map[model.MentorshipIntensity]float64{
	model.MentorshipLow:    0,
	model.MentorshipMedium: 0.453,
	model.MentorshipHigh:   0.640,
}

var deliveryEffects = map[model.DeliveryMode]float64{
	model.DeliveryBlended:  0,
	model.DeliveryInPerson: -0.232,
	model.DeliveryOnline:   -1.073,
}

var responseEffects = map[model.ResponseTime]float64{
	model.Response30Day: 0,
	model.Response15Day: 0.546,
	model.Response7Day:  0.610,
}

// effect looks a level up in its table. Unrecognised levels carry no
// utility; ok reports whether the level was known.
func effect[K comparable](table map[K]float64, level K) (v float64, ok bool) {
	v, ok = table[level]
	if !ok {
		return 0, false
	}
	return v, true
}

// Known reports whether every attribute level of cfg is in the coefficient
// tables.
func Known(cfg model.Configuration) bool {
	_, t := effect(tierEffects, cfg.Tier)
	_, c := effect(careerEffects, cfg.CareerIncentive)
	_, m := effect(mentorshipEffects, cfg.Mentorship)
	_, d := effect(deliveryEffects, cfg.Delivery)
	_, r := effect(responseEffects, cfg.ResponseTime)
	return t && c && m && d && r
}

// Utilities returns the programme and opt-out utilities together with the
// attribute terms that make up the non-cost part of the programme utility.
func Utilities(cfg model.Configuration) (program, optOut float64, terms model.ComponentWTP) {
	terms.Tier, _ = effect(tierEffects, cfg.Tier)
	terms.Career, _ = effect(careerEffects, cfg.CareerIncentive)
	terms.Mentorship, _ = effect(mentorshipEffects, cfg.Mentorship)
	terms.Delivery, _ = effect(deliveryEffects, cfg.Delivery)
	terms.Response, _ = effect(responseEffects, cfg.ResponseTime)

	program = ASCProgram + terms.Tier + terms.Career + terms.Mentorship + terms.Delivery + terms.Response +
		CostCoefficient*(cfg.CostPerTraineePerMonth/1000)
	return program, ASCOptOut, terms
}

// Endorsement returns the programme and opt-out choice probabilities as
// percentages using a max-shifted two-alternative softmax.
func Endorsement(program, optOut float64) (endorsePct, optOutPct float64) {
	m := math.Max(program, optOut)
	ep := math.Exp(program - m)
	eo := math.Exp(optOut - m)
	p := ep / (ep + eo)

	endorsePct = clampPct(p * 100)
	optOutPct = clampPct(100 - endorsePct)
	return endorsePct, optOutPct
}

// WTP converts utility to money per trainee per month.
func WTP(utility float64) float64 {
	return utility / math.Abs(CostCoefficient) * 1000
}

func Evaluate(cfg model.Configuration) model.Preference {
	program, optOut, terms := Utilities(cfg)
	endorse, opt := Endorsement(program, optOut)

	nonCost := ASCProgram + terms.Tier + terms.Career + terms.Mentorship + terms.Delivery + terms.Response

	return model.Preference{
		ProgramUtility:        program,
		OptOutUtility:         optOut,
		NonCostUtility:        nonCost,
		EndorsementPct:        endorse,
		OptOutPct:             opt,
		WTPPerTraineePerMonth: WTP(nonCost),
		ComponentWTP: model.ComponentWTP{
			Tier:       WTP(terms.Tier),
			Career:     WTP(terms.Career),
			Mentorship: WTP(terms.Mentorship),
			Delivery:   WTP(terms.Delivery),
			Response:   WTP(terms.Response),
		},
	}
}

func clampPct(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
