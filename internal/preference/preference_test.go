package preference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"scenario-engine/internal/model"
)

func intermediateExample() model.Configuration {
	return model.Configuration{
		Tier:                   model.TierIntermediate,
		CareerIncentive:        model.CareerCertificate,
		Mentorship:             model.MentorshipMedium,
		Delivery:               model.DeliveryInPerson,
		ResponseTime:           model.Response7Day,
		CostPerTraineePerMonth: 100000,
	}
}

func TestUtilitiesWorkedExample(t *testing.T) {
	program, optOut, _ := Utilities(intermediateExample())

	assert.InDelta(t, 0.719, program, 1e-9)
	assert.Equal(t, -0.601, optOut)

	endorse, opt := Endorsement(program, optOut)
	assert.InDelta(t, 78.9, endorse, 0.5)
	assert.InDelta(t, 100, endorse+opt, 1e-9)
}

func TestEndorsementSumsToHundred(t *testing.T) {
	cases := []struct{ program, optOut float64 }{
		{0, 0},
		{5, -5},
		{-800, 3},
		{800, -800},
		{0.719, -0.601},
	}
	for _, c := range cases {
		e, o := Endorsement(c.program, c.optOut)
		assert.False(t, math.IsNaN(e))
		assert.GreaterOrEqual(t, e, 0.0)
		assert.LessOrEqual(t, e, 100.0)
		assert.InDelta(t, 100, e+o, 1e-9, "program=%v optout=%v", c.program, c.optOut)
	}
}

func TestEndorsementStableForLargeUtilities(t *testing.T) {
	e, o := Endorsement(1000, 0)
	assert.Equal(t, 100.0, e)
	assert.Equal(t, 0.0, o)
}

func TestUnknownLevelsHaveZeroEffect(t *testing.T) {
	cfg := intermediateExample()
	cfg.CareerIncentive = "apprenticeship"
	cfg.Delivery = "hologram"

	assert.False(t, Known(cfg))

	program, _, terms := Utilities(cfg)
	assert.Equal(t, 0.0, terms.Career)
	assert.Equal(t, 0.0, terms.Delivery)
	assert.InDelta(t, 0.168+0.220+0.453+0.610-0.5, program, 1e-9)
}

func TestKnownForAllDefinedLevels(t *testing.T) {
	assert.True(t, Known(intermediateExample()))
}

func TestWTPIsUnclampedAndCanBeNegative(t *testing.T) {
	cfg := intermediateExample()
	cfg.Tier = model.TierFrontline
	cfg.Mentorship = model.MentorshipLow
	cfg.Delivery = model.DeliveryOnline
	cfg.ResponseTime = model.Response30Day

	p := Evaluate(cfg)
	// 0.168 - 1.073 = -0.905 utility => -181,000 per trainee per month.
	assert.InDelta(t, -181000, p.WTPPerTraineePerMonth, 1e-6)
	assert.InDelta(t, -214600, p.ComponentWTP.Delivery, 1e-6)
}

func TestEvaluateWTPWorkedExample(t *testing.T) {
	p := Evaluate(intermediateExample())
	assert.InDelta(t, 1.219, p.NonCostUtility, 1e-9)
	assert.InDelta(t, 243800, p.WTPPerTraineePerMonth, 1e-6)
}

func TestCostLowersEndorsement(t *testing.T) {
	cheap := intermediateExample()
	dear := intermediateExample()
	dear.CostPerTraineePerMonth = 400000

	assert.Greater(t, Evaluate(cheap).EndorsementPct, Evaluate(dear).EndorsementPct)
}
