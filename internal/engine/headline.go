package engine

import (
	"github.com/shopspring/decimal"

	"scenario-engine/internal/model"
)

// Headline converts totals into the reporting currency at the settings'
// currency rate, rounded to two decimals.
func Headline(t model.Totals, s model.Settings) model.Headline {
	rate := decimal.NewFromInt(1)
	if r := s.General.CurrencyRate; finite(r) && r > 0 {
		rate = decimal.NewFromFloat(r)
	}

	local := func(v float64) decimal.Decimal {
		if !finite(v) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v).Round(2)
	}
	reporting := func(v float64) decimal.Decimal {
		if !finite(v) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v).DivRound(rate, 2)
	}

	return model.Headline{
		CurrencyRate:          rate,
		EconomicCostLocal:     local(t.EconomicCost),
		EconomicCostReporting: reporting(t.EconomicCost),
		BenefitLocal:          local(t.Benefit),
		BenefitReporting:      reporting(t.Benefit),
		NetBenefitLocal:       local(t.NetBenefit),
		NetBenefitReporting:   reporting(t.NetBenefit),
		BCR:                   t.BCR,
	}
}
