package model

// GeneralSettings holds the economic parameters shared by every tier.
type GeneralSettings struct {
	PlanningHorizonYears float64 `json:"planning_horizon_years" yaml:"planning_horizon_years"`
	DiscountRate         float64 `json:"discount_rate" yaml:"discount_rate"`
	// CurrencyRate is local currency units per reporting-currency unit.
	CurrencyRate float64 `json:"currency_rate" yaml:"currency_rate"`
}

type TierSettings struct {
	CompletionRate              float64 `json:"completion_rate" yaml:"completion_rate"`
	OutbreaksPerGraduatePerYear float64 `json:"outbreaks_per_graduate_per_year" yaml:"outbreaks_per_graduate_per_year"`
	ValuePerOutbreak            float64 `json:"value_per_outbreak" yaml:"value_per_outbreak"`
	ValuePerGraduate            float64 `json:"value_per_graduate" yaml:"value_per_graduate"`
}

// Settings is an immutable snapshot handed to every evaluation. Callers must
// not mutate a Settings value once it has been passed to the engine; use
// Clone to derive a modified copy.
type Settings struct {
	General GeneralSettings       `json:"general" yaml:"general"`
	Tiers   map[Tier]TierSettings `json:"tiers" yaml:"tiers"`
}

// Upper bounds on settings values, applied during normalisation.
const (
	MaxCurrencyRate                = 1e9
	MaxOutbreaksPerGraduatePerYear = 1000
	MaxMonetaryValue               = 1e12
)

func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			PlanningHorizonYears: 5,
			DiscountRate:         0.03,
			CurrencyRate:         83,
		},
		Tiers: map[Tier]TierSettings{
			TierFrontline: {
				CompletionRate:              0.90,
				OutbreaksPerGraduatePerYear: 0.3,
				ValuePerOutbreak:            4000000,
				ValuePerGraduate:            500000,
			},
			TierIntermediate: {
				CompletionRate:              0.85,
				OutbreaksPerGraduatePerYear: 0.5,
				ValuePerOutbreak:            4000000,
				ValuePerGraduate:            1000000,
			},
			TierAdvanced: {
				CompletionRate:              0.80,
				OutbreaksPerGraduatePerYear: 0.8,
				ValuePerOutbreak:            4000000,
				ValuePerGraduate:            2000000,
			},
		},
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := Settings{General: s.General, Tiers: make(map[Tier]TierSettings, len(s.Tiers))}
	for k, v := range s.Tiers {
		out.Tiers[k] = v
	}
	return out
}

// Tier returns the per-tier settings, falling back to the defaults for tiers
// the snapshot does not carry.
func (s Settings) Tier(t Tier) TierSettings {
	if ts, ok := s.Tiers[t]; ok {
		return ts
	}
	return DefaultSettings().Tiers[t]
}
