package model

import (
	"github.com/shopspring/decimal"

	"scenario-engine/internal/jsonpatch"
)

type Preference struct {
	ProgramUtility        float64      `json:"program_utility"`
	OptOutUtility         float64      `json:"optout_utility"`
	NonCostUtility        float64      `json:"non_cost_utility"`
	EndorsementPct        float64      `json:"endorsement_pct"`
	OptOutPct             float64      `json:"optout_pct"`
	WTPPerTraineePerMonth float64      `json:"wtp_per_trainee_per_month"`
	ComponentWTP          ComponentWTP `json:"component_wtp"`
}

// ComponentWTP splits WTP per trainee per month by attribute.
type ComponentWTP struct {
	Tier       float64 `json:"tier"`
	Career     float64 `json:"career"`
	Mentorship float64 `json:"mentorship"`
	Delivery   float64 `json:"delivery"`
	Response   float64 `json:"response"`
}

type FeasibilityStatus string

const (
	WithinCapacity    FeasibilityStatus = "within_capacity"
	RequiresExpansion FeasibilityStatus = "requires_expansion"
)

type Capacity struct {
	FellowsPerMentor     float64           `json:"fellows_per_mentor"`
	MentorsPerCohort     int               `json:"mentors_per_cohort"`
	TotalMentorsRequired int               `json:"total_mentors_required"`
	AvailableMentors     int               `json:"available_mentors"`
	MentorShortfall      int               `json:"mentor_shortfall"`
	Status               FeasibilityStatus `json:"status"`
	SiteAssessed         bool              `json:"site_assessed"`
	SiteCapacity         int               `json:"site_capacity"`
	SiteGap              int               `json:"site_gap"`
	MaxFeasibleCohorts   int               `json:"max_feasible_cohorts"`
}

type SalaryOpportunityCost struct {
	TotalDays        float64 `json:"total_days"`
	ContactDays      float64 `json:"contact_days"`
	ParticipantCount int     `json:"participant_count"`
	CoordinatorCount int     `json:"coordinator_count"`
	FacultyCount     int     `json:"faculty_count"`
	Participant      float64 `json:"participant"`
	Coordinator      float64 `json:"coordinator"`
	Faculty          float64 `json:"faculty"`
	Raw              float64 `json:"raw"`
}

type CostComponent struct {
	ID              string  `json:"id"`
	Label           string  `json:"label"`
	Share           float64 `json:"share"`
	AmountPerCohort float64 `json:"amount_per_cohort"`
}

type CostBreakdown struct {
	DurationMonths         float64 `json:"duration_months"`
	ProgrammeCostPerCohort float64 `json:"programme_cost_per_cohort"`
	MentorCostPerCohort    float64 `json:"mentor_cost_per_cohort"`
	DirectCostPerCohort    float64 `json:"direct_cost_per_cohort"`
	OpportunityRate        float64 `json:"opportunity_rate"`
	// Raw figures are always computed; the per-cohort figures below them are
	// zero unless opportunity cost is included.
	ExistingOpportunityCostRaw       float64               `json:"existing_opportunity_cost_raw"`
	ExistingOpportunityCostPerCohort float64               `json:"existing_opportunity_cost_per_cohort"`
	SalaryOpportunity                SalaryOpportunityCost `json:"salary_opportunity"`
	SalaryOpportunityCostPerCohort   float64               `json:"salary_opportunity_cost_per_cohort"`
	EconomicCostPerCohort            float64               `json:"economic_cost_per_cohort"`
	DirectCostAllCohorts             float64               `json:"direct_cost_all_cohorts"`
	EconomicCostAllCohorts           float64               `json:"economic_cost_all_cohorts"`
	Components                       []CostComponent       `json:"components"`
}

type BenefitBreakdown struct {
	CompletionRate                     float64 `json:"completion_rate"`
	CompletedPerCohort                 float64 `json:"completed_per_cohort"`
	EffectiveGraduatesPerCohort        float64 `json:"effective_graduates_per_cohort"`
	GraduatesAllCohorts                float64 `json:"graduates_all_cohorts"`
	ResponseMultiplier                 float64 `json:"response_multiplier"`
	OutbreakResponsesPerYearPerCohort  float64 `json:"outbreak_responses_per_year_per_cohort"`
	OutbreakResponsesPerYearAllCohorts float64 `json:"outbreak_responses_per_year_all_cohorts"`
	PresentValueFactor                 float64 `json:"present_value_factor"`
	CrossSectorMultiplier              float64 `json:"cross_sector_multiplier"`
	GraduateBenefitPerCohort           float64 `json:"graduate_benefit_per_cohort"`
	OutbreakBenefitPerCohort           float64 `json:"outbreak_benefit_per_cohort"`
	BenefitPerCohort                   float64 `json:"benefit_per_cohort"`
	BenefitAllCohorts                  float64 `json:"benefit_all_cohorts"`
}

// Totals are the headline figures shared by scenarios and portfolios and
// used for baseline comparison.
type Totals struct {
	EndorsementPct           float64 `json:"endorsement_pct"`
	OptOutPct                float64 `json:"optout_pct"`
	EconomicCost             float64 `json:"economic_cost"`
	Benefit                  float64 `json:"benefit"`
	NetBenefit               float64 `json:"net_benefit"`
	Graduates                float64 `json:"graduates"`
	OutbreakResponsesPerYear float64 `json:"outbreak_responses_per_year"`
	WTP                      float64 `json:"wtp"`
	BCR                      Ratio   `json:"bcr"`
}

// Outcome is anything that can be compared against the baseline.
type Outcome interface {
	Aggregate() Totals
}

// ScenarioResult is the full evaluation of one tier Configuration. It is
// rebuilt from scratch on every input change.
type ScenarioResult struct {
	Configuration        Configuration    `json:"configuration"`
	Preference           Preference       `json:"preference"`
	Capacity             Capacity         `json:"capacity"`
	Cost                 CostBreakdown    `json:"cost"`
	Benefit              BenefitBreakdown `json:"benefit"`
	WTPPerCohort         float64          `json:"wtp_per_cohort"`
	WTPAllCohorts        float64          `json:"wtp_all_cohorts"`
	NetBenefitPerCohort  float64          `json:"net_benefit_per_cohort"`
	NetBenefitAllCohorts float64          `json:"net_benefit_all_cohorts"`
	BCR                  Ratio            `json:"bcr"`
}

func (r ScenarioResult) Aggregate() Totals {
	return Totals{
		EndorsementPct:           r.Preference.EndorsementPct,
		OptOutPct:                r.Preference.OptOutPct,
		EconomicCost:             r.Cost.EconomicCostAllCohorts,
		Benefit:                  r.Benefit.BenefitAllCohorts,
		NetBenefit:               r.NetBenefitAllCohorts,
		Graduates:                r.Benefit.GraduatesAllCohorts,
		OutbreakResponsesPerYear: r.Benefit.OutbreakResponsesPerYearAllCohorts,
		WTP:                      r.WTPAllCohorts,
		BCR:                      r.BCR,
	}
}

type PortfolioResult struct {
	Totals
	// WorkforceStockGraduates counts intermediate and advanced graduates.
	WorkforceStockGraduates float64                 `json:"workforce_stock_graduates"`
	Tiers                   map[Tier]ScenarioResult `json:"tiers"`
}

func (p PortfolioResult) Aggregate() Totals {
	return p.Totals
}

type Comparison struct {
	Baseline               Totals                `json:"baseline"`
	Candidate              Totals                `json:"candidate"`
	DeltaCost              float64               `json:"delta_cost"`
	DeltaBenefit           float64               `json:"delta_benefit"`
	DeltaNetBenefit        float64               `json:"delta_net_benefit"`
	DeltaGraduates         float64               `json:"delta_graduates"`
	DeltaOutbreakResponses float64               `json:"delta_outbreak_responses"`
	IncrementalBCR         Ratio                 `json:"incremental_bcr"`
	ConfigurationChanges   []jsonpatch.Operation `json:"configuration_changes,omitempty"`
}

type TierAllocation struct {
	Tier               Tier    `json:"tier"`
	Share              float64 `json:"share"`
	GraduatesNeeded    float64 `json:"graduates_needed"`
	GraduatesPerCohort float64 `json:"graduates_per_cohort"`
	AdditionalCohorts  int     `json:"additional_cohorts"`
	Note               string  `json:"note,omitempty"`
}

type GapAllocation struct {
	TargetGraduates  float64          `json:"target_graduates"`
	CurrentGraduates float64          `json:"current_graduates"`
	Gap              float64          `json:"gap"`
	Tiers            []TierAllocation `json:"tiers"`
}

type SweepPoint struct {
	CostPerTraineePerMonth float64 `json:"cost_per_trainee_per_month"`
	EndorsementPct         float64 `json:"endorsement_pct"`
	EconomicCost           float64 `json:"economic_cost"`
	NetBenefit             float64 `json:"net_benefit"`
	BCR                    Ratio   `json:"bcr"`
}

type CostSweep struct {
	Points             []SweepPoint `json:"points"`
	MeanEndorsementPct float64      `json:"mean_endorsement_pct"`
}

// Headline carries totals in local and reporting currency, rounded to cents.
type Headline struct {
	CurrencyRate          decimal.Decimal `json:"currency_rate"`
	EconomicCostLocal     decimal.Decimal `json:"economic_cost_local"`
	EconomicCostReporting decimal.Decimal `json:"economic_cost_reporting"`
	BenefitLocal          decimal.Decimal `json:"benefit_local"`
	BenefitReporting      decimal.Decimal `json:"benefit_reporting"`
	NetBenefitLocal       decimal.Decimal `json:"net_benefit_local"`
	NetBenefitReporting   decimal.Decimal `json:"net_benefit_reporting"`
	BCR                   Ratio           `json:"bcr"`
}
