package model

type Tier string

const (
	TierFrontline    Tier = "frontline"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// Tiers lists the programme tiers in reporting order. Portfolio sums iterate
// in this order so results are reproducible bit for bit.
var Tiers = []Tier{TierFrontline, TierIntermediate, TierAdvanced}

func (t Tier) Valid() bool {
	switch t {
	case TierFrontline, TierIntermediate, TierAdvanced:
		return true
	}
	return false
}

// DurationMonths is the fixed programme length of the tier.
func (t Tier) DurationMonths() float64 {
	switch t {
	case TierFrontline:
		return 3
	case TierIntermediate:
		return 12
	case TierAdvanced:
		return 24
	}
	return 0
}

type CareerIncentive string

const (
	CareerCertificate       CareerIncentive = "certificate"
	CareerUniversity        CareerIncentive = "university_qualification"
	CareerGovernmentPathway CareerIncentive = "government_career_pathway"
)

type MentorshipIntensity string

const (
	MentorshipLow    MentorshipIntensity = "low"
	MentorshipMedium MentorshipIntensity = "medium"
	MentorshipHigh   MentorshipIntensity = "high"
)

type DeliveryMode string

const (
	DeliveryBlended  DeliveryMode = "blended"
	DeliveryInPerson DeliveryMode = "in_person"
	DeliveryOnline   DeliveryMode = "online"
)

type ResponseTime string

const (
	Response30Day ResponseTime = "30_day"
	Response15Day ResponseTime = "15_day"
	Response7Day  ResponseTime = "7_day"
)

// PinnedResponseTime is the response-time target current policy fixes for
// every scenario.
const PinnedResponseTime = Response7Day

// Configuration describes one tier-level programme scenario.
type Configuration struct {
	Tier                         Tier                `json:"tier" yaml:"tier"`
	CareerIncentive              CareerIncentive     `json:"career_incentive" yaml:"career_incentive"`
	Mentorship                   MentorshipIntensity `json:"mentorship" yaml:"mentorship"`
	Delivery                     DeliveryMode        `json:"delivery" yaml:"delivery"`
	ResponseTime                 ResponseTime        `json:"response_time" yaml:"response_time"`
	CostPerTraineePerMonth       float64             `json:"cost_per_trainee_per_month" yaml:"cost_per_trainee_per_month"`
	TraineesPerCohort            int                 `json:"trainees_per_cohort" yaml:"trainees_per_cohort"`
	Cohorts                      int                 `json:"cohorts" yaml:"cohorts"`
	PlanningHorizonYears         float64             `json:"planning_horizon_years" yaml:"planning_horizon_years"`
	OpportunityCostIncluded      bool                `json:"opportunity_cost_included" yaml:"opportunity_cost_included"`
	CompletionRateOverride       *float64            `json:"completion_rate_override,omitempty" yaml:"completion_rate_override,omitempty"`
	MentorSupportCostBase        float64             `json:"mentor_support_cost_base" yaml:"mentor_support_cost_base"`
	AvailableMentorsNational     int                 `json:"available_mentors_national" yaml:"available_mentors_national"`
	AvailableTrainingSites       int                 `json:"available_training_sites" yaml:"available_training_sites"`
	MaxCohortsPerSitePerYear     int                 `json:"max_cohorts_per_site_per_year" yaml:"max_cohorts_per_site_per_year"`
	CrossSectorBenefitMultiplier float64             `json:"cross_sector_benefit_multiplier" yaml:"cross_sector_benefit_multiplier"`
	FacultySalaryMonthly         float64             `json:"faculty_salary_monthly" yaml:"faculty_salary_monthly"`
	CoordinatorSalaryMonthly     float64             `json:"coordinator_salary_monthly" yaml:"coordinator_salary_monthly"`
	ParticipantSalaryMonthly     float64             `json:"participant_salary_monthly" yaml:"participant_salary_monthly"`
}

const (
	MinCrossSectorMultiplier = 0.8
	MaxCrossSectorMultiplier = 2.0
)

// Upper bounds on configuration inputs. Larger values are clamped during
// normalisation so every derived product stays finite.
const (
	MaxMonthlyAmount        = 1e12
	MaxTraineesPerCohort    = 10000
	MaxCohorts              = 100000
	MaxPlanningHorizonYears = 100
	MaxHeadcount            = 1000000
)

// DefaultConfiguration returns the documented fallback values for a tier.
// Normalisation substitutes these for missing or invalid numeric fields.
func DefaultConfiguration(tier Tier) Configuration {
	cfg := Configuration{
		Tier:                         tier,
		CareerIncentive:              CareerCertificate,
		Mentorship:                   MentorshipMedium,
		Delivery:                     DeliveryBlended,
		ResponseTime:                 PinnedResponseTime,
		CostPerTraineePerMonth:       250000,
		TraineesPerCohort:            20,
		Cohorts:                      1,
		PlanningHorizonYears:         5,
		OpportunityCostIncluded:      true,
		MentorSupportCostBase:        150000,
		AvailableMentorsNational:     200,
		AvailableTrainingSites:       10,
		MaxCohortsPerSitePerYear:     2,
		CrossSectorBenefitMultiplier: 1.0,
		FacultySalaryMonthly:         150000,
		CoordinatorSalaryMonthly:     80000,
		ParticipantSalaryMonthly:     60000,
	}
	switch tier {
	case TierIntermediate:
		cfg.TraineesPerCohort = 15
	case TierAdvanced:
		cfg.TraineesPerCohort = 10
		cfg.Mentorship = MentorshipHigh
	}
	return cfg
}
