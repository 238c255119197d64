package model

import json "github.com/goccy/go-json"

// CalculationRequest names one engine operation and carries its properties.
type CalculationRequest struct {
	RequestID  string          `json:"request_id,omitempty"`
	Operation  string          `json:"operation"`
	Properties json.RawMessage `json:"properties"`
}

const (
	OperationEvaluateScenario  = "evaluate_scenario"
	OperationEvaluatePortfolio = "evaluate_portfolio"
	OperationCompareBaseline   = "compare_baseline"
	OperationBatch             = "evaluate_batch"
	OperationCostSweep         = "cost_sweep"
)

type ScenarioProperties struct {
	Configuration Configuration `json:"configuration"`
	ClampCohorts  bool          `json:"clamp_cohorts,omitempty"`
}

type PortfolioProperties struct {
	Tiers             map[Tier]Configuration `json:"tiers"`
	ClampCohorts      bool                   `json:"clamp_cohorts,omitempty"`
	CompareToBaseline bool                   `json:"compare_to_baseline,omitempty"`
	TargetGraduates   *float64               `json:"target_graduates,omitempty"`
}

type BatchProperties struct {
	Configurations []Configuration `json:"configurations"`
}

type CostSweepProperties struct {
	Configuration Configuration `json:"configuration"`
	Costs         []float64     `json:"costs"`
}

// BaselineUpdate replaces the stored business-as-usual configurations.
type BaselineUpdate struct {
	Tiers map[Tier]Configuration `json:"tiers"`
}
