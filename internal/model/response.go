package model

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata  `json:"calculation_metadata"`
	Messages            []CalculationMessage `json:"messages"`
	Result              interface{}          `json:"result"`
}

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	RequestID              string `json:"request_id,omitempty"`
	Operation              string `json:"operation"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

type ScenarioOutput struct {
	Scenario ScenarioResult `json:"scenario"`
	Headline Headline       `json:"headline"`
}

type PortfolioOutput struct {
	Portfolio     PortfolioResult `json:"portfolio"`
	Headline      Headline        `json:"headline"`
	Comparison    *Comparison     `json:"comparison,omitempty"`
	GapAllocation *GapAllocation  `json:"gap_allocation,omitempty"`
}

type BatchItem struct {
	Scenario ScenarioResult       `json:"scenario"`
	Messages []CalculationMessage `json:"messages,omitempty"`
}

type BatchOutput struct {
	Items []BatchItem `json:"items"`
}

type BaselineView struct {
	Tiers     map[Tier]Configuration `json:"tiers"`
	UpdatedAt string                 `json:"updated_at,omitempty"`
	Portfolio *PortfolioResult       `json:"portfolio,omitempty"`
	Headline  *Headline              `json:"headline,omitempty"`
	Messages  []CalculationMessage   `json:"messages,omitempty"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
