package model

type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

// Diagnostic codes emitted by the engine. None of them abort an evaluation.
const (
	CodeInvalidValue       = "INVALID_VALUE"
	CodeUnknownEnum        = "UNKNOWN_ENUM"
	CodeResponseTimePinned = "RESPONSE_TIME_PINNED"
	CodeCohortsClamped     = "COHORTS_CLAMPED"
	CodeCostReconciliation = "COST_RECONCILIATION"
	CodeTierMismatch       = "TIER_MISMATCH"
	CodeNoBaseline         = "NO_BASELINE"
	CodeNonFiniteResult    = "NON_FINITE_RESULT"
)

// Request-level codes. These are CRITICAL and fail the calculation.
const (
	CodeUnknownOperation  = "UNKNOWN_OPERATION"
	CodeInvalidProperties = "INVALID_PROPERTIES"
	CodeOperationFailed   = "OPERATION_FAILED"
)

func Warning(code, message string) CalculationMessage {
	return CalculationMessage{Level: LevelWarning, Code: code, Message: message}
}

func Critical(code, message string) CalculationMessage {
	return CalculationMessage{Level: LevelCritical, Code: code, Message: message}
}
