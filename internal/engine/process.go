package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scenario-engine/internal/model"
)

var errInvalidProperties = errors.New("invalid properties")

// operation runs one named request against the service. Errors wrapping
// errInvalidProperties are reported as INVALID_PROPERTIES.
type operation func(ctx context.Context, s *Service, props json.RawMessage) (interface{}, []model.CalculationMessage, error)

var operations = map[string]operation{
	model.OperationEvaluateScenario:  evaluateScenarioOp,
	model.OperationEvaluatePortfolio: evaluatePortfolioOp,
	model.OperationCompareBaseline:   compareBaselineOp,
	model.OperationBatch:             batchOp,
	model.OperationCostSweep:         costSweepOp,
}

func decode(props json.RawMessage, v interface{}) error {
	if len(props) == 0 {
		return fmt.Errorf("%w: properties are required", errInvalidProperties)
	}
	if err := json.Unmarshal(props, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidProperties, err)
	}
	return nil
}

func evaluateScenarioOp(_ context.Context, s *Service, props json.RawMessage) (interface{}, []model.CalculationMessage, error) {
	var p model.ScenarioProperties
	if err := decode(props, &p); err != nil {
		return nil, nil, err
	}
	out, msgs := s.EvaluateScenario(p)
	return out, msgs, nil
}

func evaluatePortfolioOp(_ context.Context, s *Service, props json.RawMessage) (interface{}, []model.CalculationMessage, error) {
	var p model.PortfolioProperties
	if err := decode(props, &p); err != nil {
		return nil, nil, err
	}
	out, msgs := s.EvaluatePortfolio(p)
	return out, msgs, nil
}

func compareBaselineOp(_ context.Context, s *Service, props json.RawMessage) (interface{}, []model.CalculationMessage, error) {
	var p model.PortfolioProperties
	if err := decode(props, &p); err != nil {
		return nil, nil, err
	}
	p.CompareToBaseline = true
	out, msgs := s.EvaluatePortfolio(p)
	return out, msgs, nil
}

func batchOp(ctx context.Context, s *Service, props json.RawMessage) (interface{}, []model.CalculationMessage, error) {
	var p model.BatchProperties
	if err := decode(props, &p); err != nil {
		return nil, nil, err
	}
	if len(p.Configurations) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one configuration is required", errInvalidProperties)
	}
	out, err := s.EvaluateBatch(ctx, p.Configurations)
	return out, nil, err
}

func costSweepOp(ctx context.Context, s *Service, props json.RawMessage) (interface{}, []model.CalculationMessage, error) {
	var p model.CostSweepProperties
	if err := decode(props, &p); err != nil {
		return nil, nil, err
	}
	if len(p.Costs) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one cost is required", errInvalidProperties)
	}
	out, msgs, err := s.CostSensitivity(ctx, p)
	return out, msgs, err
}

// Process runs a calculation request and wraps the result in the response
// envelope. Warnings never fail a calculation; any CRITICAL message does,
// and a failed calculation carries no result.
func (s *Service) Process(ctx context.Context, req *model.CalculationRequest) *model.CalculationResponse {
	start := time.Now()

	var result interface{}
	var msgs []model.CalculationMessage
	outcome := model.OutcomeSuccess

	op, ok := operations[req.Operation]
	if !ok {
		msgs = append(msgs, model.Critical(model.CodeUnknownOperation,
			fmt.Sprintf("Unknown operation: %s", req.Operation)))
	} else {
		var err error
		result, msgs, err = op(ctx, s, req.Properties)
		switch {
		case errors.Is(err, errInvalidProperties):
			msgs = append(msgs, model.Critical(model.CodeInvalidProperties, err.Error()))
		case err != nil:
			msgs = append(msgs, model.Critical(model.CodeOperationFailed, err.Error()))
		}
	}

	for i := range msgs {
		msgs[i].ID = i
		if msgs[i].Level == model.LevelCritical {
			outcome = model.OutcomeFailure
		}
	}
	if outcome == model.OutcomeFailure {
		result = nil
		s.metrics.Observe("request", outcome, time.Since(start))
		s.logger.Warn("calculation failed",
			zap.String("operation", req.Operation),
			zap.String("request_id", req.RequestID),
			zap.String("reason", msgs[len(msgs)-1].Message))
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	if msgs == nil {
		msgs = []model.CalculationMessage{}
	}

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			RequestID:              req.RequestID,
			Operation:              req.Operation,
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		Messages: msgs,
		Result:   result,
	}
}
