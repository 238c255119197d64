package handler

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"scenario-engine/internal/baselinestore"
	"scenario-engine/internal/engine"
	"scenario-engine/internal/model"
)

// operationRoutes maps POST paths onto engine operations. The request body
// is the operation's properties.
var operationRoutes = map[string]string{
	"/v1/scenarios/evaluate":  model.OperationEvaluateScenario,
	"/v1/portfolios/evaluate": model.OperationEvaluatePortfolio,
	"/v1/baseline/compare":    model.OperationCompareBaseline,
	"/v1/sweeps/batch":        model.OperationBatch,
	"/v1/sweeps/cost":         model.OperationCostSweep,
}

type Handler struct {
	base    context.Context
	svc     *engine.Service
	logger  *zap.Logger
	metrics fasthttp.RequestHandler
}

// New returns a handler whose calculations are cancelled when base is.
func New(base context.Context, svc *engine.Service, logger *zap.Logger, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		base:    base,
		svc:     svc,
		logger:  logger,
		metrics: fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
	}
}

type settingsResponse struct {
	Settings model.Settings             `json:"settings"`
	Messages []model.CalculationMessage `json:"messages"`
}

func (h *Handler) Serve(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())

	if op, ok := operationRoutes[path]; ok {
		if !ctx.IsPost() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.handleOperation(ctx, &model.CalculationRequest{
			RequestID:  string(ctx.Request.Header.Peek("X-Request-ID")),
			Operation:  op,
			Properties: ctx.PostBody(),
		})
		return
	}

	switch path {
	case "/v1/calculations":
		if !ctx.IsPost() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		var req model.CalculationRequest
		if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		if req.Operation == "" {
			writeError(ctx, fasthttp.StatusBadRequest, "operation is required")
			return
		}
		h.handleOperation(ctx, &req)
	case "/v1/settings":
		h.handleSettings(ctx)
	case "/v1/baseline":
		h.handleBaseline(ctx)
	case "/metrics":
		h.metrics(ctx)
	case "/healthz":
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("ok")
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) handleOperation(ctx *fasthttp.RequestCtx, req *model.CalculationRequest) {
	if len(req.Properties) > 0 && !json.Valid(req.Properties) {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	resp := h.svc.Process(h.base, req)
	h.logger.Info("calculation",
		zap.String("calculation_id", resp.CalculationMetadata.CalculationID),
		zap.String("operation", req.Operation),
		zap.String("outcome", resp.CalculationMetadata.CalculationOutcome),
		zap.Int("messages", len(resp.Messages)),
		zap.Int64("duration_ms", resp.CalculationMetadata.CalculationDurationMs))

	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (h *Handler) handleSettings(ctx *fasthttp.RequestCtx) {
	switch {
	case ctx.IsGet():
		writeJSON(ctx, fasthttp.StatusOK, settingsResponse{Settings: h.svc.Settings(), Messages: []model.CalculationMessage{}})
	case ctx.IsPut():
		var s model.Settings
		if err := json.Unmarshal(ctx.PostBody(), &s); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		msgs := h.svc.SetSettings(s)
		for i := range msgs {
			msgs[i].ID = i
		}
		if msgs == nil {
			msgs = []model.CalculationMessage{}
		}
		h.logger.Info("settings replaced", zap.Int("messages", len(msgs)))
		writeJSON(ctx, fasthttp.StatusOK, settingsResponse{Settings: h.svc.Settings(), Messages: msgs})
	default:
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) handleBaseline(ctx *fasthttp.RequestCtx) {
	switch {
	case ctx.IsGet():
	case ctx.IsPut():
		var upd model.BaselineUpdate
		if err := json.Unmarshal(ctx.PostBody(), &upd); err != nil {
			writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		if err := h.svc.SetBaseline(upd.Tiers); err != nil {
			if errors.Is(err, baselinestore.ErrUnknownTier) {
				writeError(ctx, fasthttp.StatusBadRequest, err.Error())
				return
			}
			h.logger.Error("baseline write failed", zap.Error(err))
			writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
	default:
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	view, err := h.svc.Baseline()
	if errors.Is(err, engine.ErrNoBaseline) {
		writeError(ctx, fasthttp.StatusNotFound, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, view)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "encode response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
