package forecast

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/vzahanych/forecast-gateway/internal/engine"
	"github.com/vzahanych/forecast-gateway/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	OutcomeOK       = "ok"
	OutcomeNotReady = "not_ready"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
)

// MetricsRecorder counts engine call outcomes.
type MetricsRecorder interface {
	RecordEngineCall(ctx context.Context, engine, outcome string)
}

// Gateway is the only caller of the forecasting engine. A nil engine means
// the engine failed to load and the gateway answers ErrNotReady forever.
type Gateway struct {
	engine  engine.Engine
	debug   bool
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics MetricsRecorder
}

func NewGateway(eng engine.Engine, debug bool, logger *zap.Logger, tele *telemetry.Telemetry) *Gateway {
	return &Gateway{
		engine: eng,
		debug:  debug,
		logger: logger,
		tele:   tele,
	}
}

// SetMetricsRecorder sets the metrics recorder for the gateway
func (g *Gateway) SetMetricsRecorder(metrics MetricsRecorder) {
	g.metrics = metrics
}

func (g *Gateway) Ready() bool {
	return g.engine != nil
}

func (g *Gateway) EngineName() string {
	if g.engine == nil {
		return "none"
	}
	return g.engine.Name()
}

// CheckReady fails with ErrNotReady, and counts it, when no engine is loaded.
func (g *Gateway) CheckReady(ctx context.Context) error {
	if !g.Ready() {
		g.record(ctx, OutcomeNotReady)
		return ErrNotReady
	}
	return nil
}

func (g *Gateway) Predict(ctx context.Context, req Normalized) ([]engine.DailyForecast, error) {
	if err := g.CheckReady(ctx); err != nil {
		return nil, err
	}

	tracer := g.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "gateway.Predict")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", req.Lat),
		attribute.Float64("lon", req.Lon),
		attribute.Int("horizon_days", req.Horizon),
		attribute.String("engine", g.engine.Name()),
	)

	reqLogger := g.logger.With(
		zap.Float64("lat", req.Lat),
		zap.Float64("lon", req.Lon),
		zap.Int("horizon_days", req.Horizon))

	output, daily, err := g.call(ctx, req)
	if err != nil {
		class := errorClass(err)
		if p, ok := err.(*panicError); ok {
			class = typeName(p.value)
			reqLogger.Error("Forecast engine panicked",
				zap.String("error_class", class),
				zap.Any("recovered", p.value),
				zap.ByteString("stack", p.stack))
		} else {
			reqLogger.Error("Unexpected forecast engine error",
				zap.String("error_class", class),
				zap.Error(err),
				zap.Stack("stack"))
		}

		g.tele.RecordError(ctx, err, map[string]interface{}{"error_class": class})
		g.record(ctx, OutcomeError)
		return nil, &EngineError{Class: class, Err: err}
	}

	if len(daily) == 0 {
		reqLogger.Warn("Forecast engine returned no daily data")
		span.SetAttributes(attribute.Bool("empty", true))
		g.record(ctx, OutcomeEmpty)
		return nil, ErrNoDailyData
	}

	reqLogger.Info("Returning daily forecast",
		zap.Int("days", len(daily)),
		zap.Bool("full_output", output != nil))
	span.SetAttributes(attribute.Int("days_returned", len(daily)))
	g.record(ctx, OutcomeOK)

	return daily, nil
}

type panicError struct {
	value interface{}
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("engine panic: %v", p.value)
}

// call invokes the engine, converting a panic into an error.
func (g *Gateway) call(ctx context.Context, req Normalized) (output engine.Output, daily []engine.DailyForecast, err error) {
	defer func() {
		if r := recover(); r != nil {
			output, daily = nil, nil
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	return g.engine.Forecast(ctx, req.Lat, req.Lon, req.Horizon, g.debug)
}

func (g *Gateway) record(ctx context.Context, outcome string) {
	if g.metrics != nil {
		g.metrics.RecordEngineCall(ctx, g.EngineName(), outcome)
	}
}
