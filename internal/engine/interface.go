package engine

import "context"

// DailyForecast is one opaque per-day record produced by an engine.
type DailyForecast map[string]interface{}

// Output is the engine's full, uninterpreted result.
type Output map[string]interface{}

// Engine produces a daily forecast for a coordinate, horizonDays days ahead
// of today. debug asks the engine for verbose output.
type Engine interface {
	Forecast(ctx context.Context, lat, lon float64, horizonDays int, debug bool) (Output, []DailyForecast, error)
	Name() string
}
