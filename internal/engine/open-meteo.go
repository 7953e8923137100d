package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vzahanych/forecast-gateway/internal/config"
	"github.com/vzahanych/forecast-gateway/pkg/telemetry"
	"go.uber.org/zap"
)

// OpenMeteoEngine serves forecasts from the Open-Meteo daily API. The
// provider only looks maxDays ahead, so longer horizons are truncated.
type OpenMeteoEngine struct {
	baseURL string
	client  *http.Client
	params  map[string]string
	maxDays int
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

type openMeteoResponse struct {
	Latitude   float64                  `json:"latitude"`
	Longitude  float64                  `json:"longitude"`
	Timezone   string                   `json:"timezone"`
	Daily      map[string][]interface{} `json:"daily"`
	DailyUnits map[string]string        `json:"daily_units"`
}

// Open-Meteo variable -> record key.
var openMeteoKeys = map[string]string{
	"time":                          "date",
	"temperature_2m_max":            "tmax",
	"temperature_2m_min":            "tmin",
	"precipitation_sum":             "precip_sum",
	"precipitation_probability_max": "precip_prob",
	"weathercode":                   "weather_code",
	"weather_code":                  "weather_code",
}

func NewOpenMeteoEngine(cfg config.EngineConfig, client *http.Client, logger *zap.Logger, tele *telemetry.Telemetry) *OpenMeteoEngine {
	maxDays := cfg.MaxProviderDays
	if maxDays < 1 {
		maxDays = 16
	}
	return &OpenMeteoEngine{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		params:  cfg.Params,
		maxDays: maxDays,
		logger:  logger,
		tele:    tele,
	}
}

func (e *OpenMeteoEngine) Name() string {
	return TypeOpenMeteo
}

func (e *OpenMeteoEngine) Forecast(ctx context.Context, lat, lon float64, horizonDays int, debug bool) (Output, []DailyForecast, error) {
	tracer := e.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "open-meteo.Forecast")
	defer span.End()

	days := horizonDays
	if days > e.maxDays {
		days = e.maxDays
	}
	if days < 1 {
		days = 1
	}

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
		attribute.Int("horizon_days", horizonDays),
		attribute.Int("forecast_days", days),
	)

	if days < horizonDays {
		e.logger.Debug("Horizon exceeds provider range, truncating",
			zap.Int("horizon_days", horizonDays),
			zap.Int("forecast_days", days))
	}

	raw, err := e.fetch(ctx, lat, lon, days)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, nil, err
	}

	var parsed openMeteoResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, nil, fmt.Errorf("decode open-meteo response: %w", err)
	}

	daily := pivotDaily(parsed.Daily)

	output := Output{
		"latitude":    parsed.Latitude,
		"longitude":   parsed.Longitude,
		"timezone":    parsed.Timezone,
		"daily_units": parsed.DailyUnits,
	}
	if debug {
		var full map[string]interface{}
		if err := json.Unmarshal(raw, &full); err == nil {
			output["raw"] = full
		}
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("days_returned", len(daily)),
	)

	return output, daily, nil
}

func (e *OpenMeteoEngine) fetch(ctx context.Context, lat, lon float64, days int) ([]byte, error) {
	u, err := url.Parse(fmt.Sprintf("%s/forecast", e.baseURL))
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("latitude", fmt.Sprintf("%.6f", lat))
	q.Set("longitude", fmt.Sprintf("%.6f", lon))
	q.Set("forecast_days", fmt.Sprintf("%d", days))
	q.Set("timezone", "auto")

	for key, value := range e.params {
		q.Set(key, value)
	}

	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode open-meteo response: %w", err)
	}
	return raw, nil
}

// pivotDaily turns Open-Meteo's column arrays into one record per day.
func pivotDaily(columns map[string][]interface{}) []DailyForecast {
	dates := columns["time"]
	if len(dates) == 0 {
		return nil
	}

	daily := make([]DailyForecast, len(dates))
	for i := range dates {
		daily[i] = DailyForecast{}
	}

	for variable, values := range columns {
		key, ok := openMeteoKeys[variable]
		if !ok {
			key = variable
		}
		for i := 0; i < len(dates) && i < len(values); i++ {
			daily[i][key] = values[i]
		}
	}

	for _, day := range daily {
		if code, ok := day["weather_code"].(float64); ok {
			day["weather_desc"] = WeatherDescription(int(code))
		}
	}

	return daily
}

var _ Engine = (*OpenMeteoEngine)(nil)
