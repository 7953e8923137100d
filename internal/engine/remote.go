package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vzahanych/forecast-gateway/internal/config"
	"github.com/vzahanych/forecast-gateway/pkg/telemetry"
	"go.uber.org/zap"
)

const APIKeyHeader = "X-API-Key"

// RemoteEngine calls a forecasting engine exposed over HTTP:
// POST {base_url}/forecast with the coordinate and horizon.
type RemoteEngine struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

type remoteRequest struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	HorizonDays int     `json:"horizon_days"`
	Debug       bool    `json:"debug"`
}

type remoteResponse struct {
	FullOutput Output          `json:"full_output"`
	Daily      []DailyForecast `json:"daily"`
}

func NewRemoteEngine(cfg config.EngineConfig, client *http.Client, logger *zap.Logger, tele *telemetry.Telemetry) *RemoteEngine {
	return &RemoteEngine{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
		logger:  logger,
		tele:    tele,
	}
}

func (e *RemoteEngine) Name() string {
	return TypeRemote
}

func (e *RemoteEngine) Forecast(ctx context.Context, lat, lon float64, horizonDays int, debug bool) (Output, []DailyForecast, error) {
	tracer := e.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "remote-engine.Forecast")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
		attribute.Int("horizon_days", horizonDays),
		attribute.Bool("debug", debug),
	)

	body, err := json.Marshal(remoteRequest{Lat: lat, Lon: lon, HorizonDays: horizonDays, Debug: debug})
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/forecast", bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set(APIKeyHeader, e.apiKey)
	}

	e.logger.Debug("Calling remote forecast engine",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("horizon_days", horizonDays))

	resp, err := e.client.Do(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		span.SetAttributes(
			attribute.Bool("success", false),
			attribute.Int("status_code", resp.StatusCode),
		)
		return nil, nil, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var result remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, nil, fmt.Errorf("decode engine response: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("days_returned", len(result.Daily)),
	)

	return result.FullOutput, result.Daily, nil
}

var _ Engine = (*RemoteEngine)(nil)
