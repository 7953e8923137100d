package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/forecast-gateway/internal/config"
	"github.com/vzahanych/forecast-gateway/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

func TestNew(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tele := &telemetry.Telemetry{}

	tests := []struct {
		name     string
		cfg      config.EngineConfig
		wantName string
		wantErr  bool
	}{
		{name: "remote", cfg: config.EngineConfig{Type: TypeRemote, BaseURL: "http://engine"}, wantName: "remote"},
		{name: "open-meteo", cfg: config.EngineConfig{Type: TypeOpenMeteo, BaseURL: "http://om"}, wantName: "open-meteo"},
		{name: "rate limited", cfg: config.EngineConfig{Type: TypeRemote, BaseURL: "http://engine", RateLimitRPS: 2}, wantName: "remote [rate limited]"},
		{name: "unknown type", cfg: config.EngineConfig{Type: "crystal-ball", BaseURL: "http://x"}, wantErr: true},
		{name: "missing base url", cfg: config.EngineConfig{Type: TypeRemote}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := New(tt.cfg, logger, tele)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, eng)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, eng.Name())
		})
	}
}

func TestRemoteEngine_Forecast(t *testing.T) {
	var got remoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "k3y", r.Header.Get(APIKeyHeader))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"full_output":{"model":"nova"},"daily":[{"date":"2025-01-01","tmax":4.5},{"date":"2025-01-02","tmax":6}]}`))
	}))
	defer srv.Close()

	eng := NewRemoteEngine(config.EngineConfig{BaseURL: srv.URL + "/", APIKey: "k3y"}, srv.Client(), zaptest.NewLogger(t), &telemetry.Telemetry{})

	out, daily, err := eng.Forecast(context.Background(), 41.01, 28.97, 150, true)
	require.NoError(t, err)

	assert.Equal(t, remoteRequest{Lat: 41.01, Lon: 28.97, HorizonDays: 150, Debug: true}, got)
	assert.Equal(t, "nova", out["model"])
	require.Len(t, daily, 2)
	assert.Equal(t, "2025-01-01", daily[0]["date"])
	assert.Equal(t, 4.5, daily[0]["tmax"])
}

func TestRemoteEngine_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	eng := NewRemoteEngine(config.EngineConfig{BaseURL: srv.URL}, srv.Client(), zaptest.NewLogger(t), &telemetry.Telemetry{})

	_, _, err := eng.Forecast(context.Background(), 0, 0, 10, false)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "model exploded")
}

func TestOpenMeteoEngine_Forecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "16", q.Get("forecast_days"), "horizon is capped to the provider range")
		assert.Equal(t, "41.010000", q.Get("latitude"))
		assert.Equal(t, "temperature_2m_max,weathercode", q.Get("daily"))

		_, _ = w.Write([]byte(`{
			"latitude": 41.0,
			"longitude": 29.0,
			"timezone": "Europe/Istanbul",
			"daily_units": {"temperature_2m_max": "°C"},
			"daily": {
				"time": ["2025-01-01", "2025-01-02"],
				"temperature_2m_max": [7.1, 8.4],
				"weathercode": [3, 61]
			}
		}`))
	}))
	defer srv.Close()

	eng := NewOpenMeteoEngine(config.EngineConfig{
		BaseURL:         srv.URL + "/v1",
		MaxProviderDays: 16,
		Params:          map[string]string{"daily": "temperature_2m_max,weathercode"},
	}, srv.Client(), zaptest.NewLogger(t), &telemetry.Telemetry{})

	out, daily, err := eng.Forecast(context.Background(), 41.01, 28.97, 150, true)
	require.NoError(t, err)

	require.Len(t, daily, 2)
	assert.Equal(t, "2025-01-02", daily[1]["date"])
	assert.Equal(t, 8.4, daily[1]["tmax"])
	assert.Equal(t, float64(61), daily[1]["weather_code"])
	assert.Equal(t, "Rain", daily[1]["weather_desc"])
	assert.Equal(t, "Overcast", daily[0]["weather_desc"])

	assert.Equal(t, "Europe/Istanbul", out["timezone"])
	assert.Contains(t, out, "raw", "debug keeps the provider payload")
}

func TestOpenMeteoEngine_EmptyDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"latitude": 1, "longitude": 2, "daily": {}}`))
	}))
	defer srv.Close()

	eng := NewOpenMeteoEngine(config.EngineConfig{BaseURL: srv.URL}, srv.Client(), zaptest.NewLogger(t), &telemetry.Telemetry{})

	out, daily, err := eng.Forecast(context.Background(), 1, 2, 3, false)
	require.NoError(t, err)
	assert.Empty(t, daily)
	assert.NotContains(t, out, "raw")
}

type stubEngine struct {
	calls int
}

func (s *stubEngine) Forecast(ctx context.Context, lat, lon float64, horizonDays int, debug bool) (Output, []DailyForecast, error) {
	s.calls++
	return Output{}, []DailyForecast{{"date": "x"}}, nil
}

func (s *stubEngine) Name() string { return "stub" }

func TestRateLimited(t *testing.T) {
	inner := &stubEngine{}
	eng := NewRateLimited(inner, 0.001, 1)

	_, _, err := eng.Forecast(context.Background(), 0, 0, 1, false)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err = eng.Forecast(ctx, 0, 0, 1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait canceled")
	assert.Equal(t, 1, inner.calls, "throttled call never reaches the engine")
}

func TestWeatherDescription(t *testing.T) {
	assert.Equal(t, "Clear sky", WeatherDescription(0))
	assert.Equal(t, "Thunderstorm with hail", WeatherDescription(99))
	assert.Equal(t, "Unknown", WeatherDescription(1234))
}
