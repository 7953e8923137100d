package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 150, cfg.Forecast.DefaultHorizonDays)
	assert.Equal(t, 540, cfg.Forecast.MaxHorizonDays)
	assert.Equal(t, "daily", cfg.Forecast.ResponseField)
	assert.True(t, cfg.Forecast.EngineDebug)
	assert.Equal(t, "open-meteo", cfg.Engine.Type)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
forecast:
  default_horizon_days: 360
  response_field: gunluk
engine:
  type: remote
  base_url: http://engine:9000
  api_key: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 360, cfg.Forecast.DefaultHorizonDays)
	assert.Equal(t, "gunluk", cfg.Forecast.ResponseField)
	assert.Equal(t, 540, cfg.Forecast.MaxHorizonDays, "unset keys keep their defaults")
	assert.Equal(t, "remote", cfg.Engine.Type)
	assert.Equal(t, "http://engine:9000", cfg.Engine.BaseURL)
	assert.Equal(t, "secret", cfg.Engine.APIKey)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
forecast:
  response_field: gunluk
`)
	t.Setenv("FCG_FORECAST_RESPONSE_FIELD", "daily")
	t.Setenv("FCG_SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "daily", cfg.Forecast.ResponseField)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfigFile(t, `
forecast:
  response_field: "not a key"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ResponseField")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "local timezone accepted", mutate: func(c *Config) { c.Forecast.Timezone = "Local" }},
		{name: "named timezone", mutate: func(c *Config) { c.Forecast.Timezone = "UTC" }},
		{name: "bad timezone", mutate: func(c *Config) { c.Forecast.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "default above max", mutate: func(c *Config) { c.Forecast.DefaultHorizonDays = 600 }, wantErr: true},
		{name: "zero max horizon", mutate: func(c *Config) { c.Forecast.MaxHorizonDays = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "empty response field", mutate: func(c *Config) { c.Forecast.ResponseField = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestForecastConfigLocation(t *testing.T) {
	cfg := NewDefaultConfig().Forecast
	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())

	cfg.Timezone = "Nowhere/Land"
	assert.Equal(t, "Local", cfg.Location().String())
}
