package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version" validate:"required"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Forecast    ForecastConfig  `mapstructure:"forecast"`
	Engine      EngineConfig    `mapstructure:"engine"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port            int             `mapstructure:"port" validate:"min=1,max=65535"`
	Host            string          `mapstructure:"host"`
	ReadTimeout     int             `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout    int             `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout     int             `mapstructure:"idle_timeout" validate:"min=0"`
	ShutdownTimeout int             `mapstructure:"shutdown_timeout" validate:"min=1"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig limits /api/predict per client IP.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps" validate:"gt=0"`
	Burst   int     `mapstructure:"burst" validate:"min=1"`
	TTL     int     `mapstructure:"ttl" validate:"min=1"`
}

// ForecastConfig holds the knobs two deployments of the predict endpoint
// disagreed on, plus the horizon ceiling protecting the engine.
type ForecastConfig struct {
	DefaultHorizonDays int    `mapstructure:"default_horizon_days" validate:"min=1"`
	MaxHorizonDays     int    `mapstructure:"max_horizon_days" validate:"min=1"`
	ResponseField      string `mapstructure:"response_field" validate:"required,jsonkey"`
	EngineDebug        bool   `mapstructure:"engine_debug"`
	Timezone           string `mapstructure:"timezone" validate:"required,timezone"`
}

type EngineConfig struct {
	Type            string            `mapstructure:"type"`
	BaseURL         string            `mapstructure:"base_url"`
	APIKey          string            `mapstructure:"api_key"`
	Timeout         int               `mapstructure:"timeout" validate:"min=0"`
	MaxProviderDays int               `mapstructure:"max_provider_days" validate:"min=1"`
	RateLimitRPS    float64           `mapstructure:"rate_limit_rps" validate:"min=0"`
	RateLimitBurst  int               `mapstructure:"rate_limit_burst" validate:"min=0"`
	Params          map[string]string `mapstructure:"params"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
			RateLimit: RateLimitConfig{
				Enabled: false,
				RPS:     10,
				Burst:   20,
				TTL:     300,
			},
		},
		Forecast: ForecastConfig{
			DefaultHorizonDays: 150,
			MaxHorizonDays:     540,
			ResponseField:      "daily",
			EngineDebug:        true,
			Timezone:           "Local",
		},
		Engine: EngineConfig{
			Type:            "open-meteo",
			BaseURL:         "https://api.open-meteo.com/v1",
			Timeout:         0,
			MaxProviderDays: 16,
			Params: map[string]string{
				"daily": "temperature_2m_max,temperature_2m_min,precipitation_sum,precipitation_probability_max,weathercode",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "forecast-gateway",
		},
	}
}
