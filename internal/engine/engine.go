package engine

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vzahanych/forecast-gateway/internal/config"
	"github.com/vzahanych/forecast-gateway/pkg/telemetry"
	"go.uber.org/zap"
)

const (
	TypeRemote    = "remote"
	TypeOpenMeteo = "open-meteo"
)

var ErrMissingBaseURL = errors.New("engine base_url is not configured")

// New loads the configured engine. Callers run without an engine when this
// fails; the engine is never reloaded afterwards.
func New(cfg config.EngineConfig, logger *zap.Logger, tele *telemetry.Telemetry) (Engine, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	client := &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}

	var eng Engine
	switch cfg.Type {
	case TypeRemote:
		eng = NewRemoteEngine(cfg, client, logger, tele)
	case TypeOpenMeteo:
		eng = NewOpenMeteoEngine(cfg, client, logger, tele)
	default:
		return nil, fmt.Errorf("unknown engine type %q", cfg.Type)
	}

	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		eng = NewRateLimited(eng, cfg.RateLimitRPS, burst)
	}

	logger.Info("Forecast engine loaded",
		zap.String("engine", eng.Name()),
		zap.String("base_url", cfg.BaseURL))

	return eng, nil
}

// StatusError reports a non-2xx answer from an engine backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("engine request failed with status: %d", e.StatusCode)
}
