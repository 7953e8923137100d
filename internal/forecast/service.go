package forecast

import (
	"context"
	"time"

	"github.com/vzahanych/forecast-gateway/internal/config"
)

// Service runs the predict pipeline: readiness, validation, engine call,
// response shaping. Readiness is checked first so an unloaded engine
// answers the same way whatever the payload.
type Service struct {
	validator *RequestValidator
	gateway   *Gateway
	formatter *ResponseFormatter
	now       Clock
}

func NewService(cfg config.ForecastConfig, gateway *Gateway, now Clock) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		validator: NewRequestValidator(NewHorizonResolver(cfg.Location()), cfg.DefaultHorizonDays, cfg.MaxHorizonDays),
		gateway:   gateway,
		formatter: NewResponseFormatter(cfg.ResponseField),
		now:       now,
	}
}

func (s *Service) Ready() bool {
	return s.gateway.Ready()
}

func (s *Service) Gateway() *Gateway {
	return s.gateway
}

func (s *Service) Predict(ctx context.Context, req Request) (Response, error) {
	if err := s.gateway.CheckReady(ctx); err != nil {
		return nil, err
	}

	normalized, err := s.validator.Validate(req, s.now())
	if err != nil {
		return nil, err
	}

	daily, err := s.gateway.Predict(ctx, normalized)
	if err != nil {
		return nil, err
	}

	return s.formatter.Format(daily), nil
}
