package engine

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps an Engine with a client-side token bucket.
type RateLimited struct {
	engine  Engine
	limiter *rate.Limiter
}

func NewRateLimited(engine Engine, rps float64, burst int) *RateLimited {
	return &RateLimited{
		engine:  engine,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) Forecast(ctx context.Context, lat, lon float64, horizonDays int, debug bool) (Output, []DailyForecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.engine.Forecast(ctx, lat, lon, horizonDays, debug)
}

func (r *RateLimited) Name() string {
	return r.engine.Name() + " [rate limited]"
}

var _ Engine = (*RateLimited)(nil)
