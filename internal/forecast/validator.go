package forecast

import (
	"time"
)

// Request is an inbound predict call. HorizonDays nil means "use the
// configured default".
type Request struct {
	Lat         float64
	Lon         float64
	TargetDate  string
	HorizonDays *int
}

// Normalized is a validated request ready for the engine.
type Normalized struct {
	Lat        float64
	Lon        float64
	Horizon    int
	DaysAhead  int
	TargetDate time.Time
}

// RequestValidator checks the target date and derives the horizon sent to
// the engine: at least DaysAhead+1, at most maxHorizon.
type RequestValidator struct {
	resolver       *HorizonResolver
	defaultHorizon int
	maxHorizon     int
}

func NewRequestValidator(resolver *HorizonResolver, defaultHorizon, maxHorizon int) *RequestValidator {
	return &RequestValidator{
		resolver:       resolver,
		defaultHorizon: defaultHorizon,
		maxHorizon:     maxHorizon,
	}
}

// Validate rejects unparsable dates before past dates; neither check looks
// at the requested horizon.
func (v *RequestValidator) Validate(req Request, now time.Time) (Normalized, error) {
	target, daysAhead, err := v.resolver.Resolve(req.TargetDate, now)
	if err != nil {
		return Normalized{}, err
	}

	if daysAhead < 0 {
		return Normalized{}, ErrPastTargetDate
	}

	requested := v.defaultHorizon
	if req.HorizonDays != nil {
		requested = *req.HorizonDays
	}

	return Normalized{
		Lat:        req.Lat,
		Lon:        req.Lon,
		Horizon:    RequiredHorizon(requested, daysAhead, v.maxHorizon),
		DaysAhead:  daysAhead,
		TargetDate: target,
	}, nil
}

// RequiredHorizon = min(max(requested, daysAhead+1), maxHorizon).
func RequiredHorizon(requested, daysAhead, maxHorizon int) int {
	horizon := requested
	if daysAhead+1 > horizon {
		horizon = daysAhead + 1
	}
	if horizon > maxHorizon {
		horizon = maxHorizon
	}
	return horizon
}
