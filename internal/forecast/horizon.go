package forecast

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted target_date shape: YYYYMMDD.
const DateLayout = "20060102"

// Clock returns the current instant.
type Clock func() time.Time

// ParseTargetDate parses an 8-digit YYYYMMDD date. Every failure wraps
// ErrInvalidTargetDate.
func ParseTargetDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: got %q", ErrInvalidTargetDate, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, fmt.Errorf("%w: got %q", ErrInvalidTargetDate, s)
		}
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTargetDate, err)
	}
	return t, nil
}

// DaysUntil counts calendar days from now's date to target. It is negative
// when target lies in the past.
func DaysUntil(target, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(today).Hours() / 24)
}

// HorizonResolver turns a target date string into a day offset from today
// in a fixed time zone.
type HorizonResolver struct {
	loc *time.Location
}

func NewHorizonResolver(loc *time.Location) *HorizonResolver {
	if loc == nil {
		loc = time.Local
	}
	return &HorizonResolver{loc: loc}
}

// Resolve returns the parsed target date and its offset in days from now.
func (r *HorizonResolver) Resolve(targetDate string, now time.Time) (time.Time, int, error) {
	target, err := ParseTargetDate(targetDate)
	if err != nil {
		return time.Time{}, 0, err
	}
	return target, DaysUntil(target, now.In(r.loc)), nil
}
