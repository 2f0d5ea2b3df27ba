package pricing

import (
	"errors"
	"math"
)

var ErrPricingUnavailable = errors.New("no applicable rate for this rental")

const minutesPerDay = 24 * 60

// Rates carries a resource's configured rates in cents. At least one of the
// two is expected to be set; Quote fails otherwise.
type Rates struct {
	HourlyCents *int64
	DailyCents  *int64
}

// Request describes the rental span. DurationHours takes precedence; when
// only clock times are known the duration is derived from them, wrapping
// past midnight when EndMin is at or before StartMin.
type Request struct {
	DurationHours *float64
	StartMin      *int
	EndMin        *int
}

// daily pricing kicks in at this rental length
const dailyThresholdHours = 8.0

// Quote derives the total price in cents. It is pure and deterministic:
// identical inputs always produce identical output.
//
// Rule order:
//  1. daily rate set and duration >= 8h: dailyRate * ceil(duration/24h)
//  2. hourly rate set and duration known: hourlyRate * duration
//  3. hourly rate set and clock times known: derive duration from them
//  4. otherwise ErrPricingUnavailable
func Quote(rates Rates, req Request) (int64, error) {
	hours, ok := durationHours(req)

	if rates.DailyCents != nil && ok && hours >= dailyThresholdHours {
		days := int64(math.Ceil(hours / 24.0))
		return *rates.DailyCents * days, nil
	}

	if rates.HourlyCents != nil && ok {
		return roundCents(float64(*rates.HourlyCents) * hours), nil
	}

	return 0, ErrPricingUnavailable
}

func durationHours(req Request) (float64, bool) {
	if req.DurationHours != nil {
		return *req.DurationHours, true
	}
	if req.StartMin != nil && req.EndMin != nil {
		minutes := *req.EndMin - *req.StartMin
		if minutes <= 0 {
			minutes += minutesPerDay
		}
		return float64(minutes) / 60.0, true
	}
	return 0, false
}

// roundCents rounds half away from zero to the nearest cent.
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
