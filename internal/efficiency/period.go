package efficiency

import (
	"math"
	"time"
)

const periodLayout = "2006-01"

// PeriodKey returns the YYYY-MM month of t in its own location.
func PeriodKey(t time.Time) string {
	return t.Format(periodLayout)
}

// inCalendar places a record's calendar day at midnight in the engine calendar.
// Invoice and PAX dates are DATE columns, so the day is read from the value's own
// fields rather than converted as an instant.
// A nil or zero date reports false so the record is skipped.
func inCalendar(date *time.Time, loc *time.Location) (time.Time, bool) {
	if date == nil || date.IsZero() {
		return time.Time{}, false
	}
	if loc == nil {
		return *date, true
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// effectiveValue prefers the discounted value when present and finite.
func effectiveValue(discounted *float64, base float64) float64 {
	if discounted != nil && !math.IsNaN(*discounted) && !math.IsInf(*discounted, 0) {
		return *discounted
	}
	return finite(base)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
