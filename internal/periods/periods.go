// Package periods resolves the analytics period names into concrete time
// windows and their immediately preceding equal-length windows.
package periods

import (
	"errors"
	"time"
)

// Period names accepted by the analytics operations.
const (
	Today     = "today"
	Week      = "week"
	Month     = "month"
	TwoMonths = "2months"
	Year      = "year"
	All       = "all"
)

// ErrUnknownPeriod indicates a period name outside the known set.
var ErrUnknownPeriod = errors.New("unknown period")

// Known lists every valid period name.
var Known = []string{Today, Week, Month, TwoMonths, Year, All}

// Valid reports whether p is a known period name.
func Valid(p string) bool {
	for _, known := range Known {
		if p == known {
			return true
		}
	}
	return false
}

// Window returns the half-open interval [from, to) covered by the period,
// ending now. The All period returns zero times, meaning unbounded.
func Window(p string, now time.Time) (from, to time.Time, err error) {
	now = now.UTC()
	switch p {
	case Today:
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case Week:
		from = now.AddDate(0, 0, -7)
	case Month:
		from = now.AddDate(0, -1, 0)
	case TwoMonths:
		from = now.AddDate(0, -2, 0)
	case Year:
		from = now.AddDate(-1, 0, 0)
	case All:
		return time.Time{}, time.Time{}, nil
	default:
		return time.Time{}, time.Time{}, ErrUnknownPeriod
	}
	return from, now, nil
}

// Previous returns the equal-length window immediately preceding
// [from, to). Zero inputs (the All period) have no predecessor and come
// back zero.
func Previous(from, to time.Time) (time.Time, time.Time) {
	if from.IsZero() || to.IsZero() {
		return time.Time{}, time.Time{}
	}
	span := to.Sub(from)
	return from.Add(-span), from
}

// PercentChange compares current against previous. A zero previous value
// yields 0 when current is also zero, otherwise 100.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}
