package periods

import (
	"errors"
	"testing"
	"time"
)

func TestWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		period   string
		wantFrom time.Time
	}{
		{Today, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{Week, now.AddDate(0, 0, -7)},
		{Month, now.AddDate(0, -1, 0)},
		{TwoMonths, now.AddDate(0, -2, 0)},
		{Year, now.AddDate(-1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			from, to, err := Window(tt.period, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !from.Equal(tt.wantFrom) {
				t.Errorf("expected from %v, got %v", tt.wantFrom, from)
			}
			if !to.Equal(now) {
				t.Errorf("expected to %v, got %v", now, to)
			}
		})
	}
}

func TestWindowAll(t *testing.T) {
	from, to, err := Window(All, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.IsZero() || !to.IsZero() {
		t.Errorf("expected zero times for all, got %v and %v", from, to)
	}
}

func TestWindowUnknown(t *testing.T) {
	_, _, err := Window("fortnight", time.Now())
	if !errors.Is(err, ErrUnknownPeriod) {
		t.Errorf("expected ErrUnknownPeriod, got %v", err)
	}
}

func TestPrevious(t *testing.T) {
	from := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	prevFrom, prevTo := Previous(from, to)
	if !prevTo.Equal(from) {
		t.Errorf("expected previous window to end at %v, got %v", from, prevTo)
	}
	if got := prevTo.Sub(prevFrom); got != to.Sub(from) {
		t.Errorf("expected equal-length window, got %v", got)
	}
}

func TestPreviousUnbounded(t *testing.T) {
	prevFrom, prevTo := Previous(time.Time{}, time.Time{})
	if !prevFrom.IsZero() || !prevTo.IsZero() {
		t.Errorf("expected zero times, got %v and %v", prevFrom, prevTo)
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name              string
		current, previous float64
		want              float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"from zero", 10, 0, 100},
		{"both zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentChange(tt.current, tt.previous); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
