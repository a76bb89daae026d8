package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDefaultDateRange(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"mid month", time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC), date(2026, 10, 1), date(2026, 10, 13)},
		{"second of month", date(2026, 10, 2), date(2026, 10, 1), date(2026, 10, 1)},
		{"first of month falls back", date(2026, 10, 1), date(2026, 9, 1), date(2026, 9, 30)},
		{"new year", date(2027, 1, 1), date(2026, 12, 1), date(2026, 12, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultDateRange(tt.now)
			if !r.Start.Equal(tt.wantStart) || !r.End.Equal(tt.wantEnd) {
				t.Errorf("DefaultDateRange(%v) = %s, want %s → %s",
					tt.now, r.Label(), tt.wantStart.Format(DateLayout), tt.wantEnd.Format(DateLayout))
			}
		})
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2026-09-01", "2026-09-20")
	if err != nil {
		t.Fatalf("ParseDateRange() error: %v", err)
	}
	if r.Days() != 20 {
		t.Errorf("Days() = %d, want 20", r.Days())
	}
	if r.MonthKey() != "202609" {
		t.Errorf("MonthKey() = %q, want 202609", r.MonthKey())
	}

	if _, err := ParseDateRange("2026-09-20", "2026-09-01"); err == nil {
		t.Error("expected error for inverted range")
	}
	if _, err := ParseDateRange("20260901", "2026-09-20"); err == nil {
		t.Error("expected error for malformed start")
	}
}

func TestDateRangeContains(t *testing.T) {
	r := NewDateRange(date(2026, 9, 1), date(2026, 9, 20))
	if !r.Contains(date(2026, 9, 1)) || !r.Contains(date(2026, 9, 20)) {
		t.Error("bounds should be included")
	}
	if !r.Contains(time.Date(2026, 9, 20, 23, 59, 0, 0, time.UTC)) {
		t.Error("time of day on the end date should be included")
	}
	if r.Contains(date(2026, 8, 31)) || r.Contains(date(2026, 9, 21)) {
		t.Error("days outside the range should be excluded")
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		t    time.Time
		want int
	}{
		{date(2026, 2, 10), 28},
		{date(2028, 2, 1), 29},
		{date(2026, 9, 30), 30},
		{date(2026, 12, 31), 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.t); got != tt.want {
			t.Errorf("DaysInMonth(%s) = %d, want %d", tt.t.Format(DateLayout), got, tt.want)
		}
	}
}

func TestShiftMonth(t *testing.T) {
	now := date(2026, 10, 14)
	r := NewDateRange(date(2026, 10, 1), date(2026, 10, 13))

	prev := r.ShiftMonth(-1, now)
	if !prev.Start.Equal(date(2026, 9, 1)) || !prev.End.Equal(date(2026, 9, 30)) {
		t.Errorf("previous month = %s", prev.Label())
	}

	back := prev.ShiftMonth(1, now)
	if !back.Start.Equal(date(2026, 10, 1)) || !back.End.Equal(date(2026, 10, 13)) {
		t.Errorf("next month should cap at yesterday, got %s", back.Label())
	}
}

func TestShiftEnd(t *testing.T) {
	now := date(2026, 10, 14)
	r := NewDateRange(date(2026, 10, 1), date(2026, 10, 5))

	if got := r.ShiftEnd(-10, now); !got.End.Equal(r.Start) {
		t.Errorf("end should clamp to start, got %s", got.Label())
	}
	if got := r.ShiftEnd(30, now); !got.End.Equal(date(2026, 10, 13)) {
		t.Errorf("end should clamp to yesterday, got %s", got.Label())
	}
	if got := r.ShiftEnd(1, now); !got.End.Equal(date(2026, 10, 6)) {
		t.Errorf("end = %s, want 2026-10-06", got.End.Format(DateLayout))
	}
}
