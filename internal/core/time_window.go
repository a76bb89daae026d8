package core

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days, stored as midnight UTC.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Day truncates t to its calendar day in UTC, keeping t's wall-clock date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// DefaultDateRange is the first of the current month through yesterday. On
// the first of a month that would be an empty range, so the previous month
// is used instead.
func DefaultDateRange(now time.Time) DateRange {
	today := Day(now)
	yesterday := today.AddDate(0, 0, -1)
	return DateRange{Start: MonthStart(yesterday), End: yesterday}
}

// ParseDateRange parses two YYYY-MM-DD strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("parsing start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("parsing end date %q: %w", end, err)
	}
	r := NewDateRange(s, e)
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("date range is incomplete")
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("end date %s is before start date %s",
			r.End.Format(DateLayout), r.Start.Format(DateLayout))
	}
	return nil
}

// Contains reports whether day falls within the range, bounds included.
func (r DateRange) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days is the number of calendar days in the range, bounds included.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// MonthKey is the YYYYMM key of the start date's month, the format used by
// campaign_monthly_charge_limit entries.
func (r DateRange) MonthKey() string {
	return r.Start.Format("200601")
}

func (r DateRange) Label() string {
	return r.Start.Format(DateLayout) + " → " + r.End.Format(DateLayout)
}

// ShiftMonth moves the range to the month delta months away from Start. The
// end is the last day of that month, capped at yesterday relative to now.
func (r DateRange) ShiftMonth(delta int, now time.Time) DateRange {
	start := MonthStart(r.Start).AddDate(0, delta, 0)
	end := MonthEnd(start)
	yesterday := Day(now).AddDate(0, 0, -1)
	if end.After(yesterday) {
		end = yesterday
	}
	if end.Before(start) {
		end = start
	}
	return DateRange{Start: start, End: end}
}

// ShiftEnd moves the end date by delta days, never before Start and never
// past yesterday relative to now.
func (r DateRange) ShiftEnd(delta int, now time.Time) DateRange {
	end := r.End.AddDate(0, 0, delta)
	if yesterday := Day(now).AddDate(0, 0, -1); end.After(yesterday) {
		end = yesterday
	}
	if end.Before(r.Start) {
		end = r.Start
	}
	return DateRange{Start: r.Start, End: end}
}

func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return MonthEnd(t).Day()
}
