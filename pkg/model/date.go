package model

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day or timezone component.
// The scheduler never compares timestamps across timezones (see design
// notes); everything downstream of config loading operates on Date plus
// a Period enum instead.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses a "YYYY-MM-DD" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateFromTime(t), nil
}

// DateFromTime truncates a time.Time to its calendar date, ignoring
// time-of-day and timezone.
func DateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// String renders the date as "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// toTime returns a UTC midnight time.Time for ordering and weekday math
// only; it is never compared against timezone-aware timestamps.
func (d Date) toTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d occurs strictly before other.
func (d Date) Before(other Date) bool {
	return d.toTime().Before(other.toTime())
}

// After reports whether d occurs strictly after other.
func (d Date) After(other Date) bool {
	return d.toTime().After(other.toTime())
}

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d == other
}

// AddDays returns the date n calendar days after d.
func (d Date) AddDays(n int) Date {
	return DateFromTime(d.toTime().AddDate(0, 0, n))
}

// Weekday returns the day of the week for d.
func (d Date) Weekday() time.Weekday {
	return d.toTime().Weekday()
}

// IsWeekend reports whether d falls on a Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
