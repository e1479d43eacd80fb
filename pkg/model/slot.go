package model

import "fmt"

// Period identifies a half-day working period within a working day.
type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
)

// String returns the string representation of the period.
func (p Period) String() string {
	return string(p)
}

// Before reports whether p sorts before other within the same day
// (morning before afternoon).
func (p Period) Before(other Period) bool {
	return p == Morning && other == Afternoon
}

// HoursPerPeriod is the nominal capacity of a half-day period, in hours.
const HoursPerPeriod = 3.0

// Slot is a single half-day working interval: a (date, period) pair.
// Slots have a total order by (date, period<morning>before<afternoon>).
type Slot struct {
	Date   Date
	Period Period
}

// String renders the slot as "YYYY-MM-DD morning"/"YYYY-MM-DD afternoon".
func (s Slot) String() string {
	return fmt.Sprintf("%s %s", s.Date, s.Period)
}

// Before reports whether s sorts strictly before other in slot order.
func (s Slot) Before(other Slot) bool {
	if s.Date.Equal(other.Date) {
		return s.Period.Before(other.Period)
	}
	return s.Date.Before(other.Date)
}

// After reports whether s sorts strictly after other in slot order.
func (s Slot) After(other Slot) bool {
	return other.Before(s)
}

// Equal reports whether s and other are the same slot.
func (s Slot) Equal(other Slot) bool {
	return s.Date.Equal(other.Date) && s.Period == other.Period
}

// AtOrBefore reports whether s sorts at or before other in slot order.
func (s Slot) AtOrBefore(other Slot) bool {
	return s.Equal(other) || s.Before(other)
}

// Next returns the slot immediately following s in the natural
// morning→afternoon→next-day-morning progression, without regard to
// weekends; callers walking a Calendar skip non-working slots themselves.
func (s Slot) Next() Slot {
	if s.Period == Morning {
		return Slot{Date: s.Date, Period: Afternoon}
	}
	return Slot{Date: s.Date.AddDays(1), Period: Morning}
}
