// Package calendar enumerates the working half-day slots of a sprint
// window and classifies individual slots against it.
package calendar

import (
	"fmt"

	"github.com/me/gowe/pkg/model"
)

// Calendar holds the ordered sequence of working slots for a sprint.
// Weekends are excluded; every remaining day contributes a morning and
// an afternoon slot.
type Calendar struct {
	start model.Date
	end   model.Date
	slots []model.Slot
}

// New builds a Calendar for the inclusive [start, end] date range.
func New(start, end model.Date) (*Calendar, error) {
	if start.After(end) {
		return nil, fmt.Errorf("calendar: start %s is after end %s", start, end)
	}

	var slots []model.Slot
	for d := start; !d.After(end); d = d.AddDays(1) {
		if d.IsWeekend() {
			continue
		}
		slots = append(slots, model.Slot{Date: d, Period: model.Morning})
		slots = append(slots, model.Slot{Date: d, Period: model.Afternoon})
	}

	return &Calendar{start: start, end: end, slots: slots}, nil
}

// Start returns the sprint's morning start slot.
func (c *Calendar) Start() model.Slot {
	return model.Slot{Date: c.start, Period: model.Morning}
}

// End returns the sprint's afternoon end slot.
func (c *Calendar) End() model.Slot {
	return model.Slot{Date: c.end, Period: model.Afternoon}
}

// Slots returns the ordered working slots within the sprint window.
func (c *Calendar) Slots() []model.Slot {
	return c.slots
}

// InWindow reports whether a slot falls within the sprint window,
// regardless of whether it lands on a working day.
func (c *Calendar) InWindow(s model.Slot) bool {
	return !s.Before(c.Start()) && !s.After(c.End())
}

// IsWorking reports whether a slot is a working half-day: inside the
// window, on a weekday.
func (c *Calendar) IsWorking(s model.Slot) bool {
	if !c.InWindow(s) {
		return false
	}
	return !s.Date.IsWeekend()
}

// Next returns the next working slot strictly after s, and false if
// none remains within the window.
func (c *Calendar) Next(s model.Slot) (model.Slot, bool) {
	cur := s.Next()
	for c.InWindow(cur) {
		if cur.Date.IsWeekend() {
			cur = cur.Next()
			continue
		}
		return cur, true
	}
	return model.Slot{}, false
}
