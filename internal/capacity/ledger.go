// Package capacity tracks each executor's remaining working hours per
// half-day slot across a sprint window, reduced by declared day-offs.
package capacity

import (
	"fmt"

	"github.com/me/gowe/internal/calendar"
	"github.com/me/gowe/pkg/model"
)

// Ledger is the only mutable structure touched during a scheduling pass.
// It is owned exclusively by the caller that constructed it; there is no
// process-wide singleton.
type Ledger struct {
	remaining map[string]map[model.Slot]float64
}

// New builds a Ledger seeded with full capacity (model.HoursPerPeriod per
// slot) for every executor across every working slot in cal, then applies
// dayOffs belonging to those executors. Day-offs outside the calendar
// window, and day-offs for executors not present in executors, are
// silently ignored; the caller is responsible for surfacing the latter
// as a warning if desired.
func New(cal *calendar.Calendar, executors []model.Executor, dayOffs []model.DayOff) *Ledger {
	l := &Ledger{remaining: make(map[string]map[model.Slot]float64, len(executors))}

	for _, e := range executors {
		email := model.NormalizedEmail(e.Email)
		slots := make(map[model.Slot]float64, len(cal.Slots()))
		for _, s := range cal.Slots() {
			slots[s] = model.HoursPerPeriod
		}
		l.remaining[email] = slots
	}

	for _, off := range dayOffs {
		email := model.NormalizedEmail(off.ExecutorEmail)
		slots, ok := l.remaining[email]
		if !ok {
			continue
		}
		morning := model.Slot{Date: off.Date, Period: model.Morning}
		afternoon := model.Slot{Date: off.Date, Period: model.Afternoon}
		if !cal.IsWorking(morning) {
			continue
		}
		switch off.Period {
		case model.DayOffFull:
			slots[morning] = 0
			slots[afternoon] = 0
		case model.DayOffMorning:
			slots[morning] = 0
		case model.DayOffAfternoon:
			slots[afternoon] = 0
		}
	}

	return l
}

// Remaining returns the hours left for executor at slot. Executors or
// slots outside the ledger report zero.
func (l *Ledger) Remaining(executorEmail string, slot model.Slot) float64 {
	slots, ok := l.remaining[model.NormalizedEmail(executorEmail)]
	if !ok {
		return 0
	}
	return slots[slot]
}

// Consume debits hours from executor's remaining capacity at slot. It
// fails if hours exceeds what remains.
func (l *Ledger) Consume(executorEmail string, slot model.Slot, hours float64) error {
	email := model.NormalizedEmail(executorEmail)
	slots, ok := l.remaining[email]
	if !ok {
		return fmt.Errorf("capacity: unknown executor %q", executorEmail)
	}
	if hours > slots[slot] {
		return fmt.Errorf("capacity: %s at %s has %.2fh remaining, cannot consume %.2fh", email, slot, slots[slot], hours)
	}
	slots[slot] -= hours
	return nil
}

// TotalRemaining sums remaining hours for executor across every slot in
// the window, used for the scheduler's per-executor capacity summaries.
func (l *Ledger) TotalRemaining(executorEmail string) float64 {
	slots, ok := l.remaining[model.NormalizedEmail(executorEmail)]
	if !ok {
		return 0
	}
	var total float64
	for _, h := range slots {
		total += h
	}
	return total
}
