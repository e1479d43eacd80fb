// Package scheduler implements the single-pass, deterministic placement
// algorithm that assigns tasks to executor/interval pairs or rejects
// them with a structured reason.
package scheduler

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/me/gowe/internal/calendar"
	"github.com/me/gowe/internal/capacity"
	"github.com/me/gowe/internal/depgraph"
	"github.com/me/gowe/internal/discipline"
	"github.com/me/gowe/pkg/model"
)

// Result is the outcome of one scheduling pass: every non-closed input
// task is accounted for by exactly one Placement or one Rejection.
type Result struct {
	Placements []model.Placement
	Rejections []model.Rejection
}

// Core holds the read-only inputs (calendar, executor pool) and the
// one mutable structure (the capacity ledger) needed to run a single
// scheduling pass. A Core is used for exactly one Run; it is not
// reused across sprints.
type Core struct {
	cal      *calendar.Calendar
	ledger   *capacity.Ledger
	pool     *discipline.Pool
	logger   *slog.Logger
	baseline map[string]float64 // per-executor remaining hours after day-offs, before any placement
}

// New builds a Core for the given sprint window, executor roster, and
// day-off records.
func New(sprint model.Sprint, executors []model.Executor, dayOffs []model.DayOff, logger *slog.Logger) (*Core, error) {
	cal, err := calendar.New(sprint.StartDate, sprint.EndDate)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	ledger := capacity.New(cal, executors, dayOffs)

	baseline := make(map[string]float64, len(executors))
	for _, e := range executors {
		baseline[model.NormalizedEmail(e.Email)] = ledger.TotalRemaining(e.Email)
	}

	return &Core{
		cal:      cal,
		ledger:   ledger,
		pool:     discipline.NewPool(executors),
		logger:   logger.With("component", "scheduler"),
		baseline: baseline,
	}, nil
}

// CapacitySummaries reports, for each executor, the nominal capacity of
// the sprint window, hours lost to day-offs, hours consumed by
// placements, and hours remaining. It reflects ledger state as of the
// call, so it is meaningful only after Run has completed.
func (c *Core) CapacitySummaries(executors []model.Executor) []model.CapacitySummary {
	nominal := float64(len(c.cal.Slots())) * model.HoursPerPeriod

	summaries := make([]model.CapacitySummary, 0, len(executors))
	for _, e := range executors {
		email := model.NormalizedEmail(e.Email)
		afterDayOffs := c.baseline[email]
		remaining := c.ledger.TotalRemaining(e.Email)

		summaries = append(summaries, model.CapacitySummary{
			ExecutorEmail:  email,
			Discipline:     e.Discipline,
			TotalHours:     nominal,
			DayOffHours:    nominal - afterDayOffs,
			ConsumedHours:  afterDayOffs - remaining,
			RemainingHours: remaining,
		})
	}
	return summaries
}

// Run schedules tasks against deps in priority order. Closed tasks are
// excluded from both placement and rejection, per invariant: they are
// treated as already complete.
func (c *Core) Run(tasks []model.Task, deps []model.Dependency) *Result {
	taskByID := make(map[string]model.Task, len(tasks))
	allIDs := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
		allIDs[t.ID] = true
	}

	graph := depgraph.Build(allIDs, deps, func(d model.Dependency) {
		c.logger.Warn("dropped dependency edge with unknown endpoint", "successor", d.Successor, "prerequisite", d.Prerequisite)
	})

	cyclic := graph.DetectCycles()

	placed := make(map[string]model.Placement)
	res := &Result{}

	var active []model.Task
	for _, t := range tasks {
		if t.State == model.TaskClosed {
			continue
		}
		if cyclic[t.ID] {
			c.logger.Warn("task participates in a dependency cycle", "task_id", t.ID)
			res.Rejections = append(res.Rejections, model.Rejection{TaskID: t.ID, Reason: model.ReasonDependencyCycle})
			continue
		}
		active = append(active, t)
	}

	for _, t := range priorityOrder(active) {
		placement, rejection := c.place(t, graph, taskByID, placed)
		if rejection != nil {
			res.Rejections = append(res.Rejections, *rejection)
			continue
		}
		placed[t.ID] = *placement
		res.Placements = append(res.Placements, *placement)
	}

	return res
}

// place attempts to schedule a single task, returning either a
// Placement or a Rejection, never both.
func (c *Core) place(
	t model.Task,
	graph *depgraph.Graph,
	taskByID map[string]model.Task,
	placed map[string]model.Placement,
) (*model.Placement, *model.Rejection) {
	reject := func(reason model.RejectionReason) (*model.Placement, *model.Rejection) {
		return nil, &model.Rejection{TaskID: t.ID, Reason: reason}
	}

	if t.AssignedExecutor == "" {
		return reject(model.ReasonNoExecutor)
	}
	if t.Discipline == model.Unknown {
		return reject(model.ReasonUnknownDiscipline)
	}
	executor, ok := c.pool.Find(t.AssignedExecutor)
	if !ok || executor.Discipline != t.Discipline {
		return reject(model.ReasonNoExecutor)
	}

	isExemptTestPlan := t.IsTestPlan && t.Discipline == model.QA
	if !t.HasEstimate() && !isExemptTestPlan {
		return reject(model.ReasonNoEstimate)
	}

	t0, ok := c.earliestStart(t.ID, graph, taskByID, placed)
	if !ok {
		return reject(model.ReasonMissingDependency)
	}

	needed := t.EstimateHours()
	if needed == 0 {
		p := model.Placement{TaskID: t.ID, ExecutorEmail: executor.Email, Start: t0, End: t0}
		return &p, nil
	}

	plan, start, end, reason := c.scanCapacity(executor.Email, t0, needed)
	if reason != "" {
		return reject(reason)
	}

	for _, step := range plan {
		if err := c.ledger.Consume(executor.Email, step.slot, step.hours); err != nil {
			c.logger.Error("capacity consume failed after successful scan", "task_id", t.ID, "error", err)
			return reject(model.ReasonNoCapacity)
		}
	}

	p := model.Placement{TaskID: t.ID, ExecutorEmail: executor.Email, Start: start, End: end}
	return &p, nil
}

// earliestStart computes t0, the smallest slot at which every non-closed
// prerequisite of taskID is satisfied. A prerequisite that has been
// rejected, or that has not yet been attempted in priority order, can
// never be satisfied and causes ok=false.
func (c *Core) earliestStart(
	taskID string,
	graph *depgraph.Graph,
	taskByID map[string]model.Task,
	placed map[string]model.Placement,
) (model.Slot, bool) {
	t0 := c.cal.Start()

	for _, prereqID := range graph.Prerequisites(taskID) {
		prereq, known := taskByID[prereqID]
		if known && prereq.State == model.TaskClosed {
			continue
		}
		if p, ok := placed[prereqID]; ok {
			if p.End.After(t0) {
				t0 = p.End
			}
			continue
		}
		return model.Slot{}, false
	}

	if !c.cal.IsWorking(t0) {
		next, ok := c.cal.Next(model.Slot{Date: t0.Date, Period: model.Afternoon})
		if !ok {
			return model.Slot{}, false
		}
		t0 = next
	}

	return t0, true
}

// consumeStep is one (slot, hours) debit in a capacity scan plan.
type consumeStep struct {
	slot  model.Slot
	hours float64
}

// scanCapacity walks working slots from t0 onward, greedily consuming
// up to the slot's remaining capacity until needed hours are covered.
// It never mutates the ledger; the caller commits the returned plan
// only once a full placement is confirmed feasible.
func (c *Core) scanCapacity(executorEmail string, t0 model.Slot, needed float64) (plan []consumeStep, start, end model.Slot, reason model.RejectionReason) {
	remaining := needed
	consumedAny := false
	var first, last model.Slot
	haveFirst := false

	for cur, ok := t0, c.cal.IsWorking(t0); ok; cur, ok = c.cal.Next(cur) {
		avail := c.ledger.Remaining(executorEmail, cur)
		if avail <= 0 {
			continue
		}

		take := avail
		if take > remaining {
			take = remaining
		}

		plan = append(plan, consumeStep{slot: cur, hours: take})
		if !haveFirst {
			first = cur
			haveFirst = true
		}
		last = cur
		consumedAny = true
		remaining -= take

		if remaining <= 0 {
			return plan, first, last, ""
		}
	}

	if consumedAny {
		return nil, model.Slot{}, model.Slot{}, model.ReasonOutOfWindow
	}
	return nil, model.Slot{}, model.Slot{}, model.ReasonNoCapacity
}

// RejectionsByReason groups rejections by reason in a stable order,
// used by the report assembler.
func RejectionsByReason(rejections []model.Rejection) []model.RejectionGroup {
	byReason := make(map[model.RejectionReason][]model.Rejection)
	for _, r := range rejections {
		byReason[r.Reason] = append(byReason[r.Reason], r)
	}

	order := []model.RejectionReason{
		model.ReasonNoExecutor,
		model.ReasonMissingDependency,
		model.ReasonDependencyCycle,
		model.ReasonOutOfWindow,
		model.ReasonNoCapacity,
		model.ReasonNoEstimate,
		model.ReasonUnknownDiscipline,
	}

	var groups []model.RejectionGroup
	for _, reason := range order {
		rs := byReason[reason]
		if len(rs) == 0 {
			continue
		}
		sort.Slice(rs, func(i, j int) bool { return rs[i].TaskID < rs[j].TaskID })
		groups = append(groups, model.RejectionGroup{Reason: reason, Rejections: rs})
	}
	return groups
}
