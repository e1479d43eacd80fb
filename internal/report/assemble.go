// Package report shapes a scheduling run's outputs into a single
// structured, rendering-agnostic record.
package report

import (
	"sort"

	"github.com/me/gowe/internal/aggregate"
	"github.com/me/gowe/internal/scheduler"
	"github.com/me/gowe/pkg/model"
)

// Inputs bundles everything the assembler needs; it does not itself
// run the scheduler.
type Inputs struct {
	Sprint       model.Sprint
	Executors    []model.Executor
	DayOffs      []model.DayOff
	Dependencies []model.Dependency
	Tasks        []model.Task
	Stories      []model.UserStory
	Result       *scheduler.Result
	Core         *scheduler.Core
}

// Assemble builds the final Report from a completed scheduling pass.
func Assemble(in Inputs) *model.Report {
	return &model.Report{
		Sprint:       in.Sprint,
		Stories:      aggregate.Stories(in.Stories, in.Tasks, in.Result.Placements),
		DayOffs:      dayOffSummaries(in.Executors, in.DayOffs),
		Capacity:     in.Core.CapacitySummaries(in.Executors),
		Dependencies: in.Dependencies,
		Rejections:   scheduler.RejectionsByReason(in.Result.Rejections),
		Placements:   in.Result.Placements,
	}
}

func dayOffSummaries(executors []model.Executor, dayOffs []model.DayOff) []model.DayOffSummary {
	byExecutor := make(map[string][]model.DayOff)
	for _, off := range dayOffs {
		email := model.NormalizedEmail(off.ExecutorEmail)
		byExecutor[email] = append(byExecutor[email], off)
	}

	var summaries []model.DayOffSummary
	for _, e := range executors {
		email := model.NormalizedEmail(e.Email)
		offs := byExecutor[email]
		if len(offs) == 0 {
			continue
		}
		sort.Slice(offs, func(i, j int) bool { return offs[i].Date.Before(offs[j].Date) })
		summaries = append(summaries, model.DayOffSummary{
			ExecutorEmail: email,
			Discipline:    e.Discipline,
			DayOffs:       offs,
		})
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ExecutorEmail < summaries[j].ExecutorEmail })
	return summaries
}
