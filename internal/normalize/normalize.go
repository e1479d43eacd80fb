// Package normalize converts raw upstream work items into the
// internal Task and UserStory records the scheduler operates on.
package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/me/gowe/internal/discipline"
	"github.com/me/gowe/internal/tracker"
	"github.com/me/gowe/pkg/model"
)

// Result holds the normalized task and story set, plus any
// non-fatal warnings surfaced during normalization (e.g. a task
// referencing a parent story absent from the fetched set).
type Result struct {
	Tasks    []model.Task
	Stories  []model.UserStory
	Warnings []string
}

// Normalize converts a sprint's raw work items into Tasks and
// UserStories. It never fails on a single malformed item; instead it
// is dropped with a warning, since the upstream tracker is not under
// this system's control.
func Normalize(sprintID string, raw *tracker.RawSprintItems) Result {
	var res Result

	storyByID := make(map[string]*model.UserStory, len(raw.Stories))
	for _, rs := range raw.Stories {
		if rs.ID == "" {
			res.Warnings = append(res.Warnings, "dropped user story with empty id")
			continue
		}
		storyByID[rs.ID] = &model.UserStory{
			ID:       rs.ID,
			Title:    rs.Title,
			AreaPath: rs.AreaPath,
			SprintID: sprintID,
		}
	}

	for _, rt := range raw.Tasks {
		if rt.ID == "" {
			res.Warnings = append(res.Warnings, "dropped task with empty id")
			continue
		}

		task := model.Task{
			ID:                rt.ID,
			Title:             rt.Title,
			Discipline:        discipline.Classify(rt.Title),
			IsTestPlan:        discipline.IsTestPlan(rt.Title),
			OriginalEstimate:  rt.OriginalEstimate,
			ParentUserStoryID: rt.ParentID,
			State:             normalizeState(rt.State),
		}
		if rt.AssignedTo != "" {
			task.AssignedExecutor = model.NormalizedEmail(rt.AssignedTo)
		}

		res.Tasks = append(res.Tasks, task)

		story, ok := storyByID[rt.ParentID]
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("task %s references unknown parent story %s", rt.ID, rt.ParentID))
			continue
		}
		story.TaskIDs = append(story.TaskIDs, rt.ID)
	}

	sort.Slice(res.Tasks, func(i, j int) bool { return res.Tasks[i].ID < res.Tasks[j].ID })

	res.Stories = make([]model.UserStory, 0, len(storyByID))
	for _, s := range storyByID {
		sort.Strings(s.TaskIDs)
		res.Stories = append(res.Stories, *s)
	}
	sort.Slice(res.Stories, func(i, j int) bool { return res.Stories[i].ID < res.Stories[j].ID })

	return res
}

// normalizeState maps a raw tracker state to one of the three
// recognized task states; anything unrecognized is treated as active.
func normalizeState(raw string) model.TaskState {
	switch model.TaskState(strings.ToLower(strings.TrimSpace(raw))) {
	case model.TaskNew:
		return model.TaskNew
	case model.TaskClosed:
		return model.TaskClosed
	default:
		return model.TaskActive
	}
}
