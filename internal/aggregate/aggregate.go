// Package aggregate derives per-user-story rollups (owner, schedule
// span, story points) from a completed scheduling pass.
package aggregate

import (
	"sort"

	"github.com/me/gowe/pkg/model"
)

// Stories derives a StoryRow for each user story that has at least one
// placed child task. Stories with no placed children are omitted; their
// child rejections still appear in the rejection list elsewhere.
func Stories(stories []model.UserStory, tasks []model.Task, placements []model.Placement) []model.StoryRow {
	taskByID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	placementByTaskID := make(map[string]model.Placement, len(placements))
	for _, p := range placements {
		placementByTaskID[p.TaskID] = p
	}

	var rows []model.StoryRow
	for _, story := range stories {
		row, ok := aggregateOne(story, taskByID, placementByTaskID)
		if ok {
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].StoryID < rows[j].StoryID })
	return rows
}

func aggregateOne(story model.UserStory, taskByID map[string]model.Task, placementByTaskID map[string]model.Placement) (model.StoryRow, bool) {
	hoursByExecutor := make(map[string]float64)
	var start, end model.Slot
	var totalHours float64
	haveAny := false

	for _, taskID := range story.TaskIDs {
		p, ok := placementByTaskID[taskID]
		if !ok {
			continue
		}
		task := taskByID[taskID]
		hours := task.EstimateHours()

		if !haveAny {
			start, end = p.Start, p.End
			haveAny = true
		} else {
			if p.Start.Before(start) {
				start = p.Start
			}
			if p.End.After(end) {
				end = p.End
			}
		}

		hoursByExecutor[p.ExecutorEmail] += hours
		totalHours += hours
	}

	if !haveAny {
		return model.StoryRow{}, false
	}

	return model.StoryRow{
		StoryID: story.ID,
		Title:   story.Title,
		Owner:   pickOwner(hoursByExecutor),
		Start:   start,
		End:     end,
		Points:  storyPoints(totalHours),
		Hours:   totalHours,
	}, true
}

// pickOwner returns the executor with the greatest accumulated hours,
// breaking ties by lexicographically smallest email.
func pickOwner(hoursByExecutor map[string]float64) string {
	var owner string
	var best float64
	for email, hours := range hoursByExecutor {
		if owner == "" || hours > best || (hours == best && email < owner) {
			owner, best = email, hours
		}
	}
	return owner
}

// storyPoints buckets total placed-task hours into a story-point value.
func storyPoints(hours float64) int {
	switch {
	case hours <= 4:
		return 1
	case hours <= 8:
		return 2
	case hours <= 16:
		return 3
	case hours <= 24:
		return 5
	case hours <= 40:
		return 8
	default:
		return 13
	}
}
