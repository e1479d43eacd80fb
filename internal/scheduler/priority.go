package scheduler

import (
	"sort"
	"strconv"

	"github.com/me/gowe/pkg/model"
)

// priorityOrder produces the single deterministic placement order: test-plan
// qa tasks first (ascending id), then every remaining task (ascending id).
func priorityOrder(tasks []model.Task) []model.Task {
	var testPlans, rest []model.Task
	for _, t := range tasks {
		if t.IsTestPlan && t.Discipline == model.QA {
			testPlans = append(testPlans, t)
		} else {
			rest = append(rest, t)
		}
	}

	sort.Slice(testPlans, func(i, j int) bool { return lessTaskID(testPlans[i].ID, testPlans[j].ID) })
	sort.Slice(rest, func(i, j int) bool { return lessTaskID(rest[i].ID, rest[j].ID) })

	return append(testPlans, rest...)
}

// lessTaskID orders task ids numerically when both are the tracker's
// numeric ids ("2" before "10"), falling back to a lexicographic
// comparison for any id that isn't a plain number.
func lessTaskID(a, b string) bool {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return an < bn
	}
	return a < b
}
