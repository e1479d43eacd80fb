package tracker

// RawWorkItem is an upstream work item as returned by the tracker,
// before normalization into a model.Task or model.UserStory.
type RawWorkItem struct {
	ID               string
	Title            string
	WorkItemType     string // "User Story" or "Task"
	State            string
	OriginalEstimate *float64
	AssignedTo       string
	ParentID         string
	AreaPath         string
}

// RawSprintItems is the full set of work items fetched for one sprint:
// user stories and their child tasks, queried separately per the
// tracker's own work-item hierarchy.
type RawSprintItems struct {
	Stories []RawWorkItem
	Tasks   []RawWorkItem
}
