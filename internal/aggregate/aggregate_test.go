package aggregate

import (
	"testing"

	"github.com/me/gowe/pkg/model"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func estimate(h float64) *float64 { return &h }

func slot(t *testing.T, date, period string) model.Slot {
	p := model.Morning
	if period == "afternoon" {
		p = model.Afternoon
	}
	return model.Slot{Date: mustDate(t, date), Period: p}
}

// Scenario 6: story aggregation.
func TestStories_OwnerStartEndPoints(t *testing.T) {
	stories := []model.UserStory{
		{ID: "US1", Title: "Checkout revamp", TaskIDs: []string{"T1", "T2"}},
	}
	tasks := []model.Task{
		{ID: "T1", OriginalEstimate: estimate(4)},
		{ID: "T2", OriginalEstimate: estimate(6)},
	}
	placements := []model.Placement{
		{TaskID: "T1", ExecutorEmail: "a@x", Start: slot(t, "2024-03-18", "morning"), End: slot(t, "2024-03-18", "afternoon")},
		{TaskID: "T2", ExecutorEmail: "b@x", Start: slot(t, "2024-03-19", "morning"), End: slot(t, "2024-03-19", "afternoon")},
	}

	rows := Stories(stories, tasks, placements)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	row := rows[0]

	if row.Owner != "b@x" {
		t.Errorf("Owner = %q, want b@x", row.Owner)
	}
	if !row.Start.Equal(slot(t, "2024-03-18", "morning")) {
		t.Errorf("Start = %s, want 2024-03-18 morning", row.Start)
	}
	if !row.End.Equal(slot(t, "2024-03-19", "afternoon")) {
		t.Errorf("End = %s, want 2024-03-19 afternoon", row.End)
	}
	if row.Points != 3 {
		t.Errorf("Points = %d, want 3", row.Points)
	}
}

func TestStories_OmitsStoryWithNoPlacedChildren(t *testing.T) {
	stories := []model.UserStory{{ID: "US1", TaskIDs: []string{"T1"}}}
	tasks := []model.Task{{ID: "T1", OriginalEstimate: estimate(2)}}

	rows := Stories(stories, tasks, nil)
	if len(rows) != 0 {
		t.Errorf("rows = %v, want empty", rows)
	}
}

func TestStoryPointsBuckets(t *testing.T) {
	cases := []struct {
		hours float64
		want  int
	}{
		{0, 1}, {4, 1}, {4.5, 2}, {8, 2}, {8.5, 3}, {16, 3}, {16.5, 5}, {24, 5}, {24.5, 8}, {40, 8}, {40.5, 13},
	}
	for _, c := range cases {
		if got := storyPoints(c.hours); got != c.want {
			t.Errorf("storyPoints(%v) = %d, want %d", c.hours, got, c.want)
		}
	}
}

func TestPickOwner_TieBreaksLexicographically(t *testing.T) {
	got := pickOwner(map[string]float64{"b@x": 5, "a@x": 5})
	if got != "a@x" {
		t.Errorf("pickOwner = %q, want a@x", got)
	}
}
