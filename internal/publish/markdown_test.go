package publish

import (
	"strings"
	"testing"

	"github.com/me/gowe/pkg/model"
)

func TestMarkdown_ContainsExpectedSections(t *testing.T) {
	report := &model.Report{
		Sprint: model.Sprint{Name: "Sprint 9"},
		Stories: []model.StoryRow{
			{StoryID: "US1", Title: "Checkout revamp", Owner: "a@x", Points: 3},
		},
		Rejections: []model.RejectionGroup{
			{Reason: model.ReasonNoCapacity, Rejections: []model.Rejection{{TaskID: "T9", Reason: model.ReasonNoCapacity}}},
		},
	}

	out := Markdown(report)

	for _, want := range []string{
		"# Sprint Report: Sprint 9",
		"## 2. User Stories",
		"US1",
		"## 6. Unscheduled Items",
		"No remaining capacity",
		"T9",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown output missing %q", want)
		}
	}
}

func TestMarkdown_NoRejections(t *testing.T) {
	out := Markdown(&model.Report{Sprint: model.Sprint{Name: "Sprint 9"}})
	if !strings.Contains(out, "Nothing rejected this run") {
		t.Error("Markdown output should note no rejections")
	}
}
