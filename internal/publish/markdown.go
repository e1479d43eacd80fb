// Package publish renders a scheduling Report to Markdown and writes it
// to a local directory or, for an "s3://" output, to an S3 bucket.
package publish

import (
	"fmt"
	"sort"
	"strings"

	"github.com/me/gowe/pkg/model"
)

// reasonLabel gives each rejection reason a human-readable heading.
var reasonLabel = map[model.RejectionReason]string{
	model.ReasonNoExecutor:        "No executor assigned or routing mismatch",
	model.ReasonMissingDependency: "Missing or rejected dependency",
	model.ReasonDependencyCycle:   "Dependency cycle",
	model.ReasonOutOfWindow:       "Out of sprint window",
	model.ReasonNoCapacity:        "No remaining capacity",
	model.ReasonNoEstimate:        "No estimate",
	model.ReasonUnknownDiscipline: "Unknown discipline",
}

// Markdown renders a Report as a Markdown document, in the same
// section order the upstream board's own report generator uses:
// summary, stories, day-offs, capacity, dependencies, unscheduled items.
func Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sprint Report: %s\n\n", report.Sprint.Name)

	b.WriteString("## 1. Sprint Summary\n\n")
	fmt.Fprintf(&b, "- Sprint: **%s**\n", report.Sprint.Name)
	fmt.Fprintf(&b, "- Window: %s to %s\n", report.Sprint.StartDate, report.Sprint.EndDate)
	fmt.Fprintf(&b, "- User stories with placed work: %d\n", len(report.Stories))
	fmt.Fprintf(&b, "- Placed tasks: %d\n", len(report.Placements))
	fmt.Fprintf(&b, "- Rejected tasks: %d\n\n", countRejections(report.Rejections))

	b.WriteString("## 2. User Stories\n\n")
	b.WriteString("| ID | Title | Owner | Start | End | Points |\n")
	b.WriteString("|----|-------|-------|-------|-----|--------|\n")
	for _, s := range report.Stories {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d |\n", s.StoryID, s.Title, s.Owner, s.Start, s.End, s.Points)
	}
	b.WriteString("\n")

	b.WriteString("## 3. Day-offs\n\n")
	b.WriteString("| Executor | Absences |\n")
	b.WriteString("|----------|----------|\n")
	for _, d := range report.DayOffs {
		fmt.Fprintf(&b, "| %s | %s |\n", d.ExecutorEmail, formatDayOffs(d.DayOffs))
	}
	b.WriteString("\n")

	b.WriteString("## 4. Capacity\n\n")
	b.WriteString("| Executor | Discipline | Total | Day-off | Consumed | Remaining |\n")
	b.WriteString("|----------|------------|-------|---------|----------|-----------|\n")
	for _, c := range report.Capacity {
		fmt.Fprintf(&b, "| %s | %s | %.1f | %.1f | %.1f | %.1f |\n",
			c.ExecutorEmail, c.Discipline, c.TotalHours, c.DayOffHours, c.ConsumedHours, c.RemainingHours)
	}
	b.WriteString("\n")

	b.WriteString("## 5. Dependencies\n\n")
	if len(report.Dependencies) == 0 {
		b.WriteString("*No dependency edges.*\n\n")
	} else {
		deps := append([]model.Dependency(nil), report.Dependencies...)
		sort.Slice(deps, func(i, j int) bool { return deps[i].Successor < deps[j].Successor })
		for _, d := range deps {
			fmt.Fprintf(&b, "- %s depends on %s\n", d.Successor, d.Prerequisite)
		}
		b.WriteString("\n")
	}

	b.WriteString("## 6. Unscheduled Items\n\n")
	if len(report.Rejections) == 0 {
		b.WriteString("*Nothing rejected this run.*\n")
	}
	for _, group := range report.Rejections {
		label := reasonLabel[group.Reason]
		if label == "" {
			label = string(group.Reason)
		}
		fmt.Fprintf(&b, "### %s\n\n", label)
		for _, r := range group.Rejections {
			fmt.Fprintf(&b, "- Task %s\n", r.TaskID)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func formatDayOffs(offs []model.DayOff) string {
	parts := make([]string, len(offs))
	for i, o := range offs {
		parts[i] = fmt.Sprintf("%s (%s)", o.Date, o.Period)
	}
	return strings.Join(parts, ", ")
}

func countRejections(groups []model.RejectionGroup) int {
	var n int
	for _, g := range groups {
		n += len(g.Rejections)
	}
	return n
}
