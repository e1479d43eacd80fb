package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/me/gowe/pkg/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0B341"))
	rejectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
	storyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	reasonStyles = map[model.RejectionReason]lipgloss.Style{
		model.ReasonDependencyCycle: rejectStyle,
		model.ReasonNoCapacity:      warnStyle,
	}
)

// printRunSummary renders the same placed/rejected overview for both
// a freshly completed run and a re-printed one loaded from history.
func printRunSummary(run *model.Run) {
	rep := run.Report
	fmt.Println(titleStyle.Render(fmt.Sprintf("Sprint %s — run %s", rep.Sprint.Name, run.ID)))

	placed := len(rep.Placements)
	rejected := 0
	for _, g := range rep.Rejections {
		rejected += len(g.Rejections)
	}
	fmt.Printf("%s  %s\n",
		okStyle.Render(fmt.Sprintf("%d placed", placed)),
		rejectIf(rejected))

	if len(rep.Stories) > 0 {
		fmt.Println(storyStyle.Render("User stories:"))
		for _, s := range rep.Stories {
			fmt.Printf("  %-10s %-30s owner=%-20s pts=%d %s..%s\n", s.StoryID, s.Title, s.Owner, s.Points, s.Start, s.End)
		}
	}

	for _, group := range rep.Rejections {
		style, ok := reasonStyles[group.Reason]
		if !ok {
			style = rejectStyle
		}
		fmt.Println(style.Render(fmt.Sprintf("%s (%d):", group.Reason, len(group.Rejections))))
		for _, r := range group.Rejections {
			fmt.Printf("  %s\n", r.TaskID)
		}
	}
}

func rejectIf(n int) string {
	if n == 0 {
		return okStyle.Render("0 rejected")
	}
	return rejectStyle.Render(fmt.Sprintf("%d rejected", n))
}
