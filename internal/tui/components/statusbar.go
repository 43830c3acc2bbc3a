package components

import (
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is the dataset summary shown in the status bar.
type Status struct {
	Source   string
	Records  int
	Issues   int
	LoadTime string
	CacheHit bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	warnStyle := lipgloss.NewStyle().
		Foreground(t.Orange).
		Background(t.Surface)

	left := " [?]help  [q]uit"
	right := ""
	if st.Source != "" {
		right = fmt.Sprintf("%s · %d rows", filepath.Base(st.Source), st.Records)
		if st.LoadTime != "" {
			right += " · " + st.LoadTime
		}
		if st.CacheHit {
			right += " (cached)"
		}
		right += " "
	}
	issues := ""
	if st.Issues > 0 {
		issues = fmt.Sprintf("  %d rows skipped", st.Issues)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(issues) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left + warnStyle.Render(issues) + fmt.Sprintf("%*s", padding, "") + right
	return style.Render(bar)
}
