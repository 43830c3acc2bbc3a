package components

import (
	"strings"

	"github.com/theirongolddev/budgetdash/internal/tui/theme"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	View   view.Name
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs, one per dashboard view.
var Tabs = []Tab{
	{View: view.Overview, Name: "Overview", Key: 'o', KeyPos: 0},
	{View: view.Insights, Name: "Insights", Key: 'i', KeyPos: 0},
	{View: view.Visualizations, Name: "Visualizations", Key: 'v', KeyPos: 0},
	{View: view.Dynamic, Name: "Dynamic", Key: 'd', KeyPos: 0},
}

// TabVisualWidth returns the rendered width of a tab, including padding.
// Inactive tabs show their shortcut in brackets, which adds two columns.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2
	if !active {
		w += 2
		if tab.KeyPos < 0 {
			w++
		}
	}
	return w
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.SurfaceHover).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	sepStyle := lipgloss.NewStyle().
		Background(t.Surface)

	var b strings.Builder
	for i, tab := range Tabs {
		if i > 0 {
			b.WriteString(sepStyle.Render(" "))
		}
		if i == activeIdx {
			b.WriteString(activeStyle.Render(" " + tab.Name + " "))
			continue
		}

		// Render with highlighted shortcut key
		if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
			before := tab.Name[:tab.KeyPos]
			key := string(tab.Name[tab.KeyPos])
			after := tab.Name[tab.KeyPos+1:]
			b.WriteString(inactiveStyle.Render(" " + before))
			b.WriteString(dimKeyStyle.Render("["))
			b.WriteString(keyStyle.Render(key))
			b.WriteString(dimKeyStyle.Render("]"))
			b.WriteString(inactiveStyle.Render(after + " "))
		} else {
			b.WriteString(inactiveStyle.Render(" " + tab.Name))
			b.WriteString(dimKeyStyle.Render("["))
			b.WriteString(keyStyle.Render(string(tab.Key)))
			b.WriteString(dimKeyStyle.Render("]"))
			b.WriteString(inactiveStyle.Render(" "))
		}
	}

	rowStyle := lipgloss.NewStyle().Background(t.Surface).Width(width)
	return rowStyle.Render(b.String())
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
