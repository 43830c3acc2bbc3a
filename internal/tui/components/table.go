package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const maxColumnWidth = 28

// DataTable renders rows under headers on the surface background. Columns
// flagged in rightAlign are right-aligned. Columns that do not fit width are
// dropped from the right and counted in a trailing note.
func DataTable(headers []string, rows [][]string, rightAlign []bool, width int) string {
	if len(headers) == 0 {
		return ""
	}
	t := theme.Active

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range headers {
			if i < len(row) {
				widths[i] = max(widths[i], lipgloss.Width(row[i]))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
	}

	// Keep as many leading columns as fit, two spaces between columns.
	shown := 0
	used := 0
	for i, w := range widths {
		need := w
		if i > 0 {
			need += 2
		}
		if used+need > width && shown > 0 {
			break
		}
		used += need
		shown++
	}

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	altStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover)
	ruleStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	line := func(cells []string, style lipgloss.Style) string {
		var b strings.Builder
		for i := 0; i < shown; i++ {
			if i > 0 {
				b.WriteString("  ")
			}
			c := ""
			if i < len(cells) {
				c = truncate(cells[i], widths[i])
			}
			right := i < len(rightAlign) && rightAlign[i]
			b.WriteString(alignCell(c, widths[i], right))
		}
		return style.Render(padRight(b.String(), used))
	}

	var b strings.Builder
	b.WriteString(line(headers, headStyle))
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("─", used)))
	for i, row := range rows {
		b.WriteString("\n")
		style := cellStyle
		if i%2 == 1 {
			style = altStyle
		}
		b.WriteString(line(row, style))
	}
	if hidden := len(headers) - shown; hidden > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("+%d more columns", hidden)))
	}
	return b.String()
}

func alignCell(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
