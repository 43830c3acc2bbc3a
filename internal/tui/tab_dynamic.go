package tui

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDynamicTab(cw int) string {
	dyn := a.payload.Dynamic
	if dyn == nil {
		return ""
	}
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	var filter string
	switch msg, ok := a.payload.Notice(view.SectionFilter); {
	case ok:
		filter = components.Notice(msg)
	case dyn.Empty:
		filter = components.EmptyState(view.EmptyCategoryMessage)
	default:
		filter = recordTable(a.ds, a.ds.Columns(), dyn.Filtered, inner)
	}
	filterTitle := fmt.Sprintf("%s budget category · %d records  [c/C]", dyn.Category, len(dyn.Filtered))

	var scatter string
	scatterTitle := dyn.Title + "  [x/X y/Y]"
	if msg, ok := a.payload.Notice(view.SectionScatter); ok {
		scatter = components.Notice(msg)
		scatterTitle = "Scatter"
	} else {
		points := make([]components.ScatterPoint, len(dyn.Points))
		for i, p := range dyn.Points {
			x, _ := p.X.Float64()
			y, _ := p.Y.Float64()
			points[i] = components.ScatterPoint{X: x, Y: y, Color: t.CategoryColor(p.Category)}
		}
		scatter = components.ScatterPlot(points, inner, 16) + "\n" + categoryLegend()
	}

	return components.ContentCard(filterTitle, filter, cw) + "\n" +
		components.ContentCard(scatterTitle, scatter, cw)
}

func categoryLegend() string {
	t := theme.Active
	text := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var out string
	for i, c := range model.Categories {
		if i > 0 {
			out += text.Render("   ")
		}
		dot := lipgloss.NewStyle().Foreground(t.CategoryColor(c)).Background(t.Surface)
		out += dot.Render("●") + text.Render(" "+string(c))
	}
	return out
}
