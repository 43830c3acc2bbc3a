package tui

import (
	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
	"github.com/theirongolddev/budgetdash/internal/view"
)

// maxPieSlices caps the share list; the rest is folded into "Other".
const maxPieSlices = 12

func (a App) renderVisualizationsTab(cw int) string {
	vz := a.payload.Visualizations
	if vz == nil {
		return ""
	}
	t := theme.Active
	inner := components.CardInnerWidth(cw)

	// Pie: share of total budget per ministry, as share bars.
	var pie string
	if msg, ok := a.payload.Notice(view.SectionPie); ok {
		pie = components.Notice(msg)
	} else {
		labelW := min(30, inner/3)
		barW := max(10, inner-labelW-28)
		var other float64
		for i, m := range vz.Ministries {
			share := cli.Share(m.Total, vz.TotalBudget)
			if i >= maxPieSlices {
				other += share
				continue
			}
			if pie != "" {
				pie += "\n"
			}
			pie += components.ShareBar(m.Ministry, share, t.Series(i), cli.FormatCrore(m.Total), labelW, barW)
		}
		if other > 0 {
			pie += "\n" + components.ShareBar("Other", other, t.TextMuted, "", labelW, barW)
		}
	}

	// Grouped bar: revenue vs capital per ministry.
	var bars string
	if msg, ok := a.payload.Notice(view.SectionBars); ok {
		bars = components.Notice(msg)
	} else {
		labels := make([]string, len(vz.Ministries))
		values := make([][]float64, len(vz.Ministries))
		for i, m := range vz.Ministries {
			labels[i] = m.Ministry
			rev, _ := m.Revenue.Float64()
			capital, _ := m.Capital.Float64()
			values[i] = []float64{rev, capital}
		}
		series := []components.Series{
			{Name: "Revenue", Color: t.Accent},
			{Name: "Capital", Color: t.Yellow},
		}
		bars = components.GroupedBarChart(labels, values, series, inner, 12)
	}

	// Treemap: Ministry -> Demand.
	var tree string
	if msg, ok := a.payload.Notice(view.SectionTreemap); ok {
		tree = components.Notice(msg)
	} else {
		nodes := make([]components.TreeNode, len(vz.Hierarchy))
		for i, m := range vz.Hierarchy {
			total, _ := m.Total.Float64()
			nodes[i] = components.TreeNode{Label: m.Ministry, Value: total}
			for _, d := range m.Demands {
				v, _ := d.Total.Float64()
				nodes[i].Children = append(nodes[i].Children, components.TreeNode{Label: d.Demand, Value: v})
			}
		}
		tree = components.Treemap(nodes, inner, 14)
	}

	return components.ContentCard("Budget Distribution by Ministry", pie, cw) + "\n" +
		components.ContentCard("Revenue vs Capital by Ministry", bars, cw) + "\n" +
		components.ContentCard("Ministry → Demand", tree, cw)
}
