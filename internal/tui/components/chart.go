package components

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Series names and colours one value column of a grouped bar chart.
type Series struct {
	Name  string
	Color lipgloss.Color
}

// GroupedBarChart renders one cluster of bars per label, one bar per series.
// values[g][s] is the value of series s in group g. Groups that do not fit
// the width are dropped from the right.
func GroupedBarChart(labels []string, values [][]float64, series []Series, width, height int) string {
	if len(values) == 0 || len(series) == 0 {
		return ""
	}
	t := theme.Active
	k := len(series)

	maxVal := 0.0
	for _, g := range values {
		for _, v := range g {
			maxVal = math.Max(maxVal, v)
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Y-axis: compute tick step and ceiling
	height = max(height, 4)
	tickStep := chartTickStep(maxVal)
	maxIntervals := max(2, height/2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(1, int(math.Round(ceiling/tickStep)))
	rowsPerTick := max(1, height/numIntervals)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(4, len(formatChartLabel(ceiling))+1)
	tickLabels := make(map[int]string)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	chartW := max(k+1, width-yLabelW-1)

	// Bar sizing: each group is k bars plus one column of gap.
	n := len(values)
	barW := (chartW - (n - 1)) / (n * k)
	if barW < 1 {
		barW = 1
		n = max(1, (chartW+1)/(k+1))
		values = values[:n]
		if len(labels) > n {
			labels = labels[:n]
		}
	}
	barW = min(barW, 4)
	groupW := k * barW
	axisLen := n*groupW + (n - 1)

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	barStyles := make([]lipgloss.Style, k)
	for s, ser := range series {
		barStyles[s] = lipgloss.NewStyle().Foreground(ser.Color).Background(t.Surface)
	}

	var b strings.Builder

	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))

		for g, group := range values {
			if g > 0 {
				b.WriteString(blank.Render(" "))
			}
			for s := 0; s < k; s++ {
				v := 0.0
				if s < len(group) {
					v = group[s]
				}
				switch {
				case v >= rowTop:
					b.WriteString(barStyles[s].Render(strings.Repeat("█", barW)))
				case v > rowBottom:
					idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
					idx = max(1, min(idx, 8))
					b.WriteString(barStyles[s].Render(strings.Repeat(string(blocks[idx]), barW)))
				default:
					b.WriteString(blank.Render(strings.Repeat(" ", barW)))
				}
			}
		}
		b.WriteString("\n")
	}

	// X-axis line with 0 label
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	// Group labels, truncated to the group width.
	if len(labels) > 0 && groupW >= 2 {
		var lb strings.Builder
		for g := 0; g < n && g < len(labels); g++ {
			if g > 0 {
				lb.WriteString(" ")
			}
			lb.WriteString(padRight(truncate(labels[g], groupW), groupW))
		}
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(strings.TrimRight(lb.String(), " ")))
	}

	// Legend
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	for s, ser := range series {
		if s > 0 {
			b.WriteString(blank.Render("  "))
		}
		b.WriteString(barStyles[s].Render("■"))
		b.WriteString(axisStyle.Render(" " + ser.Name))
	}

	return b.String()
}

// TreeNode is one rectangle of a treemap. Only two levels are drawn.
type TreeNode struct {
	Label    string
	Value    float64
	Children []TreeNode
}

// Treemap renders a two-level slice-and-dice treemap: top-level nodes split
// the width, their children split each column's height. Nodes too small to
// get a single cell are left out.
func Treemap(nodes []TreeNode, width, height int) string {
	if len(nodes) == 0 || width < 4 || height < 2 {
		return ""
	}
	t := theme.Active

	values := make([]float64, len(nodes))
	for i, n := range nodes {
		values[i] = n.Value
	}
	colW := allocate(values, width)

	type column struct {
		node   TreeNode
		color  lipgloss.Color
		width  int
		rows   []int // row count per child, header excluded
		labels []string
	}
	var cols []column
	for i, n := range nodes {
		if colW[i] == 0 {
			continue
		}
		c := column{node: n, color: t.Series(i), width: colW[i]}
		cv := make([]float64, len(n.Children))
		for j, ch := range n.Children {
			cv[j] = ch.Value
		}
		if len(cv) == 0 {
			cv = []float64{n.Value}
			c.labels = []string{""}
		} else {
			for _, ch := range n.Children {
				c.labels = append(c.labels, ch.Label)
			}
		}
		c.rows = allocate(cv, height-1)
		cols = append(cols, c)
	}

	// Build each column as a slice of rendered lines.
	rendered := make([][]string, len(cols))
	for ci, c := range cols {
		header := lipgloss.NewStyle().
			Foreground(t.Background).
			Background(c.color).
			Bold(true)
		lines := []string{header.Render(padRight(truncate(c.node.Label, c.width), c.width))}

		shade := 0
		for j, r := range c.rows {
			if r == 0 {
				continue
			}
			bg := t.SurfaceHover
			if shade%2 == 1 {
				bg = t.SurfaceBright
			}
			shade++
			cell := lipgloss.NewStyle().Foreground(c.color).Background(bg)
			for k := 0; k < r; k++ {
				text := ""
				if k == 0 {
					text = c.labels[j]
				}
				lines = append(lines, cell.Render(padRight(truncate(text, c.width), c.width)))
			}
		}
		for len(lines) < height {
			lines = append(lines, lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", c.width)))
		}
		rendered[ci] = lines
	}

	var b strings.Builder
	for row := 0; row < height; row++ {
		for ci := range cols {
			b.WriteString(rendered[ci][row])
		}
		if used := sum(colW); used < width {
			b.WriteString(lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", width-used)))
		}
		if row < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ScatterPoint is one dot of a scatter plot.
type ScatterPoint struct {
	X, Y  float64
	Color lipgloss.Color
}

// ScatterPlot renders points on a character grid with min/max axis labels.
// Cells hit by more than one point are drawn as "◉".
func ScatterPlot(points []ScatterPoint, width, height int) string {
	if len(points) == 0 {
		return ""
	}
	t := theme.Active

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	yLabelW := max(4, len(formatChartLabel(maxY)), len(formatChartLabel(minY))) + 1
	plotW := max(4, width-yLabelW-1)
	plotH := max(3, height-2)

	type cell struct {
		hits  int
		color lipgloss.Color
	}
	grid := make([][]cell, plotH)
	for i := range grid {
		grid[i] = make([]cell, plotW)
	}
	for _, p := range points {
		cx := int(math.Round((p.X - minX) / (maxX - minX) * float64(plotW-1)))
		cy := int(math.Round((p.Y - minY) / (maxY - minY) * float64(plotH-1)))
		row := plotH - 1 - cy
		grid[row][cx].hits++
		grid[row][cx].color = p.Color
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for r := 0; r < plotH; r++ {
		label := ""
		switch r {
		case 0:
			label = formatChartLabel(maxY)
		case plotH - 1:
			label = formatChartLabel(minY)
		case plotH / 2:
			label = formatChartLabel((maxY + minY) / 2)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))
		for _, c := range grid[r] {
			switch c.hits {
			case 0:
				b.WriteString(blank.Render(" "))
			case 1:
				b.WriteString(lipgloss.NewStyle().Foreground(c.color).Background(t.Surface).Render("●"))
			default:
				b.WriteString(lipgloss.NewStyle().Foreground(c.color).Background(t.Surface).Bold(true).Render("◉"))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW)))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", plotW)))
	b.WriteString("\n")

	lo, hi := formatChartLabel(minX), formatChartLabel(maxX)
	gap := max(1, plotW-len(lo)-len(hi))
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axisStyle.Render(lo + strings.Repeat(" ", gap) + hi))

	return b.String()
}

// allocate splits total cells across values proportionally using the
// largest remainder method. The result always sums to total unless every
// value is zero.
func allocate(values []float64, total int) []int {
	out := make([]int, len(values))
	s := 0.0
	for _, v := range values {
		if v > 0 {
			s += v
		}
	}
	if s == 0 || total <= 0 {
		return out
	}

	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, 0, len(values))
	used := 0
	for i, v := range values {
		if v <= 0 {
			continue
		}
		exact := v / s * float64(total)
		out[i] = int(exact)
		used += out[i]
		rems = append(rems, rem{idx: i, frac: exact - float64(out[i])})
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; used < total && i < len(rems); i++ {
		out[rems[i].idx]++
		used++
	}
	return out
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return trimLabel(v/1e9, "B")
	case abs >= 1e6:
		return trimLabel(v/1e6, "M")
	case abs >= 1e3:
		return trimLabel(v/1e3, "k")
	case abs >= 1 || v == 0:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimLabel(v float64, suffix string) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f%s", v, suffix)
	}
	return fmt.Sprintf("%.1f%s", v, suffix)
}
