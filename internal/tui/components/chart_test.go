package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

func TestAllocate(t *testing.T) {
	got := allocate([]float64{50, 30, 20}, 10)
	if got[0] != 5 || got[1] != 3 || got[2] != 2 {
		t.Errorf("allocate = %v, want [5 3 2]", got)
	}

	got = allocate([]float64{1, 1, 1}, 10)
	if sum(got) != 10 {
		t.Errorf("allocate sum = %d, want 10", sum(got))
	}

	got = allocate([]float64{0, 0}, 10)
	if sum(got) != 0 {
		t.Errorf("all-zero allocate = %v", got)
	}
}

func TestGroupedBarChartShape(t *testing.T) {
	theme.SetActive("flexoki-dark")
	series := []Series{{Name: "Revenue", Color: "#4385BE"}, {Name: "Capital", Color: "#DA702C"}}
	values := [][]float64{{500, 400}, {60, 40}, {10, 0}}

	out := GroupedBarChart([]string{"MinistryB", "MinistryA", "MinistryC"}, values, series, 60, 8)
	if out == "" {
		t.Fatal("empty chart")
	}
	if !strings.Contains(out, "Revenue") || !strings.Contains(out, "Capital") {
		t.Error("legend missing")
	}
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 60 {
			t.Errorf("line %d width %d exceeds 60", i, w)
		}
	}
}

func TestGroupedBarChartDropsOverflowGroups(t *testing.T) {
	values := make([][]float64, 100)
	labels := make([]string, 100)
	for i := range values {
		values[i] = []float64{float64(i + 1), 1}
		labels[i] = "m"
	}
	out := GroupedBarChart(labels, values, []Series{{Name: "a"}, {Name: "b"}}, 30, 6)
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 30 {
			t.Errorf("line %d width %d exceeds 30", i, w)
		}
	}
}

func TestTreemapFillsArea(t *testing.T) {
	nodes := []TreeNode{
		{Label: "Defence", Value: 1400, Children: []TreeNode{{Label: "Army", Value: 900}, {Label: "Navy", Value: 500}}},
		{Label: "Health", Value: 380, Children: []TreeNode{{Label: "Hospitals", Value: 300}, {Label: "Vaccines", Value: 80}}},
	}
	out := Treemap(nodes, 40, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("height = %d, want 10", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 40 {
			t.Errorf("line %d width %d, want 40", i, w)
		}
	}
	if !strings.Contains(out, "Defence") || !strings.Contains(out, "Army") {
		t.Errorf("labels missing:\n%s", out)
	}
}

func TestScatterPlot(t *testing.T) {
	pts := []ScatterPoint{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 10}, {X: 5, Y: 2}}
	out := ScatterPlot(pts, 40, 12)
	if strings.Count(out, "●") != 2 {
		t.Errorf("single dots = %d, want 2", strings.Count(out, "●"))
	}
	if strings.Count(out, "◉") != 1 {
		t.Errorf("overlap markers = %d, want 1", strings.Count(out, "◉"))
	}
	if ScatterPlot(nil, 40, 12) != "" {
		t.Error("no points should render nothing")
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		250:       "250",
		2000:      "2k",
		2500:      "2.5k",
		3_000_000: "3M",
		0.5:       "0.50",
	}
	for in, want := range cases {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}
