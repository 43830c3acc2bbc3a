package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers:  []string{"Ministry", "Total"},
		Rows:     [][]string{{"Defence", "₹900.00 Cr"}, {"---"}, {"Total", "₹1,000.00 Cr"}},
		TextCols: 1,
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != want {
			t.Errorf("line %d width %d, want %d: %q", i, w, want, l)
		}
	}
	if !strings.Contains(out, "Defence") || !strings.Contains(out, "₹1,000.00 Cr") {
		t.Errorf("missing cells:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 4, true); got != "ab  " {
		t.Errorf("left pad = %q", got)
	}
	if got := pad("ab", 4, false); got != "  ab" {
		t.Errorf("right pad = %q", got)
	}
	if got := pad("abcdef", 4, true); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
}

func TestRenderHorizontalBar_Clamps(t *testing.T) {
	bar := RenderHorizontalBar("x", 5, 1, 10, "5")
	if n := strings.Count(bar, "█"); n != 10 {
		t.Errorf("bar cells = %d, want 10 (clamped)", n)
	}
	if n := strings.Count(RenderHorizontalBar("x", 1, 0, 10, ""), "█"); n != 0 {
		t.Errorf("zero max bar cells = %d, want 0", n)
	}
}
