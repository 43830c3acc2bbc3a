// Package view turns the loaded dataset and the current selector state into
// the content of one dashboard view. Every surface (CLI, TUI, HTTP, export)
// renders the Payload returned by Build.
package view

import (
	"fmt"
	"slices"

	"github.com/theirongolddev/budgetdash/internal/model"
)

// Name identifies one of the four dashboard views.
type Name string

// The dashboard views, in tab order.
const (
	Overview       Name = "overview"
	Insights       Name = "insights"
	Visualizations Name = "visualizations"
	Dynamic        Name = "dynamic"
)

// Names lists every view in tab order.
var Names = []Name{Overview, Insights, Visualizations, Dynamic}

// Title is the human-readable view name.
func (n Name) Title() string {
	switch n {
	case Overview:
		return "Overview"
	case Insights:
		return "Insights"
	case Visualizations:
		return "Visualizations"
	case Dynamic:
		return "Dynamic Analysis"
	}
	return string(n)
}

// ParseName resolves a view name, accepting the empty string as Overview.
func ParseName(s string) (Name, error) {
	if s == "" {
		return Overview, nil
	}
	n := Name(s)
	if !slices.Contains(Names, n) {
		return "", fmt.Errorf("unknown view %q", s)
	}
	return n, nil
}

// DefaultTopN is the length of the Insights rankings.
const DefaultTopN = 5

// Params is the complete selector state of the dashboard.
type Params struct {
	View     Name           `json:"view"`
	Category model.Category `json:"category,omitempty"`
	XField   string         `json:"x,omitempty"`
	YField   string         `json:"y,omitempty"`
	TopN     int            `json:"top_n,omitempty"`
}

// DefaultParams selects the Overview, the Low category and the first two
// numeric columns as scatter axes.
func DefaultParams(ds *model.Dataset) Params {
	return Params{View: Overview}.WithDefaults(ds)
}

// WithDefaults fills every unset field of p.
func (p Params) WithDefaults(ds *model.Dataset) Params {
	if p.View == "" {
		p.View = Overview
	}
	if p.Category == model.CategoryNone {
		p.Category = model.CategoryLow
	}
	if p.TopN <= 0 {
		p.TopN = DefaultTopN
	}

	cols := ds.NumericColumns()
	if p.XField == "" && len(cols) > 0 {
		p.XField = cols[0]
	}
	if p.YField == "" && len(cols) > 0 {
		p.YField = cols[min(1, len(cols)-1)]
	}
	return p
}

// CycleField steps through cols from cur by delta, wrapping. A cur not in
// cols starts from the first column.
func CycleField(cols []string, cur string, delta int) string {
	if len(cols) == 0 {
		return cur
	}
	i := slices.Index(cols, cur)
	if i < 0 {
		return cols[0]
	}
	n := len(cols)
	return cols[((i+delta)%n+n)%n]
}
