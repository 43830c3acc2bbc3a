package view

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/pipeline"
)

// Sections that can be replaced by a notice.
const (
	SectionTotals  = "totals"
	SectionTop     = "top"
	SectionLeast   = "least"
	SectionRevenue = "revenue"
	SectionCapital = "capital"
	SectionPie     = "pie"
	SectionBars    = "bars"
	SectionTreemap = "treemap"
	SectionFilter  = "filter"
	SectionScatter = "scatter"
)

// EmptyCategoryMessage is shown when a category filter matches nothing.
const EmptyCategoryMessage = "No records in this category"

// Notice explains why a section of a view is not shown.
type Notice struct {
	Section string `json:"section"`
	Message string `json:"message"`
}

// Payload is everything a renderer needs to draw one view. Exactly one of
// the view fields is set, matching Params.View.
type Payload struct {
	Params         Params              `json:"params"`
	Notices        []Notice            `json:"notices,omitempty"`
	Overview       *OverviewView       `json:"overview,omitempty"`
	Insights       *InsightsView       `json:"insights,omitempty"`
	Visualizations *VisualizationsView `json:"visualizations,omitempty"`
	Dynamic        *DynamicView        `json:"dynamic,omitempty"`
}

// Notice returns the notice for section, if any.
func (p Payload) Notice(section string) (string, bool) {
	for _, n := range p.Notices {
		if n.Section == section {
			return n.Message, true
		}
	}
	return "", false
}

// OverviewView is the raw table plus headline metrics.
type OverviewView struct {
	Columns       []string             `json:"columns"`
	Records       []model.BudgetRecord `json:"records"`
	MinistryCount int                  `json:"ministry_count"`
	TotalBudget   decimal.Decimal      `json:"total_budget"`
}

// InsightsView holds the rankings and budget split totals.
type InsightsView struct {
	Top          []model.BudgetRecord `json:"top"`
	Least        []model.BudgetRecord `json:"least"`
	RevenueTotal decimal.Decimal      `json:"revenue_total"`
	CapitalTotal decimal.Decimal      `json:"capital_total"`
}

// VisualizationsView feeds the pie, grouped bar and treemap charts.
type VisualizationsView struct {
	Ministries  []model.MinistryTotal `json:"ministries"`
	TotalBudget decimal.Decimal       `json:"total_budget"`
	Hierarchy   []model.MinistryNode  `json:"hierarchy"`
}

// DynamicView is the category filter table and the two-column scatter.
type DynamicView struct {
	Category       model.Category       `json:"category"`
	Filtered       []model.BudgetRecord `json:"filtered"`
	Empty          bool                 `json:"empty"`
	NumericColumns []string             `json:"numeric_columns"`
	XField         string               `json:"x"`
	YField         string               `json:"y"`
	Title          string               `json:"title"`
	Points         []model.Point        `json:"points"`
}

// Build runs the queries behind p.View against ds. Missing columns become
// notices on the payload. An unknown view, an unknown category or a scatter
// axis outside the numeric columns is returned as an error; axis errors are
// *pipeline.InvalidFieldError.
func Build(ds *model.Dataset, p Params) (Payload, error) {
	p = p.WithDefaults(ds)
	out := Payload{Params: p}

	switch p.View {
	case Overview:
		out.Overview = buildOverview(ds, &out)
	case Insights:
		v, err := buildInsights(ds, p, &out)
		if err != nil {
			return Payload{}, err
		}
		out.Insights = v
	case Visualizations:
		out.Visualizations = buildVisualizations(ds, &out)
	case Dynamic:
		v, err := buildDynamic(ds, p, &out)
		if err != nil {
			return Payload{}, err
		}
		out.Dynamic = v
	default:
		return Payload{}, fmt.Errorf("unknown view %q", p.View)
	}
	return out, nil
}

func (p *Payload) require(ds *model.Dataset, section string, cols ...string) bool {
	err := pipeline.RequireColumns(ds, cols...)
	if err == nil {
		return true
	}
	p.Notices = append(p.Notices, Notice{Section: section, Message: err.Error()})
	return false
}

func buildOverview(ds *model.Dataset, out *Payload) *OverviewView {
	v := &OverviewView{
		Columns: ds.Columns(),
		Records: ds.Records(),
	}
	ov := pipeline.Overview(ds)
	v.MinistryCount = ov.MinistryCount
	if out.require(ds, SectionTotals, model.FieldTotal) {
		v.TotalBudget = ov.TotalBudget
	}
	return v
}

func buildInsights(ds *model.Dataset, p Params, out *Payload) (*InsightsView, error) {
	v := &InsightsView{}
	var err error
	if out.require(ds, SectionTop, model.FieldTotal) {
		if v.Top, err = pipeline.TopN(ds, model.FieldTotal, p.TopN, true); err != nil {
			return nil, err
		}
	}
	if out.require(ds, SectionLeast, model.FieldTotal) {
		if v.Least, err = pipeline.TopN(ds, model.FieldTotal, p.TopN, false); err != nil {
			return nil, err
		}
	}

	if out.require(ds, SectionRevenue, model.FieldRevenue) {
		if v.RevenueTotal, err = pipeline.AggregateSum(ds, model.FieldRevenue); err != nil {
			return nil, err
		}
	}
	if out.require(ds, SectionCapital, model.FieldCapital) {
		if v.CapitalTotal, err = pipeline.AggregateSum(ds, model.FieldCapital); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func buildVisualizations(ds *model.Dataset, out *Payload) *VisualizationsView {
	v := &VisualizationsView{}
	pie := out.require(ds, SectionPie, model.FieldTotal)
	bars := out.require(ds, SectionBars, model.FieldRevenue, model.FieldCapital)
	if pie || bars {
		v.Ministries = pipeline.MinistryTotals(ds)
		v.TotalBudget = pipeline.Overview(ds).TotalBudget
	}
	if out.require(ds, SectionTreemap, model.FieldDemand, model.FieldTotal) {
		v.Hierarchy = pipeline.Hierarchy(ds)
	}
	return v
}

func buildDynamic(ds *model.Dataset, p Params, out *Payload) (*DynamicView, error) {
	if !slices.Contains(model.Categories, p.Category) {
		return nil, fmt.Errorf("unknown category %q", p.Category)
	}

	v := &DynamicView{
		Category:       p.Category,
		NumericColumns: pipeline.NumericColumns(ds),
		XField:         p.XField,
		YField:         p.YField,
		Filtered:       []model.BudgetRecord{},
	}

	if out.require(ds, SectionFilter, model.FieldCategory) {
		v.Filtered = pipeline.FilterByCategory(ds, p.Category)
		v.Empty = len(v.Filtered) == 0
	}

	if len(v.NumericColumns) == 0 {
		out.Notices = append(out.Notices, Notice{Section: SectionScatter, Message: "dataset has no numeric columns"})
		return v, nil
	}

	points, err := pipeline.ProjectPair(ds, p.XField, p.YField)
	if err != nil {
		return nil, err
	}
	v.Points = points
	v.Title = p.XField + " vs " + p.YField
	return v, nil
}
