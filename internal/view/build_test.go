package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/pipeline"
	"github.com/theirongolddev/budgetdash/internal/source"
)

const header = "Ministry,Demand,Budget_2023_Total,Budget_2023_Revenue,Budget_2023_Capital,Budget_Category"

func parse(t *testing.T, lines ...string) *model.Dataset {
	t.Helper()
	ds, err := source.Parse(strings.NewReader(strings.Join(lines, "\n")+"\n"), "test.csv")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return ds
}

func sample(t *testing.T) *model.Dataset {
	return parse(t, header,
		"MinistryA,Demand1,100,60,40,Low",
		"MinistryB,Demand1,900,500,400,High",
		"MinistryB,Demand2,50,50,0,High",
	)
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams(sample(t))
	if p.View != Overview || p.Category != model.CategoryLow || p.TopN != DefaultTopN {
		t.Errorf("defaults = %+v", p)
	}
	if p.XField != model.FieldTotal || p.YField != model.FieldRevenue {
		t.Errorf("axes = %s/%s, want first two numeric columns", p.XField, p.YField)
	}
}

func TestCycleField(t *testing.T) {
	cols := []string{"a", "b", "c"}
	if got := CycleField(cols, "c", 1); got != "a" {
		t.Errorf("forward wrap = %s, want a", got)
	}
	if got := CycleField(cols, "a", -1); got != "c" {
		t.Errorf("backward wrap = %s, want c", got)
	}
	if got := CycleField(cols, "zzz", 1); got != "a" {
		t.Errorf("unknown = %s, want a", got)
	}
	if got := CycleField(nil, "x", 1); got != "x" {
		t.Errorf("empty cols = %s, want x", got)
	}
}

func TestBuild_Overview(t *testing.T) {
	p, err := Build(sample(t), Params{View: Overview})
	if err != nil {
		t.Fatal(err)
	}
	ov := p.Overview
	if ov == nil || p.Insights != nil {
		t.Fatalf("payload = %+v, want only Overview", p)
	}
	if ov.MinistryCount != 2 || ov.TotalBudget.String() != "1050" || len(ov.Records) != 3 {
		t.Errorf("overview = %d ministries, %s total, %d records", ov.MinistryCount, ov.TotalBudget, len(ov.Records))
	}
	if len(p.Notices) != 0 {
		t.Errorf("notices = %v", p.Notices)
	}
}

func TestBuild_Insights(t *testing.T) {
	p, err := Build(sample(t), Params{View: Insights, TopN: 2})
	if err != nil {
		t.Fatal(err)
	}
	in := p.Insights
	if len(in.Top) != 2 || in.Top[0].Total.String() != "900" {
		t.Errorf("Top = %v", in.Top)
	}
	if len(in.Least) != 2 || in.Least[0].Total.String() != "50" {
		t.Errorf("Least = %v", in.Least)
	}
	if in.RevenueTotal.String() != "610" || in.CapitalTotal.String() != "440" {
		t.Errorf("totals = %s/%s, want 610/440", in.RevenueTotal, in.CapitalTotal)
	}
}

func TestBuild_Visualizations(t *testing.T) {
	p, err := Build(sample(t), Params{View: Visualizations})
	if err != nil {
		t.Fatal(err)
	}
	v := p.Visualizations
	if len(v.Ministries) != 2 || v.Ministries[1].Demands != 2 {
		t.Errorf("Ministries = %+v", v.Ministries)
	}
	if len(v.Hierarchy) != 2 || v.Hierarchy[0].Ministry != "MinistryB" {
		t.Errorf("Hierarchy = %+v", v.Hierarchy)
	}
}

func TestBuild_DynamicEmptyCategory(t *testing.T) {
	p, err := Build(sample(t), Params{View: Dynamic, Category: model.CategoryMedium})
	if err != nil {
		t.Fatal(err)
	}
	d := p.Dynamic
	if !d.Empty || d.Filtered == nil || len(d.Filtered) != 0 {
		t.Errorf("Filtered = %v, Empty = %v; want explicit empty state", d.Filtered, d.Empty)
	}
	if len(d.Points) != 3 {
		t.Errorf("Points = %d, want 3 (scatter ignores the filter)", len(d.Points))
	}
	if d.Title != "Budget_2023_Total vs Budget_2023_Revenue" {
		t.Errorf("Title = %q", d.Title)
	}
}

func TestBuild_DynamicInvalidAxis(t *testing.T) {
	_, err := Build(sample(t), Params{View: Dynamic, XField: "Ministry"})
	var ife *pipeline.InvalidFieldError
	if !errors.As(err, &ife) {
		t.Errorf("err = %v, want *InvalidFieldError", err)
	}

	if _, err := Build(sample(t), Params{View: Dynamic, Category: "Huge"}); err == nil {
		t.Error("unknown category: expected error")
	}
	if _, err := Build(sample(t), Params{View: "pivot"}); err == nil {
		t.Error("unknown view: expected error")
	}
}

func TestBuild_MissingColumnNotices(t *testing.T) {
	ds := parse(t, "Ministry,Demand,Budget_2023_Total",
		"MinistryA,Demand1,100",
	)

	p, err := Build(ds, Params{View: Insights})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Notice(SectionTop); ok {
		t.Error("unexpected notice on top section")
	}
	msg, ok := p.Notice(SectionRevenue)
	if !ok || !strings.Contains(msg, model.FieldRevenue) {
		t.Errorf("revenue notice = %q, %v", msg, ok)
	}

	p, err = Build(ds, Params{View: Dynamic})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Notice(SectionFilter); !ok {
		t.Error("missing category column should produce a filter notice")
	}
	if len(p.Dynamic.Points) != 1 {
		t.Errorf("scatter should still render: %d points", len(p.Dynamic.Points))
	}
}

func TestParseName(t *testing.T) {
	if n, err := ParseName(""); err != nil || n != Overview {
		t.Errorf("ParseName(\"\") = %v, %v", n, err)
	}
	if _, err := ParseName("nope"); err == nil {
		t.Error("expected error")
	}
	if Dynamic.Title() != "Dynamic Analysis" {
		t.Errorf("Title = %q", Dynamic.Title())
	}
}

func TestBuild_OverviewCountsMinistriesWithoutTotal(t *testing.T) {
	ds := parse(t, "Ministry,Demand",
		"MinistryA,Demand1",
		"MinistryB,Demand1",
		"MinistryB,Demand2",
	)

	p, err := Build(ds, Params{View: Overview})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Notice(SectionTotals); !ok {
		t.Error("missing total column should produce a totals notice")
	}
	if p.Overview.MinistryCount != 2 {
		t.Errorf("MinistryCount = %d, want 2", p.Overview.MinistryCount)
	}
	if !p.Overview.TotalBudget.IsZero() {
		t.Errorf("TotalBudget = %s, want 0", p.Overview.TotalBudget)
	}
}
