package export

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/pipeline"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetDataset   = "Dataset"
	SheetInsights  = "Insights"
	SheetHierarchy = "Hierarchy"
)

const amountFormat = 4 // built-in "#,##0.00"

type workbook struct {
	f      *excelize.File
	head   int
	amount int
}

// WriteWorkbook writes the dataset, the Insights rankings, the
// Ministry → Demand hierarchy and one sheet per budget category.
func WriteWorkbook(ds *model.Dataset, topN int, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	head, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"24837B"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return err
	}
	wb := workbook{f: f, head: head, amount: amount}

	if err := f.SetSheetName("Sheet1", SheetDataset); err != nil {
		return err
	}
	if err := wb.records(SheetDataset, 1, ds, ds.Columns(), ds.Records()); err != nil {
		return err
	}
	if err := wb.insights(ds, topN); err != nil {
		return err
	}
	if err := wb.hierarchy(ds); err != nil {
		return err
	}
	for _, c := range model.Categories {
		if err := wb.category(ds, c); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

// records writes a header row at row and one row per record beneath it.
func (wb workbook) records(sheet string, row int, ds *model.Dataset, cols []string, recs []model.BudgetRecord) error {
	if err := wb.header(sheet, row, cols); err != nil {
		return err
	}
	for i, rec := range recs {
		values := make([]any, len(cols))
		for j, c := range cols {
			if v, ok := rec.Value(c); ok {
				values[j] = v.InexactFloat64()
			} else {
				values[j] = rec.Text(c)
			}
		}
		if err := wb.row(sheet, row+1+i, values); err != nil {
			return err
		}
	}
	for j, c := range cols {
		if len(recs) == 0 || !ds.IsNumeric(c) {
			continue
		}
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := wb.f.SetCellStyle(sheet, fmt.Sprintf("%s%d", col, row+1), fmt.Sprintf("%s%d", col, row+len(recs)), wb.amount); err != nil {
			return err
		}
	}
	if err := wb.f.SetColWidth(sheet, "A", "B", 36); err != nil {
		return err
	}
	return nil
}

func (wb workbook) header(sheet string, row int, cols []string) error {
	values := make([]any, len(cols))
	for i, c := range cols {
		values[i] = c
	}
	if err := wb.row(sheet, row, values); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(max(1, len(cols)), row)
	return wb.f.SetCellStyle(sheet, first, last, wb.head)
}

func (wb workbook) row(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return wb.f.SetSheetRow(sheet, cell, &values)
}

func (wb workbook) insights(ds *model.Dataset, topN int) error {
	if _, err := wb.f.NewSheet(SheetInsights); err != nil {
		return err
	}
	payload, err := view.Build(ds, view.Params{View: view.Insights, TopN: topN})
	if err != nil {
		return err
	}
	ins := payload.Insights
	n := payload.Params.TopN
	cols := []string{model.FieldMinistry, model.FieldDemand, model.FieldTotal}

	row := 1
	sections := []struct {
		title   string
		section string
		recs    []model.BudgetRecord
	}{
		{fmt.Sprintf("Top %d by %s", n, model.FieldTotal), view.SectionTop, ins.Top},
		{fmt.Sprintf("Least %d by %s", n, model.FieldTotal), view.SectionLeast, ins.Least},
	}
	for _, s := range sections {
		if err := wb.row(SheetInsights, row, []any{s.title}); err != nil {
			return err
		}
		row++
		if msg, ok := payload.Notice(s.section); ok {
			if err := wb.row(SheetInsights, row, []any{msg}); err != nil {
				return err
			}
			row += 2
			continue
		}
		if err := wb.records(SheetInsights, row, ds, cols, s.recs); err != nil {
			return err
		}
		row += len(s.recs) + 2
	}

	totals := []struct {
		label   string
		section string
		value   float64
	}{
		{"Revenue Budget (Cr)", view.SectionRevenue, ins.RevenueTotal.InexactFloat64()},
		{"Capital Budget (Cr)", view.SectionCapital, ins.CapitalTotal.InexactFloat64()},
	}
	for _, t := range totals {
		values := []any{t.label, t.value}
		if msg, ok := payload.Notice(t.section); ok {
			values = []any{t.label, msg}
		}
		if err := wb.row(SheetInsights, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func (wb workbook) hierarchy(ds *model.Dataset) error {
	if _, err := wb.f.NewSheet(SheetHierarchy); err != nil {
		return err
	}
	if err := pipeline.RequireColumns(ds, model.FieldDemand, model.FieldTotal); err != nil {
		return wb.row(SheetHierarchy, 1, []any{err.Error()})
	}
	if err := wb.header(SheetHierarchy, 1, []string{model.FieldMinistry, model.FieldDemand, model.FieldTotal}); err != nil {
		return err
	}
	row := 2
	for _, m := range pipeline.Hierarchy(ds) {
		if err := wb.row(SheetHierarchy, row, []any{m.Ministry, "", m.Total.InexactFloat64()}); err != nil {
			return err
		}
		row++
		for _, d := range m.Demands {
			if err := wb.row(SheetHierarchy, row, []any{"", d.Demand, d.Total.InexactFloat64()}); err != nil {
				return err
			}
			row++
		}
	}
	if err := wb.f.SetCellStyle(SheetHierarchy, "C2", fmt.Sprintf("C%d", max(2, row-1)), wb.amount); err != nil {
		return err
	}
	return wb.f.SetColWidth(SheetHierarchy, "A", "B", 36)
}

func (wb workbook) category(ds *model.Dataset, c model.Category) error {
	sheet := string(c)
	if _, err := wb.f.NewSheet(sheet); err != nil {
		return err
	}
	payload, err := view.Build(ds, view.Params{View: view.Dynamic, Category: c})
	if err != nil {
		return err
	}
	if msg, ok := payload.Notice(view.SectionFilter); ok {
		return wb.row(sheet, 1, []any{msg})
	}
	if payload.Dynamic.Empty {
		return wb.row(sheet, 1, []any{view.EmptyCategoryMessage})
	}
	return wb.records(sheet, 1, ds, ds.Columns(), payload.Dynamic.Filtered)
}
