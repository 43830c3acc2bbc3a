package tui

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/view"
)

func (a App) renderOverviewTab(cw int) string {
	ov := a.payload.Overview
	if ov == nil {
		return ""
	}

	metrics := []components.Metric{
		{Label: "Ministries", Value: cli.FormatNumber(int64(ov.MinistryCount)), Note: "distinct"},
	}
	msg, missingTotals := a.payload.Notice(view.SectionTotals)
	if !missingTotals {
		metrics = append(metrics, components.Metric{Label: "Total Budget", Value: cli.FormatCrore(ov.TotalBudget), Note: "2023-24"})
	}
	metrics = append(metrics, components.Metric{Label: "Demands", Value: cli.FormatNumber(int64(len(ov.Records))), Note: "rows"})

	top := components.MetricCardRow(metrics, cw)
	if missingTotals {
		top += "\n" + components.ContentCard("Totals", components.Notice(msg), cw)
	}

	body := recordTable(a.ds, ov.Columns, ov.Records, components.CardInnerWidth(cw))
	table := components.ContentCard(fmt.Sprintf("Dataset · %d rows", len(ov.Records)), body, cw)

	return top + "\n" + table
}

// recordTable renders records with the given columns, numeric columns
// right-aligned.
func recordTable(ds *model.Dataset, cols []string, records []model.BudgetRecord, width int) string {
	align := make([]bool, len(cols))
	for i, c := range cols {
		align[i] = ds.IsNumeric(c)
	}
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = cli.FormatCell(rec, c)
		}
		rows[i] = row
	}
	return components.DataTable(cols, rows, align, width)
}
