package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Dataset table, ministry count and total budget",
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	ds := result.Dataset

	payload, err := view.Build(ds, view.Params{View: view.Overview})
	if err != nil {
		return err
	}
	ov := payload.Overview

	fmt.Println()
	fmt.Println(cli.RenderTitle("UNION BUDGET 2023-24  Overview"))
	fmt.Println()

	fmt.Print(cli.RenderTable(recordTable("Dataset", ds, ov.Columns, ov.Records)))
	fmt.Println()

	fmt.Println(cli.RenderMetric("Ministries", cli.FormatNumber(int64(ov.MinistryCount))))
	if msg, ok := payload.Notice(view.SectionTotals); ok {
		fmt.Println(cli.RenderNotice(msg))
		return nil
	}
	fmt.Println(cli.RenderMetric("Total Budget", cli.FormatCrore(ov.TotalBudget)))
	fmt.Println()
	return nil
}

// recordTable lays out records with the given columns.
func recordTable(title string, ds *model.Dataset, cols []string, recs []model.BudgetRecord) cli.Table {
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = cli.FormatCell(rec, c)
		}
		rows[i] = row
	}
	textCols := 0
	for _, c := range cols {
		if ds.IsNumeric(c) {
			break
		}
		textCols++
	}
	return cli.Table{
		Title:    title,
		Headers:  cols,
		Rows:     rows,
		TextCols: max(1, textCols),
	}
}
