package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Top and least allocations, revenue and capital totals",
	RunE:  runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	ds := result.Dataset

	payload, err := view.Build(ds, view.Params{View: view.Insights, TopN: cfg.General.TopN})
	if err != nil {
		return err
	}
	ins := payload.Insights
	n := payload.Params.TopN
	cols := []string{model.FieldMinistry, model.FieldDemand, model.FieldTotal}

	fmt.Println()
	fmt.Println(cli.RenderTitle("UNION BUDGET 2023-24  Insights"))
	fmt.Println()

	rankings := []struct {
		title   string
		section string
		recs    []model.BudgetRecord
	}{
		{fmt.Sprintf("Top %d by Total Budget", n), view.SectionTop, ins.Top},
		{fmt.Sprintf("Least %d by Total Budget", n), view.SectionLeast, ins.Least},
	}
	for _, r := range rankings {
		if msg, ok := payload.Notice(r.section); ok {
			fmt.Println(cli.RenderNotice(msg))
			fmt.Println()
			continue
		}
		fmt.Print(cli.RenderTable(recordTable(r.title, ds, cols, r.recs)))
		fmt.Println()
	}

	totals := []struct {
		label   string
		section string
		value   string
	}{
		{"Revenue Budget", view.SectionRevenue, cli.FormatCrore(ins.RevenueTotal)},
		{"Capital Budget", view.SectionCapital, cli.FormatCrore(ins.CapitalTotal)},
	}
	for _, t := range totals {
		if msg, ok := payload.Notice(t.section); ok {
			fmt.Println(cli.RenderNotice(msg))
			continue
		}
		fmt.Println(cli.RenderMetric(t.label, t.value))
	}
	fmt.Println()
	return nil
}
