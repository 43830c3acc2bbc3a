package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/spf13/cobra"
)

const barWidth = 30

var chartsCmd = &cobra.Command{
	Use:     "charts",
	Aliases: []string{"visualizations"},
	Short:   "Budget share, revenue vs capital and the ministry/demand tree",
	RunE:    runCharts,
}

func init() {
	rootCmd.AddCommand(chartsCmd)
}

func runCharts(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	payload, err := view.Build(result.Dataset, view.Params{View: view.Visualizations})
	if err != nil {
		return err
	}
	vz := payload.Visualizations

	fmt.Println()
	fmt.Println(cli.RenderTitle("UNION BUDGET 2023-24  Visualizations"))

	fmt.Println()
	fmt.Println(cli.RenderMetric("Budget share", "by ministry"))
	if msg, ok := payload.Notice(view.SectionPie); ok {
		fmt.Println(cli.RenderNotice(msg))
	} else {
		for _, m := range vz.Ministries {
			share := cli.Share(m.Total, vz.TotalBudget)
			fmt.Println(cli.RenderHorizontalBar(m.Ministry, share, 1, barWidth, cli.FormatPercent(share)))
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderMetric("Revenue vs Capital", "by ministry"))
	if msg, ok := payload.Notice(view.SectionBars); ok {
		fmt.Println(cli.RenderNotice(msg))
	} else {
		var peak float64
		for _, m := range vz.Ministries {
			peak = max(peak, m.Revenue.InexactFloat64(), m.Capital.InexactFloat64())
		}
		for _, m := range vz.Ministries {
			fmt.Println(cli.RenderHorizontalBar(m.Ministry, m.Revenue.InexactFloat64(), peak, barWidth,
				"rev "+cli.FormatCrore(m.Revenue)))
			fmt.Println(cli.RenderHorizontalBar("", m.Capital.InexactFloat64(), peak, barWidth,
				"cap "+cli.FormatCrore(m.Capital)))
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderMetric("Ministry → Demand", "by total"))
	if msg, ok := payload.Notice(view.SectionTreemap); ok {
		fmt.Println(cli.RenderNotice(msg))
	} else {
		for _, m := range vz.Hierarchy {
			share := cli.Share(m.Total, vz.TotalBudget)
			fmt.Println(cli.RenderHorizontalBar(m.Ministry, share, 1, barWidth, cli.FormatCrore(m.Total)))
			for _, d := range m.Demands {
				fmt.Println(cli.RenderHorizontalBar("  "+d.Demand, cli.Share(d.Total, m.Total), 1, barWidth/2,
					cli.FormatCrore(d.Total)))
			}
		}
	}
	fmt.Println()
	return nil
}
