package tui

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/view"
)

var rankingColumns = []string{model.FieldMinistry, model.FieldDemand, model.FieldTotal}

func (a App) renderInsightsTab(cw int) string {
	ins := a.payload.Insights
	if ins == nil {
		return ""
	}
	n := a.payload.Params.TopN

	var metrics []components.Metric
	var notices []string
	if msg, ok := a.payload.Notice(view.SectionRevenue); ok {
		notices = append(notices, components.Notice(msg))
	} else {
		metrics = append(metrics, components.Metric{Label: "Revenue Budget", Value: cli.FormatCrore(ins.RevenueTotal)})
	}
	if msg, ok := a.payload.Notice(view.SectionCapital); ok {
		notices = append(notices, components.Notice(msg))
	} else {
		metrics = append(metrics, components.Metric{Label: "Capital Budget", Value: cli.FormatCrore(ins.CapitalTotal)})
	}
	if len(metrics) == 2 {
		whole := ins.RevenueTotal.Add(ins.CapitalTotal)
		metrics = append(metrics, components.Metric{
			Label: "Capital Share",
			Value: cli.FormatPercent(cli.Share(ins.CapitalTotal, whole)),
			Note:  "of revenue + capital",
		})
	}

	var out string
	if len(metrics) > 0 {
		out = components.MetricCardRow(metrics, cw) + "\n"
	}
	for _, line := range notices {
		out += line + "\n"
	}

	half := components.LayoutRow(cw, 2)
	top := a.rankingCard(fmt.Sprintf("Top %d by Total", n), view.SectionTop, ins.Top, half[0])
	least := a.rankingCard(fmt.Sprintf("Least %d by Total", n), view.SectionLeast, ins.Least, half[1])
	return out + components.CardRow([]string{top, least})
}

func (a App) rankingCard(title, section string, recs []model.BudgetRecord, w int) string {
	if msg, ok := a.payload.Notice(section); ok {
		return components.ContentCard(title, components.Notice(msg), w)
	}
	if len(recs) == 0 {
		return components.ContentCard(title, components.EmptyState("No records"), w)
	}
	return components.ContentCard(title, recordTable(a.ds, rankingColumns, recs, components.CardInnerWidth(w)), w)
}
