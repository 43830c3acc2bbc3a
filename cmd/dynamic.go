package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetdash/internal/cli"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/spf13/cobra"
)

var (
	flagCategory string
	flagX        string
	flagY        string
)

var dynamicCmd = &cobra.Command{
	Use:   "dynamic",
	Short: "Filter by budget category and compare two numeric columns",
	RunE:  runDynamic,
}

func init() {
	dynamicCmd.Flags().StringVar(&flagCategory, "category", "Low", "Budget category: Low, Medium or High")
	dynamicCmd.Flags().StringVar(&flagX, "x", "", "X-axis column (default: first numeric column)")
	dynamicCmd.Flags().StringVar(&flagY, "y", "", "Y-axis column (default: second numeric column)")
	rootCmd.AddCommand(dynamicCmd)
}

func runDynamic(_ *cobra.Command, _ []string) error {
	category, ok := model.ParseCategory(flagCategory)
	if !ok {
		return fmt.Errorf("unknown category %q (want Low, Medium or High)", flagCategory)
	}

	result, err := loadData()
	if err != nil {
		return err
	}
	ds := result.Dataset

	payload, err := view.Build(ds, view.Params{
		View:     view.Dynamic,
		Category: category,
		XField:   flagX,
		YField:   flagY,
	})
	if err != nil {
		return err
	}
	dyn := payload.Dynamic

	fmt.Println()
	fmt.Println(cli.RenderTitle("UNION BUDGET 2023-24  Dynamic Analysis"))
	fmt.Println()

	switch msg, ok := payload.Notice(view.SectionFilter); {
	case ok:
		fmt.Println(cli.RenderNotice(msg))
	case dyn.Empty:
		fmt.Println(cli.RenderEmpty(view.EmptyCategoryMessage))
	default:
		title := fmt.Sprintf("%s budget category (%d)", dyn.Category, len(dyn.Filtered))
		fmt.Print(cli.RenderTable(recordTable(title, ds, ds.Columns(), dyn.Filtered)))
	}
	fmt.Println()

	if msg, ok := payload.Notice(view.SectionScatter); ok {
		fmt.Println(cli.RenderNotice(msg))
		return nil
	}

	rows := make([][]string, len(dyn.Points))
	for i, p := range dyn.Points {
		rows[i] = []string{p.Ministry, p.Demand, string(p.Category), cli.FormatAmount(p.X), cli.FormatAmount(p.Y)}
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    dyn.Title,
		Headers:  []string{model.FieldMinistry, model.FieldDemand, "Category", dyn.XField, dyn.YField},
		Rows:     rows,
		TextCols: 3,
	}))
	fmt.Println()
	fmt.Println(cli.RenderEmpty("Numeric columns: " + strings.Join(dyn.NumericColumns, ", ")))
	fmt.Println()
	return nil
}
