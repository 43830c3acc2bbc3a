package cmd

import (
	"context"
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/export"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/spf13/cobra"
)

var (
	flagOut  string
	flagXLSX bool
	flagPNG  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write chart images and an Excel workbook of every view",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output directory (default from config)")
	exportCmd.Flags().BoolVar(&flagXLSX, "xlsx", true, "Write budget.xlsx")
	exportCmd.Flags().BoolVar(&flagPNG, "png", true, "Write pie, revenue/capital and scatter PNGs")
	exportCmd.Flags().StringVar(&flagX, "x", "", "Scatter X-axis column")
	exportCmd.Flags().StringVar(&flagY, "y", "", "Scatter Y-axis column")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	dir := cfg.Export.Dir
	if cmd.Flags().Changed("out") {
		dir = flagOut
	}
	if !flagXLSX && !flagPNG {
		return fmt.Errorf("nothing to export: both --xlsx and --png are off")
	}

	result, err := loadData()
	if err != nil {
		return err
	}

	res, err := export.Run(context.Background(), result.Dataset, export.Options{
		Dir:  dir,
		PNG:  flagPNG,
		XLSX: flagXLSX,
		Params: view.Params{
			XField: flagX,
			YField: flagY,
			TopN:   cfg.General.TopN,
		},
	}, logger)
	if err != nil {
		return err
	}

	if !flagQuiet {
		for _, f := range res.Files {
			fmt.Printf("  wrote %s\n", f)
		}
		for _, s := range res.Skipped {
			fmt.Printf("  skipped %s (no data to plot)\n", s)
		}
	}
	return nil
}
