package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/pipeline"
	"github.com/theirongolddev/budgetdash/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load the file config without flag overrides so setup edits what is saved.
	fileCfg, _ := config.Load()

	records, path := 0, ""
	if res, err := pipeline.Load(cfg.General.DataFile, nil); err == nil {
		records, path = res.Dataset.Len(), res.File.Path
	}

	vals := tui.SetupValuesFrom(fileCfg)
	if err := tui.NewSetupForm(records, path, &vals).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	vals.Apply(&fileCfg)

	if err := config.Save(fileCfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `budgetdash setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
