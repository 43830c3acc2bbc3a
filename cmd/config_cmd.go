package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetdash/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data file:   %s\n", cfg.General.DataFile)
	fmt.Printf("    Top N:       %d\n", cfg.General.TopN)
	fmt.Printf("    Use cache:   %v\n", cfg.General.UseCache)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Export]")
	fmt.Printf("    Directory: %s\n", cfg.Export.Dir)
	fmt.Println()

	fmt.Printf("  Environment overrides: %s, %s, %s\n", config.EnvDataFile, config.EnvAddr, config.EnvTopN)
	fmt.Println("  Run `budgetdash setup` to reconfigure.")
	return nil
}
