// Package cmd implements the budgetdash CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/logging"
	"github.com/theirongolddev/budgetdash/internal/pipeline"
	"github.com/theirongolddev/budgetdash/internal/store"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagFile     string
	flagNoCache  bool
	flagQuiet    bool
	flagTopN     int
	flagLogLevel string
)

// Resolved at startup from flags, environment and the config file.
var (
	cfg    config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "budgetdash",
	Short: "Union Budget 2023-24 analytics dashboard",
	Long: "Explore the Union Budget 2023-24 allocations: overview, insights,\n" +
		"visualizations and a dynamic category/column analysis.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runOverview,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Budget CSV file or directory (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite cache, reparse the file")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().IntVarP(&flagTopN, "top", "n", 0, "Length of the Insights rankings (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Diagnostics level: debug, info, warn, error, disabled")
}

// setup resolves configuration with precedence flag > env > file > default
// and builds the diagnostics logger.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	logger, err = logging.New(os.Stderr, flagLogLevel)
	if err != nil {
		return fmt.Errorf("parsing --log-level: %w", err)
	}

	if err := config.LoadDotEnv(); err != nil {
		logger.Warn().Err(err).Msg("ignoring .env")
	}
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.General.DataFile = flagFile
	}
	if flags.Changed("top") {
		cfg.General.TopN = flagTopN
	}
	if flagNoCache {
		cfg.General.UseCache = false
	}
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

// loadData is the shared data loading path used by all commands. It uses
// the SQLite cache when enabled and falls back to a plain parse.
func loadData() (*pipeline.LoadResult, error) {
	path := cfg.General.DataFile
	progressFn := func(stage string) {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r  %-24s", capitalize(stage)+"...")
		}
	}

	result, err := loadWithOptionalCache(path, progressFn)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r%-28s\r", "")
	}
	if err != nil {
		return nil, err
	}

	ds := result.Dataset
	logger.Info().
		Str("file", result.File.Path).
		Int("records", ds.Len()).
		Int("rejected", result.Rejected).
		Bool("cache_hit", result.CacheHit).
		Strs("missing_columns", ds.MissingColumns()).
		Msg("dataset loaded")
	for _, is := range ds.Issues() {
		logger.Debug().Int("line", is.Line).Str("issue", is.Message).Msg("row skipped")
	}

	if !flagQuiet {
		src := "Parsed"
		if result.CacheHit {
			src = "Loaded from cache:"
		}
		fmt.Fprintf(os.Stderr, "  %s %d records from %s\n", src, ds.Len(), result.File.Path)
		if result.Rejected > 0 {
			fmt.Fprintf(os.Stderr, "  %d rows skipped (use --log-level debug for details)\n", result.Rejected)
		}
	}
	return result, nil
}

func loadWithOptionalCache(path string, progressFn pipeline.ProgressFunc) (*pipeline.LoadResult, error) {
	if cfg.General.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			return pipeline.LoadWithCache(path, cache, progressFn)
		}
		logger.Warn().Err(err).Msg("cache unavailable, doing full parse")
	}
	return pipeline.Load(path, progressFn)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
