package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the first-run setup form.
type SetupValues struct {
	DataFile string
	TopN     int
	Theme    string
	UseCache bool
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		DataFile: cfg.General.DataFile,
		TopN:     cfg.General.TopN,
		Theme:    cfg.Appearance.Theme,
		UseCache: cfg.General.UseCache,
	}
}

// Apply copies the answers onto cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	if s := strings.TrimSpace(v.DataFile); s != "" {
		cfg.General.DataFile = s
	}
	if v.TopN > 0 {
		cfg.General.TopN = v.TopN
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	cfg.General.UseCache = v.UseCache
}

var topNOptions = []int{3, 5, 10, 20}

// NewSetupForm builds the setup wizard. records and path describe the
// dataset found at startup; pass 0 and "" when nothing was loaded.
func NewSetupForm(records int, path string, vals *SetupValues) *huh.Form {
	welcome := "Let's set up a few things."
	if path != "" {
		welcome = fmt.Sprintf("Loaded %d records from %s.\n%s", records, path, welcome)
	}

	topN := make([]huh.Option[int], 0, len(topNOptions))
	for _, n := range topNOptions {
		topN = append(topN, huh.NewOption(strconv.Itoa(n)+" records", n))
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themes = append(themes, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetdash").
				Description(welcome),
			huh.NewInput().
				Title("Budget data file").
				Description("CSV file or directory containing one.").
				Placeholder("cleaned_budget_data.csv").
				Value(&vals.DataFile),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Insights ranking length").
				Options(topN...).
				Value(&vals.TopN),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.Theme),
			huh.NewConfirm().
				Title("Cache parsed datasets?").
				Description("Reuses the parsed file until it changes on disk.").
				Value(&vals.UseCache),
		),
	).WithShowHelp(true)
}

func (a *App) saveSetupConfig() error {
	cfg, _ := config.Load()
	a.setupVals.Apply(&cfg)
	theme.SetActive(cfg.Appearance.Theme)
	return config.Save(cfg)
}
