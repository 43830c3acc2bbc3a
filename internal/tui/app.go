// Package tui provides the interactive Bubble Tea dashboard for budgetdash.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/budgetdash/internal/config"
	"github.com/theirongolddev/budgetdash/internal/model"
	"github.com/theirongolddev/budgetdash/internal/pipeline"
	"github.com/theirongolddev/budgetdash/internal/store"
	"github.com/theirongolddev/budgetdash/internal/tui/components"
	"github.com/theirongolddev/budgetdash/internal/tui/theme"
	"github.com/theirongolddev/budgetdash/internal/view"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// StageMsg reports which loading stage is running.
type StageMsg struct {
	Stage string
}

// ViewParamsChangedMsg carries new selector state. Its handler is the only
// place the view payload is rebuilt. Seq orders changes so that a message
// overtaken by a newer one is dropped.
type ViewParamsChangedMsg struct {
	Params view.Params
	Seq    uint64
}

// Options configures the dashboard.
type Options struct {
	DataFile  string
	UseCache  bool
	TopN      int
	SkipSetup bool
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	ds       *model.Dataset
	result   *pipeline.LoadResult
	loaded   bool
	loadTime time.Duration
	fatalErr error

	// Current view state
	params    view.Params
	paramsSeq uint64
	payload   view.Payload
	buildErr  error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	scroll    int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues // shared with the form across model copies
	needSetup bool

	// Loading: channel-based stage subscription
	spinner spinner.Model
	stage   string
	stageN  int
	loadSub chan tea.Msg

	opts Options
}

// loadStages is the number of stages the loader reports, for the progress bar.
const loadStages = 3

const (
	minTerminalWidth = 80
	maxContentWidth  = 180

	// Scroll navigation
	scrollOverhead    = 6 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1
	minContentHeight  = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	needSetup := !opts.SkipSetup && !config.Exists()
	cfg, _ := config.Load()
	vals := SetupValuesFrom(cfg)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:      opts,
		needSetup: needSetup,
		setupVals: &vals,
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Err returns the fatal load error, if the dashboard quit because of one.
func (a App) Err() error {
	return a.fatalErr
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.DataFile, a.opts.UseCache, a.loadSub),
		a.spinner.Tick,
	)
}

// changeParams records p as the current selector state and emits the event
// that rebuilds the view from it. Key handlers read a.params, so it must
// never lag behind a pending change.
func (a *App) changeParams(p view.Params) tea.Cmd {
	a.params = p
	a.paramsSeq++
	seq := a.paramsSeq
	return func() tea.Msg {
		return ViewParamsChangedMsg{Params: p, Seq: seq}
	}
}

func (a *App) rebuild() {
	a.payload, a.buildErr = view.Build(a.ds, a.params)
	if a.buildErr == nil {
		a.params = a.payload.Params
	}
}

func (a App) selectTab(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(components.Tabs) || idx == a.activeTab {
		return a, nil
	}
	a.activeTab = idx
	a.scroll = 0
	p := a.params
	p.View = components.Tabs[idx].View
	cmd := a.changeParams(p)
	return a, cmd
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scroll = max(0, a.scroll-1)
			return a, nil
		case tea.MouseButtonWheelDown:
			a.scroll++
			return a, nil
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				return a.selectTab(a.tabAtX(msg.X))
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.fatalErr = msg.Err
			return a, tea.Quit
		}
		a.result = msg.Result
		a.ds = msg.Result.Dataset
		a.loaded = true

		p := view.DefaultParams(a.ds)
		p.TopN = a.opts.TopN
		a.params = p
		a.rebuild()

		if a.needSetup {
			a.setupForm = NewSetupForm(a.ds.Len(), a.result.File.Path, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case StageMsg:
		a.stage = msg.Stage
		a.stageN++
		return a, waitForLoadMsg(a.loadSub)

	case ViewParamsChangedMsg:
		if msg.Seq != a.paramsSeq {
			return a, nil
		}
		a.params = msg.Params
		a.rebuild()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	// Dynamic tab selectors
	if components.Tabs[a.activeTab].View == view.Dynamic {
		cols := a.ds.NumericColumns()
		p := a.params
		p.View = view.Dynamic
		switch key {
		case "c":
			p.Category = p.Category.Next()
		case "C":
			p.Category = p.Category.Prev()
		case "x":
			p.XField = view.CycleField(cols, p.XField, 1)
		case "X":
			p.XField = view.CycleField(cols, p.XField, -1)
		case "y":
			p.YField = view.CycleField(cols, p.YField, 1)
		case "Y":
			p.YField = view.CycleField(cols, p.YField, -1)
		}
		if p != a.params {
			a.scroll = 0
			cmd := a.changeParams(p)
			return a, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left":
		return a.selectTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		return a.selectTab((a.activeTab + 1) % len(components.Tabs))
	case "j", "down":
		a.scroll++
	case "k", "up":
		a.scroll = max(0, a.scroll-1)
	case "g":
		a.scroll = 0
	case "ctrl+d":
		a.scroll += max(minHalfPageScroll, (a.height-scrollOverhead)/2)
	case "ctrl+u":
		a.scroll = max(0, a.scroll-max(minHalfPageScroll, (a.height-scrollOverhead)/2))
	default:
		if r := []rune(key); len(r) == 1 {
			return a.selectTab(components.TabIdxByKey(r[0]))
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		p := a.params
		if err := a.saveSetupConfig(); err == nil {
			p.TopN = a.setupVals.TopN
		}
		a.needSetup = false
		a.setupForm = nil
		cmd := a.changeParams(p)
		return a, cmd
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budgetdash needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ budgetdash"))
	b.WriteString(subtitleStyle.Render(" · Union Budget 2023-24"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())

	stage := a.stage
	if stage == "" {
		stage = "starting"
	}
	b.WriteString(subtitleStyle.Render(" " + strings.ToUpper(stage[:1]) + stage[1:] + "..."))
	b.WriteString("\n\n")
	barW := max(20, min(40, a.width-30))
	b.WriteString(components.ProgressBar(float64(a.stageN)/loadStages, barW))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o i v d", "Jump to view"},
			{"← →", "Previous / Next view"},
			{"j k", "Scroll"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Dynamic Analysis", []struct{ key, desc string }{
			{"c C", "Next / Previous category"},
			{"x X", "Cycle X axis"},
			{"y Y", "Cycle Y axis"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderSelectorLine(w)

	statusBar := components.RenderStatusBar(w, components.Status{
		Source:   a.ds.Source(),
		Records:  a.ds.Len(),
		Issues:   len(a.ds.Issues()),
		LoadTime: fmt.Sprintf("%.2fs", a.loadTime.Seconds()),
		CacheHit: a.result != nil && a.result.CacheHit,
	})

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	if a.buildErr != nil {
		content = components.Notice(a.buildErr.Error())
	} else {
		switch a.payload.Params.View {
		case view.Overview:
			content = a.renderOverviewTab(cw)
		case view.Insights:
			content = a.renderInsightsTab(cw)
		case view.Visualizations:
			content = a.renderVisualizationsTab(cw)
		case view.Dynamic:
			content = a.renderDynamicTab(cw)
		}
	}

	content = scrollLines(content, a.scroll, contentH)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderSelectorLine shows the selector state of the active view.
func (a App) renderSelectorLine(w int) string {
	t := theme.Active
	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	p := a.params
	var s string
	switch p.View {
	case view.Dynamic:
		s = pill.Render(" category ") + lipgloss.NewStyle().
			Foreground(t.CategoryColor(p.Category)).Background(t.Surface).Bold(true).Render(string(p.Category)) +
			pill.Render(" │ x ") + accent.Render(p.XField) +
			pill.Render(" │ y ") + accent.Render(p.YField)
	case view.Insights:
		s = pill.Render(" top ") + accent.Render(fmt.Sprintf("%d", p.TopN))
	default:
		s = pill.Render(" " + p.View.Title())
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(s)
}

// ─── Loading ────────────────────────────────────────────────────

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams StageMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(path string, useCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so the loader never stalls on the UI.
			progressFn := func(stage string) {
				select {
				case sub <- StageMsg{Stage: stage}:
				default:
				}
			}

			if useCache {
				if cache, err := store.Open(pipeline.CachePath()); err == nil {
					res, loadErr := pipeline.LoadWithCache(path, cache, progressFn)
					_ = cache.Close()
					sub <- DataLoadedMsg{Result: res, Err: loadErr, LoadTime: time.Since(start)}
					return
				}
			}

			res, err := pipeline.Load(path, progressFn)
			sub <- DataLoadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
		}()

		// Block until the first message (either StageMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// scrollLines drops the first offset lines, clamped so the last screen of
// content stays visible.
func scrollLines(s string, offset, height int) string {
	lines := strings.Split(s, "\n")
	maxOffset := max(0, len(lines)-height)
	offset = max(0, min(offset, maxOffset))
	return strings.Join(lines[offset:], "\n")
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
