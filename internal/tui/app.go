// Package tui provides the interactive Bubble Tea dashboard for kepatuhan.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/kepatuhan/internal/config"
	"github.com/theirongolddev/kepatuhan/internal/model"
	"github.com/theirongolddev/kepatuhan/internal/pipeline"
	"github.com/theirongolddev/kepatuhan/internal/store"
	"github.com/theirongolddev/kepatuhan/internal/tui/components"
	"github.com/theirongolddev/kepatuhan/internal/tui/theme"
)

// Options selects the dataset and the initial report shown by the dashboard.
type Options struct {
	Path     string
	Sheet    string
	Category model.TaxCategory
	Year     int
	Scope    model.FilterScope
	TopN     int
	UseCache bool
}

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// ReloadedMsg is sent when a background reload completes.
type ReloadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	dataset    *model.Dataset
	fileErrors int
	loaded     bool
	loadErr    error
	loadTime   time.Duration
	reloading  bool

	// Report for the current year and scope
	year      int
	scope     model.FilterScope
	topN      int
	choices   pipeline.FilterChoices
	report    *model.Report
	reportErr error
	details   table.Model

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5

	minYear = 2000
	maxYear = 2100
	maxTopN = 50
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if opts.TopN <= 0 {
		opts.TopN = pipeline.DefaultTopN
	}

	return App{
		opts:      opts,
		year:      opts.Year,
		scope:     opts.Scope,
		topN:      opts.TopN,
		needSetup: !config.Exists(),
		details:   newDetailsTable(),
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
	)
}

// recompute rebuilds the report for the current year, scope and top-N.
func (a *App) recompute() {
	if a.dataset == nil {
		a.report = nil
		a.details.SetRows(nil)
		return
	}

	a.choices = pipeline.FilterOptions(a.dataset.Records, a.opts.Category, a.scope)
	a.report, a.reportErr = pipeline.BuildReport(a.dataset, pipeline.Options{
		Category: a.opts.Category,
		Year:     a.year,
		Scope:    a.scope,
		TopN:     a.topN,
	})

	// Rows go first so old rows are never drawn against new columns.
	a.details.SetRows(nil)
	a.details.SetColumns(detailColumns(a.opts.Category))
	a.details.SetRows(detailRows(a.report))
	a.details.GotoTop()
}

// applyScope sets a new filter scope, clearing narrower selections that the
// new scope no longer offers, and rebuilds the report.
func (a *App) applyScope(scope model.FilterScope) {
	if a.dataset == nil {
		return
	}
	choices := pipeline.FilterOptions(a.dataset.Records, a.opts.Category, scope)
	if !containsFold(choices.Classifications, scope.Classification) {
		scope.Classification = ""
		choices = pipeline.FilterOptions(a.dataset.Records, a.opts.Category, scope)
	}
	if !containsFold(choices.Statuses, scope.Status) {
		scope.Status = ""
	}
	a.scope = scope
	a.recompute()
}

// cycleFilter steps one filter dimension through "all" and its choices.
func (a *App) cycleFilter(dim rune, step int) {
	scope := a.scope
	switch dim {
	case 'u':
		scope.Unit = cycle(a.choices.Units, scope.Unit, step)
	case 'k':
		if !a.opts.Category.HasClassification() {
			return
		}
		scope.Classification = cycle(a.choices.Classifications, scope.Classification, step)
	case 's':
		scope.Status = cycle(a.choices.Statuses, scope.Status, step)
	}
	a.applyScope(scope)
}

// cycle returns the value step positions after current in the ring
// ["", options...]. An unknown current value counts as "".
func cycle(options []string, current string, step int) string {
	idx := -1
	for i, o := range options {
		if strings.EqualFold(o, current) {
			idx = i
			break
		}
	}
	n := len(options) + 1
	next := ((idx+1+step)%n+n)%n - 1
	if next < 0 {
		return ""
	}
	return options[next]
}

func containsFold(list []string, s string) bool {
	if s == "" {
		return true
	}
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeDetails()
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabDetails {
				a.details.MoveUp(1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabDetails {
				a.details.MoveDown(1)
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.applyLoad(msg.Result, msg.Err, msg.LoadTime)

		if a.needSetup && a.setupForm == nil {
			a.setupVals = newSetupValues(a.opts, a.year)
			a.setupForm = newSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case ReloadedMsg:
		a.reloading = false
		a.applyLoad(msg.Result, msg.Err, msg.LoadTime)
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
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

// applyLoad installs a load result. A failed reload keeps the previous
// dataset so the dashboard stays usable.
func (a *App) applyLoad(res *pipeline.LoadResult, err error, took time.Duration) {
	a.loadErr = err
	if err != nil {
		return
	}
	a.dataset = res.Dataset
	a.fileErrors = res.FileErrors
	a.loadTime = took
	a.recompute()
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
	if a.setupForm != nil {
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

	if a.activeTab == tabDetails {
		switch key {
		case "up", "down", "pgup", "pgdown", "home", "end", "g", "G", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			a.details, cmd = a.details.Update(msg)
			return a, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if a.reloading {
			return a, nil
		}
		a.reloading = true
		return a, reloadDataCmd(a.opts)
	case "u", "k", "s":
		a.cycleFilter(rune(key[0]), 1)
	case "U", "K", "S":
		a.cycleFilter(rune(strings.ToLower(key)[0]), -1)
	case "c":
		a.applyScope(model.FilterScope{})
	case "y":
		if a.year > minYear {
			a.year--
			a.recompute()
		}
	case "Y":
		if a.year < maxYear {
			a.year++
			a.recompute()
		}
	case "+", "=":
		if a.topN < maxTopN {
			a.topN++
			a.recompute()
		}
	case "-":
		if a.topN > 1 {
			a.topN--
			a.recompute()
		}
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
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
		a.needSetup = false
		a.setupForm = nil
		return a.finishSetup()
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// finishSetup saves the wizard answers and applies them to the running
// dashboard, reloading when the dataset selection changed.
func (a App) finishSetup() (tea.Model, tea.Cmd) {
	cfg, _ := config.Load()
	cfg, err := applySetup(cfg, *a.setupVals)
	if err == nil {
		err = config.Save(cfg)
	}
	if err != nil {
		a.loadErr = fmt.Errorf("saving setup: %w", err)
		return a, nil
	}

	theme.SetActive(cfg.Appearance.Theme)
	a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent)

	category, _ := model.ParseCategory(cfg.General.Category)
	reload := category != a.opts.Category ||
		(cfg.General.DataFile != "" && cfg.General.DataFile != a.opts.Path)

	a.year = cfg.General.Year
	if reload {
		a.opts.Category = category
		if cfg.General.DataFile != "" {
			a.opts.Path = cfg.General.DataFile
		}
		a.scope = model.FilterScope{}
		a.reloading = true
		return a, reloadDataCmd(a.opts)
	}
	a.recompute()
	return a, nil
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
	if a.setupForm != nil {
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
		"\n  Terminal too narrow (%d cols)\n\n  kepatuhan needs at least %d columns.\n",
		a.width, minTerminalWidth,
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
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ kepatuhan"))
	b.WriteString(subtitleStyle.Render(" · " + string(a.opts.Category) + " " + fmt.Sprint(a.year)))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())

	if a.progressMax > 0 {
		barW := min(max(a.width-30, 20), 40)
		b.WriteString(subtitleStyle.Render(" Reading workbooks\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(fmt.Sprintf("%d", a.progress)))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(fmt.Sprintf("%d", a.progressMax)))
	} else {
		b.WriteString(subtitleStyle.Render(" Scanning " + a.opts.Path))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"o t p d", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"u / U", "Next / Previous UPPPD"},
		{"k / K", "Next / Previous KLASIFIKASI"},
		{"s / S", "Next / Previous STATUS"},
		{"c", "Clear filters"},
		{"y / Y", "Previous / Next tax year"},
		{"+ -", "Longer / Shorter top list"},
		{"↑ ↓ g G", "Scroll details"},
		{"r", "Reload workbooks"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderScopeLine(w)
	statusBar := components.RenderStatusBar(w, a.loadTime.Round(time.Millisecond).String(), a.reloading)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.dataset == nil:
		content = a.renderLoadError(cw)
	case a.reportErr != nil:
		content = components.ContentCard("Report", a.reportErr.Error(), cw)
	default:
		switch a.activeTab {
		case tabOverview:
			content = a.renderOverviewTab(cw)
		case tabTrend:
			content = a.renderTrendTab(cw, contentH)
		case tabPayers:
			content = a.renderPayersTab(cw)
		case tabDetails:
			content = a.renderDetailsTab(cw)
		}
		if a.loadErr != nil {
			content = warningLine(cw, "Reload failed, showing previous data: "+a.loadErr.Error()) + "\n" + content
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderScopeLine shows category, year and active filters under the tabs.
func (a App) renderScopeLine(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	parts := []string{
		accent.Render(string(a.opts.Category)),
		accent.Render(fmt.Sprint(a.year)),
	}
	if a.scope.Unit != "" {
		parts = append(parts, dim.Render("UPPPD ")+accent.Render(a.scope.Unit))
	}
	if a.scope.Classification != "" {
		parts = append(parts, dim.Render("KLASIFIKASI ")+accent.Render(a.scope.Classification))
	}
	if a.scope.Status != "" {
		parts = append(parts, dim.Render("STATUS ")+accent.Render(a.scope.Status))
	}
	if a.scope.IsZero() {
		parts = append(parts, dim.Render("all taxpayers"))
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(w).
		Render(dim.Render(" ") + strings.Join(parts, dim.Render(" │ ")))
}

func (a App) renderLoadError(cw int) string {
	msg := "No data loaded."
	if a.loadErr != nil {
		msg = a.loadErr.Error()
	}
	return components.ContentCard("Could not load "+a.opts.Path, msg+"\n\nPress r to retry.", cw)
}

func warningLine(w int, msg string) string {
	t := theme.Active
	return lipgloss.NewStyle().Foreground(t.Orange).Background(t.Background).Width(w).
		Render(" " + truncStr(msg, w-2))
}

// ─── Loading ────────────────────────────────────────────────────

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			res, err := loadDataset(opts, progressFn)
			sub <- DataLoadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// reloadDataCmd reloads in the background without progress UI.
func reloadDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := loadDataset(opts, nil)
		return ReloadedMsg{Result: res, Err: err, LoadTime: time.Since(start)}
	}
}

// loadDataset loads through the parse cache when enabled, falling back to
// a full parse if the cache cannot be used.
func loadDataset(opts Options, progressFn pipeline.ProgressFunc) (*pipeline.LoadResult, error) {
	if opts.UseCache {
		if cache, err := store.Open(pipeline.CachePath()); err == nil {
			cr, loadErr := pipeline.LoadWithCache(opts.Path, opts.Sheet, opts.Category, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				return &cr.LoadResult, nil
			}
		}
	}
	return pipeline.Load(opts.Path, opts.Sheet, opts.Category, progressFn)
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
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

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
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
		pos += tabW + lipgloss.Width(components.TabSeparator)
	}
	return -1
}
