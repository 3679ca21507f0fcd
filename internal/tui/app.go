// Package tui provides the interactive Bubble Tea report browser for adburn.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/config"
	"github.com/theirongolddev/adburn/internal/store"
	"github.com/theirongolddev/adburn/internal/tui/components"
	"github.com/theirongolddev/adburn/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabCampaigns
	tabTrends
	tabAudience
	tabExecutive
	tabRuns
)

// DataLoadedMsg is sent when the report tables have been read.
type DataLoadedMsg struct {
	Data *Data
	Err  error
}

// RunFinishedMsg is sent when a report run started from the browser ends.
type RunFinishedMsg struct {
	Run store.Run
	Err error
}

// Options configures the browser.
type Options struct {
	Source Source
	Preset string
	// Run executes a full report run. The run action is disabled when nil.
	Run func(ctx context.Context) (store.Run, error)
}

// App is the root Bubble Tea model.
type App struct {
	opts Options
	loc  cli.Locale

	// Data
	data    *Data
	loaded  bool
	loadErr error

	// Run state
	running bool
	message string
	cancel  context.CancelFunc

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	preset    string
	scroll    int

	campaigns table.Model

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	// Scroll navigation
	scrollOverhead    = 6 // tab bar + status bar + margins
	minHalfPageScroll = 1
	minContentHeight  = 5
)

// NewApp creates a new browser model.
func NewApp(opts Options) App {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		opts:      opts,
		loc:       opts.Source.Locale,
		preset:    opts.Preset,
		needSetup: !config.Exists(),
		spinner:   sp,
		campaigns: newCampaignTable(),
	}
	if a.needSetup {
		a.setupVals = SetupValuesFrom(cfg)
		a.setupForm = NewSetupForm(&a.setupVals, cfg.Graph.AccessToken != "")
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.Source),
		a.spinner.Tick,
	}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
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
		a.resizeCampaignTable()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupActive() {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a = a.scrollBy(-1)
		case tea.MouseButtonWheelDown:
			a = a.scrollBy(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a = a.switchTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if a.cancel != nil {
				a.cancel()
			}
			return a, tea.Quit
		}
		if a.setupActive() {
			return a.updateSetupForm(msg)
		}
		if !a.loaded {
			return a, nil
		}
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.data = msg.Data
			a.campaigns.SetRows(campaignRows(a.data.Campaigns.Rows, a.loc))
			a.resizeCampaignTable()
		}
		return a, nil

	case RunFinishedMsg:
		a.running = false
		a.cancel = nil
		switch {
		case msg.Err != nil:
			a.message = "run failed: " + msg.Err.Error()
		default:
			a.message = fmt.Sprintf("run finished: %d/%d reports", msg.Run.Succeeded, msg.Run.Total)
		}
		return a, loadDataCmd(a.opts.Source)

	case spinner.TickMsg:
		if !a.loaded || a.running {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupActive() {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		if a.cancel != nil {
			a.cancel()
		}
		return a, tea.Quit
	case "r":
		if a.running {
			return a, nil
		}
		a.message = "reloaded"
		return a, loadDataCmd(a.opts.Source)
	case "x":
		if a.running || a.opts.Run == nil {
			return a, nil
		}
		ctx, cancel := context.WithCancel(context.Background())
		a.running = true
		a.cancel = cancel
		a.message = ""
		return a, tea.Batch(runCmd(ctx, a.opts.Run), a.spinner.Tick)
	case "left", "shift+tab":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)), nil
	case "right", "tab":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs)), nil
	}

	// The campaign table owns the list keys.
	if a.activeTab == tabCampaigns {
		switch key {
		case "j", "k", "up", "down", "g", "G", "home", "end", "pgup", "pgdown", "ctrl+d", "ctrl+u":
			var cmd tea.Cmd
			a.campaigns, cmd = a.campaigns.Update(msg)
			return a, cmd
		}
	}

	switch key {
	case "j", "down":
		return a.scrollBy(1), nil
	case "k", "up":
		return a.scrollBy(-1), nil
	case "ctrl+d":
		return a.scrollBy(a.halfPage()), nil
	case "ctrl+u":
		return a.scrollBy(-a.halfPage()), nil
	case "g":
		a.scroll = 0
		return a, nil
	}

	if len(key) == 1 {
		if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
			return a.switchTab(tab), nil
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
		if err := a.saveSetupConfig(); err != nil {
			a.message = "config not saved: " + err.Error()
		} else {
			a.message = "config saved to " + config.ConfigPath()
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) setupActive() bool {
	return a.needSetup && a.setupForm != nil
}

func (a App) switchTab(tab int) App {
	if tab != a.activeTab {
		a.activeTab = tab
		a.scroll = 0
	}
	return a
}

func (a App) scrollBy(n int) App {
	a.scroll = max(0, a.scroll+n)
	return a
}

func (a App) halfPage() int {
	return max(minHalfPageScroll, (a.height-scrollOverhead)/2)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupActive() {
		return a.setupForm.View()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  adburn needs at least %d columns.\n",
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

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ adburn"))
	b.WriteString(subtitleStyle.Render(" · Ads Insights"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Reading report tables..."))

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
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o c t a e h", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move in campaign list / scroll"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"r", "Reload report tables"},
			{"x", "Run all reports now"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-12s", bind.key)),
				descStyle.Render(bind.desc))
		}
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
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	status := components.Status{Preset: a.preset, Running: a.running, Message: a.message}
	if a.data != nil {
		status.Loaded = a.data.LoadedAt.Format("15:04:05")
		status.Sample = a.data.Dashboard.AnySample() || a.data.Executive.AnySample()
	}
	if a.running {
		status.Message = a.spinner.View()
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch {
	case a.loadErr != nil:
		content = a.renderError(cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabCampaigns:
		content = a.renderCampaignsTab(cw)
	case a.activeTab == tabTrends:
		content = a.renderTrendsTab(cw)
	case a.activeTab == tabAudience:
		content = a.renderAudienceTab(cw)
	case a.activeTab == tabExecutive:
		content = a.renderExecutiveTab(cw)
	case a.activeTab == tabRuns:
		content = a.renderRunsTab(cw)
	}

	content = padHeight(truncateHeight(scrollLines(content, a.scroll), contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderError(cw int) string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	body := errStyle.Render(a.loadErr.Error()) + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("Press r to retry or x to run the reports.")
	return components.ContentCard("Could not load reports", body, cw)
}

// ─── Commands ───────────────────────────────────────────────────

func loadDataCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		d, err := Load(src)
		return DataLoadedMsg{Data: d, Err: err}
	}
}

func runCmd(ctx context.Context, run func(context.Context) (store.Run, error)) tea.Cmd {
	return func() tea.Msg {
		r, err := run(ctx)
		return RunFinishedMsg{Run: r, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func scrollLines(s string, offset int) string {
	if offset <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	offset = min(offset, max(0, len(lines)-1))
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
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

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

func sinceLabel(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
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
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
