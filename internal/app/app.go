// Package app hosts the root Bubble Tea model: tab navigation between the
// four panels, the activity and report overlays, and routing of backend
// messages to the views that own them.
package app

import (
	"fmt"
	"net/url"

	"github.com/braidai/braid-tui/internal/client"
	"github.com/braidai/braid-tui/internal/config"
	"github.com/braidai/braid-tui/internal/theme"
	"github.com/braidai/braid-tui/internal/views/brand"
	"github.com/braidai/braid-tui/internal/views/creative"
	"github.com/braidai/braid-tui/internal/views/data"
	"github.com/braidai/braid-tui/internal/views/report"
	"github.com/braidai/braid-tui/internal/views/runlog"
	"github.com/braidai/braid-tui/internal/views/seo"
	"github.com/braidai/braid-tui/internal/views/statusbar"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tab identifies the active panel.
type Tab int

const (
	TabData Tab = iota
	TabSEO
	TabCreative
	TabBrand
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabData:
		return "data"
	case TabSEO:
		return "seo"
	case TabCreative:
		return "creative"
	case TabBrand:
		return "brand"
	default:
		return "?"
	}
}

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayReport
	OverlayActivity
)

// Model is the root Bubble Tea model.
type Model struct {
	keys   KeyMap
	width  int
	height int

	activeTab Tab
	overlay   Overlay

	statusBar statusbar.Model
	activity  runlog.Model
	reportBox report.Model

	dataView     data.Model
	seoView      seo.Model
	creativeView creative.Model
	brandView    brand.Model
}

// New creates the root model from configuration.
func New(cfg *config.Config) Model {
	httpClient := client.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout)

	bar := statusbar.New(backendHost(cfg.Backend.BaseURL))
	bar.Tab = TabData.String()

	return Model{
		keys:         DefaultKeyMap(),
		statusBar:    bar,
		activity:     runlog.New(),
		reportBox:    report.New(),
		dataView:     data.New(httpClient, cfg.Datasets),
		seoView:      seo.New(httpClient, cfg.AnalysisSocketURL(), cfg.SEO.MaxCompetitors),
		creativeView: creative.New(httpClient),
		brandView:    brand.New(httpClient),
	}
}

func backendHost(baseURL string) string {
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return baseURL
}

// Init starts the program.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.reportBox.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		return m.forwardToAll(msg)

	// SEO workflow messages arrive regardless of the active tab: the session
	// keeps streaming while the user looks elsewhere.
	case seo.SitemapsValidatedMsg:
		if msg.Err != nil {
			m.activity.Add("err", msg.Err.Error())
		} else {
			m.activity.Add("http", fmt.Sprintf("validated %d sitemaps", len(msg.Results)))
		}
		return m.forwardToSEO(msg)

	case seo.PromptsGeneratedMsg:
		if msg.Err != nil {
			m.activity.Add("err", msg.Err.Error())
		} else {
			m.activity.Add("http", fmt.Sprintf("received prompts for %d categories", len(msg.Prompts)))
		}
		return m.forwardToSEO(msg)

	case seo.SessionOpenedMsg:
		if msg.Err != nil {
			m.activity.Add("err", msg.Err.Error())
		} else {
			m.activity.Add("run", "analysis session opened")
		}
		return m.forwardToSEO(msg)

	case seo.SessionEventMsg:
		m.logSessionEvent(msg)
		return m.forwardToSEO(msg)

	case seo.FrameMsg:
		return m.forwardToSEO(msg)

	case data.PreviewMsg, data.AnalysisMsg, data.FollowUpMsg,
		data.MMMTrainedMsg, data.MMMStatusMsg, data.PollTickMsg:
		var cmd tea.Cmd
		m.dataView, cmd = m.dataView.Update(msg)
		return m, cmd

	case creative.GeneratedMsg, creative.SavedMsg:
		var cmd tea.Cmd
		m.creativeView, cmd = m.creativeView.Update(msg)
		return m, cmd

	case brand.AnalyzedMsg, brand.AssetsMsg, brand.CopyMsg:
		var cmd tea.Cmd
		m.brandView, cmd = m.brandView.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) logSessionEvent(msg seo.SessionEventMsg) {
	if !msg.OK {
		m.activity.Add("run", "session closed")
		return
	}
	switch ev := msg.Event.(type) {
	case client.ProgressEvent:
		m.activity.Add("run", ev.Log)
	case client.ReportEvent:
		m.activity.Add("run", "report ready: "+ev.Report.ReportTitle)
	case client.FailureEvent:
		m.activity.Add("err", fmt.Sprintf("%s failure: %s", ev.Kind, ev.Message))
	}
}

func (m Model) forwardToSEO(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.seoView, cmd = m.seoView.Update(msg)
	m.syncStatus()
	return m, cmd
}

// forwardToAll fans a message out to every panel; spinner ticks carry an ID
// so only the owning spinner reacts.
func (m Model) forwardToAll(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.dataView, cmd = m.dataView.Update(msg)
	cmds = append(cmds, cmd)
	m.seoView, cmd = m.seoView.Update(msg)
	cmds = append(cmds, cmd)
	m.creativeView, cmd = m.creativeView.Update(msg)
	cmds = append(cmds, cmd)
	m.brandView, cmd = m.brandView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c quits from anywhere, even mid-edit.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.overlay != OverlayNone {
		return m.handleOverlayKey(msg)
	}

	if m.activeViewEditing() {
		return m.forwardToActive(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		m.activeTab = (m.activeTab + 1) % tabCount
		m.syncStatus()
		return m, nil

	case key.Matches(msg, m.keys.TabData):
		m.activeTab = TabData
		m.syncStatus()
		return m, nil

	case key.Matches(msg, m.keys.TabSEO):
		m.activeTab = TabSEO
		m.syncStatus()
		return m, nil

	case key.Matches(msg, m.keys.TabCreat):
		m.activeTab = TabCreative
		m.syncStatus()
		return m, nil

	case key.Matches(msg, m.keys.TabBrand):
		m.activeTab = TabBrand
		m.syncStatus()
		return m, nil

	case key.Matches(msg, m.keys.Report):
		if m.seoView.Report != nil {
			m.reportBox.SetReport(*m.seoView.Report)
			m.overlay = OverlayReport
		}
		return m, nil

	case key.Matches(msg, m.keys.Activity):
		m.overlay = OverlayActivity
		return m, nil
	}

	return m.forwardToActive(msg)
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.overlay = OverlayNone
	case "j", "down":
		if m.overlay == OverlayActivity {
			m.activity.ScrollDown(1)
		} else {
			m.reportBox.ScrollDown(1)
		}
	case "k", "up":
		if m.overlay == OverlayActivity {
			m.activity.ScrollUp(1)
		} else {
			m.reportBox.ScrollUp(1)
		}
	}
	return m, nil
}

func (m Model) activeViewEditing() bool {
	switch m.activeTab {
	case TabData:
		return m.dataView.Editing()
	case TabSEO:
		return m.seoView.Editing()
	case TabCreative:
		return m.creativeView.Editing()
	case TabBrand:
		return m.brandView.Editing()
	}
	return false
}

func (m Model) forwardToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabData:
		m.dataView, cmd = m.dataView.Update(msg)
	case TabSEO:
		m.seoView, cmd = m.seoView.Update(msg)
		m.syncStatus()
	case TabCreative:
		m.creativeView, cmd = m.creativeView.Update(msg)
	case TabBrand:
		m.brandView, cmd = m.brandView.Update(msg)
	}
	return m, cmd
}

func (m *Model) syncStatus() {
	m.statusBar.Tab = m.activeTab.String()
	m.statusBar.Phase = m.seoView.Phase().String()
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	switch m.overlay {
	case OverlayActivity:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.statusBar.View(),
			m.activity.View(m.width, m.height-2),
		)
	case OverlayReport:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.statusBar.View(),
			m.reportBox.View(),
		)
	}

	body := ""
	switch m.activeTab {
	case TabData:
		body = m.dataView.View()
	case TabSEO:
		body = m.seoView.View()
	case TabCreative:
		body = m.creativeView.View()
	case TabBrand:
		body = m.brandView.View()
	}

	footer := theme.StyleDimmed.Render("  1:data  2:seo  3:creative  4:brand  l:activity  o:report  q:quit")
	return lipgloss.JoinVertical(lipgloss.Left, m.statusBar.View(), body, footer)
}
