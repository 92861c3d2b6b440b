// Package seo drives the streaming SEO analysis workflow: resolve sitemaps,
// generate prompts, then run one analysis session over the persistent socket
// while progress streams in.
package seo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/braidai/braid-tui/internal/client"
	"github.com/braidai/braid-tui/internal/log"
	"github.com/braidai/braid-tui/internal/theme"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

const (
	gaugeWidth = 32
	frameRate  = 30
	logTail    = 8
)

// Phase is the analysis workflow state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseGenerating
	PhaseRunning
	PhaseComplete
	PhaseFailed
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseGenerating:
		return "generating"
	case PhaseRunning:
		return "running"
	case PhaseComplete:
		return "complete"
	case PhaseFailed:
		return "failed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// SiteRow is one site in the run: yours first, competitors after.
type SiteRow struct {
	URL     string
	Status  string // "", "found", "not_found", "manual"
	Sitemap *string
}

// --- Bubble Tea messages ---

// SitemapsValidatedMsg carries /validate-sitemaps results.
type SitemapsValidatedMsg struct {
	Results []client.SitemapResult
	Err     error
}

// PromptsGeneratedMsg carries /generate-prompts results.
type PromptsGeneratedMsg struct {
	Prompts client.PromptSet
	Err     error
}

// SessionOpenedMsg reports the outcome of dialing the analysis socket.
type SessionOpenedMsg struct {
	Session *client.AnalysisSession
	Err     error
}

// SessionEventMsg delivers one event from the open session. OK is false once
// the event channel has closed.
type SessionEventMsg struct {
	Event client.SessionEvent
	OK    bool
}

// FrameMsg ticks the progress gauge animation.
type FrameMsg time.Time

// Input focus targets.
const (
	focusNone = iota - 1
	focusSite
	focusCompetitors
	focusSitemap
)

// Model is the SEO panel state.
type Model struct {
	Width  int
	Height int

	http           *client.HTTPClient
	wsURL          string
	maxCompetitors int

	siteInput    textinput.Model
	compInput    textinput.Model
	sitemapInput textinput.Model
	focus        int

	sites    []SiteRow
	selected int
	prompts  client.PromptSet

	phase   Phase
	session *client.AnalysisSession
	spin    spinner.Model

	spring      harmonica.Spring
	gaugePos    float64
	gaugeVel    float64
	gaugeTarget float64

	tail    []string
	Report  *client.Report
	errLine string
}

// New creates the SEO panel.
func New(httpClient *client.HTTPClient, wsURL string, maxCompetitors int) Model {
	site := textinput.New()
	site.Placeholder = "https://yoursite.com"
	site.CharLimit = 256

	comp := textinput.New()
	comp.Placeholder = "https://rival-a.com, https://rival-b.com"
	comp.CharLimit = 512

	sitemap := textinput.New()
	sitemap.Placeholder = "https://yoursite.com/sitemap.xml"
	sitemap.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		http:           httpClient,
		wsURL:          wsURL,
		maxCompetitors: maxCompetitors,
		siteInput:      site,
		compInput:      comp,
		sitemapInput:   sitemap,
		focus:          focusNone,
		sites:          []SiteRow{{}},
		spin:           sp,
		spring:         harmonica.NewSpring(harmonica.FPS(frameRate), 5.0, 0.9),
	}
}

// Phase returns the current workflow phase.
func (m Model) Phase() Phase { return m.phase }

// Busy reports whether a backend call or session is in flight. While busy the
// run action stays disabled: one session at a time.
func (m Model) Busy() bool {
	return m.phase == PhaseValidating || m.phase == PhaseGenerating || m.phase == PhaseRunning
}

// Editing reports whether a text input has focus.
func (m Model) Editing() bool { return m.focus != focusNone }

// Update handles messages for the SEO panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case FrameMsg:
		m.gaugePos, m.gaugeVel = m.spring.Update(m.gaugePos, m.gaugeVel, m.gaugeTarget)
		if m.phase == PhaseRunning || m.gaugeTarget-m.gaugePos > 0.01 {
			return m, frameCmd()
		}
		return m, nil

	case SitemapsValidatedMsg:
		if m.phase == PhaseValidating {
			m.phase = PhaseIdle
		}
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		byURL := make(map[string]client.SitemapResult, len(msg.Results))
		for _, r := range msg.Results {
			byURL[r.URL] = r
		}
		for i := range m.sites {
			if r, ok := byURL[m.sites[i].URL]; ok {
				m.sites[i].Status = r.Status
				m.sites[i].Sitemap = r.SitemapURL
			}
		}
		return m, nil

	case PromptsGeneratedMsg:
		if m.phase == PhaseGenerating {
			m.phase = PhaseIdle
		}
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.prompts = msg.Prompts
		return m, nil

	case SessionOpenedMsg:
		if msg.Err != nil {
			m.phase = PhaseFailed
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.session = msg.Session
		m.phase = PhaseRunning
		m.tail = nil
		m.gaugePos, m.gaugeVel, m.gaugeTarget = 0, 0, 0.05
		return m, tea.Batch(waitEventCmd(m.session), frameCmd(), m.spin.Tick)

	case SessionEventMsg:
		return m.handleSessionEvent(msg)
	}

	return m, nil
}

func (m Model) handleSessionEvent(msg SessionEventMsg) (Model, tea.Cmd) {
	if !msg.OK {
		// Channel closed. Terminal events already moved the phase; a close
		// while still "running" means the run was abandoned.
		m.session = nil
		if m.phase == PhaseRunning {
			m.phase = PhaseCancelled
		}
		return m, nil
	}

	switch ev := msg.Event.(type) {
	case client.ProgressEvent:
		m.tail = append(m.tail, ev.Log)
		if len(m.tail) > logTail {
			m.tail = m.tail[len(m.tail)-logTail:]
		}
		// Creep toward full: each progress line closes half the gap.
		m.gaugeTarget += (0.9 - m.gaugeTarget) / 2

	case client.ReportEvent:
		m.phase = PhaseComplete
		m.gaugeTarget = 1
		r := ev.Report
		m.Report = &r
		log.WithField("report", r.ReportTitle).Info("analysis complete")

	case client.FailureEvent:
		m.phase = PhaseFailed
		m.errLine = ev.Message
		log.WithField("kind", ev.Kind.String()).Warn("analysis failed")
	}

	if m.session == nil {
		return m, nil
	}
	return m, waitEventCmd(m.session)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.focus != focusNone {
		return m.handleEditKey(msg)
	}

	switch msg.String() {
	case "s":
		m.focus = focusSite
		m.siteInput.SetValue(m.sites[0].URL)
		return m, m.siteInput.Focus()

	case "c":
		m.focus = focusCompetitors
		var urls []string
		for _, row := range m.sites[1:] {
			urls = append(urls, row.URL)
		}
		m.compInput.SetValue(strings.Join(urls, ", "))
		return m, m.compInput.Focus()

	case "m":
		if m.sites[m.selected].URL == "" {
			return m, nil
		}
		m.focus = focusSitemap
		if sm := m.sites[m.selected].Sitemap; sm != nil {
			m.sitemapInput.SetValue(*sm)
		} else {
			m.sitemapInput.SetValue("")
		}
		return m, m.sitemapInput.Focus()

	case "j", "down":
		if m.selected < len(m.sites)-1 {
			m.selected++
		}
		return m, nil

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "v":
		if m.Busy() || m.sites[0].URL == "" {
			return m, nil
		}
		m.phase = PhaseValidating
		return m, tea.Batch(m.validateCmd(), m.spin.Tick)

	case "g":
		if m.Busy() || m.sites[0].URL == "" {
			return m, nil
		}
		m.phase = PhaseGenerating
		return m, tea.Batch(m.promptsCmd(), m.spin.Tick)

	case "r", "enter":
		if m.Busy() || m.sites[0].URL == "" {
			return m, nil
		}
		return m, m.openSessionCmd()

	case "x":
		if m.phase == PhaseRunning && m.session != nil {
			m.session.Cancel()
			m.phase = PhaseCancelled
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.blur()
		return m, nil
	case "enter":
		m.commitEdit()
		m.blur()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusSite:
		m.siteInput, cmd = m.siteInput.Update(msg)
	case focusCompetitors:
		m.compInput, cmd = m.compInput.Update(msg)
	case focusSitemap:
		m.sitemapInput, cmd = m.sitemapInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) blur() {
	m.siteInput.Blur()
	m.compInput.Blur()
	m.sitemapInput.Blur()
	m.focus = focusNone
}

func (m *Model) commitEdit() {
	switch m.focus {
	case focusSite:
		url := strings.TrimSpace(m.siteInput.Value())
		m.sites[0] = SiteRow{URL: url}

	case focusCompetitors:
		rows := []SiteRow{m.sites[0]}
		for _, part := range strings.Split(m.compInput.Value(), ",") {
			url := strings.TrimSpace(part)
			if url == "" {
				continue
			}
			rows = append(rows, SiteRow{URL: url})
			if len(rows)-1 == m.maxCompetitors {
				break
			}
		}
		m.sites = rows
		if m.selected >= len(m.sites) {
			m.selected = len(m.sites) - 1
		}

	case focusSitemap:
		sm := strings.TrimSpace(m.sitemapInput.Value())
		if sm == "" {
			m.sites[m.selected].Sitemap = nil
			m.sites[m.selected].Status = ""
		} else {
			m.sites[m.selected].Sitemap = &sm
			m.sites[m.selected].Status = "manual"
		}
	}
}

// --- Commands ---

func (m Model) validateCmd() tea.Cmd {
	urls := make([]string, 0, len(m.sites))
	for _, row := range m.sites {
		if row.URL != "" {
			urls = append(urls, row.URL)
		}
	}
	httpClient := m.http
	return func() tea.Msg {
		results, err := httpClient.ValidateSitemaps(urls)
		return SitemapsValidatedMsg{Results: results, Err: err}
	}
}

func (m Model) promptsCmd() tea.Cmd {
	site := m.sites[0].URL
	var competitors []string
	for _, row := range m.sites[1:] {
		competitors = append(competitors, row.URL)
	}
	httpClient := m.http
	return func() tea.Msg {
		prompts, err := httpClient.GeneratePrompts(site, competitors)
		return PromptsGeneratedMsg{Prompts: prompts, Err: err}
	}
}

func (m Model) openSessionCmd() tea.Cmd {
	req := m.buildRequest()
	wsURL := m.wsURL
	return func() tea.Msg {
		s, err := client.OpenAnalysisSession(context.Background(), wsURL, req)
		return SessionOpenedMsg{Session: s, Err: err}
	}
}

func (m Model) buildRequest() client.AnalysisRequest {
	req := client.AnalysisRequest{
		YourSite: client.Site{URL: m.sites[0].URL, Sitemap: m.sites[0].Sitemap},
		Prompts:  m.prompts,
	}
	for _, row := range m.sites[1:] {
		req.Competitors = append(req.Competitors, client.Site{URL: row.URL, Sitemap: row.Sitemap})
	}
	return req
}

// waitEventCmd pumps the next session event into the program. It re-arms
// after every event until the channel closes.
func waitEventCmd(s *client.AnalysisSession) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-s.Events()
		return SessionEventMsg{Event: ev, OK: ok}
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// --- View ---

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorSEO)
	stylePanel = lipgloss.NewStyle().Padding(0, 1)
)

// View renders the SEO panel.
func (m Model) View() string {
	var b []string
	b = append(b, styleTitle.Render("SEO ANALYSIS"))
	b = append(b, "")
	b = append(b, m.renderSites()...)
	b = append(b, "")
	b = append(b, m.renderPrompts())
	b = append(b, "")
	b = append(b, m.renderRun()...)

	if m.errLine != "" {
		b = append(b, "", theme.StyleError.Render(m.errLine))
	}

	b = append(b, "", theme.StyleDimmed.Render(m.helpLine()))
	return stylePanel.Render(lipgloss.JoinVertical(lipgloss.Left, b...))
}

func (m Model) renderSites() []string {
	var lines []string
	for i, row := range m.sites {
		label := "competitor"
		if i == 0 {
			label = "your site "
		}
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		url := row.URL
		if url == "" {
			url = theme.StyleDimmed.Render("(not set)")
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s %s", cursor, theme.StyleDimmed.Render(label), url, theme.SitemapBadge(row.Status)))
	}

	switch m.focus {
	case focusSite:
		lines = append(lines, "  "+m.siteInput.View())
	case focusCompetitors:
		lines = append(lines, "  "+m.compInput.View())
	case focusSitemap:
		lines = append(lines, "  sitemap: "+m.sitemapInput.View())
	}
	return lines
}

func (m Model) renderPrompts() string {
	if m.prompts == nil {
		return theme.StyleDimmed.Render("prompts: none yet (press g to generate)")
	}
	total := 0
	for _, list := range m.prompts {
		total += len(list)
	}
	return fmt.Sprintf("prompts: %d across %d categories", total, len(m.prompts))
}

func (m Model) renderRun() []string {
	var lines []string

	statusStyle := lipgloss.NewStyle().Foreground(theme.PhaseColor(m.phase.String()))
	status := statusStyle.Render(theme.PhaseGlyph(m.phase.String()) + " " + m.phase.String())
	if m.Busy() {
		status = m.spin.View() + " " + status
	}
	lines = append(lines, status)

	if m.phase == PhaseRunning || m.phase == PhaseComplete {
		lines = append(lines, m.renderGauge())
	}
	for _, l := range m.tail {
		lines = append(lines, theme.StyleDimmed.Render("  "+l))
	}
	if m.phase == PhaseComplete && m.Report != nil {
		lines = append(lines, theme.StyleHeader.Render("  "+m.Report.ReportTitle)+theme.StyleDimmed.Render("  (press o to open)"))
	}
	return lines
}

func (m Model) renderGauge() string {
	pos := m.gaugePos
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	filled := int(pos * gaugeWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", gaugeWidth-filled)
	return lipgloss.NewStyle().Foreground(theme.ColorSEO).Render(bar)
}

func (m Model) helpLine() string {
	if m.Editing() {
		return "enter:save  esc:discard"
	}
	if m.phase == PhaseRunning {
		return "x:cancel  o:report  l:activity"
	}
	return "s:site  c:competitors  m:manual sitemap  v:validate  g:prompts  r:run  j/k:select"
}
