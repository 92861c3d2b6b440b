// Package data is the dataset panel: preview a dataset, run an analysis
// prompt against it, chat through follow-ups, and kick off MMM training.
package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/braidai/braid-tui/internal/client"
	"github.com/braidai/braid-tui/internal/theme"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	cellWidth    = 14
	maxRows      = 5
	pollInterval = 2 * time.Second
)

// --- Bubble Tea messages ---

// PreviewMsg carries a dataset preview.
type PreviewMsg struct {
	Preview *client.DataPreview
	Err     error
}

// AnalysisMsg carries an /analyze response.
type AnalysisMsg struct {
	Report *client.AnalysisReport
	Err    error
}

// FollowUpMsg carries a /follow-up response.
type FollowUpMsg struct {
	Report *client.FollowUpReport
	Err    error
}

// MMMTrainedMsg carries the enqueued training job.
type MMMTrainedMsg struct {
	Job *client.MMMJob
	Err error
}

// MMMStatusMsg carries a job status poll result.
type MMMStatusMsg struct {
	Status *client.JobStatus
	Err    error
}

// PollTickMsg schedules the next job status poll.
type PollTickMsg time.Time

const (
	focusNone = iota - 1
	focusPrompt
	focusFollowUp
)

// Model is the data panel state.
type Model struct {
	Width  int
	Height int

	http *client.HTTPClient

	datasets []string
	selected int
	preview  *client.DataPreview

	promptInput textinput.Model
	followInput textinput.Model
	focus       int

	originalPrompt string
	report         *client.AnalysisReport
	history        []client.ChatTurn

	mmmJob    *client.MMMJob
	mmmStatus string

	busy    bool
	spin    spinner.Model
	errLine string
}

// New creates the data panel over the configured dataset list.
func New(httpClient *client.HTTPClient, datasets []string) Model {
	prompt := textinput.New()
	prompt.Placeholder = "Which channel drives the most revenue?"
	prompt.CharLimit = 512

	follow := textinput.New()
	follow.Placeholder = "Follow-up question..."
	follow.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		http:        httpClient,
		datasets:    datasets,
		promptInput: prompt,
		followInput: follow,
		focus:       focusNone,
		spin:        sp,
	}
}

// Editing reports whether a text input has focus.
func (m Model) Editing() bool { return m.focus != focusNone }

// Busy reports whether a backend call is in flight.
func (m Model) Busy() bool { return m.busy }

// Update handles messages for the data panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case PreviewMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.preview = msg.Preview
		return m, nil

	case AnalysisMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.report = msg.Report
		m.history = []client.ChatTurn{
			{Sender: "user", Text: m.originalPrompt},
			{Sender: "agent", Summary: msg.Report.Summary},
		}
		return m, nil

	case FollowUpMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.history = append(m.history, client.ChatTurn{Sender: "agent", Summary: msg.Report.Summary})
		return m, nil

	case MMMTrainedMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.mmmJob = msg.Job
		m.mmmStatus = msg.Job.Status
		return m, pollTickCmd()

	case PollTickMsg:
		if m.mmmJob == nil || m.mmmDone() {
			return m, nil
		}
		return m, m.pollCmd()

	case MMMStatusMsg:
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			m.mmmJob = nil
			return m, nil
		}
		m.mmmStatus = msg.Status.Status
		if msg.Status.Error != "" {
			m.errLine = msg.Status.Error
		}
		if m.mmmDone() {
			return m, nil
		}
		return m, pollTickCmd()
	}

	return m, nil
}

func (m Model) mmmDone() bool {
	return m.mmmStatus == "finished" || m.mmmStatus == "failed"
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.focus != focusNone {
		return m.handleEditKey(msg)
	}

	switch msg.String() {
	case "j", "down":
		if m.selected < len(m.datasets)-1 {
			m.selected++
		}
		return m, nil

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "p":
		if m.busy || len(m.datasets) == 0 {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.previewCmd(), m.spin.Tick)

	case "a":
		if len(m.datasets) == 0 {
			return m, nil
		}
		m.focus = focusPrompt
		return m, m.promptInput.Focus()

	case "f":
		if m.report == nil {
			return m, nil
		}
		m.focus = focusFollowUp
		return m, m.followInput.Focus()

	case "t":
		if m.busy || len(m.datasets) == 0 {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.trainCmd(), m.spin.Tick)
	}

	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.blur()
		return m, nil

	case "enter":
		switch m.focus {
		case focusPrompt:
			prompt := strings.TrimSpace(m.promptInput.Value())
			m.blur()
			if prompt == "" || m.busy {
				return m, nil
			}
			m.originalPrompt = prompt
			m.busy = true
			return m, tea.Batch(m.analyzeCmd(prompt), m.spin.Tick)

		case focusFollowUp:
			question := strings.TrimSpace(m.followInput.Value())
			m.followInput.SetValue("")
			m.blur()
			if question == "" || m.busy {
				return m, nil
			}
			m.history = append(m.history, client.ChatTurn{Sender: "user", Text: question})
			m.busy = true
			return m, tea.Batch(m.followUpCmd(question), m.spin.Tick)
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusPrompt:
		m.promptInput, cmd = m.promptInput.Update(msg)
	case focusFollowUp:
		m.followInput, cmd = m.followInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) blur() {
	m.promptInput.Blur()
	m.followInput.Blur()
	m.focus = focusNone
}

// --- Commands ---

func (m Model) previewCmd() tea.Cmd {
	name := m.datasets[m.selected]
	httpClient := m.http
	return func() tea.Msg {
		p, err := httpClient.PreviewDataset(name)
		return PreviewMsg{Preview: p, Err: err}
	}
}

func (m Model) analyzeCmd(prompt string) tea.Cmd {
	name := m.datasets[m.selected]
	httpClient := m.http
	return func() tea.Msg {
		r, err := httpClient.Analyze(name, prompt)
		return AnalysisMsg{Report: r, Err: err}
	}
}

func (m Model) followUpCmd(question string) tea.Cmd {
	name := m.datasets[m.selected]
	original := m.originalPrompt
	history := append([]client.ChatTurn(nil), m.history...)
	httpClient := m.http
	return func() tea.Msg {
		r, err := httpClient.FollowUp(name, original, history, question)
		return FollowUpMsg{Report: r, Err: err}
	}
}

func (m Model) trainCmd() tea.Cmd {
	name := m.datasets[m.selected]
	httpClient := m.http
	return func() tea.Msg {
		j, err := httpClient.TrainMMM(name)
		return MMMTrainedMsg{Job: j, Err: err}
	}
}

func (m Model) pollCmd() tea.Cmd {
	jobID := m.mmmJob.JobID
	httpClient := m.http
	return func() tea.Msg {
		s, err := httpClient.GetJobStatus(jobID)
		return MMMStatusMsg{Status: s, Err: err}
	}
}

func pollTickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return PollTickMsg(t)
	})
}

// --- View ---

var styleTitle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorData)

// View renders the data panel.
func (m Model) View() string {
	var b []string
	b = append(b, styleTitle.Render("DATA ANALYSIS"))
	b = append(b, "")
	b = append(b, m.renderDatasets()...)

	if m.preview != nil {
		b = append(b, "", m.renderPreview())
	}
	if m.focus == focusPrompt {
		b = append(b, "", "prompt: "+m.promptInput.View())
	}
	b = append(b, m.renderChat()...)
	if m.focus == focusFollowUp {
		b = append(b, "follow-up: "+m.followInput.View())
	}
	if m.mmmJob != nil {
		b = append(b, "", fmt.Sprintf("mmm job %s: %s", m.mmmJob.JobID, m.mmmStatus))
	}
	if m.busy {
		b = append(b, "", m.spin.View()+" working...")
	}
	if m.errLine != "" {
		b = append(b, "", theme.StyleError.Render(m.errLine))
	}
	b = append(b, "", theme.StyleDimmed.Render(m.helpLine()))
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, b...))
}

func (m Model) renderDatasets() []string {
	if len(m.datasets) == 0 {
		return []string{theme.StyleDimmed.Render("No datasets configured.")}
	}
	var lines []string
	for i, d := range m.datasets {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.selected {
			cursor = "> "
			style = theme.StyleSelected
		}
		lines = append(lines, cursor+style.Render(d))
	}
	return lines
}

func (m Model) renderPreview() string {
	header := make([]string, len(m.preview.Columns))
	for i, c := range m.preview.Columns {
		header[i] = pad(c)
	}
	lines := []string{theme.StyleHeader.Render(strings.Join(header, " "))}

	rows := m.preview.Data
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = pad(fmt.Sprintf("%v", v))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderChat() []string {
	if len(m.history) == 0 {
		return nil
	}
	lines := []string{""}
	for _, turn := range m.history {
		if turn.Sender == "user" {
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorData).Render("you: ")+turn.Text)
		} else {
			lines = append(lines, theme.StyleDimmed.Render("agent: ")+turn.Summary)
		}
	}
	return lines
}

func (m Model) helpLine() string {
	if m.Editing() {
		return "enter:send  esc:discard"
	}
	return "j/k:select  p:preview  a:analyze  f:follow-up  t:train mmm"
}

func pad(s string) string {
	if len(s) > cellWidth {
		return s[:cellWidth-1] + "…"
	}
	return s + strings.Repeat(" ", cellWidth-len(s))
}
