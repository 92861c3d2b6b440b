// Package brand is the brand-strategy panel: submit a brief, pick one of the
// strategist's approaches, and turn it into assets or social copy.
package brand

import (
	"fmt"
	"strings"

	"github.com/braidai/braid-tui/internal/client"
	"github.com/braidai/braid-tui/internal/theme"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AnalyzedMsg carries the /analyze-brand outcome with its decoded approaches.
type AnalyzedMsg struct {
	Analysis   *client.BrandAnalysis
	Approaches []client.StrategyApproach
	Err        error
}

// AssetsMsg carries /generate-assets-from-brief results.
type AssetsMsg struct {
	Assets *client.CreativeAssets
	Err    error
}

// CopyMsg carries /generate-social-copy results.
type CopyMsg struct {
	Copy *client.SocialCopy
	Err  error
}

type field struct {
	label string
	input textinput.Model
}

// Model is the brand panel state.
type Model struct {
	Width  int
	Height int

	http *client.HTTPClient

	fields   []field
	selected int
	editing  bool

	approaches  []client.StrategyApproach
	approachIdx int

	assets  *client.CreativeAssets
	posts   []string
	busy    bool
	spin    spinner.Model
	errLine string
}

var fieldOrder = []struct {
	label       string
	placeholder string
}{
	{"brand", "PuckPro"},
	{"website", "https://puckpro.example"},
	{"ad library", "https://facebook.com/ads/library/..."},
	{"brief", "launch the spring collection to gen-z skaters"},
}

// New creates the brand panel.
func New(httpClient *client.HTTPClient) Model {
	fields := make([]field, len(fieldOrder))
	for i, f := range fieldOrder {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.CharLimit = 512
		fields[i] = field{label: f.label, input: in}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{http: httpClient, fields: fields, spin: sp}
}

// Editing reports whether a form field has focus.
func (m Model) Editing() bool { return m.editing }

// Busy reports whether a backend call is in flight.
func (m Model) Busy() bool { return m.busy }

// Update handles messages for the brand panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case AnalyzedMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.approaches = msg.Approaches
		m.approachIdx = 0
		return m, nil

	case AssetsMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.assets = msg.Assets
		return m, nil

	case CopyMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.posts = msg.Copy.Posts
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "esc", "enter":
			m.fields[m.selected].input.Blur()
			m.editing = false
			return m, nil
		}
		var cmd tea.Cmd
		m.fields[m.selected].input, cmd = m.fields[m.selected].input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "j", "down":
		if m.selected < len(m.fields)-1 {
			m.selected++
		}
		return m, nil

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "J":
		if m.approachIdx < len(m.approaches)-1 {
			m.approachIdx++
		}
		return m, nil

	case "K":
		if m.approachIdx > 0 {
			m.approachIdx--
		}
		return m, nil

	case "enter":
		m.editing = true
		return m, m.fields[m.selected].input.Focus()

	case "a":
		if m.busy || m.value(0) == "" || m.value(1) == "" || m.value(3) == "" {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.analyzeCmd(), m.spin.Tick)

	case "g":
		if m.busy || len(m.approaches) == 0 {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.assetsCmd(), m.spin.Tick)

	case "p":
		if m.busy || len(m.approaches) == 0 {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.copyCmd(), m.spin.Tick)
	}

	return m, nil
}

// --- Commands ---

func (m Model) analyzeCmd() tea.Cmd {
	req := client.BrandRequest{
		BrandName:    m.value(0),
		WebsiteURL:   m.value(1),
		AdLibraryURL: m.value(2),
		UserBrief:    m.value(3),
	}
	httpClient := m.http
	return func() tea.Msg {
		analysis, err := httpClient.AnalyzeBrand(req)
		if err != nil {
			return AnalyzedMsg{Err: err}
		}
		approaches, err := analysis.Approaches()
		if err != nil {
			return AnalyzedMsg{Err: fmt.Errorf("strategist returned unparseable strategies: %w", err)}
		}
		return AnalyzedMsg{Analysis: analysis, Approaches: approaches}
	}
}

func (m Model) assetsCmd() tea.Cmd {
	req := m.briefRequest()
	httpClient := m.http
	return func() tea.Msg {
		assets, err := httpClient.GenerateAssetsFromBrief(req)
		return AssetsMsg{Assets: assets, Err: err}
	}
}

func (m Model) copyCmd() tea.Cmd {
	req := m.briefRequest()
	httpClient := m.http
	return func() tea.Msg {
		socialCopy, err := httpClient.GenerateSocialCopy(req)
		return CopyMsg{Copy: socialCopy, Err: err}
	}
}

func (m Model) briefRequest() client.BriefRequest {
	return client.BriefRequest{
		BrandName:        m.value(0),
		WebsiteURL:       m.value(1),
		AdLibraryURL:     m.value(2),
		UserBrief:        m.value(3),
		SelectedStrategy: m.approaches[m.approachIdx],
	}
}

func (m Model) value(i int) string {
	return strings.TrimSpace(m.fields[i].input.Value())
}

// --- View ---

var styleTitle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBrand)

// View renders the brand panel.
func (m Model) View() string {
	var b []string
	b = append(b, styleTitle.Render("BRAND STRATEGY"))
	b = append(b, "")

	for i, f := range m.fields {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		label := theme.StyleDimmed.Render(fmt.Sprintf("%-11s", f.label))
		if i == m.selected && m.editing {
			b = append(b, cursor+label+f.input.View())
			continue
		}
		value := f.input.Value()
		if value == "" {
			value = theme.StyleDimmed.Render(f.input.Placeholder)
		}
		b = append(b, cursor+label+value)
	}

	if len(m.approaches) > 0 {
		b = append(b, "", theme.StyleHeader.Render("APPROACHES"))
		for i, a := range m.approaches {
			cursor := "  "
			style := lipgloss.NewStyle()
			if i == m.approachIdx {
				cursor = "> "
				style = theme.StyleSelected
			}
			b = append(b, cursor+style.Render(a.Title))
			b = append(b, theme.StyleDimmed.Render("    "+a.CoreIdea))
		}
	}
	if m.assets != nil {
		b = append(b, "", fmt.Sprintf("%d assets generated", len(m.assets.ImageURLs)))
	}
	if len(m.posts) > 0 {
		b = append(b, "", theme.StyleHeader.Render("SOCIAL POSTS"))
		for i, p := range m.posts {
			b = append(b, fmt.Sprintf("  %d. %s", i+1, p))
		}
	}
	if m.busy {
		b = append(b, "", m.spin.View()+" working...")
	}
	if m.errLine != "" {
		b = append(b, "", theme.StyleError.Render(m.errLine))
	}

	help := "j/k:field  enter:edit  a:analyze  J/K:approach  g:assets  p:social copy"
	if m.editing {
		help = "enter/esc:done"
	}
	b = append(b, "", theme.StyleDimmed.Render(help))
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, b...))
}
