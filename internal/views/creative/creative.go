// Package creative is the ad-creative panel: fill a prompt form, generate
// images, and file the results into the creative library.
package creative

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/braidai/braid-tui/internal/client"
	"github.com/braidai/braid-tui/internal/theme"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// GeneratedMsg carries /generate-creative results.
type GeneratedMsg struct {
	Assets *client.CreativeAssets
	Err    error
}

// SavedMsg carries /library/images/save results.
type SavedMsg struct {
	Saved *client.SavedImage
	Err   error
}

type field struct {
	label string
	input textinput.Model
}

// Model is the creative panel state.
type Model struct {
	Width  int
	Height int

	http *client.HTTPClient

	fields   []field
	selected int
	editing  bool

	assets  *client.CreativeAssets
	saved   *client.SavedImage
	busy    bool
	spin    spinner.Model
	errLine string
}

var fieldOrder = []struct {
	label       string
	placeholder string
}{
	{"platform", "instagram"},
	{"subject", "carbon fiber hockey stick"},
	{"scene", "frozen lake at dawn"},
	{"image type", "Product Photo"},
	{"style", "cinematic"},
	{"camera", "85mm, shallow depth of field"},
	{"lighting", "golden hour"},
	{"composition", "rule of thirds"},
	{"modifiers", "high detail, 4k"},
	{"negative", "text, watermark"},
}

// New creates the creative panel.
func New(httpClient *client.HTTPClient) Model {
	fields := make([]field, len(fieldOrder))
	for i, f := range fieldOrder {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.CharLimit = 256
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

// Update handles messages for the creative panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case GeneratedMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.assets = msg.Assets
		return m, nil

	case SavedMsg:
		m.busy = false
		if msg.Err != nil {
			m.errLine = msg.Err.Error()
			return m, nil
		}
		m.errLine = ""
		m.saved = msg.Saved
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

	case "enter":
		m.editing = true
		return m, m.fields[m.selected].input.Focus()

	case "g":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.generateCmd(), m.spin.Tick)

	case "s":
		if m.busy || m.assets == nil || len(m.assets.ImageURLs) == 0 {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.saveCmd(m.assets.ImageURLs[0]), m.spin.Tick)
	}

	return m, nil
}

// --- Commands ---

func (m Model) generateCmd() tea.Cmd {
	req := client.CreativeRequest{
		Platform:         m.value(0),
		CustomSubject:    m.value(1),
		SceneDescription: m.value(2),
		ImageType:        m.value(3),
		Style:            m.value(4),
		Camera:           m.value(5),
		Lighting:         m.value(6),
		Composition:      m.value(7),
		Modifiers:        m.value(8),
		NegativePrompt:   m.value(9),
	}
	httpClient := m.http
	return func() tea.Msg {
		assets, err := httpClient.GenerateCreative(req)
		return GeneratedMsg{Assets: assets, Err: err}
	}
}

// saveCmd decodes a data-URL asset and uploads it to the creative library.
func (m Model) saveCmd(dataURL string) tea.Cmd {
	httpClient := m.http
	return func() tea.Msg {
		raw, err := decodeDataURL(dataURL)
		if err != nil {
			return SavedMsg{Err: err}
		}
		saved, err := httpClient.SaveImage("creative.png", raw)
		return SavedMsg{Saved: saved, Err: err}
	}
}

func decodeDataURL(dataURL string) ([]byte, error) {
	_, b64, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}
	return base64.StdEncoding.DecodeString(b64)
}

func (m Model) value(i int) string {
	return strings.TrimSpace(m.fields[i].input.Value())
}

// --- View ---

var styleTitle = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorCreative)

// View renders the creative panel.
func (m Model) View() string {
	var b []string
	b = append(b, styleTitle.Render("CREATIVE STUDIO"))
	b = append(b, "")

	for i, f := range m.fields {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		label := theme.StyleDimmed.Render(fmt.Sprintf("%-12s", f.label))
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

	if m.assets != nil {
		b = append(b, "", theme.StyleHeader.Render(fmt.Sprintf("%d assets generated", len(m.assets.ImageURLs))))
		for i, u := range m.assets.ImageURLs {
			b = append(b, theme.StyleDimmed.Render(fmt.Sprintf("  [%d] %s", i+1, truncate(u, 60))))
		}
	}
	if m.saved != nil {
		b = append(b, theme.StyleDimmed.Render("  saved: "+truncate(m.saved.Orig, 60)))
	}
	if m.busy {
		b = append(b, "", m.spin.View()+" working...")
	}
	if m.errLine != "" {
		b = append(b, "", theme.StyleError.Render(m.errLine))
	}

	help := "j/k:field  enter:edit  g:generate  s:save first asset"
	if m.editing {
		help = "enter/esc:done"
	}
	b = append(b, "", theme.StyleDimmed.Render(help))
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, b...))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
