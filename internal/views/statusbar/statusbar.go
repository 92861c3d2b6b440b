// Package statusbar renders the single-line header: backend host, active
// panel, and the analysis session phase.
package statusbar

import (
	"strings"

	"github.com/braidai/braid-tui/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

var (
	styleLogo = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright).
			Background(theme.ColorBrand).
			Padding(0, 1)

	stylePhase = lipgloss.NewStyle().Bold(true)
)

// Model holds the status bar state.
type Model struct {
	Width   int
	Backend string
	Tab     string
	Phase   string
	Err     string
}

// New creates a status bar.
func New(backend string) Model {
	return Model{Backend: backend, Phase: "idle"}
}

// View renders the bar.
func (m Model) View() string {
	logo := styleLogo.Render("braid")
	host := theme.StyleDimmed.Render(" " + m.Backend)
	tab := lipgloss.NewStyle().Foreground(theme.TabColor(m.Tab)).Bold(true).Render(strings.ToUpper(m.Tab))

	phase := stylePhase.
		Foreground(theme.PhaseColor(m.Phase)).
		Render(theme.PhaseGlyph(m.Phase) + " " + m.Phase)

	left := logo + host
	right := tab + "  " + phase

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right

	if m.Err != "" {
		return bar + "\n" + theme.StyleError.Render("  "+m.Err)
	}
	return bar
}
