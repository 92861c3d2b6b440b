// Package runlog provides the scrollable activity log overlay. Progress
// events from the analysis session, REST call outcomes, and UI errors all
// land here in arrival order.
package runlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/braidai/braid-tui/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

const maxEntries = 500

// Entry is a single activity line.
type Entry struct {
	Time    time.Time
	Kind    string // "run", "http", "err", "ui"
	Message string
}

// Model holds the activity log state.
type Model struct {
	Entries []Entry
	Offset  int // scroll offset from the bottom
}

// New creates an empty log.
func New() Model {
	return Model{}
}

// Add appends an entry, capping the buffer and snapping the view back to the
// newest line.
func (m *Model) Add(kind, message string) {
	m.Entries = append(m.Entries, Entry{Time: time.Now(), Kind: kind, Message: message})
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	m.Offset = 0
}

// ScrollUp moves the viewport toward older entries.
func (m *Model) ScrollUp(n int) {
	m.Offset += n
	if max := len(m.Entries) - 1; m.Offset > max {
		if max < 0 {
			max = 0
		}
		m.Offset = max
	}
}

// ScrollDown moves the viewport toward newer entries.
func (m *Model) ScrollDown(n int) {
	m.Offset -= n
	if m.Offset < 0 {
		m.Offset = 0
	}
}

func panelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)
}

// View renders the log as an overlay panel.
func (m Model) View(width, height int) string {
	innerW := width - 4
	if innerW < 24 {
		innerW = 24
	}
	visible := height - 6
	if visible < 3 {
		visible = 3
	}

	title := theme.StyleHeader.Render(" ACTIVITY ")
	help := theme.StyleDimmed.Render(fmt.Sprintf("j/k:scroll  esc:close  %d lines", len(m.Entries)))

	if len(m.Entries) == 0 {
		body := theme.StyleDimmed.Render("  Nothing has happened yet.")
		return panelStyle(innerW).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help))
	}

	end := len(m.Entries) - m.Offset
	start := end - visible
	if start < 0 {
		start = 0
	}

	var lines []string
	for i := start; i < end; i++ {
		e := m.Entries[i]
		ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05"))
		kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(5).Render(e.Kind)
		msg := e.Message
		if innerW > 24 && len(msg) > innerW-16 {
			msg = msg[:innerW-19] + "..."
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", ts, kind, msg))
	}

	older := ""
	if m.Offset > 0 {
		older = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d newer", m.Offset))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), older, help)
	return panelStyle(innerW).Render(content)
}

func kindColor(kind string) lipgloss.Color {
	switch kind {
	case "run":
		return theme.ColorSEO
	case "http":
		return theme.ColorData
	case "err":
		return theme.ColorDanger
	case "ui":
		return theme.ColorDimmed
	default:
		return theme.ColorDimmed
	}
}
