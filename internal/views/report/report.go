// Package report renders a finished analysis report as Markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/braidai/braid-tui/internal/client"
	"github.com/braidai/braid-tui/internal/theme"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the report overlay state.
type Model struct {
	vp     viewport.Model
	report *client.Report
	width  int
	height int
}

// New creates an empty report view.
func New() Model {
	return Model{vp: viewport.New(80, 20)}
}

// SetSize resizes the overlay and its viewport.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width - 6
	m.vp.Height = height - 6
	if m.report != nil {
		m.render()
	}
}

// SetReport installs a new report and re-renders it.
func (m *Model) SetReport(r client.Report) {
	m.report = &r
	m.render()
}

// HasReport reports whether a terminal result has been installed.
func (m Model) HasReport() bool { return m.report != nil }

// ScrollUp moves toward the top of the report.
func (m *Model) ScrollUp(n int) { m.vp.ScrollUp(n) }

// ScrollDown moves toward the bottom of the report.
func (m *Model) ScrollDown(n int) { m.vp.ScrollDown(n) }

func (m *Model) render() {
	md := BuildMarkdown(*m.report)
	width := m.vp.Width
	if width < 20 {
		width = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.vp.SetContent(md)
		return
	}
	out, err := renderer.Render(md)
	if err != nil {
		m.vp.SetContent(md)
		return
	}
	m.vp.SetContent(out)
	m.vp.GotoTop()
}

// View renders the report overlay panel.
func (m Model) View() string {
	if m.report == nil {
		return theme.StyleDimmed.Render("No report yet. Run an analysis first.")
	}
	title := theme.StyleHeader.Render(" REPORT ")
	help := theme.StyleDimmed.Render("j/k:scroll  esc:close")
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.vp.View(), help)
	return lipgloss.NewStyle().
		Width(m.width - 2).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}

// BuildMarkdown turns the nested report into a Markdown document. Map keys
// are sorted so output is stable across runs.
func BuildMarkdown(r client.Report) string {
	var b strings.Builder
	title := r.ReportTitle
	if title == "" {
		title = "SEO Analysis Report"
	}
	fmt.Fprintf(&b, "# %s\n", title)

	if len(r.SchemaAudit) > 0 {
		b.WriteString("\n## Schema Audit\n\n")
		writeTree(&b, r.SchemaAudit, 0)
	}
	if len(r.AuthorityAudit) > 0 {
		b.WriteString("\n## Authority Audit\n\n")
		writeTree(&b, r.AuthorityAudit, 0)
	}
	if len(r.AuthorityAnalysis) > 0 {
		b.WriteString("\n## Authority Analysis\n")
		for _, provider := range sortedKeys(r.AuthorityAnalysis) {
			fmt.Fprintf(&b, "\n### %s\n\n", provider)
			categories := r.AuthorityAnalysis[provider]
			for _, cat := range sortedKeys(categories) {
				fmt.Fprintf(&b, "- **%s**: %s\n", cat, formatValue(categories[cat]))
			}
		}
	}
	return b.String()
}

func writeTree(b *strings.Builder, node map[string]any, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, k := range sortedKeys(node) {
		switch v := node[k].(type) {
		case map[string]any:
			fmt.Fprintf(b, "%s- **%s**:\n", indent, k)
			writeTree(b, v, depth+1)
		case []any:
			fmt.Fprintf(b, "%s- **%s**:\n", indent, k)
			for _, item := range v {
				fmt.Fprintf(b, "%s  - %s\n", indent, formatValue(item))
			}
		default:
			fmt.Fprintf(b, "%s- **%s**: %s\n", indent, k, formatValue(v))
		}
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "n/a"
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	case bool:
		if t {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
