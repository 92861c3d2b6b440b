// Package theme provides the Lip Gloss color palette and reusable styles for
// the Braid TUI. It is a leaf package with no internal imports to avoid
// import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Panel accent colors.
var (
	ColorData     = lipgloss.Color("#3b82f6")
	ColorSEO      = lipgloss.Color("#22c55e")
	ColorCreative = lipgloss.Color("#a855f7")
	ColorBrand    = lipgloss.Color("#f59e0b")
)

// Session phase colors.
var (
	ColorIdle    = lipgloss.Color("#4b5563")
	ColorBusy    = lipgloss.Color("#2563eb")
	ColorDone    = lipgloss.Color("#16a34a")
	ColorFailed  = lipgloss.Color("#dc2626")
	ColorPartial = lipgloss.Color("#d97706")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)
)

// TabColor returns the accent color for a tab name.
func TabColor(tab string) lipgloss.Color {
	switch tab {
	case "data":
		return ColorData
	case "seo":
		return ColorSEO
	case "creative":
		return ColorCreative
	case "brand":
		return ColorBrand
	default:
		return ColorDimmed
	}
}

// PhaseColor returns the color for a session phase string.
func PhaseColor(phase string) lipgloss.Color {
	switch phase {
	case "running", "validating", "generating":
		return ColorBusy
	case "complete":
		return ColorDone
	case "failed":
		return ColorFailed
	case "cancelled":
		return ColorPartial
	default:
		return ColorIdle
	}
}

// PhaseGlyph returns a Unicode glyph for a session phase.
func PhaseGlyph(phase string) string {
	switch phase {
	case "running", "validating", "generating":
		return "●"
	case "complete":
		return "✓"
	case "failed":
		return "✗"
	case "cancelled":
		return "◌"
	default:
		return "○"
	}
}

// SitemapBadge returns a colored badge for a sitemap resolution status.
func SitemapBadge(status string) string {
	switch status {
	case "found":
		return lipgloss.NewStyle().Foreground(ColorDone).Render("[sitemap ✓]")
	case "not_found":
		return lipgloss.NewStyle().Foreground(ColorWarning).Render("[sitemap ?]")
	case "manual":
		return lipgloss.NewStyle().Foreground(ColorBusy).Render("[sitemap m]")
	default:
		return lipgloss.NewStyle().Foreground(ColorDimmed).Render("[sitemap -]")
	}
}
