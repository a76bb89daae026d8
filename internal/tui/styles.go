package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/janekbaraniewski/pacewatch/internal/core"
)

// ─── Color Palette ──────────────────────────────────────────────────────────
// Overwritten by applyTheme; the defaults are Catppuccin Mocha.

var (
	colorBase     = lipgloss.Color("#1E1E2E")
	colorMantle   = lipgloss.Color("#181825")
	colorSurface0 = lipgloss.Color("#313244")
	colorSurface1 = lipgloss.Color("#45475A")
	colorText     = lipgloss.Color("#CDD6F4")
	colorSubtext  = lipgloss.Color("#A6ADC8")
	colorDim      = lipgloss.Color("#585B70")

	colorAccent   = lipgloss.Color("#CBA6F7")
	colorBlue     = lipgloss.Color("#89B4FA")
	colorSapphire = lipgloss.Color("#74C7EC")
	colorGreen    = lipgloss.Color("#A6E3A1")
	colorYellow   = lipgloss.Color("#F9E2AF")
	colorRed      = lipgloss.Color("#F38BA8")
	colorPeach    = lipgloss.Color("#FAB387")
	colorTeal     = lipgloss.Color("#94E2D5")
	colorLavender = lipgloss.Color("#B4BEFE")
)

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	headerBrandStyle       lipgloss.Style
	sectionHeaderStyle     lipgloss.Style
	helpStyle              lipgloss.Style
	helpKeyStyle           lipgloss.Style
	labelStyle             lipgloss.Style
	valueStyle             lipgloss.Style
	dimStyle               lipgloss.Style
	errorStyle             lipgloss.Style
	cardStyle              lipgloss.Style
	cardValueStyle         lipgloss.Style
	tableHeaderStyle       lipgloss.Style
	tableCursorStyle       lipgloss.Style
	screenTabActiveStyle   lipgloss.Style
	screenTabInactiveStyle lipgloss.Style
	separatorStyle         lipgloss.Style
)

func rebuildStyles() {
	headerBrandStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	helpStyle = lipgloss.NewStyle().Foreground(colorDim)
	helpKeyStyle = lipgloss.NewStyle().Foreground(colorSapphire).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	dimStyle = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	cardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface1).
		Padding(0, 1)
	cardValueStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	tableCursorStyle = lipgloss.NewStyle().Background(colorSurface0)

	screenTabActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorMantle).
		Background(colorAccent).
		Padding(0, 1)
	screenTabInactiveStyle = lipgloss.NewStyle().
		Foreground(colorSubtext).
		Padding(0, 1)

	separatorStyle = lipgloss.NewStyle().Foreground(colorSurface1)
}

func bandColor(b core.PacingBand) lipgloss.Color {
	switch b {
	case core.BandHighPace:
		return colorPeach
	case core.BandOnTrack:
		return colorGreen
	case core.BandCaution:
		return colorYellow
	case core.BandAtRisk:
		return colorRed
	default:
		return colorDim
	}
}

func bandStyle(b core.PacingBand) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(bandColor(b))
}

// deltaStyle colors a day-over-day change: up green, down red, flat dim.
func deltaStyle(v float64) lipgloss.Style {
	switch {
	case v > 0:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case v < 0:
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return dimStyle
	}
}
