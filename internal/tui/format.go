package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// formatAmount renders a currency or count value with thousands separators.
func formatAmount(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return numberPrinter.Sprintf("%.0f", v)
}

// formatDelta is formatAmount with an explicit sign.
func formatDelta(v float64) string {
	switch {
	case v > 0:
		return "+" + formatAmount(v)
	case v < 0:
		return "-" + formatAmount(-v)
	default:
		return "±0"
	}
}

func formatPercent(v float64) string {
	return numberPrinter.Sprintf("%.1f%%", v)
}

// formatPoints renders a percentage-point deviation with a sign.
func formatPoints(v float64) string {
	if v >= 0 {
		return numberPrinter.Sprintf("+%.1fpt", v)
	}
	return numberPrinter.Sprintf("%.1fpt", v)
}

// fitCell truncates s to w display cells and pads it. Numeric columns are
// right-aligned.
func fitCell(s string, w int, right bool) string {
	if w <= 0 {
		return ""
	}
	s = ansi.Truncate(s, w, "…")
	gap := w - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
