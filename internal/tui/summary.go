package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janekbaraniewski/pacewatch/internal/core"
)

type summaryCard struct {
	label string
	value string
	sub   string
	// subStyle colors the secondary line; zero means dim.
	subStyle *lipgloss.Style
}

const cardWidth = 20

func summaryCards(s core.Summary) []summaryCard {
	delta := func(v float64) *lipgloss.Style {
		st := deltaStyle(v)
		return &st
	}

	avg := summaryCard{label: "Avg progress", value: "n/a", sub: "no budgeted rows"}
	if s.HasBudgetedRows {
		band := bandStyle(core.ClassifyPacing(s.AvgProgressDiff))
		avg = summaryCard{
			label:    "Avg progress",
			value:    formatPercent(s.AvgProgress),
			sub:      formatPoints(s.AvgProgressDiff) + " vs ideal",
			subStyle: &band,
		}
	}

	return []summaryCard{
		{label: "Ideal pacing", value: formatPercent(s.IdealPacing), sub: "of month elapsed"},
		{label: "Total gross", value: formatAmount(s.TotalGross)},
		{label: "Latest gross", value: formatAmount(s.LatestGross), sub: formatDelta(s.DiffGross), subStyle: delta(s.DiffGross)},
		avg,
		{label: "Impressions", value: formatAmount(s.TotalImpression)},
		{label: "Latest imps", value: formatAmount(s.LatestImpression), sub: formatDelta(s.DiffImpression), subStyle: delta(s.DiffImpression)},
		{label: "Clicks", value: formatAmount(s.TotalClick)},
		{label: "Latest clicks", value: formatAmount(s.LatestClick), sub: formatDelta(s.DiffClick), subStyle: delta(s.DiffClick)},
		{label: "Avg daily imps", value: formatAmount(s.AvgDailyImpression)},
		{label: "Avg daily clicks", value: formatAmount(s.AvgDailyClick)},
		{label: "CTR", value: numberPrinter.Sprintf("%.2f%%", s.CTR)},
		{label: "CPM", value: numberPrinter.Sprintf("%.1f", s.CPM)},
	}
}

func (c summaryCard) render() string {
	inner := cardWidth - 4
	sub := dimStyle.Render(fitCell(c.sub, inner, false))
	if c.subStyle != nil {
		sub = c.subStyle.Render(fitCell(c.sub, inner, false))
	}
	body := labelStyle.Render(fitCell(c.label, inner, false)) + "\n" +
		cardValueStyle.Render(fitCell(c.value, inner, false)) + "\n" +
		sub
	return cardStyle.Width(cardWidth - 2).Render(body)
}

// renderSummaryCards wraps the cards into as many rows as the width needs.
func renderSummaryCards(s core.Summary, w int) string {
	perRow := max(1, w/cardWidth)
	cards := summaryCards(s)

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rendered := make([]string, 0, end-i)
		for _, c := range cards[i:end] {
			rendered = append(rendered, c.render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return strings.Join(rows, "\n")
}
