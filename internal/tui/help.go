package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janekbaraniewski/pacewatch/internal/core"
)

// ─── Help Overlay ───────────────────────────────────────────────────────────

// renderHelpOverlay draws a centered popup with the pacing bands and key
// bindings. Any key dismisses it.
func (m Model) renderHelpOverlay(screenW, screenH int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	descStyle := lipgloss.NewStyle().Foreground(colorText)
	hintStyle := lipgloss.NewStyle().Foreground(colorDim).Italic(true)

	var lines []string
	lines = append(lines, titleStyle.Render("  pacewatch help"), "")

	lines = append(lines, sectionHeaderStyle.Render("  Pacing bands"), "")
	bands := []struct {
		band core.PacingBand
		desc string
	}{
		{core.BandHighPace, "more than 10pt ahead of the ideal pace"},
		{core.BandOnTrack, "0 to 10pt ahead"},
		{core.BandCaution, "up to 10pt behind"},
		{core.BandAtRisk, "more than 10pt behind"},
	}
	for _, b := range bands {
		lines = append(lines, "    "+bandStyle(b.band).Bold(true).Render(padRight(b.band.Label(), 12))+descStyle.Render(b.desc))
	}
	lines = append(lines, "")

	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Data", [][2]string{
			{"r", "Fetch the report"},
			{"[ ]", "Previous / next month"},
			{"- +", "Move the end date"},
			{"g", "Toggle campaign / account grain"},
			{"k", "Enter the API key"},
		}},
		{"Table", [][2]string{
			{"↑↓ PgUp PgDn", "Move the cursor"},
			{"/", "Filter by account or campaign text"},
			{"space", "Add / remove the cursor row in the name filter"},
			{"f", "Pick names to filter"},
			{"s / S", "Next sort column / reverse order"},
			{"c / Esc", "Clear filters"},
			{"⏎ Enter", "Chart the cursor row"},
			{"p", "Chart the whole portfolio"},
		}},
		{"Global", [][2]string{
			{"Tab", "Switch Table / Chart"},
			{"t", "Cycle theme"},
			{"?", "Toggle this help"},
			{"q / Ctrl+C", "Quit"},
		}},
	}
	for _, sec := range sections {
		lines = append(lines, sectionHeaderStyle.Render("  "+sec.title), "")
		for _, k := range sec.keys {
			lines = append(lines, "    "+helpKeyStyle.Render(padRight(k[0], 16))+descStyle.Render(k[1]))
		}
		lines = append(lines, "")
	}
	lines = append(lines, "  "+hintStyle.Render("Press any key to dismiss"))

	contentW := 0
	for _, line := range lines {
		contentW = max(contentW, lipgloss.Width(line))
	}
	boxW := min(contentW+4, screenW-4)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Background(colorBase).
		Padding(1, 2).
		Width(boxW).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, box)
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
