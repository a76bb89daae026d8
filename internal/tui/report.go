package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
	"github.com/samber/lo"
)

// RenderReport draws a one-shot, non-interactive view of res: the summary
// cards followed by the full pacing table.
func RenderReport(res pipeline.Result, w int) string {
	var sb strings.Builder

	header := headerBrandStyle.Render("pacewatch") + "  " +
		labelStyle.Render(res.Range.Label()+" · "+res.Grain.Label())
	sb.WriteString(header + "\n")
	if msg := res.State.Message(); msg != "" {
		sb.WriteString(lipgloss.NewStyle().Foreground(colorYellow).Render(msg) + "\n")
	}
	sb.WriteString(renderSummaryCards(res.Summary, w) + "\n")

	if len(res.Rows) == 0 {
		return sb.String()
	}

	cols := pacingColumns()
	headers := lo.Map(cols, func(c tableColumn, _ int) string { return c.title })
	rows := lo.Map(res.Rows, func(r core.PacedRow, _ int) []string {
		return lo.Map(cols, func(c tableColumn, _ int) string { return c.cell(r) })
	})

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(separatorStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if cols[col].right {
				st = st.Align(lipgloss.Right)
			}
			if row == table.HeaderRow {
				return st.Inherit(tableHeaderStyle)
			}
			if row >= 0 && row < len(res.Rows) && cols[col].style != nil {
				return st.Inherit(cols[col].style(res.Rows[row]))
			}
			return st
		})
	sb.WriteString(t.Render() + "\n")
	return sb.String()
}
