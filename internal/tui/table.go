package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janekbaraniewski/pacewatch/internal/core"
)

type tableColumn struct {
	title string
	width int
	right bool
	cell  func(r core.PacedRow) string
	style func(r core.PacedRow) lipgloss.Style
	// num is the sort key for numeric columns; text columns sort by cell.
	num func(r core.PacedRow) float64
}

const (
	markerWidth = 2
	columnGap   = 1
)

// pacingColumns lists the table columns in display order. Columns that do not
// fit the terminal width are dropped from the right.
func pacingColumns() []tableColumn {
	return []tableColumn{
		{title: "Account", width: 16, cell: func(r core.PacedRow) string { return r.AccountName }},
		{title: "Campaign", width: 22, cell: func(r core.PacedRow) string { return r.CampaignName }},
		{
			title: "Budget", width: 11, right: true,
			cell:  func(r core.PacedRow) string { return formatAmount(r.MonthlyBudget) },
			num:   func(r core.PacedRow) float64 { return r.MonthlyBudget },
		},
		{
			title: "Gross", width: 11, right: true,
			cell:  func(r core.PacedRow) string { return formatAmount(r.Period.Gross) },
			num:   func(r core.PacedRow) float64 { return r.Period.Gross },
		},
		{
			title: "Progress", width: 8, right: true,
			cell:  func(r core.PacedRow) string { return formatPercent(r.ProgressPercent) },
			num:   func(r core.PacedRow) float64 { return r.ProgressPercent },
		},
		{title: "", width: 10, cell: func(r core.PacedRow) string { return RenderInlineGauge(r.ProgressPercent, 10) }},
		{
			title: "Daily", width: 7, right: true,
			cell:  func(r core.PacedRow) string { return formatPercent(r.DailyProgressDiff) },
			num:   func(r core.PacedRow) float64 { return r.DailyProgressDiff },
		},
		{
			title: "Pacing", width: 9, right: true,
			cell:  func(r core.PacedRow) string { return formatPoints(r.DiffPoint) },
			style: func(r core.PacedRow) lipgloss.Style { return bandStyle(r.Band).Bold(true) },
			num:   func(r core.PacedRow) float64 { return r.DiffPoint },
		},
		{
			title: "Latest", width: 10, right: true,
			cell:  func(r core.PacedRow) string { return formatAmount(r.Latest.Gross) },
			num:   func(r core.PacedRow) float64 { return r.Latest.Gross },
		},
		{
			title: "Δ Gross", width: 10, right: true,
			cell:  func(r core.PacedRow) string { return formatDelta(r.Diff.Gross) },
			style: func(r core.PacedRow) lipgloss.Style { return deltaStyle(r.Diff.Gross) },
			num:   func(r core.PacedRow) float64 { return r.Diff.Gross },
		},
		{
			title: "Imps", width: 11, right: true,
			cell:  func(r core.PacedRow) string { return formatAmount(r.Period.Impression) },
			num:   func(r core.PacedRow) float64 { return r.Period.Impression },
		},
		{
			title: "Clicks", width: 8, right: true,
			cell:  func(r core.PacedRow) string { return formatAmount(r.Period.Click) },
			num:   func(r core.PacedRow) float64 { return r.Period.Click },
		},
		{
			title: "Latest Imps", width: 11, right: true,
			cell:  func(r core.PacedRow) string { return formatAmount(r.Latest.Impression) },
			num:   func(r core.PacedRow) float64 { return r.Latest.Impression },
		},
		{
			title: "Δ Imps", width: 10, right: true,
			cell:  func(r core.PacedRow) string { return formatDelta(r.Diff.Impression) },
			style: func(r core.PacedRow) lipgloss.Style { return deltaStyle(r.Diff.Impression) },
			num:   func(r core.PacedRow) float64 { return r.Diff.Impression },
		},
		{
			title: "Latest Clk", width: 10, right: true,
			cell:  func(r core.PacedRow) string { return formatAmount(r.Latest.Click) },
			num:   func(r core.PacedRow) float64 { return r.Latest.Click },
		},
		{
			title: "Δ Clk", width: 8, right: true,
			cell:  func(r core.PacedRow) string { return formatDelta(r.Diff.Click) },
			style: func(r core.PacedRow) lipgloss.Style { return deltaStyle(r.Diff.Click) },
			num:   func(r core.PacedRow) float64 { return r.Diff.Click },
		},
	}
}

// tableSort is the active table ordering. col indexes pacingColumns; a
// negative col keeps the pipeline order.
type tableSort struct {
	col  int
	desc bool
}

var unsorted = tableSort{col: -1}

func (s tableSort) active() bool { return s.col >= 0 }

// nextSortColumn steps to the next sortable column, wrapping back to the
// pipeline order after the last one.
func nextSortColumn(col int) int {
	cols := pacingColumns()
	for i := col + 1; i < len(cols); i++ {
		if cols[i].title != "" {
			return i
		}
	}
	return -1
}

// sortRows orders rows in place by the sort column. Ties keep their order.
func sortRows(rows []core.PacedRow, s tableSort) {
	cols := pacingColumns()
	if !s.active() || s.col >= len(cols) {
		return
	}
	c := cols[s.col]
	less := func(a, b core.PacedRow) bool {
		return strings.ToLower(c.cell(a)) < strings.ToLower(c.cell(b))
	}
	if c.num != nil {
		less = func(a, b core.PacedRow) bool { return c.num(a) < c.num(b) }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if s.desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func (s tableSort) label() string {
	if !s.active() {
		return ""
	}
	title := pacingColumns()[s.col].title
	if s.desc {
		return title + " ▼"
	}
	return title + " ▲"
}

func visibleColumns(w int) []tableColumn {
	used := markerWidth
	var out []tableColumn
	for _, c := range pacingColumns() {
		if used+c.width > w {
			break
		}
		out = append(out, c)
		used += c.width + columnGap
	}
	return out
}

// tableWindow returns the first row index to draw so the cursor stays visible.
func tableWindow(cursor, total, visible int) int {
	if visible <= 0 || total <= visible {
		return 0
	}
	start := cursor - visible/2
	if start < 0 {
		start = 0
	}
	if start > total-visible {
		start = total - visible
	}
	return start
}

// renderPacingTable draws the header and as many rows as fit in h lines.
// marked holds entity names in the multi-select filter.
func renderPacingTable(rows []core.PacedRow, grain core.Grain, cursor int, marked map[string]bool, order tableSort, w, h int) string {
	cols := visibleColumns(w)
	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", markerWidth))
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(strings.Repeat(" ", columnGap))
		}
		title := c.title
		if order.active() && i == order.col {
			title = order.label()
		}
		sb.WriteString(tableHeaderStyle.Render(fitCell(title, c.width, c.right)))
	}

	visible := h - 1
	if len(rows) > visible {
		visible = h - 2
	}
	if visible < 1 {
		visible = 1
	}
	start := tableWindow(cursor, len(rows), visible)
	end := start + visible
	if end > len(rows) {
		end = len(rows)
	}

	for i := start; i < end; i++ {
		r := rows[i]
		sb.WriteString("\n")

		marker := "  "
		if marked[r.EntityName(grain)] {
			marker = lipgloss.NewStyle().Foreground(colorAccent).Render("● ")
		}

		var line strings.Builder
		line.WriteString(marker)
		for j, c := range cols {
			if j > 0 {
				line.WriteString(strings.Repeat(" ", columnGap))
			}
			cell := fitCell(c.cell(r), c.width, c.right)
			if c.style != nil {
				cell = c.style(r).Render(cell)
			} else {
				cell = valueStyle.Render(cell)
			}
			line.WriteString(cell)
		}

		rendered := line.String()
		if i == cursor {
			rendered = tableCursorStyle.Width(w).Render(rendered)
		}
		sb.WriteString(rendered)
	}

	if len(rows) > visible {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(strings.Repeat(" ", markerWidth) +
			numberPrinter.Sprintf("%d–%d of %d rows", start+1, end, len(rows))))
	}
	return sb.String()
}
