package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janekbaraniewski/pacewatch/internal/config"
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m Model) View() string {
	if m.width < 40 || m.height < 12 {
		return dimStyle.Render("\n  Terminal too small. Resize to at least 40×12.")
	}
	if m.showHelp {
		return m.renderHelpOverlay(m.width, m.height)
	}

	header := m.renderHeader(m.width)
	footer := m.renderFooter(m.width)
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	contentH = max(contentH, 3)

	var content string
	switch {
	case m.picking:
		content = m.renderPicker(m.width, contentH)
	case m.screen == screenChart:
		content = m.renderChartScreen(m.width, contentH)
	default:
		content = m.renderTableScreen(m.width, contentH)
	}
	content = lipgloss.NewStyle().Height(contentH).MaxHeight(contentH).Render(content)

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader(w int) string {
	brand := headerBrandStyle.Render("◆ pacewatch")
	tabs := m.renderScreenTabs()

	spinner := ""
	if m.fetching {
		spinner = " " + lipgloss.NewStyle().Foreground(colorAccent).
			Render(spinnerFrames[m.animFrame%len(spinnerFrames)]+" fetching")
	}

	info := fmt.Sprintf("%s · %s · %s", m.rng.Label(), m.grain.Label(), ThemeName())
	infoRendered := labelStyle.Render(info)

	left := brand + " " + tabs + spinner
	gap := max(1, w-lipgloss.Width(left)-lipgloss.Width(infoRendered))
	return left + strings.Repeat(" ", gap) + infoRendered + "\n" + separatorStyle.Render(strings.Repeat("━", w))
}

func (m Model) renderScreenTabs() string {
	var parts []string
	for i, screen := range []screenTab{screenTable, screenChart} {
		label := fmt.Sprintf("%d:%s", i+1, screenLabelByTab[screen])
		if screen == m.screen {
			parts = append(parts, screenTabActiveStyle.Render(label))
		} else {
			parts = append(parts, screenTabInactiveStyle.Render(label))
		}
	}
	return strings.Join(parts, "")
}

func (m Model) renderFooter(w int) string {
	return separatorStyle.Render(strings.Repeat("━", w)) + "\n" + m.renderFooterStatusLine()
}

func (m Model) renderFooterStatusLine() string {
	inputStyle := lipgloss.NewStyle().Foreground(colorSapphire)
	switch {
	case m.apiKeyEditing:
		masked := strings.Repeat("•", len([]rune(m.apiKeyInput)))
		return " " + dimStyle.Render("API key: ") + inputStyle.Render(masked+"█") +
			dimStyle.Render("  enter save · esc cancel")
	case m.querying:
		return " " + dimStyle.Render("filter: ") + inputStyle.Render(m.query+"█")
	case m.picking:
		return " " + helpStyle.Render("space toggle · c clear · enter close")
	}

	var parts []string
	if m.query != "" {
		parts = append(parts, dimStyle.Render("filter: ")+inputStyle.Render(m.query))
	}
	if m.sort.active() {
		parts = append(parts, dimStyle.Render("sort: ")+inputStyle.Render(m.sort.label()))
	}
	if n := len(m.marked); n > 0 {
		parts = append(parts, inputStyle.Render(fmt.Sprintf("%d selected", n)))
	}
	if m.status != "" {
		parts = append(parts, dimStyle.Render(m.status))
	}
	parts = append(parts, helpStyle.Render("? help"))
	return " " + strings.Join(parts, dimStyle.Render(" · "))
}

// renderNotice draws the message shown instead of report content.
func (m Model) renderNotice() (string, bool) {
	if m.fetchErr != nil {
		lines := []string{"", "  " + errorStyle.Render("Fetch failed: "+m.fetchErr.Error())}
		var fe *core.FetchError
		switch {
		case errors.As(m.fetchErr, &fe) && fe.Hint() != "":
			lines = append(lines, "  "+dimStyle.Render(fe.Hint()))
		case errors.Is(m.fetchErr, core.ErrMissingAPIKey):
			lines = append(lines, "  "+dimStyle.Render(
				fmt.Sprintf("press k to enter a key or set %s", config.DefaultAPIKeyEnv)))
		}
		return strings.Join(lines, "\n"), true
	}
	if !m.hasPayload {
		msg := "Press r to fetch the report for " + m.rng.Label()
		if m.fetching {
			msg = "Fetching report for " + m.rng.Label() + "..."
		}
		return "\n  " + dimStyle.Render(msg), true
	}
	return "", false
}

func (m Model) renderTableScreen(w, h int) string {
	if notice, ok := m.renderNotice(); ok {
		return notice
	}
	res := m.result

	var sb strings.Builder
	if msg := res.State.Message(); msg != "" {
		sb.WriteString(" " + lipgloss.NewStyle().Foreground(colorYellow).Render(msg) + "\n")
	}
	sb.WriteString(renderSummaryCards(res.Summary, w))
	sb.WriteString("\n")
	if res.HasLatest {
		sb.WriteString(" " + dimStyle.Render("latest data "+res.LatestDate.Format(core.DateLayout)) + "\n")
	}

	used := lipgloss.Height(sb.String())
	remaining := h - used
	if len(res.Rows) == 0 {
		if len(res.AllRows) > 0 {
			sb.WriteString("\n  " + dimStyle.Render("No rows match the filter."))
		}
		return sb.String()
	}
	if remaining < 2 {
		return sb.String()
	}
	sb.WriteString(renderPacingTable(res.Rows, res.Grain, m.cursor, m.marked, m.sort, w, remaining))
	return sb.String()
}

func (m Model) renderChartScreen(w, h int) string {
	if notice, ok := m.renderNotice(); ok {
		return notice
	}
	res := m.result

	var sb strings.Builder
	title := "Portfolio"
	if res.HasSeries {
		title = res.Series.Label
	}
	sb.WriteString(" " + sectionHeaderStyle.Render(title) + "  " +
		dimStyle.Render(m.selection.String()) + "\n")

	if !res.HasSeries {
		sb.WriteString("\n  " + dimStyle.Render("No data for this selection."))
		return sb.String()
	}

	s := res.Series
	last, ok := lastObserved(s)
	if ok {
		diff := last.ActualProgress - last.IdealProgress
		sb.WriteString(" " + labelStyle.Render("budget ") + valueStyle.Render(formatAmount(s.Budget)) +
			labelStyle.Render("  spent ") + valueStyle.Render(formatAmount(last.Cumulative.Gross)) +
			labelStyle.Render("  progress ") + valueStyle.Render(formatPercent(last.ActualProgress)) +
			labelStyle.Render(" vs ideal ") + valueStyle.Render(formatPercent(last.IdealProgress)) + " " +
			bandStyle(core.ClassifyPacing(diff)).Render(formatPoints(diff)) + "\n")
		sb.WriteString(" " + labelStyle.Render("impressions ") + valueStyle.Render(formatAmount(last.Cumulative.Impression)) +
			labelStyle.Render("  clicks ") + valueStyle.Render(formatAmount(last.Cumulative.Click)) +
			labelStyle.Render("  through ") + dimStyle.Render(last.Date.Format(core.DateLayout)) + "\n")
	}

	legend := " " + lipgloss.NewStyle().Foreground(colorAccent).Render("━ actual") + "  " +
		lipgloss.NewStyle().Foreground(colorDim).Render("━ ideal")
	spark := " " + labelStyle.Render("daily gross ") + RenderSparkline(dailyGross(s), w-16, colorTeal)

	chartH := h - lipgloss.Height(sb.String()) - 2
	sb.WriteString(renderProgressChart(s, w-2, chartH))
	sb.WriteString("\n" + legend + "\n" + spark)
	return sb.String()
}

func lastObserved(s core.Series) (core.TimeSeriesPoint, bool) {
	for i := len(s.Points) - 1; i >= 0; i-- {
		if s.Points[i].Observed {
			return s.Points[i], true
		}
	}
	return core.TimeSeriesPoint{}, false
}

func (m Model) renderPicker(w, h int) string {
	names := m.pickerNames()
	var sb strings.Builder
	sb.WriteString(" " + sectionHeaderStyle.Render("Filter by "+strings.ToLower(m.grain.Label())) + "\n")
	if len(names) == 0 {
		sb.WriteString("\n  " + dimStyle.Render("Nothing to filter."))
		return sb.String()
	}

	visible := max(1, h-1)
	start := tableWindow(m.pickIdx, len(names), visible)
	end := min(start+visible, len(names))
	for i := start; i < end; i++ {
		box := "[ ] "
		if m.marked[names[i]] {
			box = "[x] "
		}
		line := "  " + box + fitCell(names[i], w-8, false)
		if i == m.pickIdx {
			line = tableCursorStyle.Width(w).Render(line)
		} else {
			line = valueStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Result exposes the last pipeline run, mainly for tests and exports.
func (m Model) Result() pipeline.Result { return m.result }
