package tui

import (
	"math"
	"strings"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/samber/lo"
)

const idealDataSet = "ideal"

// RenderInlineGauge draws a w-cell bar for a budget progress percent. Past 100
// the bar is full and turns red.
func RenderInlineGauge(pct float64, w int) string {
	if w < 4 {
		w = 4
	}
	barColor := colorBlue
	if pct > 100 {
		barColor = colorRed
	}
	pct = math.Max(0, math.Min(100, pct))

	filled := int(pct / 100 * float64(w))
	if filled < 1 && pct > 0 {
		filled = 1
	}
	empty := w - filled

	bar := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled))
	track := lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("░", empty))
	return bar + track
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline draws one block per value, downsampling to w cells.
func RenderSparkline(values []float64, w int, color lipgloss.Color) string {
	if len(values) == 0 || w < 1 {
		return ""
	}
	if len(values) > w {
		step := float64(len(values)) / float64(w)
		sampled := make([]float64, w)
		for i := range sampled {
			sampled[i] = values[min(int(float64(i)*step), len(values)-1)]
		}
		values = sampled
	}

	minV, maxV := lo.Min(values), lo.Max(values)
	span := maxV - minV
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / span * float64(len(sparkBlocks)-1))
		sb.WriteRune(sparkBlocks[max(0, min(idx, len(sparkBlocks)-1))])
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}

// renderProgressChart plots actual cumulative progress against the ideal
// line for the series' month. Days past the last observed day are left off
// the actual line.
func renderProgressChart(s core.Series, w, h int) string {
	if len(s.Points) == 0 || w < 20 || h < 5 {
		return ""
	}

	first := s.Points[0].Date
	last := s.Points[len(s.Points)-1].Date
	yMax := 100.0
	for _, p := range s.Points {
		yMax = math.Max(yMax, p.ActualProgress)
	}
	yMax = math.Ceil(yMax*1.1/10) * 10

	chart := tslc.New(w, h,
		tslc.WithTimeRange(first, last.Add(12*time.Hour)),
		tslc.WithYRange(0, yMax),
	)
	chart.SetStyle(lipgloss.NewStyle().Foreground(colorAccent))
	chart.SetDataSetStyle(idealDataSet, lipgloss.NewStyle().Foreground(colorDim))

	for _, p := range s.Points {
		chart.PushDataSet(idealDataSet, tslc.TimePoint{Time: p.Date, Value: p.IdealProgress})
		if p.Observed {
			chart.Push(tslc.TimePoint{Time: p.Date, Value: p.ActualProgress})
		}
	}
	chart.DrawBrailleAll()
	return chart.View()
}

func dailyGross(s core.Series) []float64 {
	observed := lo.Filter(s.Points, func(p core.TimeSeriesPoint, _ int) bool { return p.Observed })
	return lo.Map(observed, func(p core.TimeSeriesPoint, _ int) float64 { return p.Daily.Gross })
}
