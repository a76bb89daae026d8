package tui

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/janekbaraniewski/pacewatch/internal/core"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"amount", formatAmount(1234567), "1,234,567"},
		{"amount zero", formatAmount(0), "0"},
		{"amount nan", formatAmount(math.NaN()), "0"},
		{"delta up", formatDelta(1500), "+1,500"},
		{"delta down", formatDelta(-1500), "-1,500"},
		{"delta flat", formatDelta(0), "±0"},
		{"percent", formatPercent(66.666), "66.7%"},
		{"points up", formatPoints(3.24), "+3.2pt"},
		{"points down", formatPoints(-16.66), "-16.7pt"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestFitCell(t *testing.T) {
	if got := fitCell("abc", 5, true); got != "  abc" {
		t.Errorf("right = %q", got)
	}
	if got := fitCell("abc", 5, false); got != "abc  " {
		t.Errorf("left = %q", got)
	}
	if got := fitCell("abcdefgh", 5, false); ansi.StringWidth(got) != 5 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncated = %q", got)
	}
	if got := fitCell("x", 0, false); got != "" {
		t.Errorf("zero width = %q", got)
	}
}

func TestRenderInlineGauge(t *testing.T) {
	tests := []struct {
		pct    float64
		filled int
	}{
		{0, 0},
		{0.5, 1},
		{50, 5},
		{100, 10},
		{250, 10},
		{-5, 0},
	}
	for _, tt := range tests {
		plain := ansi.Strip(RenderInlineGauge(tt.pct, 10))
		if got := strings.Count(plain, "█"); got != tt.filled {
			t.Errorf("gauge(%v) filled = %d, want %d", tt.pct, got, tt.filled)
		}
		if ansi.StringWidth(plain) != 10 {
			t.Errorf("gauge(%v) width = %d", tt.pct, ansi.StringWidth(plain))
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	plain := ansi.Strip(RenderSparkline([]float64{0, 5, 10}, 10, colorTeal))
	if plain != "▁▄█" {
		t.Fatalf("sparkline = %q", plain)
	}
	if got := ansi.Strip(RenderSparkline(make([]float64, 40), 8, colorTeal)); ansi.StringWidth(got) != 8 {
		t.Fatalf("downsampled width = %d", ansi.StringWidth(got))
	}
	if RenderSparkline(nil, 10, colorTeal) != "" {
		t.Fatal("empty input should render nothing")
	}
}

func TestRenderProgressChart(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	var points []core.TimeSeriesPoint
	for d := 0; d < 30; d++ {
		points = append(points, core.TimeSeriesPoint{
			Date:           start.AddDate(0, 0, d),
			ActualProgress: float64(d) * 2,
			IdealProgress:  float64(d+1) / 30 * 100,
			Observed:       d < 20,
		})
	}
	out := renderProgressChart(core.Series{Label: "Search", Budget: 100000, Points: points}, 60, 12)
	if out == "" {
		t.Fatal("chart rendered nothing")
	}
	if renderProgressChart(core.Series{}, 60, 12) != "" {
		t.Fatal("empty series should render nothing")
	}
}
