package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
)

func pipelineResultFor(p core.Payload) pipeline.Result {
	return pipeline.Run(p, pipeline.Options{Range: septemberRange()})
}

func pacedRows(n int) []core.PacedRow {
	rows := make([]core.PacedRow, n)
	for i := range rows {
		rows[i] = core.PacedRow{
			EntityRow: core.EntityRow{
				CampaignID:    string(rune('a' + i)),
				AccountName:   "Acme",
				CampaignName:  "Campaign " + string(rune('A'+i)),
				MonthlyBudget: 100000,
				Period:        core.Metrics{Gross: 50000},
			},
			ProgressPercent: 50,
			DiffPoint:       -16.7,
			Band:            core.BandAtRisk,
		}
	}
	return rows
}

func TestVisibleColumns_DropsFromTheRight(t *testing.T) {
	narrow := visibleColumns(60)
	wide := visibleColumns(400)
	if len(wide) != len(pacingColumns()) {
		t.Fatalf("wide = %d columns, want all %d", len(wide), len(pacingColumns()))
	}
	if len(narrow) >= len(wide) || narrow[0].title != "Account" {
		t.Fatalf("narrow columns = %d", len(narrow))
	}
}

func TestRenderPacingTable(t *testing.T) {
	rows := pacedRows(3)
	out := renderPacingTable(rows, core.GrainCampaign, 0, map[string]bool{"Campaign B": true}, unsorted, 200, 10)
	plain := ansi.Strip(out)

	for _, want := range []string{"Account", "Campaign A", "Campaign C", "100,000", "50.0%", "-16.7pt"} {
		if !strings.Contains(plain, want) {
			t.Errorf("table missing %q:\n%s", want, plain)
		}
	}
	lines := strings.Split(plain, "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[2], "●") {
		t.Errorf("marked row not flagged: %q", lines[2])
	}
}

func TestRenderPacingTable_WindowsAroundCursor(t *testing.T) {
	rows := pacedRows(20)
	out := ansi.Strip(renderPacingTable(rows, core.GrainCampaign, 19, nil, unsorted, 200, 6))
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 6", len(lines))
	}
	if !strings.Contains(out, "Campaign T") || strings.Contains(out, "Campaign A ") {
		t.Fatalf("cursor row not in window:\n%s", out)
	}
	if !strings.Contains(out, "of 20 rows") {
		t.Fatal("missing row counter")
	}
}

func TestTableWindow(t *testing.T) {
	tests := []struct {
		cursor, total, visible, want int
	}{
		{0, 5, 10, 0},
		{0, 20, 5, 0},
		{10, 20, 5, 8},
		{19, 20, 5, 15},
	}
	for _, tt := range tests {
		if got := tableWindow(tt.cursor, tt.total, tt.visible); got != tt.want {
			t.Errorf("tableWindow(%d,%d,%d) = %d, want %d", tt.cursor, tt.total, tt.visible, got, tt.want)
		}
	}
}

func TestRenderSummaryCards(t *testing.T) {
	s := core.Summary{
		IdealPacing:     66.7,
		TotalGross:      50000,
		LatestGross:     30000,
		DiffGross:       10000,
		AvgProgress:     50,
		AvgProgressDiff: -16.7,
		HasBudgetedRows: true,
		CTR:             1,
		CPM:             16666.7,
	}
	plain := ansi.Strip(renderSummaryCards(s, 200))
	for _, want := range []string{"Ideal pacing", "66.7%", "50,000", "+10,000", "-16.7pt vs ideal", "1.00%", "16,666.7"} {
		if !strings.Contains(plain, want) {
			t.Errorf("cards missing %q:\n%s", want, plain)
		}
	}

	none := ansi.Strip(renderSummaryCards(core.Summary{}, 200))
	if !strings.Contains(none, "no budgeted rows") {
		t.Error("unbudgeted summary should say so")
	}
}

func TestRenderReport(t *testing.T) {
	m := loadedModel(t)
	plain := ansi.Strip(RenderReport(m.Result(), 120))
	for _, want := range []string{"pacewatch", "2026-09-01 → 2026-09-20", "Search", "Display", "Video", "Δ Gross"} {
		if !strings.Contains(plain, want) {
			t.Errorf("report missing %q:\n%s", want, plain)
		}
	}

	empty := ansi.Strip(RenderReport(pipelineResultFor(core.Payload{}), 120))
	if !strings.Contains(empty, core.ReportNoCampaigns.Message()) {
		t.Errorf("empty report missing state message:\n%s", empty)
	}
}
