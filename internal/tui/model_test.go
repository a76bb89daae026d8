package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janekbaraniewski/pacewatch/internal/core"
)

func fixedNow() time.Time { return time.Date(2026, 9, 21, 9, 0, 0, 0, time.UTC) }

func fixturePayload() core.Payload {
	acme, globex := "Acme", "Globex"
	limit := func(v float64) []core.PayloadChargeLimit {
		return []core.PayloadChargeLimit{{Month: "202609", ChargeLimit: core.Number(v)}}
	}
	return core.Payload{
		Account: []core.PayloadAccount{
			{Name: &acme, Campaign: []core.PayloadCampaign{
				{ID: "1", Name: "Search", MonthlyChargeLimit: limit(100000)},
				{ID: "2", Name: "Display", MonthlyChargeLimit: limit(50000)},
			}},
			{Name: &globex, Campaign: []core.PayloadCampaign{
				{ID: "3", Name: "Video", MonthlyChargeLimit: limit(200000)},
			}},
		},
		Report: &core.PayloadReport{Records: []core.PayloadRecord{
			{CampaignID: "1", Date: "2026-09-19", Gross: 20000, Impression: 1000, Click: 10},
			{CampaignID: "1", Date: "2026-09-20", Gross: 30000, Impression: 2000, Click: 20},
			{CampaignID: "2", Date: "2026-09-20", Gross: 10000, Impression: 500, Click: 5},
			{CampaignID: "3", Date: "2026-09-20", Gross: 40000, Impression: 4000, Click: 40},
		}},
	}
}

func septemberRange() core.DateRange {
	return core.NewDateRange(
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
	)
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	fetch := func(context.Context, core.DateRange) (core.Payload, error) { return fixturePayload(), nil }
	m := NewModel(Options{Range: septemberRange(), Now: fixedNow}, fetch)
	m.width, m.height = 160, 48
	return apply(t, m, reportFetchedMsg{seq: m.fetchSeq, payload: fixturePayload()})
}

func apply(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	return apply(t, m, keyMsg(key))
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, string(r))
	}
	return m
}

func TestNewModel_FetchOnStart(t *testing.T) {
	fetch := func(context.Context, core.DateRange) (core.Payload, error) { return core.Payload{}, nil }

	m := NewModel(Options{FetchOnStart: true, Now: fixedNow}, fetch)
	if !m.fetching || m.Init() == nil {
		t.Fatal("expected a fetch on start")
	}
	want := core.DefaultDateRange(fixedNow())
	if m.rng != want {
		t.Fatalf("range = %v, want default %v", m.rng, want)
	}

	idle := NewModel(Options{Now: fixedNow}, fetch)
	if idle.fetching || idle.Init() != nil {
		t.Fatal("expected no fetch without FetchOnStart")
	}
}

func TestFetchResult_RunsPipeline(t *testing.T) {
	m := loadedModel(t)
	if !m.hasPayload || m.fetching {
		t.Fatalf("hasPayload=%v fetching=%v", m.hasPayload, m.fetching)
	}
	if len(m.result.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.result.Rows))
	}
	if m.result.State != core.ReportOK {
		t.Fatalf("state = %s", m.result.State)
	}
}

func TestFetchResult_StaleIgnored(t *testing.T) {
	m := loadedModel(t)
	m, _ = m.startFetch()
	stale := apply(t, m, reportFetchedMsg{seq: m.fetchSeq - 1, err: errors.New("late")})
	if stale.fetchErr != nil || !stale.fetching {
		t.Fatal("stale response should be ignored")
	}
}

func TestFetchResult_ErrorClearsReport(t *testing.T) {
	m := loadedModel(t)
	m, _ = m.startFetch()
	m = apply(t, m, reportFetchedMsg{seq: m.fetchSeq, err: &core.FetchError{StatusCode: 401, Message: "bad key"}})
	if m.hasPayload || len(m.result.Rows) != 0 {
		t.Fatal("failed fetch should not leave a report on screen")
	}
	view := m.View()
	if !strings.Contains(view, "Fetch failed") || !strings.Contains(view, "check the API key") {
		t.Fatalf("view missing error and hint:\n%s", view)
	}
}

func TestGrainToggle(t *testing.T) {
	m := loadedModel(t)
	m.marked["Search"] = true
	m.recompute()

	m = press(t, m, "g")
	if m.grain != core.GrainAccount {
		t.Fatalf("grain = %s", m.grain)
	}
	if len(m.marked) != 0 {
		t.Fatal("name filter should reset on grain change")
	}
	if len(m.result.Rows) != 2 {
		t.Fatalf("account rows = %d, want 2", len(m.result.Rows))
	}
	acme := m.result.Rows[0]
	if acme.AccountName != "Acme" || acme.Period.Gross != 60000 || acme.MonthlyBudget != 150000 {
		t.Fatalf("acme row = %+v", acme.EntityRow)
	}
}

func TestSpaceTogglesNameFilter(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "down")
	name := m.result.Rows[m.cursor].CampaignName

	m = press(t, m, " ")
	if !m.marked[name] {
		t.Fatalf("%q not marked", name)
	}
	if len(m.result.Rows) != 1 || m.result.Rows[0].CampaignName != name {
		t.Fatalf("rows after mark = %+v", m.result.Rows)
	}
	if len(m.result.AllRows) != 3 {
		t.Fatal("AllRows should stay unfiltered")
	}

	m = press(t, m, " ")
	if len(m.marked) != 0 || len(m.result.Rows) != 3 {
		t.Fatal("second space should unmark")
	}
}

func TestPickerTogglesNames(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "f")
	if !m.picking {
		t.Fatal("picker not open")
	}
	m = press(t, m, "down")
	m = press(t, m, " ")
	m = press(t, m, "down")
	m = press(t, m, " ")
	m = press(t, m, "enter")

	if m.picking {
		t.Fatal("picker still open")
	}
	if len(m.marked) != 2 || len(m.result.Rows) != 2 {
		t.Fatalf("marked=%v rows=%d", m.markedNames(), len(m.result.Rows))
	}
}

func TestQueryInput(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "/")
	m = typeText(t, m, "glob")
	if m.query != "glob" || len(m.result.Rows) != 1 {
		t.Fatalf("query=%q rows=%d", m.query, len(m.result.Rows))
	}
	m = press(t, m, "backspace")
	if m.query != "glo" {
		t.Fatalf("query after backspace = %q", m.query)
	}
	m = press(t, m, "enter")
	if m.querying || m.query != "glo" {
		t.Fatal("enter should keep the query and close input")
	}

	m = press(t, m, "c")
	if m.query != "" || len(m.result.Rows) != 3 {
		t.Fatal("c should clear filters")
	}
}

func TestEnterSelectsCursorRowForChart(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "enter")

	want := core.Selection{Kind: core.SelectCampaign, Key: m.result.Rows[0].CampaignID}
	if m.selection != want {
		t.Fatalf("selection = %v, want %v", m.selection, want)
	}
	if m.screen != screenChart {
		t.Fatal("enter should open the chart")
	}
	if !m.result.HasSeries || m.result.Series.Budget != m.result.Rows[0].MonthlyBudget {
		t.Fatalf("series = %+v", m.result.Series)
	}
	view := m.View()
	if !strings.Contains(view, m.result.Series.Label) {
		t.Fatal("chart view missing series label")
	}
	// Search: 3,000 impressions and 30 clicks over Sep 19-20.
	if !strings.Contains(view, "impressions") || !strings.Contains(view, "3,000") {
		t.Fatalf("chart view missing cumulative impressions:\n%s", view)
	}

	m = press(t, m, "p")
	if m.selection != core.Portfolio() || m.result.Series.Budget != 350000 {
		t.Fatalf("portfolio series budget = %v", m.result.Series.Budget)
	}
}

func TestMonthAndEndShiftRefetch(t *testing.T) {
	var got []core.DateRange
	fetch := func(_ context.Context, rng core.DateRange) (core.Payload, error) {
		got = append(got, rng)
		return core.Payload{}, nil
	}
	m := NewModel(Options{Range: septemberRange(), Now: fixedNow}, fetch)

	next, cmd := m.Update(keyMsg("["))
	m = next.(Model)
	if !m.fetching || cmd == nil {
		t.Fatal("month shift should start a fetch")
	}
	wantStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if !m.rng.Start.Equal(wantStart) || !m.rng.End.Equal(wantEnd) {
		t.Fatalf("range = %s", m.rng.Label())
	}

	m.rng = septemberRange()
	m = press(t, m, "+")
	if m.rng.End.Day() != 20 {
		t.Fatalf("end moved past yesterday: %s", m.rng.Label())
	}
	m = press(t, m, "-")
	if m.rng.End.Day() != 19 {
		t.Fatalf("end = %s, want 2026-09-19", m.rng.End.Format(core.DateLayout))
	}
	m.fetchCmd()()
	if len(got) != 1 || got[0] != m.rng {
		t.Fatalf("fetched ranges = %v", got)
	}
}

func TestAPIKeyInput(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "k")
	if !m.apiKeyEditing {
		t.Fatal("k should open key input")
	}
	m = typeText(t, m, "secret")
	if !strings.Contains(m.View(), "••••••") {
		t.Fatal("key input should be masked")
	}
	if strings.Contains(m.View(), "secret") {
		t.Fatal("key leaked into the view")
	}

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	if m.apiKeyEditing || cmd == nil {
		t.Fatal("enter should close input and save")
	}

	saved := apply(t, m, apiKeySavedMsg{})
	if !saved.fetching || saved.status != "API key saved" {
		t.Fatalf("status=%q fetching=%v", saved.status, saved.fetching)
	}
}

func TestHelpToggle(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "Pacing bands") {
		t.Fatal("help overlay not shown")
	}
	m = press(t, m, "x")
	if m.showHelp {
		t.Fatal("any key should dismiss help")
	}
}

func TestView_NoDelivery(t *testing.T) {
	p := fixturePayload()
	p.Report = nil
	m := NewModel(Options{Range: septemberRange(), Now: fixedNow}, nil)
	m.width, m.height = 160, 48
	m = apply(t, m, reportFetchedMsg{payload: p})

	if m.result.State != core.ReportNoDelivery {
		t.Fatalf("state = %s", m.result.State)
	}
	if !strings.Contains(m.View(), core.ReportNoDelivery.Message()) {
		t.Fatal("view missing no-delivery message")
	}
}

func TestView_TooSmall(t *testing.T) {
	m := loadedModel(t)
	m.width, m.height = 20, 5
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Fatal("expected resize hint")
	}
}

func rowNames(rows []core.PacedRow) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.CampaignName
	}
	return names
}

func TestSortKeys(t *testing.T) {
	m := loadedModel(t)
	m = press(t, m, "s")
	m = press(t, m, "s")
	if got := strings.Join(rowNames(m.result.Rows), ","); got != "Display,Search,Video" {
		t.Fatalf("campaign ascending = %s", got)
	}

	m = press(t, m, "s")
	m = press(t, m, "S")
	if got := strings.Join(rowNames(m.result.Rows), ","); got != "Video,Search,Display" {
		t.Fatalf("budget descending = %s", got)
	}
	if !strings.Contains(m.View(), "Budget ▼") {
		t.Fatal("view should show the sort column and direction")
	}

	// Filters re-run the pipeline; the order must survive.
	m = press(t, m, "/")
	m = typeText(t, m, "a")
	m = press(t, m, "enter")
	if got := strings.Join(rowNames(m.result.Rows), ","); got != "Search,Display" {
		t.Fatalf("filtered budget descending = %s", got)
	}

	m.sort.col = len(pacingColumns()) - 1
	m = press(t, m, "s")
	if m.sort.active() || m.sort.desc {
		t.Fatalf("sort should wrap back to pipeline order, got %+v", m.sort)
	}
	if got := strings.Join(rowNames(m.result.Rows), ","); got != "Search,Display" {
		t.Fatalf("unsorted = %s", got)
	}
}

func TestNextSortColumnSkipsGauge(t *testing.T) {
	cols := pacingColumns()
	for col := nextSortColumn(-1); col >= 0; col = nextSortColumn(col) {
		if cols[col].title == "" {
			t.Fatalf("column %d has no title but is sortable", col)
		}
	}
}

func TestFetchContextCanceled(t *testing.T) {
	m := loadedModel(t)
	m, _ = m.startFetch()
	first := m.fetchCtx
	m, _ = m.startFetch()
	if first.Err() == nil {
		t.Fatal("a newer fetch should cancel the previous one")
	}

	current := m.fetchCtx
	press(t, m, "q")
	if current.Err() == nil {
		t.Fatal("quitting should cancel the in-flight fetch")
	}

	parent, cancel := context.WithCancel(context.Background())
	var seen context.Context
	fetch := func(ctx context.Context, _ core.DateRange) (core.Payload, error) {
		seen = ctx
		return core.Payload{}, ctx.Err()
	}
	started := NewModel(Options{Range: septemberRange(), Now: fixedNow, FetchOnStart: true, Context: parent}, fetch)
	cancel()
	msg := started.fetchCmd()().(reportFetchedMsg)
	if seen == nil || !errors.Is(msg.err, context.Canceled) {
		t.Fatalf("fetch should run under the dashboard context, err = %v", msg.err)
	}
}
