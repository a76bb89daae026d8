package tui

import (
	"context"
	"log"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janekbaraniewski/pacewatch/internal/config"
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
	"github.com/samber/lo"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type screenTab int

const (
	screenTable screenTab = iota // summary cards and pacing table
	screenChart                  // progress chart for the selection
)

var screenLabelByTab = map[screenTab]string{
	screenTable: "Table",
	screenChart: "Chart",
}

// FetchFunc retrieves the report payload for a date range.
type FetchFunc func(ctx context.Context, rng core.DateRange) (core.Payload, error)

type Options struct {
	Range     core.DateRange
	Grain     core.Grain
	Selection core.Selection
	Query     string
	// Names preselects entity names in the multi-select filter.
	Names        []string
	FetchOnStart bool
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
	// Context bounds every fetch; it defaults to context.Background.
	Context context.Context
}

// ConfigReloadedMsg is sent when the settings file changes on disk.
type ConfigReloadedMsg struct {
	Config config.Config
}

type reportFetchedMsg struct {
	seq     int
	payload core.Payload
	err     error
}

type themePersistedMsg struct{ err error }
type grainPersistedMsg struct{ err error }
type apiKeySavedMsg struct {
	masked string
	err    error
}

type Model struct {
	now   func() time.Time
	fetch FetchFunc

	// fetchCtx derives from parentCtx and is canceled when a newer fetch
	// starts or the dashboard quits.
	parentCtx   context.Context
	fetchCtx    context.Context
	cancelFetch context.CancelFunc

	rng       core.DateRange
	grain     core.Grain
	selection core.Selection
	query     string
	marked    map[string]bool

	payload    core.Payload
	hasPayload bool
	result     pipeline.Result
	fetching   bool
	fetchSeq   int
	fetchErr   error

	screen    screenTab
	cursor    int
	sort      tableSort
	querying  bool
	picking   bool
	pickIdx   int
	showHelp  bool
	status    string
	animFrame int
	width     int
	height    int

	apiKeyEditing bool
	apiKeyInput   string
}

func NewModel(opts Options, fetch FetchFunc) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Range
	if rng.Start.IsZero() {
		rng = core.DefaultDateRange(now())
	}
	sel := opts.Selection
	if sel.Kind == "" {
		sel = core.Portfolio()
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	m := Model{
		now:       now,
		fetch:     fetch,
		parentCtx: parent,
		sort:      unsorted,
		rng:       rng,
		grain:     core.ParseGrain(string(opts.Grain)),
		selection: sel,
		query:     opts.Query,
		marked:    lo.SliceToMap(opts.Names, func(n string) (string, bool) { return n, true }),
	}
	if opts.FetchOnStart && fetch != nil {
		m.fetching = true
		m.fetchSeq = 1
		m.newFetchContext()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if !m.fetching {
		return nil
	}
	return tea.Batch(m.fetchCmd(), tickCmd())
}

func (m Model) fetchCmd() tea.Cmd {
	fetch, rng, seq, ctx := m.fetch, m.rng, m.fetchSeq, m.fetchCtx
	if ctx == nil {
		ctx = m.parentCtx
	}
	return func() tea.Msg {
		payload, err := fetch(ctx, rng)
		return reportFetchedMsg{seq: seq, payload: payload, err: err}
	}
}

// startFetch requests a fresh payload for the current range. Results of older
// requests are ignored when they arrive.
func (m Model) startFetch() (Model, tea.Cmd) {
	if m.fetch == nil {
		m.recompute()
		return m, nil
	}
	m.fetchSeq++
	m.newFetchContext()
	m.status = ""
	cmds := []tea.Cmd{m.fetchCmd()}
	if !m.fetching {
		cmds = append(cmds, tickCmd())
	}
	m.fetching = true
	return m, tea.Batch(cmds...)
}

// newFetchContext cancels the in-flight fetch, if any, and derives a context
// for the next one.
func (m *Model) newFetchContext() {
	m.stopFetch()
	m.fetchCtx, m.cancelFetch = context.WithCancel(m.parentCtx)
}

func (m *Model) stopFetch() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

func persistThemeCmd(name string) tea.Cmd {
	return func() tea.Msg {
		err := config.SaveTheme(name)
		if err != nil {
			log.Printf("tui: theme persist: %v", err)
		}
		return themePersistedMsg{err: err}
	}
}

func persistGrainCmd(g core.Grain) tea.Cmd {
	return func() tea.Msg {
		err := config.SaveGrain(g)
		if err != nil {
			log.Printf("tui: grain persist: %v", err)
		}
		return grainPersistedMsg{err: err}
	}
}

func saveAPIKeyCmd(key string) tea.Cmd {
	return func() tea.Msg {
		return apiKeySavedMsg{
			masked: config.MaskKey(key),
			err:    config.SaveAPIKey(config.CredentialAccount, key),
		}
	}
}

func (m Model) markedNames() []string {
	names := lo.Keys(m.marked)
	sort.Strings(names)
	return names
}

// recompute re-runs the pipeline over the cached payload.
func (m *Model) recompute() {
	if !m.hasPayload {
		return
	}
	m.result = pipeline.Run(m.payload, pipeline.Options{
		Range:     m.rng,
		Grain:     m.grain,
		Names:     m.markedNames(),
		Query:     m.query,
		Selection: m.selection,
	})
	if m.sort.active() {
		m.result.Rows = append([]core.PacedRow(nil), m.result.Rows...)
		sortRows(m.result.Rows, m.sort)
	}
	if m.cursor >= len(m.result.Rows) {
		m.cursor = len(m.result.Rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) cursorRow() (core.PacedRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.result.Rows) {
		return core.PacedRow{}, false
	}
	return m.result.Rows[m.cursor], true
}

// selectionFor maps a table row to the chart selection at the current grain.
func selectionFor(r core.PacedRow, g core.Grain) core.Selection {
	if g == core.GrainAccount {
		return core.Selection{Kind: core.SelectAccount, Key: r.AccountName}
	}
	return core.Selection{Kind: core.SelectCampaign, Key: r.CampaignID}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !m.fetching {
			return m, nil
		}
		m.animFrame++
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case reportFetchedMsg:
		if msg.seq != m.fetchSeq {
			return m, nil
		}
		m.fetching = false
		m.stopFetch()
		if msg.err != nil {
			log.Printf("tui: fetch %s: %v", m.rng.Label(), msg.err)
			m.fetchErr = msg.err
			m.hasPayload = false
			m.result = pipeline.Result{}
			return m, nil
		}
		m.fetchErr = nil
		m.payload = msg.payload
		m.hasPayload = true
		m.recompute()
		return m, nil

	case ConfigReloadedMsg:
		if SetThemeByName(msg.Config.Theme) {
			m.status = "settings reloaded"
		}
		return m, nil

	case themePersistedMsg:
		if msg.err != nil {
			m.status = "theme save failed"
		} else {
			m.status = "theme saved"
		}
		return m, nil

	case grainPersistedMsg:
		if msg.err != nil {
			m.status = "grain save failed"
		}
		return m, nil

	case apiKeySavedMsg:
		if msg.err != nil {
			m.status = "API key save failed"
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.startFetch()
		m.status = "API key saved"
		if msg.masked != "" {
			m.status += " (" + msg.masked + ")"
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}
