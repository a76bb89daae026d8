package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/pipeline"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.stopFetch()
		return m, tea.Quit
	}
	switch {
	case m.apiKeyEditing:
		return m.handleAPIKeyInput(msg)
	case m.querying:
		return m.handleQueryInput(msg)
	case m.picking:
		return m.handlePickerKey(msg)
	}

	if msg.String() == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.stopFetch()
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.screen == screenTable {
			m.screen = screenChart
		} else {
			m.screen = screenTable
		}
	case "t":
		return m, persistThemeCmd(CycleTheme())
	case "r":
		return m.startFetch()
	case "g":
		m.grain = m.grain.Toggle()
		m.marked = make(map[string]bool)
		m.cursor = 0
		m.recompute()
		return m, persistGrainCmd(m.grain)
	case "/":
		m.querying = true
	case "f":
		m.picking = true
		m.pickIdx = 0
	case " ", "space":
		if r, ok := m.cursorRow(); ok {
			name := r.EntityName(m.grain)
			if m.marked[name] {
				delete(m.marked, name)
			} else {
				m.marked[name] = true
			}
			m.recompute()
		}
	case "c", "esc":
		m.marked = make(map[string]bool)
		m.query = ""
		m.recompute()
	case "enter":
		if r, ok := m.cursorRow(); ok {
			m.selection = selectionFor(r, m.grain)
			m.screen = screenChart
			m.recompute()
		}
	case "s":
		m.sort.col = nextSortColumn(m.sort.col)
		if !m.sort.active() {
			m.sort.desc = false
		}
		m.cursor = 0
		m.recompute()
	case "S":
		if m.sort.active() {
			m.sort.desc = !m.sort.desc
		} else {
			m.sort = tableSort{col: nextSortColumn(-1), desc: true}
		}
		m.cursor = 0
		m.recompute()
	case "p":
		m.selection = core.Portfolio()
		m.recompute()
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(m.result.Rows)-1 {
			m.cursor++
		}
	case "pgup":
		m.cursor = max(0, m.cursor-m.pageStep())
	case "pgdown":
		m.cursor = max(0, min(len(m.result.Rows)-1, m.cursor+m.pageStep()))
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = max(0, len(m.result.Rows)-1)
	case "[":
		return m.shiftRange(m.rng.ShiftMonth(-1, m.now()))
	case "]":
		return m.shiftRange(m.rng.ShiftMonth(1, m.now()))
	case "-":
		return m.shiftRange(m.rng.ShiftEnd(-1, m.now()))
	case "+", "=":
		return m.shiftRange(m.rng.ShiftEnd(1, m.now()))
	case "k":
		m.apiKeyEditing = true
		m.apiKeyInput = ""
	}
	return m, nil
}

func (m Model) pageStep() int {
	return max(3, m.height/3)
}

func (m Model) shiftRange(next core.DateRange) (tea.Model, tea.Cmd) {
	if next == m.rng {
		return m, nil
	}
	m.rng = next
	return m.startFetch()
}

// editText applies a key to a single-line input and reports whether it was
// consumed as an edit.
func editText(s string, msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(s); len(r) > 0 {
			return string(r[:len(r)-1]), true
		}
		return s, true
	case tea.KeyRunes:
		return s + string(msg.Runes), true
	case tea.KeySpace:
		return s + " ", true
	}
	return s, false
}

func (m Model) handleQueryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.querying = false
		return m, nil
	case tea.KeyEsc:
		m.querying = false
		m.query = ""
		m.recompute()
		return m, nil
	}
	if next, ok := editText(m.query, msg); ok {
		m.query = next
		m.cursor = 0
		m.recompute()
	}
	return m, nil
}

func (m Model) handleAPIKeyInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		key := strings.TrimSpace(m.apiKeyInput)
		m.apiKeyEditing = false
		m.apiKeyInput = ""
		if key == "" {
			m.status = "API key unchanged"
			return m, nil
		}
		m.status = "saving API key..."
		return m, saveAPIKeyCmd(key)
	case tea.KeyEsc:
		m.apiKeyEditing = false
		m.apiKeyInput = ""
		return m, nil
	}
	m.apiKeyInput, _ = editText(m.apiKeyInput, msg)
	return m, nil
}

func (m Model) pickerNames() []string {
	return pipeline.EntityNames(m.result.AllRows, m.grain)
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := m.pickerNames()
	switch msg.String() {
	case "esc", "enter", "f", "q":
		m.picking = false
	case "up":
		if m.pickIdx > 0 {
			m.pickIdx--
		}
	case "down":
		if m.pickIdx < len(names)-1 {
			m.pickIdx++
		}
	case " ", "space":
		if m.pickIdx < len(names) {
			name := names[m.pickIdx]
			if m.marked[name] {
				delete(m.marked, name)
			} else {
				m.marked[name] = true
			}
			m.cursor = 0
			m.recompute()
		}
	case "c":
		m.marked = make(map[string]bool)
		m.recompute()
	}
	return m, nil
}
