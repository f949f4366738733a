package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"dndsidebar/internal/dnd"
	"dndsidebar/internal/groups"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		return m, showHelp()

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.MoveUp):
		m.moveRow(-1)

	case key.Matches(msg, m.keys.MoveDown):
		m.moveRow(1)

	case key.Matches(msg, m.keys.Mark):
		if row, ok := m.currentRow(); ok && row.Kind == groups.RowConnection {
			if m.marked[row.Nickname] {
				delete(m.marked, row.Nickname)
			} else {
				m.marked[row.Nickname] = true
			}
		}

	case key.Matches(msg, m.keys.Clear):
		m.drag = nil
		m.velocity = 0
		m.marked = make(map[string]bool)
		m.status = ""

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.currentRow(); ok && row.Kind == groups.RowGroup {
			m.toggleGroup(row.GroupID)
		}

	case key.Matches(msg, m.keys.Ungroup):
		m.ungroupCurrent()

	case key.Matches(msg, m.keys.NewGroup):
		return m, m.startPrompt(promptNewGroup)

	case key.Matches(msg, m.keys.Rename):
		return m, m.startPrompt(promptRenameGroup)

	case key.Matches(msg, m.keys.Delete):
		return m, m.startPrompt(promptDeleteGroup)
	}
	return m, nil
}

func (m *Model) currentRow() (groups.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return groups.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.ensureCursorVisible()
}

func (m *Model) toggleGroup(id string) {
	for _, r := range m.rows {
		if r.Kind == groups.RowGroup && r.GroupID == id {
			if err := m.manager.SetExpanded(id, !r.Expanded); err != nil {
				m.setError("toggle group: %v", err)
				return
			}
			m.refresh()
			return
		}
	}
}

// draggedFor returns what a keyboard move of row carries: every marked
// connection when row is marked, otherwise row alone
func (m *Model) draggedFor(row groups.Row) []string {
	if m.marked[row.Nickname] {
		return m.markedInOrder()
	}
	return []string{row.Nickname}
}

// moveRow moves the current row one step up or down, the keyboard
// equivalent of dropping it next to its neighbour
func (m *Model) moveRow(dir int) {
	row, ok := m.currentRow()
	if !ok {
		return
	}
	pos := dnd.Below
	if dir < 0 {
		pos = dnd.Above
	}

	var err error
	switch row.Kind {
	case groups.RowConnection:
		dragged := m.draggedFor(row)
		target, found := m.neighbourConnection(dir, dragged)
		if !found {
			return
		}
		_, err = m.manager.ReorderConnections(target, dragged, pos)

	case groups.RowGroup:
		target, found := m.neighbourGroup(row, dir)
		if !found {
			return
		}
		err = m.manager.ReorderGroup(row.GroupID, target, pos)
	}
	if err != nil {
		m.setError("move: %v", err)
		return
	}
	m.refresh()
	m.selectKey(row.Key)
}

// neighbourConnection finds the nearest connection in direction dir that is
// not being moved
func (m *Model) neighbourConnection(dir int, moving []string) (string, bool) {
	skip := make(map[string]bool, len(moving))
	for _, nick := range moving {
		skip[nick] = true
	}
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		r := m.rows[i]
		if r.Kind == groups.RowConnection && !skip[r.Nickname] {
			return r.Nickname, true
		}
	}
	return "", false
}

// neighbourGroup finds the adjacent sibling of a group header
func (m *Model) neighbourGroup(row groups.Row, dir int) (string, bool) {
	for i := m.cursor + dir; i >= 0 && i < len(m.rows); i += dir {
		r := m.rows[i]
		if r.Kind != groups.RowGroup {
			continue
		}
		if r.Depth < row.Depth {
			return "", false
		}
		if r.Depth == row.Depth {
			return r.GroupID, true
		}
	}
	return "", false
}

func (m *Model) ungroupCurrent() {
	row, ok := m.currentRow()
	if !ok || row.Kind != groups.RowConnection {
		return
	}
	var nicks []string
	for _, nick := range m.draggedFor(row) {
		if group, ok := m.manager.ConnectionGroup(nick); ok && !group.IsUngrouped() {
			nicks = append(nicks, nick)
		}
	}
	if len(nicks) == 0 {
		return
	}
	if err := m.moveConnections(nicks, dnd.Ungrouped); err != nil {
		m.setError("ungroup: %v", err)
		return
	}
	m.refresh()
	m.selectKey(row.Key)
}
