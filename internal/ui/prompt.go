package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dndsidebar/internal/dnd"
	"dndsidebar/internal/groups"
)

// promptKind is the question the status line is asking, if any
type promptKind int

const (
	promptNone promptKind = iota
	promptNewGroup
	promptRenameGroup
	promptDeleteGroup
)

func newInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "" // drawn by renderPrompt
	ti.CharLimit = 64
	return ti
}

// startPrompt opens a prompt for the current row. Rename and delete only
// apply to group headers.
func (m *Model) startPrompt(kind promptKind) tea.Cmd {
	row, ok := m.currentRow()
	if kind != promptNewGroup && (!ok || row.Kind != groups.RowGroup) {
		return nil
	}

	m.prompt = kind
	m.promptGroup = row.GroupID
	m.input.Reset()

	switch kind {
	case promptDeleteGroup:
		return nil
	case promptRenameGroup:
		m.input.SetValue(row.Label)
		m.input.CursorEnd()
	}
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.promptGroup = ""
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closePrompt()
		return m, nil
	}

	if m.prompt == promptDeleteGroup {
		switch msg.String() {
		case "y", "Y":
			id := m.promptGroup
			m.closePrompt()
			if err := m.manager.DeleteGroup(id); err != nil {
				m.setError("delete group: %v", err)
				return m, nil
			}
			m.setStatus("group deleted")
			m.refresh()
		case "n", "N":
			m.closePrompt()
		}
		return m, nil
	}

	if msg.String() == "enter" {
		m.submitPrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt() {
	kind, id, value := m.prompt, m.promptGroup, m.input.Value()
	m.closePrompt()

	switch kind {
	case promptNewGroup:
		m.createGroup(value)
	case promptRenameGroup:
		if err := m.manager.RenameGroup(id, value); err != nil {
			m.setError("rename group: %v", err)
			return
		}
		m.refresh()
	}
}

// createGroup makes a top-level group and moves the marked connections, or
// the current one, into it
func (m *Model) createGroup(name string) {
	items := m.markedInOrder()
	if row, ok := m.currentRow(); ok && len(items) == 0 && row.Kind == groups.RowConnection {
		items = []string{row.Nickname}
	}

	id, err := m.manager.CreateGroup(name, "")
	if err != nil {
		m.setError("new group: %v", err)
		return
	}
	if len(items) > 0 {
		if err := m.moveConnections(items, dnd.Group(id)); err != nil {
			m.setError("new group: %v", err)
		}
	}
	m.marked = make(map[string]bool)
	m.refresh()
	m.selectKey(groups.GroupRowKey(id))
}

func (m *Model) renderPrompt() string {
	switch m.prompt {
	case promptNewGroup:
		return m.styles.Prompt.Render("New group: ") + m.input.View()
	case promptRenameGroup:
		return m.styles.Prompt.Render("Rename group: ") + m.input.View()
	case promptDeleteGroup:
		name := m.promptGroup
		for _, r := range m.rows {
			if r.Kind == groups.RowGroup && r.GroupID == m.promptGroup {
				name = r.Label
			}
		}
		return m.styles.Prompt.Render(fmt.Sprintf("Delete group %q? Its connections move up a level. (y/n)", name))
	}
	return ""
}
