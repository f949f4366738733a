package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dndsidebar/internal/dnd"
	"dndsidebar/internal/groups"
)

// View implements tea.Model
func (m *Model) View() string {
	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle())

	rows := m.visibleRows()
	offset := m.offsetLines()
	for i := 0; i < m.listHeight(); i++ {
		idx := offset + i
		if idx >= len(rows) {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, m.renderRow(idx, rows[idx]))
	}

	lines = append(lines, m.help.View(m.keys), m.renderStatus())

	clip := lipgloss.NewStyle().MaxWidth(m.width)
	for i := range lines {
		lines[i] = clip.Render(lines[i])
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTitle() string {
	title := m.styles.Title.Render("Connections")
	if n := len(m.marked); n > 0 {
		title += m.styles.Marked.Render(fmt.Sprintf("  %d marked", n))
	}
	return title
}

func (m *Model) renderRow(idx int, row groups.Row) string {
	gutter := " "
	if m.drag != nil && m.drag.hit != nil && m.drag.hit.Key == row.Key {
		gutter = "▲"
		if m.drag.hit.Position == dnd.Below {
			gutter = "▼"
		}
		gutter = m.styles.Indicator.Render(gutter)
	}

	if row.Key == ungroupAreaKey {
		return gutter + " " + m.styles.UngroupArea.Render(row.Label)
	}

	indent := strings.Repeat("  ", row.Depth)
	var text string
	switch row.Kind {
	case groups.RowGroup:
		arrow := "▸"
		if row.Expanded {
			arrow = "▾"
		}
		text = m.styles.Group.Render(fmt.Sprintf("%s%s %s (%d)", indent, arrow, row.Label, row.Count))
	default:
		mark := "  "
		if m.marked[row.Nickname] {
			mark = m.styles.Marked.Render("● ")
		}
		text = indent + mark + m.styles.Connection.Render(row.Label)
	}

	if m.isDragged(row) {
		text = m.styles.Dragging.Render(text)
	}
	if idx == m.cursor && m.drag == nil {
		text = m.styles.Cursor.Render(text)
	}
	return gutter + " " + text
}

func (m *Model) isDragged(row groups.Row) bool {
	if m.drag == nil || !m.drag.moved {
		return false
	}
	if m.drag.kind != row.Kind {
		return false
	}
	id := row.Nickname
	if row.Kind == groups.RowGroup {
		id = row.GroupID
	}
	for _, item := range m.drag.items {
		if item == id {
			return true
		}
	}
	return false
}

func (m *Model) renderStatus() string {
	if m.prompt != promptNone {
		return m.renderPrompt()
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.Error.Render(m.status)
	}
	return m.styles.Status.Render(m.status)
}
