package ui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dndsidebar/internal/dnd"
	"dndsidebar/internal/groups"
)

// ungroupAreaKey is the row key of the drop zone shown under the list while
// connections are dragged
const ungroupAreaKey = "ungrouped-area"

// ErrStaleDrag is returned when the row set changed between drag start and drop
var ErrStaleDrag = errors.New("list changed during drag")

// dragSession is the payload of a drag in flight
type dragSession struct {
	generation uint64
	kind       groups.RowKind
	items      []string // nicknames, or a single group ID
	origin     string   // row key the drag started on
	moved      bool
	hit        *dnd.HitTestResult
}

func (d *dragSession) dragsConnections() bool {
	return d != nil && d.kind == groups.RowConnection
}

// visibleRows returns the rows as laid out right now, including the ungroup
// drop zone while connections are being dragged and there are groups
func (m *Model) visibleRows() []groups.Row {
	if !m.drag.dragsConnections() || !m.hasGroups() {
		return m.rows
	}
	rows := make([]groups.Row, 0, len(m.rows)+1)
	rows = append(rows, m.rows...)
	return append(rows, groups.Row{Key: ungroupAreaKey, Kind: groups.RowGroup, Label: "Drop here to ungroup"})
}

func (m *Model) hasGroups() bool {
	for _, r := range m.rows {
		if r.Kind == groups.RowGroup {
			return true
		}
	}
	return false
}

// geometry returns the bounds of the rows inside the viewport, relative to
// the top of the list
func (m *Model) geometry() []dnd.RowBounds {
	rows := m.visibleRows()
	offset := m.offsetLines()
	end := offset + m.listHeight()
	if end > len(rows) {
		end = len(rows)
	}

	bounds := make([]dnd.RowBounds, 0, end-offset)
	for i := offset; i < end; i++ {
		bounds = append(bounds, dnd.RowBounds{
			Key:    rows[i].Key,
			Top:    float64(i-offset) * cellHeight,
			Height: cellHeight,
		})
	}
	return bounds
}

// pointerFor converts a terminal row into list coordinates, centered on the cell
func pointerFor(y int) float64 {
	return (float64(y-listTop) + 0.5) * cellHeight
}

// rowIndexAt returns the index of the row under terminal line y, or -1
func (m *Model) rowIndexAt(y int) int {
	idx := y - listTop + m.offsetLines()
	if y < listTop || y >= listTop+m.listHeight() || idx >= len(m.visibleRows()) {
		return -1
	}
	return idx
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollLines(-wheelStep)
		return nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollLines(wheelStep)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.beginDrag(msg.Y)
		}
		return nil
	case tea.MouseActionMotion:
		return m.dragMotion(msg.Y)
	case tea.MouseActionRelease:
		m.endDrag(msg.Y)
		return nil
	}
	return nil
}

// beginDrag starts a drag on the row under y. A marked connection drags every
// marked connection along, in list order.
func (m *Model) beginDrag(y int) {
	idx := m.rowIndexAt(y)
	if idx < 0 || idx >= len(m.rows) {
		return
	}
	m.cursor = idx
	row := m.rows[idx]

	d := &dragSession{
		generation: m.generation,
		kind:       row.Kind,
		origin:     row.Key,
	}
	switch row.Kind {
	case groups.RowConnection:
		d.items = []string{row.Nickname}
		if m.marked[row.Nickname] {
			d.items = m.markedInOrder()
		}
	case groups.RowGroup:
		d.items = []string{row.GroupID}
	}
	m.drag = d
	m.logger.Debug("drag start", "origin", d.origin, "items", d.items, "generation", d.generation)
}

func (m *Model) dragMotion(y int) tea.Cmd {
	if m.drag == nil {
		return nil
	}
	m.drag.moved = true
	m.pointerY = pointerFor(y)
	m.updateHit()

	m.velocity = dnd.AutoscrollVelocity(dnd.AutoscrollParams{
		ViewportHeight: float64(m.listHeight()) * cellHeight,
		PointerY:       m.pointerY,
		Margin:         m.settings.AutoscrollMargin,
		MaxVelocity:    m.settings.AutoscrollMaxVelocity,
	})
	if m.velocity != 0 && !m.ticking {
		m.ticking = true
		return m.tick()
	}
	return nil
}

// updateHit recomputes the insertion slot for the last pointer position.
// Hovering the dragged row itself shows no indicator.
func (m *Model) updateHit() {
	hit, ok := dnd.HitTest(m.geometry(), m.pointerY)
	if !ok || hit.Key == m.drag.origin {
		m.drag.hit = nil
		return
	}
	m.drag.hit = &hit
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.settings.Interval(), func(time.Time) tea.Msg {
		return autoscrollTickMsg{}
	})
}

// autoscrollStep applies one tick of velocity and keeps ticking while the
// velocity stays non-zero
func (m *Model) autoscrollStep() tea.Cmd {
	if m.drag == nil || m.velocity == 0 {
		m.ticking = false
		return nil
	}
	m.scrollPx = dnd.ScrollStep(m.scrollPx, m.velocity, 0, m.maxScrollPx())
	m.updateHit()
	return m.tick()
}

// endDrag finishes the gesture. A release without motion is a click.
func (m *Model) endDrag(y int) {
	d := m.drag
	m.velocity = 0
	if d == nil {
		return
	}
	if !d.moved {
		m.drag = nil
		m.click(d)
		return
	}

	m.pointerY = pointerFor(y)
	m.updateHit()
	err := m.drop()
	m.drag = nil
	if err != nil {
		m.setError("drop failed: %v", err)
		return
	}
	m.refresh()
	m.clampScroll()
}

func (m *Model) click(d *dragSession) {
	if d.kind != groups.RowGroup || len(d.items) == 0 {
		return
	}
	m.toggleGroup(d.items[0])
}

// drop applies the drag at the last hit-test result
func (m *Model) drop() error {
	d := m.drag
	if d.generation != m.generation {
		return ErrStaleDrag
	}
	if d.hit == nil || len(d.items) == 0 {
		return nil
	}
	hit := *d.hit

	if hit.Key == ungroupAreaKey {
		if d.kind != groups.RowConnection {
			return nil
		}
		return m.moveConnections(d.items, dnd.Ungrouped)
	}

	kind, id, ok := groups.ParseRowKey(hit.Key)
	if !ok {
		return fmt.Errorf("unknown drop row %q", hit.Key)
	}

	switch d.kind {
	case groups.RowConnection:
		if kind == groups.RowGroup {
			return m.moveConnections(d.items, dnd.Group(id))
		}
		plan, err := m.manager.ReorderConnections(id, d.items, hit.Position)
		if err != nil {
			return err
		}
		if plan.Changed {
			m.setStatus("moved %d connection(s) %s %s", len(d.items), hit.Position, id)
		}
		return nil

	case groups.RowGroup:
		if kind != groups.RowGroup || id == d.items[0] {
			return nil
		}
		err := m.manager.ReorderGroup(d.items[0], id, hit.Position)
		if errors.Is(err, groups.ErrNotSiblings) {
			// Different levels: nest the group instead
			err = m.manager.MoveGroup(d.items[0], id)
		}
		return err
	}
	return nil
}

func (m *Model) moveConnections(nicknames []string, target dnd.GroupKey) error {
	for _, nick := range nicknames {
		if err := m.manager.MoveConnection(nick, target); err != nil {
			return err
		}
	}
	m.setStatus("moved %d connection(s) to %s", len(nicknames), target)
	return nil
}

func (m *Model) markedInOrder() []string {
	var out []string
	for _, r := range m.rows {
		if r.Kind == groups.RowConnection && m.marked[r.Nickname] {
			out = append(out, r.Nickname)
		}
	}
	return out
}
