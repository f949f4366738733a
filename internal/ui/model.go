package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"dndsidebar/internal/config"
	"dndsidebar/internal/dnd"
	"dndsidebar/internal/groups"
)

const (
	// cellHeight is the height of one terminal line in the geometry handed
	// to the hit-tester and autoscroll, so pixel-based tuning carries over.
	cellHeight = 16.0

	listTop      = 1 // title line
	chromeHeight = 3 // title, help and status lines
	wheelStep    = 3 // lines per wheel notch
)

// Model is the Bubble Tea model of the connection sidebar
type Model struct {
	manager  groups.GroupManager
	logger   *log.Logger
	settings config.DnDSettings
	keys     keyMap
	help     help.Model
	styles   *Styles

	rows       []groups.Row
	generation uint64 // bumped whenever the row set changes
	cursor     int
	marked     map[string]bool // marked connection nicknames
	scrollPx   float64

	width  int
	height int

	drag     *dragSession
	pointerY float64
	velocity float64
	ticking  bool

	prompt      promptKind
	promptGroup string
	input       textinput.Model

	status    string
	statusErr bool
}

// NewModel creates the sidebar model
func NewModel(manager groups.GroupManager, settings config.DnDSettings, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	m := &Model{
		manager:  manager,
		logger:   logger.WithPrefix("ui"),
		settings: settings,
		keys:     defaultKeyMap(),
		help:     help.New(),
		styles:   DefaultStyles(),
		marked:   make(map[string]bool),
		input:    newInput(),
		height:   24,
		width:    80,
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case autoscrollTickMsg:
		return m, m.autoscrollStep()

	case EventMsg:
		m.logger.Debug("event", "type", msg.Event.Type())
		m.refresh()
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			m.setError("help pager: %v", msg.err)
		}
		return m, nil
	}
	return m, nil
}

// refresh reloads the rows from the manager. The generation only moves when
// the visible row set actually changed, so drags survive no-op refreshes.
func (m *Model) refresh() {
	var current string
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		current = m.rows[m.cursor].Key
	}

	rows := m.manager.Rows()
	if !sameRows(m.rows, rows) {
		m.generation++
	}
	m.rows = rows

	known := make(map[string]bool)
	for _, r := range rows {
		if r.Kind == groups.RowConnection {
			known[r.Nickname] = true
		}
	}
	for nick := range m.marked {
		if !known[nick] {
			delete(m.marked, nick)
		}
	}

	if current != "" {
		m.selectKey(current)
	}
	m.clampCursor()
	m.clampScroll()
}

func (m *Model) selectKey(key string) bool {
	for i, r := range m.rows {
		if r.Key == key {
			m.cursor = i
			m.ensureCursorVisible()
			return true
		}
	}
	return false
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) listHeight() int {
	h := m.height - chromeHeight
	if h < 1 {
		h = 1
	}
	return h
}

// offsetLines is the index of the first row drawn in the viewport
func (m *Model) offsetLines() int {
	return int(m.scrollPx / cellHeight)
}

func (m *Model) maxScrollPx() float64 {
	overflow := len(m.visibleRows()) - m.listHeight()
	if overflow < 0 {
		overflow = 0
	}
	return float64(overflow) * cellHeight
}

func (m *Model) clampScroll() {
	m.scrollPx = dnd.ScrollStep(m.scrollPx, 0, 0, m.maxScrollPx())
}

func (m *Model) scrollLines(n int) {
	m.scrollPx = dnd.ScrollStep(m.scrollPx, float64(n)*cellHeight, 0, m.maxScrollPx())
}

func (m *Model) ensureCursorVisible() {
	offset := m.offsetLines()
	switch {
	case m.cursor < offset:
		m.scrollPx = float64(m.cursor) * cellHeight
	case m.cursor >= offset+m.listHeight():
		m.scrollPx = float64(m.cursor-m.listHeight()+1) * cellHeight
	}
	m.clampScroll()
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
	m.logger.Error(m.status)
}

func sameRows(a, b []groups.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
