package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// helpLine is one entry of the full help page
type helpLine struct {
	keys string
	desc string
}

var helpSections = []struct {
	title string
	lines []helpLine
}{
	{"Navigation", []helpLine{
		{"↑/↓, j/k", "Move the cursor"},
		{"enter, h/l", "Expand or collapse a group"},
		{"wheel", "Scroll the list"},
	}},
	{"Selection", []helpLine{
		{"space", "Mark or unmark a connection"},
		{"esc", "Clear marks"},
	}},
	{"Reordering", []helpLine{
		{"J/K", "Move the connection or group down/up"},
		{"u", "Move the connection out of its group"},
		{"drag", "Drop above or below a row, or onto a group header"},
		{"", "Marked connections move together, keeping their order"},
		{"", "Dragging near the top or bottom edge scrolls the list"},
	}},
	{"Groups", []helpLine{
		{"N", "New group holding the marked or current connections"},
		{"R", "Rename the group"},
		{"D", "Delete the group, keeping its contents"},
	}},
	{"Other", []helpLine{
		{"?", "Show this help"},
		{"q", "Quit"},
	}},
}

// RenderHelp renders the full help page for the pager
func RenderHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Connections Help"))
	b.WriteString("\n")
	for _, section := range helpSections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, l := range section.lines {
			b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(l.keys), descStyle.Render(l.desc)))
		}
	}
	return b.String()
}

// pagerCommand runs ov over a string as a tea.ExecCommand, so Bubble Tea
// releases and restores the terminal around it
type pagerCommand struct {
	content string
}

func (p *pagerCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(p.content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// ov talks to the terminal directly
func (p *pagerCommand) SetStdin(io.Reader)  {}
func (p *pagerCommand) SetStdout(io.Writer) {}
func (p *pagerCommand) SetStderr(io.Writer) {}

// showHelp opens the help page in the pager
func showHelp() tea.Cmd {
	return tea.Exec(&pagerCommand{content: RenderHelp()}, func(err error) tea.Msg {
		return helpPagerMsg{err: err}
	})
}
