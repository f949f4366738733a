package ui

import "github.com/charmbracelet/lipgloss"

// Styles contains all the lipgloss styles used by the sidebar
type Styles struct {
	Title       lipgloss.Style
	Group       lipgloss.Style
	Connection  lipgloss.Style
	Cursor      lipgloss.Style
	Marked      lipgloss.Style
	Dragging    lipgloss.Style
	Indicator   lipgloss.Style
	UngroupArea lipgloss.Style
	Status      lipgloss.Style
	Prompt      lipgloss.Style
	Error       lipgloss.Style
}

// DefaultStyles returns the default style set
func DefaultStyles() *Styles {
	return &Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Group:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Connection:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Cursor:      lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Marked:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Dragging:    lipgloss.NewStyle().Faint(true),
		Indicator:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		UngroupArea: lipgloss.NewStyle().Faint(true).Italic(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}
