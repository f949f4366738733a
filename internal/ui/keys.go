package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the sidebar key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Mark     key.Binding
	Clear    key.Binding
	Toggle   key.Binding
	Ungroup  key.Binding
	NewGroup key.Binding
	Rename   key.Binding
	Delete   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "mark"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear marks"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "l", "h"),
			key.WithHelp("enter", "expand/collapse"),
		),
		Ungroup: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "ungroup"),
		),
		NewGroup: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "new group"),
		),
		Rename: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename group"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete group"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.MoveDown, k.MoveUp, k.Mark, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.MoveUp, k.MoveDown, k.Ungroup},
		{k.NewGroup, k.Rename, k.Delete},
		{k.Mark, k.Clear},
		{k.Help, k.Quit},
	}
}
