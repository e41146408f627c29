package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Enter      key.Binding
	Back       key.Binding
	SwitchPane key.Binding
	Toggle     key.Binding
	SelectAll  key.Binding
	ClearSel   key.Binding
	Copy       key.Binding
	Move       key.Binding
	Delete     key.Binding
	Mkdir      key.Binding
	Refresh    key.Binding
	Hidden     key.Binding
	Sort       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "h"),
			key.WithHelp("bksp", "parent"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		ClearSel: key.NewBinding(
			key.WithKeys("A", "esc"),
			key.WithHelp("esc", "clear selection"),
		),
		Copy: key.NewBinding(
			key.WithKeys("f5", "c"),
			key.WithHelp("F5/c", "copy"),
		),
		Move: key.NewBinding(
			key.WithKeys("f6", "m"),
			key.WithHelp("F6/m", "move"),
		),
		Delete: key.NewBinding(
			key.WithKeys("f8", "d"),
			key.WithHelp("F8/d", "delete"),
		),
		Mkdir: key.NewBinding(
			key.WithKeys("f7", "n"),
			key.WithHelp("F7/n", "mkdir"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f2"),
			key.WithHelp("r", "refresh"),
		),
		Hidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
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

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.Toggle, k.Copy, k.Move, k.Delete, k.Sort, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Enter, k.Back},
		{k.SwitchPane, k.Toggle, k.SelectAll, k.ClearSel},
		{k.Copy, k.Move, k.Delete, k.Mkdir},
		{k.Refresh, k.Hidden, k.Sort, k.Help, k.Quit},
	}
}
