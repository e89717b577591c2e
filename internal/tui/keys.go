package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	SelectAll key.Binding
	Clear     key.Binding
	Toggle    key.Binding
	Average   key.Binding
	Reset     key.Binding
	Query     key.Binding
	Cancel    key.Binding
	Help      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "toggle subject"),
		),
		Average: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "averages"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset zoom"),
		),
		Query: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "edit query"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Average, k.Reset, k.Query, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.SelectAll, k.Clear},
		{k.Average, k.Reset, k.Cancel},
		{k.Query, k.Help, k.Quit},
	}
}
