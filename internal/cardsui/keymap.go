package cardsui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the card browser keybindings.
type keyMap struct {
	Quit    key.Binding
	Prev    key.Binding
	Next    key.Binding
	Filter  key.Binding
	Clear   key.Binding
	Accept  key.Binding
	Option0 key.Binding
	Option1 key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev card"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next card"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Option0: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "option 1"),
		),
		Option1: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "option 2"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Filter, k.Option0, k.Option1, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Clear, k.Accept}}
}

func filterHelp(k keyMap) []key.Binding {
	return []key.Binding{k.Accept, k.Clear}
}
