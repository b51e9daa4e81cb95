// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the sidebar.
type KeyMap struct {
	// Navigation
	Up        key.Binding
	Down      key.Binding
	PrevSpace key.Binding
	NextSpace key.Binding

	// Tab actions
	Open   key.Binding
	Sleep  key.Binding
	Rename key.Binding
	Reset  key.Binding
	Close  key.Binding
	Clear  key.Binding

	// Keyboard drag
	Grab       key.Binding
	Drop       key.Binding
	ToggleEdge key.Binding

	// General
	Refresh key.Binding
	Help    key.Binding
	Escape  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		PrevSpace: key.NewBinding(
			key.WithKeys("h", "left", "["),
			key.WithHelp("h/←", "previous space"),
		),
		NextSpace: key.NewBinding(
			key.WithKeys("l", "right", "]"),
			key.WithHelp("l/→", "next space"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "switch to tab"),
		),
		Sleep: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "sleep pinned tab"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename pinned tab"),
		),
		Reset: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "reset pinned tab"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close tab"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear tabs"),
		),

		Grab: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "grab row"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "drop"),
		),
		ToggleEdge: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "above/below"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Grab, k.Open, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevSpace, k.NextSpace},
		{k.Open, k.Sleep, k.Rename, k.Reset, k.Close, k.Clear},
		{k.Grab, k.Drop, k.ToggleEdge, k.Escape},
		{k.Refresh, k.Help, k.Quit},
	}
}

// DragKeyMap is the help shown while a row is grabbed.
type DragKeyMap struct {
	KeyMap
}

// ShortHelp returns the drag bindings.
func (k DragKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.ToggleEdge, k.Drop, k.Escape}
}

// FullHelp returns the drag bindings in one column.
func (k DragKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
