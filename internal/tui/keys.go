package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit    key.Binding
	NewText   key.Binding
	ResetHigh key.Binding
	Settings  key.Binding
	Close     key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start/submit"),
	),
	NewText: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "new text"),
	),
	ResetHigh: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset high score"),
	),
	Settings: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "settings"),
	),
	Close: key.NewBinding(
		key.WithKeys("tab", "esc"),
		key.WithHelp("tab/esc", "close"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/↓", "select"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/→", "change"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

// playHelp lists the bindings active while playing.
type playHelp struct{ keyMap }

func (k playHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewText, k.ResetHigh, k.Settings, k.Quit}
}

func (k playHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// settingsHelp lists the bindings active while the settings panel is open.
type settingsHelp struct{ keyMap }

func (k settingsHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Close}
}

func (k settingsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
