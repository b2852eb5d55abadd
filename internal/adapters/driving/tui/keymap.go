package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the chat keybindings.
type KeyMap struct {
	Send     key.Binding
	Quit     key.Binding
	LoadMore key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "older messages"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDn: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// ShortHelp renders the footer hint.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.LoadMore, k.ScrollUp, k.Quit}
}
