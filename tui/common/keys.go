package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the bindings available while a command is running.
type KeyMap struct {
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "cancel"),
		),
	}
}

// ShortHelp renders the bindings as a one-line hint.
func (k KeyMap) ShortHelp() string {
	h := k.Cancel.Help()
	return h.Key + " " + h.Desc
}
