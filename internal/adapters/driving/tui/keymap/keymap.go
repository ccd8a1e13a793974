// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit leaves the screen, which stops the server.
	Quit key.Binding

	// Help toggles the help panel.
	Help key.Binding

	// Background simulates the application losing the foreground.
	Background key.Binding

	// Foreground simulates the application regaining the foreground.
	Foreground key.Binding

	// Dismiss hides a delivered notification banner.
	Dismiss key.Binding

	// ClearLog empties the event log.
	ClearLog key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Background: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "background"),
		),
		Foreground: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "foreground"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		ClearLog: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear log"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Background, k.Foreground, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help panel.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Background, k.Foreground},
		{k.Dismiss, k.ClearLog},
		{k.Help, k.Quit},
	}
}
