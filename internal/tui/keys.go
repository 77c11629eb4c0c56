package tui

import "github.com/charmbracelet/bubbles/key"

// Key bindings for the confirmation prompt.
var (
	confirmYesKey = key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "proceed"),
	)
	confirmNoKey = key.NewBinding(
		key.WithKeys("n", "N", "esc", "q"),
		key.WithHelp("n", "cancel"),
	)
	confirmQuitKey = key.NewBinding(
		key.WithKeys("ctrl+c"),
	)
	confirmEnterKey = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	)
	confirmToggleKey = key.NewBinding(
		key.WithKeys("left", "right", "h", "l", "tab", "shift+tab"),
		key.WithHelp("←/→", "switch"),
	)
)
