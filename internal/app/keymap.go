package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings used across the application.
type KeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Back    key.Binding

	// Tab shortcuts use Alt+key so they never conflict with view-level keys.
	// They are only active when no view is capturing text input.
	TabDashboard key.Binding
	TabSurveys   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Refresh: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

		TabDashboard: key.NewBinding(key.WithKeys("alt+d"), key.WithHelp("alt+d", "dashboard")),
		TabSurveys:   key.NewBinding(key.WithKeys("alt+s"), key.WithHelp("alt+s", "surveys")),
	}
}
