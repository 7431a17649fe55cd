package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the runner's keyboard bindings.
type keyMap struct {
	Continue   key.Binding
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Continue: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Continue"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Continue, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Continue},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
