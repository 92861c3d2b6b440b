package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keyboard bindings.
type KeyMap struct {
	Quit     key.Binding
	Tab      key.Binding
	TabData  key.Binding
	TabSEO   key.Binding
	TabCreat key.Binding
	TabBrand key.Binding
	Report   key.Binding
	Activity key.Binding
	Escape   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		TabData: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "data"),
		),
		TabSEO: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "seo"),
		),
		TabCreat: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "creative"),
		),
		TabBrand: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "brand"),
		),
		Report: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "report"),
		),
		Activity: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "activity"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close overlay"),
		),
	}
}
