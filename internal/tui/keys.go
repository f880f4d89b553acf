// SPDX-License-Identifier: MIT
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Switch  key.Binding
	Left    key.Binding
	Right   key.Binding
	Coarser key.Binding
	Finer   key.Binding
	Export  key.Binding
	Play    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Switch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch handle"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "earlier"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "later"),
		),
		Coarser: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "bigger step"),
		),
		Finer: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "smaller step"),
		),
		Export: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "export"),
		),
		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Left, k.Right, k.Export, k.Play, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Switch, k.Left, k.Right},
		{k.Coarser, k.Finer},
		{k.Export, k.Play, k.Quit},
	}
}
