// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// ViewerKeyMap defines the keybindings of the branch viewer.
type ViewerKeyMap struct {
	// Pane selection
	Commits  key.Binding
	Files    key.Binding
	Diff     key.Binding
	NextPane key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Enter        key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	Top          key.Binding
	Bottom       key.Binding
	NextHunk     key.Binding
	PrevHunk     key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// Viewer is the active keymap.
var Viewer = DefaultViewerKeyMap()

// DefaultViewerKeyMap returns the default keybindings.
func DefaultViewerKeyMap() ViewerKeyMap {
	return ViewerKeyMap{
		Commits: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "commits"),
		),
		Files: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "files"),
		),
		Diff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "diff"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		NextHunk: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next hunk"),
		),
		PrevHunk: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous hunk"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k ViewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commits, k.Files, k.Diff, k.NextHunk, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k ViewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Commits, k.Files, k.Diff, k.NextPane},              // Panes
		{k.Up, k.Down, k.Enter, k.HalfPageUp, k.HalfPageDown}, // Movement
		{k.Top, k.Bottom, k.NextHunk, k.PrevHunk},             // Diff
		{k.Help, k.Quit},                                      // General
	}
}
