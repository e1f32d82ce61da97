package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the bindings active while the result list has focus.
// The search field and the tag composer take raw keystrokes instead.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ToggleHint key.Binding

	// Filters
	Search        key.Binding
	Tags          key.Binding
	RemoveTag     key.Binding
	NextCategory  key.Binding
	ClearCategory key.Binding
	ClearAll      key.Binding

	// Paging and history
	PrevPage key.Binding
	NextPage key.Binding
	Back     key.Binding
	Forward  key.Binding
	Recent   key.Binding
	CopyLink key.Binding
	Refresh  key.Binding

	// Result list
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Inputs and overlays
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ToggleHint: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "Toggle tag hints"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Tags: key.NewBinding(
			key.WithKeys("#", "t"),
			key.WithHelp("#", "Add tag"),
		),
		RemoveTag: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "Remove last tag"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Next category"),
		),
		ClearCategory: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear category"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filters"),
		),

		PrevPage: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "Next page"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "alt+left"),
			key.WithHelp("b", "Back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("f", "alt+right"),
			key.WithHelp("f", "Forward"),
		),
		Recent: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Recent links"),
		),
		CopyLink: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy link"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Tags, k.NextCategory, k.PrevPage, k.NextPage, k.CopyLink, k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Tags, k.RemoveTag, k.NextCategory, k.ClearCategory, k.ClearAll},
		{k.PrevPage, k.NextPage, k.Back, k.Forward, k.Recent, k.CopyLink, k.Refresh},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.CycleTheme, k.ToggleHint, k.Help, k.Quit},
	}
}
