package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the client list and its modals.
type KeyMap struct {
	// Table navigation.
	Up   key.Binding
	Down key.Binding

	// Header controls.
	Search       key.Binding // Focus the search box.
	StatusNext   key.Binding
	StatusPrev   key.Binding
	ClearFilters key.Binding

	// Record actions.
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refresh key.Binding

	// Delete confirmation.
	Confirm key.Binding

	// Modal form.
	NextField  key.Binding
	PrevField  key.Binding
	OptionNext key.Binding // Select fields: next option.
	OptionPrev key.Binding // Select fields: previous option.
	Submit     key.Binding
	Cancel     key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Column headers are sorted
// with the digit keys, see sortKeyForDigit.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	StatusNext: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "status filter"),
	),
	StatusPrev: key.NewBinding(
		key.WithKeys("S"),
	),
	ClearFilters: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add client"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
	),
	OptionNext: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("←/→", "choose"),
	),
	OptionPrev: key.NewBinding(
		key.WithKeys("left"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter", "ctrl+s"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
