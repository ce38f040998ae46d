package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the demo. Carousel bindings apply
// while the carousel has focus; combobox bindings while the input does.
type KeyMap struct {
	// Carousel
	Next     key.Binding
	Prev     key.Binding
	Autoplay key.Binding
	Step     key.Binding // 1-9 jump to a slide when bullets are steps

	// Combobox
	HighlightNext key.Binding
	HighlightPrev key.Binding
	Select        key.Binding
	Dismiss       key.Binding
	Trigger       key.Binding
	Clear         key.Binding

	FocusToggle key.Binding
	Help        key.Binding
	FullHelp    key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next slide"),
	),
	Prev: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev slide"),
	),
	Autoplay: key.NewBinding(
		key.WithKeys(" ", "p"),
		key.WithHelp("space", "autoplay"),
	),
	Step: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "go to slide"),
	),
	HighlightNext: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "next option"),
	),
	HighlightPrev: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "prev option"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close list"),
	),
	Trigger: key.NewBinding(
		key.WithKeys("ctrl+o", "alt+down"),
		key.WithHelp("C-o", "toggle list"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u", "clear"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "switch widget"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	FullHelp: key.NewBinding(
		key.WithKeys("H"),
		key.WithHelp("H", "help in pager"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

// carouselKeys and comboboxKeys adapt the key map to help.KeyMap for the
// widget that has focus.
type carouselKeys struct{ k KeyMap }

func (c carouselKeys) ShortHelp() []key.Binding {
	return []key.Binding{c.k.Prev, c.k.Next, c.k.Autoplay, c.k.FocusToggle, c.k.Help, c.k.Quit}
}

func (c carouselKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{c.k.Prev, c.k.Next, c.k.Autoplay, c.k.Step},
		{c.k.FocusToggle, c.k.Help, c.k.FullHelp, c.k.Quit},
	}
}

type comboboxKeys struct{ k KeyMap }

func (c comboboxKeys) ShortHelp() []key.Binding {
	return []key.Binding{c.k.HighlightPrev, c.k.HighlightNext, c.k.Select, c.k.Dismiss, c.k.FocusToggle}
}

func (c comboboxKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{c.k.HighlightPrev, c.k.HighlightNext, c.k.Select},
		{c.k.Dismiss, c.k.Trigger, c.k.Clear, c.k.FocusToggle},
	}
}
