package input

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the editor's key bindings.
type KeyMap struct {
	Submit      key.Binding
	Interrupt   key.Binding
	EOF         key.Binding
	Complete    key.Binding
	CompleteRev key.Binding
	Cancel      key.Binding

	Left      key.Binding
	Right     key.Binding
	WordLeft  key.Binding
	WordRight key.Binding
	Home      key.Binding
	End       key.Binding

	Backspace   key.Binding
	Delete      key.Binding
	DeleteWord  key.Binding
	KillToEnd   key.Binding
	KillToStart key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	Paste       key.Binding
	ClearScreen key.Binding
}

// DefaultKeyMap returns Emacs-style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "evaluate")),
		Interrupt:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "discard line")),
		EOF:         key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "exit on empty line")),
		Complete:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		CompleteRev: key.NewBinding(key.WithKeys("shift+tab")),
		Cancel:      key.NewBinding(key.WithKeys("esc")),

		Left:      key.NewBinding(key.WithKeys("left", "ctrl+b")),
		Right:     key.NewBinding(key.WithKeys("right", "ctrl+f")),
		WordLeft:  key.NewBinding(key.WithKeys("alt+left", "ctrl+left", "alt+b")),
		WordRight: key.NewBinding(key.WithKeys("alt+right", "ctrl+right", "alt+f")),
		Home:      key.NewBinding(key.WithKeys("home", "ctrl+a")),
		End:       key.NewBinding(key.WithKeys("end", "ctrl+e")),

		Backspace:   key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
		Delete:      key.NewBinding(key.WithKeys("delete")),
		DeleteWord:  key.NewBinding(key.WithKeys("ctrl+w", "alt+backspace")),
		KillToEnd:   key.NewBinding(key.WithKeys("ctrl+k")),
		KillToStart: key.NewBinding(key.WithKeys("ctrl+u")),
		HistoryPrev: key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "history")),
		HistoryNext: key.NewBinding(key.WithKeys("down", "ctrl+n")),
		Paste:       key.NewBinding(key.WithKeys("ctrl+v")),
		ClearScreen: key.NewBinding(key.WithKeys("ctrl+l")),
	}
}

// ShortHelp lists the bindings shown in the shell banner.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Submit, km.Complete, km.HistoryPrev, km.Interrupt, km.EOF}
}
