package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/comalice/countlesson/internal/lesson"
)

type keyMap struct {
	Start   key.Binding
	Submit  key.Binding
	Skip    key.Binding
	Next    key.Binding
	Example key.Binding
	Menu    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("espacio", "empezar")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "revisar")),
		Skip:    key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", lesson.SkipLabelDefault)),
		Next:    key.NewBinding(key.WithKeys("n", "ctrl+n"), key.WithHelp("n", "siguiente")),
		Example: key.NewBinding(key.WithKeys("e", "ctrl+e"), key.WithHelp("e", lesson.ExampleToggleText)),
		Menu:    key.NewBinding(key.WithKeys("m", "esc"), key.WithHelp("esc", "menú")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
	}
}

// apply enables only the bindings the current affordances allow.
func (k *keyMap) apply(a lesson.Affordances) {
	k.Start.SetEnabled(a.StartVisible)
	k.Submit.SetEnabled(a.CheckVisible && a.CheckEnabled)
	k.Skip.SetEnabled(a.SkipVisible)
	if a.SkipLabel != "" {
		k.Skip.SetHelp("s", a.SkipLabel)
	}
	k.Next.SetEnabled(a.NextVisible)
	k.Example.SetEnabled(a.ExampleVisible)
	k.Menu.SetEnabled(a.MenuVisible)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Submit, k.Skip, k.Next, k.Example, k.Menu, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
