package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/danieljhkim/mapbench/internal/config"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Grab   key.Binding
	Cancel key.Binding
	Toggle key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func binding(keys []string, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKeys(keys), desc))
}

func helpKeys(keys []string) string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == " " {
			k = "space"
		}
		names = append(names, k)
	}
	return strings.Join(names, "/")
}

func newKeyMap(km config.KeyMap) keyMap {
	return keyMap{
		Up:     binding(km.Up, "up"),
		Down:   binding(km.Down, "down"),
		Grab:   binding(km.Grab, "grab/drop"),
		Cancel: binding(km.Cancel, "cancel"),
		Toggle: binding(km.Toggle, "show/hide"),
		Reload: binding(km.Reload, "reload"),
		Quit:   binding(km.Quit, "quit"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Grab, k.Cancel, k.Toggle, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
