package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"taskboard/internal/infrastructure/config"
)

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Grab           key.Binding
	Drop           key.Binding
	Cancel         key.Binding
	Advance        key.Binding
	Add            key.Binding
	Delete         key.Binding
	Search         key.Binding
	Refresh        key.Binding
	NextTab        key.Binding
	Sort           key.Binding
	Order          key.Binding
	StatusFilter   key.Binding
	PriorityFilter key.Binding
	PrevMonth      key.Binding
	NextMonth      key.Binding
	Quit           key.Binding
}

var keys = newKeyMap(config.KeybindingsConfig{})

// InitKeybindings loads the key bindings from config
func InitKeybindings(cfg *config.Config) {
	keys = newKeyMap(cfg.Keybindings)
}

func newKeyMap(kb config.KeybindingsConfig) keyMap {
	return keyMap{
		Up:             binding(kb.Up, []string{"up", "k"}, "move up"),
		Down:           binding(kb.Down, []string{"down", "j"}, "move down"),
		Left:           binding(kb.Left, []string{"left", "h"}, "column left"),
		Right:          binding(kb.Right, []string{"right", "l"}, "column right"),
		Grab:           binding(kb.Grab, []string{" "}, "grab"),
		Drop:           binding(kb.Drop, []string{"enter"}, "drop"),
		Cancel:         binding(kb.Cancel, []string{"esc"}, "cancel"),
		Advance:        binding(kb.Advance, []string{"m"}, "advance"),
		Add:            binding(kb.Add, []string{"a"}, "add"),
		Delete:         binding(kb.Delete, []string{"d"}, "delete"),
		Search:         binding(kb.Search, []string{"/"}, "search"),
		Refresh:        binding(kb.Refresh, []string{"r"}, "refresh"),
		NextTab:        binding(kb.NextTab, []string{"tab"}, "next view"),
		Sort:           binding(kb.Sort, []string{"s"}, "sort field"),
		Order:          binding(kb.Order, []string{"o"}, "sort order"),
		StatusFilter:   binding(kb.StatusFilter, []string{"f"}, "status filter"),
		PriorityFilter: binding(kb.PriorityFilter, []string{"p"}, "priority filter"),
		PrevMonth:      binding(kb.PrevMonth, []string{"["}, "previous month"),
		NextMonth:      binding(kb.NextMonth, []string{"]"}, "next month"),
		Quit:           binding(kb.Quit, []string{"q", "ctrl+c"}, "quit"),
	}
}

func binding(configured, fallback []string, desc string) key.Binding {
	k := configured
	if len(k) == 0 {
		k = fallback
	}
	return key.NewBinding(key.WithKeys(k...), key.WithHelp(helpKey(k[0]), desc))
}

func helpKey(k string) string {
	switch k {
	case " ":
		return "space"
	case "up":
		return "↑"
	case "down":
		return "↓"
	case "left":
		return "←"
	case "right":
		return "→"
	}
	return strings.ToLower(k)
}
