package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/taskcal/internal/config"
)

type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Palette   key.Binding
	NewTask   key.Binding
	Open      key.Binding
	Detail    key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Filter    key.Binding
	Sidebar   key.Binding
	Focus     key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
}

// NewKeyMap builds bindings from the configured keys; blank entries fall back
// to the defaults.
func NewKeyMap(cfg config.Keymap) KeyMap {
	def := config.Default().Keys
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	bind := func(help string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}
	return KeyMap{
		Quit:      bind("quit", pick(cfg.Quit, def.Quit), "ctrl+c"),
		Help:      bind("toggle help", pick(cfg.Help, def.Help)),
		Palette:   bind("command palette", pick(cfg.Palette, def.Palette)),
		NewTask:   bind("new task on selected day", pick(cfg.NewTask, def.NewTask)),
		Open:      bind("open day / edit task", pick(cfg.Open, def.Open)),
		Detail:    bind("task details", pick(cfg.Detail, def.Detail)),
		Toggle:    bind("toggle completion", pick(cfg.Toggle, def.Toggle)),
		Delete:    bind("delete task", pick(cfg.Delete, def.Delete)),
		Filter:    bind("cycle filter", pick(cfg.Filter, def.Filter)),
		Sidebar:   bind("show/hide sidebar", pick(cfg.Sidebar, def.Sidebar)),
		Focus:     bind("switch pane", pick(cfg.Focus, def.Focus)),
		PrevMonth: bind("previous month", pick(cfg.PrevMonth, def.PrevMonth)),
		NextMonth: bind("next month", pick(cfg.NextMonth, def.NextMonth)),
		Today:     bind("jump to today", pick(cfg.Today, def.Today)),
		Up:        bind("up", pick(cfg.Up, def.Up), "up"),
		Down:      bind("down", pick(cfg.Down, def.Down), "down"),
		Left:      bind("left", pick(cfg.Left, def.Left), "left"),
		Right:     bind("right", pick(cfg.Right, def.Right), "right"),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewTask, k.Palette, k.Filter, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PrevMonth, k.NextMonth, k.Today},
		{k.NewTask, k.Open, k.Detail, k.Toggle, k.Delete},
		{k.Filter, k.Sidebar, k.Focus, k.Palette, k.Help, k.Quit},
	}
}
