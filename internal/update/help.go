package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/taskcal/internal/views"
)

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, b := range m.contextBindings() {
		h := b.Help()
		plain = append(plain, fmt.Sprintf("- %s: %s", h.Key, h.Desc))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(m.Keys),
	})
}

// contextBindings lists what the focused pane or open overlay reacts to.
func (m Model) contextBindings() []key.Binding {
	switch {
	case m.Form.Active:
		return []key.Binding{
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/shift+tab", "next/previous field")),
			key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save task")),
			key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "attach/detach highlighted tag")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create tag from new-tag fields")),
			key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete task being edited")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	case m.Detail.Active:
		return []key.Binding{
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit task")),
		}
	case m.Focus == PaneSidebar:
		return []key.Binding{m.Keys.Up, m.Keys.Down, m.Keys.Toggle, m.Keys.Open, m.Keys.Detail, m.Keys.Delete}
	default:
		return []key.Binding{m.Keys.Left, m.Keys.Right, m.Keys.Up, m.Keys.Down, m.Keys.Open, m.Keys.PrevMonth, m.Keys.NextMonth}
	}
}
