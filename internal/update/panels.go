package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskcal/internal/views"
)

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.Detail = DetailState{}
	case "enter":
		if task, ok := m.findTask(m.Detail.TaskID); ok {
			m.openEditForm(task)
		} else {
			m.Detail = DetailState{}
		}
	}
	return m, nil
}

func (m Model) renderDetail() string {
	task, ok := m.findTask(m.Detail.TaskID)
	if !ok {
		return ""
	}
	return views.RenderDetail(views.DetailData{
		Name:        task.Name,
		Date:        task.Date,
		Time:        task.Time,
		Completed:   task.Completed,
		Tags:        tagData(task.Tags),
		Description: task.Description,
	})
}

// renderOverlay picks the single overlay to show; the form wins over the
// detail popover, and the palette and help stack beneath either.
func (m Model) renderOverlay() string {
	var parts []string
	switch {
	case m.Form.Active:
		parts = append(parts, views.RenderForm(m.formData()))
	case m.Detail.Active:
		if d := m.renderDetail(); d != "" {
			parts = append(parts, d)
		}
	}
	if p := m.renderCommandPalette(); p != "" {
		parts = append(parts, p)
	}
	if h := m.renderHelpIfVisible(); h != "" {
		parts = append(parts, h)
	}
	return strings.Join(parts, "\n\n")
}
