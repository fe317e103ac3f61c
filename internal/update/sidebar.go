package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/model"
	"github.com/sandeepkv93/taskcal/internal/views"
)

const sidebarWidth = 36

// visibleTasks is the sidebar list: the active filter applied to the cache,
// ordered by date, then time (untimed first), then name. Palette task
// numbers index into this slice.
func (m Model) visibleTasks() []model.Task {
	return calendar.SortTasks(calendar.FilterTasks(m.Tasks, m.Filter, m.today()))
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.visibleTasks()
	if m.SidebarCursor < 0 || m.SidebarCursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.SidebarCursor], true
}

func (m *Model) clampSidebarCursor() {
	n := len(m.visibleTasks())
	if m.SidebarCursor >= n {
		m.SidebarCursor = n - 1
	}
	if m.SidebarCursor < 0 {
		m.SidebarCursor = 0
	}
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.SidebarCursor > 0 {
			m.SidebarCursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.SidebarCursor < len(m.visibleTasks())-1 {
			m.SidebarCursor++
		}
	case key.Matches(msg, m.Keys.Toggle):
		if task, ok := m.selectedTask(); ok {
			return m, m.begin(m.toggleCmd(task.ID))
		}
	case key.Matches(msg, m.Keys.Open):
		if task, ok := m.selectedTask(); ok {
			m.openEditForm(task)
		}
	case key.Matches(msg, m.Keys.Detail):
		if task, ok := m.selectedTask(); ok {
			m.Detail = DetailState{Active: true, TaskID: task.ID}
		}
	case key.Matches(msg, m.Keys.Delete):
		if task, ok := m.selectedTask(); ok {
			m.Status = StatusBar{Text: fmt.Sprintf("deleting %q", task.Name)}
			return m, m.begin(m.deleteCmd(task.ID))
		}
	}
	return m, nil
}

func (m *Model) cycleFilter() {
	m.setFilter(m.Filter.Next())
}

func (m *Model) setFilter(f calendar.Filter) {
	m.Filter = f
	m.SidebarCursor = 0
	m.Status = StatusBar{Text: "filter: " + f.Label()}
	m.saveViewState()
}

func (m Model) sidebarData() views.SidebarData {
	visible := m.visibleTasks()
	data := views.SidebarData{
		FilterLabel: m.Filter.Label(),
		Items:       make([]views.SidebarItemData, 0, len(visible)),
		Legend:      tagData(calendar.UniqueTags(visible)),
		Cursor:      m.SidebarCursor,
		Focused:     m.Focus == PaneSidebar,
		Width:       sidebarWidth,
	}
	for i, task := range visible {
		data.Items = append(data.Items, views.SidebarItemData{
			Index:     i + 1,
			Name:      task.Name,
			Date:      task.Date,
			Time:      task.Time,
			Completed: task.Completed,
			Tags:      tagData(task.Tags),
		})
	}
	return data
}

func tagData(tags []model.Tag) []views.TagData {
	out := make([]views.TagData, 0, len(tags))
	for _, tag := range tags {
		out = append(out, views.TagData{Name: tag.Name, Color: tag.Color})
	}
	return out
}
