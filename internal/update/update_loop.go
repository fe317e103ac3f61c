package update

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/model"
	"github.com/sandeepkv93/taskcal/internal/views"
)

// Init loads tasks and tags. NewModel already counted the load as pending.
func (m Model) Init() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return tea.Batch(m.loadCmd(), m.syncSpinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = typed.Width
		m.helpModel.Width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.Pending > 0 {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case tasksLoadedMsg:
		m.finish()
		if typed.err != nil {
			m.fail("load", typed.err)
			return m, nil
		}
		m.Tasks = typed.tasks
		m.Tags = typed.tags
		m.Loaded = true
		m.clampSidebarCursor()
		m.Status = StatusBar{Text: fmt.Sprintf("loaded %d task(s)", len(m.Tasks))}
		return m, nil
	case taskSavedMsg:
		m.finish()
		if typed.err != nil {
			if m.Form.Active {
				m.Form.Err = typed.err.Error()
			}
			m.fail("save task", typed.err)
			return m, nil
		}
		m.refresh()
		if m.Form.Active {
			m.closeForm()
		}
		m.revealDate(typed.task.Date)
		if typed.created {
			m.Status = StatusBar{Text: fmt.Sprintf("created %q", typed.task.Name)}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("saved %q", typed.task.Name)}
		}
		return m, nil
	case taskToggledMsg:
		m.finish()
		if typed.err != nil {
			m.fail("toggle completion", typed.err)
			return m, nil
		}
		m.refresh()
		state := "reopened"
		if typed.task.Completed {
			state = "completed"
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s %q", state, typed.task.Name)}
		return m, nil
	case taskDeletedMsg:
		m.finish()
		if typed.err != nil {
			m.fail("delete task", typed.err)
			return m, nil
		}
		m.refresh()
		if m.Form.Active && m.Form.EditingID == typed.id {
			m.closeForm()
		}
		if m.Detail.TaskID == typed.id {
			m.Detail = DetailState{}
		}
		m.Status = StatusBar{Text: "task deleted"}
		return m, nil
	case tagSavedMsg:
		m.finish()
		if typed.err != nil {
			if m.Form.Active {
				m.Form.Err = typed.err.Error()
			}
			m.fail("save tag", typed.err)
			return m, nil
		}
		m.refresh()
		if typed.attach && m.Form.Active {
			d := model.TaskDraft{Tags: m.Form.Tags}
			d.AddTag(typed.tag)
			m.Form.Tags = d.Tags
			m.Form.newTag.SetValue("")
			m.Form.newColor.SetValue("")
			m.Form.Err = ""
		}
		m.Status = StatusBar{Text: fmt.Sprintf("tag %q ready", typed.tag.Name)}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if errors.Is(typed.Err, errNoStore) {
			m.finish()
		}
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.Form.Active {
		return m.handleFormKey(msg)
	}
	if m.Detail.Active {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.Keys.Palette):
		m.openPalette()
		return m, nil
	case key.Matches(msg, m.Keys.NewTask):
		m.openNewTaskForm(m.SelectedDate)
		return m, nil
	case key.Matches(msg, m.Keys.Filter):
		m.cycleFilter()
		return m, nil
	case key.Matches(msg, m.Keys.Sidebar):
		m.SidebarHidden = !m.SidebarHidden
		if m.SidebarHidden {
			m.Focus = PaneGrid
		}
		m.saveViewState()
		return m, nil
	case key.Matches(msg, m.Keys.Focus):
		if !m.SidebarHidden && m.Focus == PaneGrid {
			m.Focus = PaneSidebar
		} else {
			m.Focus = PaneGrid
		}
		return m, nil
	case key.Matches(msg, m.Keys.PrevMonth):
		m.shiftMonth(-1)
		return m, nil
	case key.Matches(msg, m.Keys.NextMonth):
		m.shiftMonth(1)
		return m, nil
	case key.Matches(msg, m.Keys.Today):
		m.jumpToday()
		return m, nil
	}

	if m.Focus == PaneSidebar && !m.SidebarHidden {
		return m.handleSidebarKey(msg)
	}
	return m.handleGridKey(msg)
}

// revealDate moves the grid to the month holding key so a saved task is
// visible.
func (m *Model) revealDate(dateKey string) {
	t, err := calendar.ParseDateKey(dateKey, m.loc)
	if err != nil {
		return
	}
	m.Month = calendar.MonthOf(t)
	m.SelectedDate = dateKey
}

func (m Model) findTask(id string) (model.Task, bool) {
	for _, task := range m.Tasks {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	if m.Pending > 0 {
		status = m.syncSpinner.View() + " working " + status
	}
	right := ""
	if !m.SidebarHidden {
		right = views.RenderSidebar(m.sidebarData())
	}

	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("taskcal | %s | filter: %s | selected: %s", m.Month.Title(), m.Filter.Label(), m.SelectedDate),
		LeftPane:      views.RenderMonthGrid(m.monthGridData()),
		RightPane:     right,
		Overlay:       m.renderOverlay(),
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Footer:        m.helpModel.ShortHelpView(m.Keys.ShortHelp()),
	})
}
