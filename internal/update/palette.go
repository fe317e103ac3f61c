package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskcal/internal/commands"
	"github.com/sandeepkv93/taskcal/internal/model"
)

func (m *Model) openPalette() {
	m.Palette = CommandPaletteState{Active: true}
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
}

func (m *Model) closePalette() {
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()

	parsed, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	res, err := commands.Execute(parsed, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			draft := model.TaskDraft{Name: a.Name, Date: a.Date, Time: a.Time}
			if draft.Date == "" {
				draft.Date = m.SelectedDate
			}
			next = m.begin(m.addWithTagsCmd(draft, a.Tags))
			return commands.Result{Message: fmt.Sprintf("adding %q on %s", draft.Name, draft.Date)}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			m.setFilter(f.Filter)
			return commands.Result{Message: "filter: " + f.Filter.Label()}, nil
		},
		Goto: func(g commands.GotoArgs) (commands.Result, error) {
			if g.Today {
				m.jumpToday()
			} else {
				m.jumpTo(g.Month)
			}
			return commands.Result{Message: "showing " + m.Month.Title()}, nil
		},
		Tag: func(t commands.TagArgs) (commands.Result, error) {
			next = m.begin(m.upsertTagCmd(t.Name, t.Color, false))
			return commands.Result{Message: fmt.Sprintf("saving tag %q", t.Name)}, nil
		},
		Done: func(a commands.IndexArgs) (commands.Result, error) {
			task, err := m.taskAt(a.Index)
			if err != nil {
				return commands.Result{}, err
			}
			next = m.begin(m.toggleCmd(task.ID))
			return commands.Result{Message: fmt.Sprintf("toggling %q", task.Name)}, nil
		},
		Remove: func(a commands.IndexArgs) (commands.Result, error) {
			task, err := m.taskAt(a.Index)
			if err != nil {
				return commands.Result{}, err
			}
			next = m.begin(m.deleteCmd(task.ID))
			return commands.Result{Message: fmt.Sprintf("deleting %q", task.Name)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, next
}

// taskAt resolves a 1-based sidebar number.
func (m Model) taskAt(n int) (model.Task, error) {
	visible := m.visibleTasks()
	if n < 1 || n > len(visible) {
		return model.Task{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: fmt.Sprintf("no task #%d in %s (%d shown)", n, strings.ToLower(m.Filter.Label()), len(visible)),
		}
	}
	return visible[n-1], nil
}
