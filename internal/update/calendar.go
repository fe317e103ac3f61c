package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/model"
	"github.com/sandeepkv93/taskcal/internal/views"
)

func (m Model) handleGridKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Left):
		m.shiftSelection(-1)
	case key.Matches(msg, m.Keys.Right):
		m.shiftSelection(1)
	case key.Matches(msg, m.Keys.Up):
		m.shiftSelection(-7)
	case key.Matches(msg, m.Keys.Down):
		m.shiftSelection(7)
	case key.Matches(msg, m.Keys.Open):
		m.openNewTaskForm(m.SelectedDate)
	}
	return m, nil
}

// shiftSelection moves the selected day, following it into neighbouring
// months.
func (m *Model) shiftSelection(days int) {
	current, err := calendar.ParseDateKey(m.SelectedDate, m.loc)
	if err != nil {
		current = m.today()
	}
	next := current.AddDate(0, 0, days)
	m.SelectedDate = calendar.CanonicalDateKey(next)
	m.Month = calendar.MonthOf(next)
}

// shiftMonth changes the displayed month and keeps the selected day number,
// clamped to the new month's length.
func (m *Model) shiftMonth(delta int) {
	m.Month = calendar.NewMonth(m.Month.Year, m.Month.Index+delta)
	day := 1
	if current, err := calendar.ParseDateKey(m.SelectedDate, m.loc); err == nil {
		day = current.Day()
	}
	if n := calendar.DaysIn(m.Month.Year, m.Month.Index); day > n {
		day = n
	}
	m.SelectedDate = calendar.CanonicalDateKey(m.Month.First(m.loc).AddDate(0, 0, day-1))
	m.Status = StatusBar{Text: fmt.Sprintf("showing %s", m.Month.Title())}
}

func (m *Model) jumpTo(month calendar.Month) {
	m.Month = month
	m.SelectedDate = calendar.CanonicalDateKey(month.First(m.loc))
	today := m.today()
	if month.Contains(today) {
		m.SelectedDate = calendar.CanonicalDateKey(today)
	}
}

func (m *Model) jumpToday() {
	today := m.today()
	m.Month = calendar.MonthOf(today)
	m.SelectedDate = calendar.CanonicalDateKey(today)
}

func (m Model) monthGridData() views.MonthGridData {
	data := GridData(m.Month, m.Tasks, m.SelectedDate, m.today(), m.loc)
	data.CellWidth = m.cellWidth()
	data.Focused = m.Focus == PaneGrid
	return data
}

// GridData lays tasks out on month's grid for views.RenderMonthGrid. Days
// list their tasks in sidebar order; the first tag colors each chip.
func GridData(month calendar.Month, tasks []model.Task, selected string, now time.Time, loc *time.Location) views.MonthGridData {
	cells := calendar.MonthGrid(month.Year, month.Index, loc)
	buckets := calendar.BucketTasksByDate(tasks, cells)
	now = now.In(loc)

	weeks := calendar.Weeks(cells)
	data := views.MonthGridData{
		Title:     month.Title(),
		Weeks:     make([][]views.DayCellData, 0, len(weeks)),
		CellWidth: views.DefaultCellWidth,
		MaxChips:  views.DefaultMaxChips,
	}
	for _, week := range weeks {
		row := make([]views.DayCellData, 0, len(week))
		for _, cell := range week {
			if cell.Blank {
				row = append(row, views.DayCellData{Blank: true})
				continue
			}
			day := views.DayCellData{
				Day:      cell.Day,
				Today:    cell.IsToday(now),
				Selected: cell.Key == selected,
			}
			for _, task := range calendar.SortTasks(buckets[cell.Key]) {
				chip := views.TaskChipData{Name: task.Name, Completed: task.Completed}
				if len(task.Tags) > 0 {
					chip.Color = task.Tags[0].Color
				}
				day.Tasks = append(day.Tasks, chip)
			}
			row = append(row, day)
		}
		data.Weeks = append(data.Weeks, row)
	}
	return data
}

func (m Model) cellWidth() int {
	if m.Width <= 0 {
		return views.DefaultCellWidth
	}
	avail := m.Width - 6
	if !m.SidebarHidden {
		avail -= sidebarWidth + 4
	}
	w := avail / 7
	switch {
	case w < views.MinCellWidth:
		return views.MinCellWidth
	case w > 20:
		return 20
	default:
		return w
	}
}
