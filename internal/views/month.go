package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var dayHeaders = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

const (
	MinCellWidth     = 6
	DefaultCellWidth = 12
	DefaultMaxChips  = 2
)

type TagData struct {
	Name  string
	Color string
}

type TaskChipData struct {
	Name      string
	Completed bool
	Color     string
}

type DayCellData struct {
	Blank    bool
	Day      int
	Today    bool
	Selected bool
	Tasks    []TaskChipData
}

type MonthGridData struct {
	Title     string
	Weeks     [][]DayCellData
	CellWidth int
	MaxChips  int
	Focused   bool
}

var (
	dayHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8")).Align(lipgloss.Center)
	dayNumberStyle = lipgloss.NewStyle().Bold(true)
	todayStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	selectedCell   = lipgloss.NewStyle().Reverse(true)
	doneChipStyle  = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
)

// RenderMonthGrid draws a Sunday-first grid. Each day shows at most MaxChips
// tasks followed by a "+N more" line.
func RenderMonthGrid(data MonthGridData) string {
	width := data.CellWidth
	if width < MinCellWidth {
		width = DefaultCellWidth
	}
	maxChips := data.MaxChips
	if maxChips <= 0 {
		maxChips = DefaultMaxChips
	}
	height := maxChips + 2

	title := accentStyle.Render(data.Title)
	if !data.Focused {
		title = headerStyle.UnsetForeground().Render(data.Title)
	}

	headers := make([]string, 0, len(dayHeaders))
	for _, h := range dayHeaders {
		headers = append(headers, dayHeaderStyle.Width(width).Render(h))
	}
	rows := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, headers...)}

	for _, week := range data.Weeks {
		cells := make([]string, 0, 7)
		for _, cell := range week {
			cells = append(cells, renderDayCell(cell, width, height, maxChips))
		}
		for len(cells) < 7 {
			cells = append(cells, renderDayCell(DayCellData{Blank: true}, width, height, maxChips))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func renderDayCell(cell DayCellData, width, height, maxChips int) string {
	box := lipgloss.NewStyle().Width(width).Height(height)
	if cell.Blank {
		return box.Render("")
	}

	number := fmt.Sprintf("%2d", cell.Day)
	switch {
	case cell.Selected:
		number = selectedCell.Render(number)
	case cell.Today:
		number = todayStyle.Render(number)
	default:
		number = dayNumberStyle.Render(number)
	}

	lines := []string{number}
	for i, task := range cell.Tasks {
		if i == maxChips {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("+%d more", len(cell.Tasks)-maxChips)))
			break
		}
		lines = append(lines, renderChip(task, width-1))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func renderChip(task TaskChipData, width int) string {
	name := ansi.Truncate(task.Name, width-2, "…")
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(chipColor(task.Color))).Render("•")
	if task.Completed {
		return dot + " " + doneChipStyle.Render(name)
	}
	return dot + " " + name
}

func chipColor(c string) string {
	if c == "" {
		return "#808080"
	}
	return c
}

func renderTag(tag TagData) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(chipColor(tag.Color))).Render("#" + tag.Name)
}
