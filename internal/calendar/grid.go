package calendar

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/taskcal/internal/model"
)

// Month identifies a calendar month; Index is zero-based (0 = January).
type Month struct {
	Year  int
	Index int
}

// NewMonth normalizes out-of-range indexes into neighbouring years, so
// NewMonth(2024, -1) is December 2023 and NewMonth(2024, 12) is January 2025.
func NewMonth(year, index int) Month {
	first := time.Date(year, time.Month(index+1), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: first.Year(), Index: int(first.Month()) - 1}
}

func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Index: int(t.Month()) - 1}
}

func (m Month) Normalize() Month { return NewMonth(m.Year, m.Index) }
func (m Month) Next() Month      { return NewMonth(m.Year, m.Index+1) }
func (m Month) Prev() Month      { return NewMonth(m.Year, m.Index-1) }

// First returns local midnight on the first day of m.
func (m Month) First(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	n := m.Normalize()
	return time.Date(n.Year, time.Month(n.Index+1), 1, 0, 0, 0, 0, loc)
}

func (m Month) Title() string {
	n := m.Normalize()
	return fmt.Sprintf("%s, %d", time.Month(n.Index+1), n.Year)
}

func (m Month) Contains(t time.Time) bool {
	n := m.Normalize()
	return t.Year() == n.Year && int(t.Month())-1 == n.Index
}

// DaysIn uses day 0 of the following month, which time.Date normalizes to the
// last day of the requested one.
func DaysIn(year, monthIndex int) int {
	return time.Date(year, time.Month(monthIndex+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Cell is one slot of the month grid. Blank cells pad the first week.
type Cell struct {
	Blank   bool
	Day     int
	Key     string
	Weekday time.Weekday
}

func (c Cell) IsToday(now time.Time) bool {
	return !c.Blank && c.Key == CanonicalDateKey(now)
}

// MonthGrid lays out a month starting on Sunday. There is no trailing padding:
// the grid ends on the month's last day.
func MonthGrid(year, monthIndex int, loc *time.Location) []Cell {
	m := NewMonth(year, monthIndex)
	first := m.First(loc)
	lead := int(first.Weekday())
	days := DaysIn(m.Year, m.Index)

	cells := make([]Cell, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{Blank: true, Weekday: time.Weekday(i)})
	}
	for d := 1; d <= days; d++ {
		day := first.AddDate(0, 0, d-1)
		cells = append(cells, Cell{
			Day:     d,
			Key:     CanonicalDateKey(day),
			Weekday: day.Weekday(),
		})
	}
	return cells
}

// Weeks splits cells into rows of seven; the last row may be short.
func Weeks(cells []Cell) [][]Cell {
	out := make([][]Cell, 0, (len(cells)+6)/7)
	for start := 0; start < len(cells); start += 7 {
		end := start + 7
		if end > len(cells) {
			end = len(cells)
		}
		out = append(out, cells[start:end])
	}
	return out
}

// BucketTasksByDate groups tasks under the grid cell whose key matches the
// task date. Buckets keep task order; tasks outside the grid are dropped.
func BucketTasksByDate(tasks []model.Task, grid []Cell) map[string][]model.Task {
	buckets := make(map[string][]model.Task)
	keys := make(map[string]struct{}, len(grid))
	for _, c := range grid {
		if !c.Blank {
			keys[c.Key] = struct{}{}
		}
	}
	for _, task := range tasks {
		if _, ok := keys[task.Date]; ok {
			buckets[task.Date] = append(buckets[task.Date], task)
		}
	}
	return buckets
}
