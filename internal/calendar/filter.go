package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/taskcal/internal/model"
)

var ErrInvalidFilter = errors.New("calendar: invalid filter")

type Filter string

const (
	FilterAll   Filter = "all"
	FilterDay   Filter = "day"
	FilterWeek  Filter = "week"
	FilterMonth Filter = "month"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterDay, FilterWeek, FilterMonth:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

// Next cycles all -> day -> week -> month -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterDay
	case FilterDay:
		return FilterWeek
	case FilterWeek:
		return FilterMonth
	default:
		return FilterAll
	}
}

func (f Filter) Label() string {
	switch f {
	case FilterDay:
		return "Today"
	case FilterWeek:
		return "This Week"
	case FilterMonth:
		return "This Month"
	default:
		return "All Tasks"
	}
}

// FilterTasks restricts tasks to the period around now, in now's location.
// The week runs from the Sunday at or before now for seven days. Tasks whose
// date cannot be parsed only appear under FilterAll.
func FilterTasks(tasks []model.Task, f Filter, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	if f == FilterAll || f == "" {
		return append(out, tasks...)
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekStart := time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, loc)
	weekEnd := weekStart.AddDate(0, 0, 7)
	todayKey := CanonicalDateKey(today)

	for _, task := range tasks {
		d, err := ParseDateKey(task.Date, loc)
		if err != nil {
			continue
		}
		keep := false
		switch f {
		case FilterDay:
			keep = CanonicalDateKey(d) == todayKey
		case FilterWeek:
			keep = !d.Before(weekStart) && d.Before(weekEnd)
		case FilterMonth:
			keep = d.Year() == now.Year() && d.Month() == now.Month()
		}
		if keep {
			out = append(out, task)
		}
	}
	return out
}

// UniqueTags flattens task tags in first-seen order, keyed by store ID. Tags
// without an ID fall back to their case-folded name.
func UniqueTags(tasks []model.Task) []model.Tag {
	seen := make(map[string]struct{})
	out := make([]model.Tag, 0)
	for _, task := range tasks {
		for _, tag := range task.Tags {
			key := tag.ID
			if key == "" {
				key = "name:" + strings.ToLower(strings.TrimSpace(tag.Name))
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// SortTasks returns a copy ordered by date, then time with untimed tasks
// first, then name.
func SortTasks(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].Name < out[j].Name
	})
	return out
}
