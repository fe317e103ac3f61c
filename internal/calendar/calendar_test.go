package calendar

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/taskcal/internal/model"
)

var (
	utc     = time.UTC
	utcM8   = time.FixedZone("UTC-8", -8*60*60)
	utcP14  = time.FixedZone("UTC+14", 14*60*60)
	allLocs = []*time.Location{utc, utcM8, utcP14}
)

func TestDaysInKnownLengths(t *testing.T) {
	cases := []struct {
		year, index, want int
	}{
		{2000, 1, 29},
		{2004, 1, 29},
		{2024, 1, 29},
		{1900, 1, 28},
		{2023, 1, 28},
		{2023, 0, 31},
		{2023, 3, 30},
		{2023, 10, 30},
		{2023, 11, 31},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DaysIn(tc.year, tc.index), "DaysIn(%d, %d)", tc.year, tc.index)
	}

	lengths := []int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	for idx, want := range lengths {
		assert.Equal(t, want, DaysIn(2023, idx), "month index %d", idx)
	}
}

func TestMonthGridLayout(t *testing.T) {
	for _, loc := range allLocs {
		cells := MonthGrid(2024, 2, loc) // March 2024 starts on a Friday
		require.Len(t, cells, 5+31, loc.String())
		for i := 0; i < 5; i++ {
			assert.True(t, cells[i].Blank)
		}
		assert.Equal(t, Cell{Day: 1, Key: "2024-03-01", Weekday: time.Friday}, cells[5])
		assert.Equal(t, "2024-03-31", cells[len(cells)-1].Key)
	}

	sept := MonthGrid(2024, 8, utc)
	require.Len(t, sept, 30)
	assert.False(t, sept[0].Blank)
	assert.Equal(t, time.Sunday, sept[0].Weekday)

	feb := MonthGrid(2024, 1, utcM8)
	days := 0
	for _, c := range feb {
		if !c.Blank {
			days++
		}
	}
	assert.Equal(t, 29, days)
}

func TestMonthGridRollover(t *testing.T) {
	if diff := cmp.Diff(MonthGrid(2025, 0, utc), MonthGrid(2024, 12, utc)); diff != "" {
		t.Fatalf("december->january rollover mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(MonthGrid(2023, 11, utc), MonthGrid(2024, -1, utc)); diff != "" {
		t.Fatalf("january->december rollover mismatch (-want +got):\n%s", diff)
	}

	m := Month{Year: 2024, Index: 11}
	assert.Equal(t, Month{Year: 2025, Index: 0}, m.Next())
	assert.Equal(t, Month{Year: 2023, Index: 11}, Month{Year: 2024, Index: 0}.Prev())
	assert.Equal(t, "January, 2025", m.Next().Title())
	assert.Equal(t, Month{Year: 2026, Index: 1}, Month{Year: 2024, Index: 25}.Normalize())
	assert.Equal(t, "February, 2026", Month{Year: 2024, Index: 25}.Title())
}

func TestWeeksChunksRows(t *testing.T) {
	rows := Weeks(MonthGrid(2024, 2, utc))
	require.Len(t, rows, 6)
	assert.Len(t, rows[0], 7)
	assert.Len(t, rows[5], 1)
}

func TestCanonicalDateKeyLocalMidnight(t *testing.T) {
	for _, loc := range allLocs {
		midnight := time.Date(2024, 3, 15, 0, 0, 0, 0, loc)
		assert.Equal(t, "2024-03-15", CanonicalDateKey(midnight), loc.String())

		lateEvening := time.Date(2024, 3, 15, 23, 59, 0, 0, loc)
		assert.Equal(t, "2024-03-15", CanonicalDateKey(lateEvening), loc.String())

		parsed, err := ParseDateKey("2024-03-15", loc)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-15", CanonicalDateKey(parsed))
	}

	// Formatting the UTC instant instead of local fields shifts the day.
	east := time.Date(2024, 3, 15, 0, 0, 0, 0, utcP14)
	assert.Equal(t, "2024-03-14", CanonicalDateKey(east.UTC()))
	west := time.Date(2024, 3, 15, 20, 0, 0, 0, utcM8)
	assert.Equal(t, "2024-03-16", CanonicalDateKey(west.UTC()))
}

func TestStoreDateRoundTrip(t *testing.T) {
	stored, err := ToStoreDate("2024-03-15", utcM8)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15T08:00:00Z", stored)

	stored, err = ToStoreDate("2024-03-15", utcP14)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14T10:00:00Z", stored)

	for _, loc := range allLocs {
		stored, err := ToStoreDate("2024-12-31", loc)
		require.NoError(t, err)
		back, err := FromStoreDate(stored, loc)
		require.NoError(t, err)
		assert.Equal(t, "2024-12-31", back, loc.String())
	}

	plain, err := FromStoreDate("2024-02-29", utcM8)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", plain)

	_, err = FromStoreDate("yesterday", utc)
	assert.ErrorIs(t, err, ErrInvalidDateKey)
	_, err = ToStoreDate("2023-02-29", utc)
	assert.ErrorIs(t, err, ErrInvalidDateKey)
}

func TestCellIsToday(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, utcM8)
	cells := MonthGrid(2024, 2, utcM8)
	var today []string
	for _, c := range cells {
		if c.IsToday(now) {
			today = append(today, c.Key)
		}
	}
	assert.Equal(t, []string{"2024-03-15"}, today)
}

func TestBucketTasksByDate(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Name: "a", Date: "2024-03-15"},
		{ID: "2", Name: "b", Date: "2024-04-01"},
		{ID: "3", Name: "c", Date: "2024-03-15"},
		{ID: "4", Name: "d", Date: "2024-03-01"},
		{ID: "5", Name: "e", Date: "2024-03-15"},
	}
	buckets := BucketTasksByDate(tasks, MonthGrid(2024, 2, utc))

	require.Len(t, buckets, 2)
	var ids []string
	for _, task := range buckets["2024-03-15"] {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"1", "3", "5"}, ids)
	assert.NotContains(t, buckets, "2024-04-01")
}

func TestFilterTasksWeek(t *testing.T) {
	wednesday := time.Date(2024, 3, 13, 15, 0, 0, 0, utcM8)
	tasks := []model.Task{
		{ID: "sat-before", Date: "2024-03-09"},
		{ID: "sun", Date: "2024-03-10"},
		{ID: "wed", Date: "2024-03-13"},
		{ID: "sat", Date: "2024-03-16"},
		{ID: "sun-after", Date: "2024-03-17"},
		{ID: "bad", Date: "soon"},
	}
	got := FilterTasks(tasks, FilterWeek, wednesday)
	assert.Equal(t, []string{"sun", "wed", "sat"}, taskIDs(got))
}

func TestFilterTasksWeekAcrossDST(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	// DST starts on 2024-03-10 in Los Angeles.
	now := time.Date(2024, 3, 13, 9, 0, 0, 0, la)
	tasks := []model.Task{
		{ID: "sun", Date: "2024-03-10"},
		{ID: "sat", Date: "2024-03-16"},
		{ID: "next-sun", Date: "2024-03-17"},
	}
	assert.Equal(t, []string{"sun", "sat"}, taskIDs(FilterTasks(tasks, FilterWeek, now)))
}

func TestFilterTasksDayMonthAll(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, utcM8)
	tasks := []model.Task{
		{ID: "today", Date: "2024-03-15"},
		{ID: "tomorrow", Date: "2024-03-16"},
		{ID: "last-month", Date: "2024-02-15"},
		{ID: "next-year", Date: "2025-03-15"},
		{ID: "bad", Date: ""},
	}
	assert.Equal(t, []string{"today"}, taskIDs(FilterTasks(tasks, FilterDay, now)))
	assert.Equal(t, []string{"today", "tomorrow"}, taskIDs(FilterTasks(tasks, FilterMonth, now)))
	assert.Equal(t, []string{"today", "tomorrow", "last-month", "next-year", "bad"}, taskIDs(FilterTasks(tasks, FilterAll, now)))
}

func TestParseFilterAndCycle(t *testing.T) {
	f, err := ParseFilter(" Week ")
	require.NoError(t, err)
	assert.Equal(t, FilterWeek, f)

	f, err = ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseFilter("year")
	assert.ErrorIs(t, err, ErrInvalidFilter)

	seq := []Filter{FilterAll}
	for i := 0; i < 4; i++ {
		seq = append(seq, seq[len(seq)-1].Next())
	}
	assert.Equal(t, []Filter{FilterAll, FilterDay, FilterWeek, FilterMonth, FilterAll}, seq)
}

func TestUniqueTagsByID(t *testing.T) {
	tasks := []model.Task{
		{Tags: []model.Tag{{ID: "t1", Name: "work", Color: "#ff0000"}, {ID: "t2", Name: "home", Color: "#00ff00"}}},
		{Tags: []model.Tag{{ID: "t1", Name: "work", Color: "#0000ff"}}},
		{Tags: []model.Tag{{Name: "Draft"}, {Name: "draft "}}},
	}
	got := UniqueTags(tasks)
	want := []model.Tag{
		{ID: "t1", Name: "work", Color: "#ff0000"},
		{ID: "t2", Name: "home", Color: "#00ff00"},
		{Name: "Draft"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unique tags mismatch (-want +got):\n%s", diff)
	}
}

func taskIDs(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestSortTasksOrdersByDateTimeName(t *testing.T) {
	tasks := []model.Task{
		{ID: "c", Name: "b", Date: "2024-03-02", Time: "09:00"},
		{ID: "a", Name: "z", Date: "2024-03-01", Time: "10:00"},
		{ID: "d", Name: "a", Date: "2024-03-02", Time: "09:00"},
		{ID: "b", Name: "y", Date: "2024-03-01"},
	}

	got := SortTasks(tasks)
	ids := make([]string, 0, len(got))
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"b", "a", "d", "c"}, ids)
	assert.Equal(t, "c", tasks[0].ID, "input must not be reordered")
}
