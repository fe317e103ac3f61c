package update

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/model"
	"github.com/sandeepkv93/taskcal/internal/storage"
	"github.com/sandeepkv93/taskcal/internal/taskstore"
)

var fixedNow = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

// flakyStore fails deletes on demand.
type flakyStore struct {
	*taskstore.Store
	failDelete bool
}

func (f *flakyStore) DeleteTask(ctx context.Context, id string) error {
	if f.failDelete {
		return fmt.Errorf("%w: %w", taskstore.ErrStoreUnavailable, errors.New("disk gone"))
	}
	return f.Store.DeleteTask(ctx, id)
}

func newTestModel(t *testing.T, store TaskStore, statePath string) Model {
	t.Helper()
	if store == nil {
		store = taskstore.New(storage.NewMemoryDocumentStore(), taskstore.WithLocation(time.UTC))
	}
	m := NewModel(Options{
		Store:     store,
		Location:  time.UTC,
		Now:       func() time.Time { return fixedNow },
		StatePath: statePath,
	})
	return run(t, m, m.Init())
}

// run executes cmd and feeds every resulting message back into the model,
// skipping spinner ticks.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			updated, follow := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, follow)
		}
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeAndRun(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		var cmd tea.Cmd
		m, cmd = press(t, m, k)
		m = run(t, m, cmd)
	}
	return m
}

func paletteCommand(t *testing.T, m Model, input string) Model {
	t.Helper()
	return typeAndRun(t, m, runes(":"), runes(input), tea.KeyMsg{Type: tea.KeyEnter})
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t, nil, "")
	if m.Month != (calendar.Month{Year: 2024, Index: 2}) {
		t.Fatalf("expected March 2024, got %+v", m.Month)
	}
	if m.SelectedDate != "2024-03-13" {
		t.Fatalf("expected today selected, got %q", m.SelectedDate)
	}
	if m.Filter != calendar.FilterAll || m.Focus != PaneGrid {
		t.Fatalf("unexpected defaults: filter=%q focus=%q", m.Filter, m.Focus)
	}
	if !m.Loaded || m.Pending != 0 {
		t.Fatalf("expected initial load to finish, loaded=%v pending=%d", m.Loaded, m.Pending)
	}
}

func TestInitLoadsExistingTasks(t *testing.T) {
	docs := storage.NewMemoryDocumentStore()
	seed := taskstore.New(docs, taskstore.WithLocation(time.UTC))
	if _, err := seed.CreateTask(context.Background(), model.TaskDraft{Name: "seeded", Date: "2024-03-20"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	m := newTestModel(t, taskstore.New(docs, taskstore.WithLocation(time.UTC)), "")
	if len(m.Tasks) != 1 || m.Tasks[0].Name != "seeded" {
		t.Fatalf("expected seeded task, got %+v", m.Tasks)
	}
	if !strings.Contains(m.Status.Text, "loaded 1 task") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestGridNavigationCrossesMonths(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = paletteCommand(t, m, "goto 2024-02")
	if m.SelectedDate != "2024-02-01" {
		t.Fatalf("expected first of February, got %q", m.SelectedDate)
	}

	m, _ = press(t, m, runes("h"))
	if m.SelectedDate != "2024-01-31" || m.Month != (calendar.Month{Year: 2024, Index: 0}) {
		t.Fatalf("expected to step back into January, got %q %+v", m.SelectedDate, m.Month)
	}
	m, _ = press(t, m, runes("j"))
	if m.SelectedDate != "2024-02-07" {
		t.Fatalf("expected a week later, got %q", m.SelectedDate)
	}
	m, _ = press(t, m, runes("t"))
	if m.SelectedDate != "2024-03-13" {
		t.Fatalf("expected jump to today, got %q", m.SelectedDate)
	}
}

func TestMonthStepClampsDay(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = paletteCommand(t, m, "goto 2024-01")
	for i := 0; i < 30; i++ {
		m, _ = press(t, m, runes("l"))
	}
	if m.SelectedDate != "2024-01-31" {
		t.Fatalf("setup: expected Jan 31, got %q", m.SelectedDate)
	}
	m, _ = press(t, m, runes("]"))
	if m.SelectedDate != "2024-02-29" {
		t.Fatalf("expected clamp to leap day, got %q", m.SelectedDate)
	}
	m, _ = press(t, m, runes("["))
	m, _ = press(t, m, runes("["))
	if m.Month != (calendar.Month{Year: 2023, Index: 11}) {
		t.Fatalf("expected December 2023, got %+v", m.Month)
	}
}

func TestFormCreatesTaskOnSelectedDay(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = typeAndRun(t, m, runes("n"), runes("write tests"), tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.Form.Active {
		t.Fatalf("expected form to close, err=%q", m.Form.Err)
	}
	if len(m.Tasks) != 1 {
		t.Fatalf("expected one task, got %+v", m.Tasks)
	}
	if got := m.Tasks[0]; got.Name != "write tests" || got.Date != "2024-03-13" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestFormValidationKeepsFormOpen(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = typeAndRun(t, m, runes("n"), tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.Form.Active || m.Form.Err == "" {
		t.Fatalf("expected form to stay open with an error, got %+v", m.Form)
	}
	if len(m.Tasks) != 0 {
		t.Fatalf("no task should be created: %+v", m.Tasks)
	}

	m = typeAndRun(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Form.Active {
		t.Fatal("expected esc to close form")
	}
}

func TestFormCreatesAndAttachesTag(t *testing.T) {
	m := newTestModel(t, nil, "")
	tab := tea.KeyMsg{Type: tea.KeyTab}
	m = typeAndRun(t, m, runes("n"), runes("standup"), tab, tab, tab, tab, tab, runes("Work"), tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.Tags) != 1 || m.Tags[0].Name != "Work" {
		t.Fatalf("expected stored tag, got %+v", m.Tags)
	}
	if len(m.Form.Tags) != 1 || m.Form.Tags[0].ID != m.Tags[0].ID {
		t.Fatalf("expected tag attached to draft, got %+v", m.Form.Tags)
	}

	// Back to the picker: space detaches, space again re-attaches.
	m = typeAndRun(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, runes(" "))
	if len(m.Form.Tags) != 0 {
		t.Fatalf("expected tag detached, got %+v", m.Form.Tags)
	}
	m = typeAndRun(t, m, runes(" "), tea.KeyMsg{Type: tea.KeyCtrlS})
	if len(m.Tasks) != 1 || len(m.Tasks[0].Tags) != 1 || m.Tasks[0].Tags[0].Name != "Work" {
		t.Fatalf("expected task carrying tag, got %+v", m.Tasks)
	}
}

func TestPaletteAddWithOptions(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = paletteCommand(t, m, "add pay rent on 2024-04-01 at 09:00 #home #bills")

	if len(m.Tasks) != 1 {
		t.Fatalf("expected one task, got %+v (status %+v)", m.Tasks, m.Status)
	}
	task := m.Tasks[0]
	if task.Name != "pay rent" || task.Date != "2024-04-01" || task.Time != "09:00" || len(task.Tags) != 2 {
		t.Fatalf("unexpected task: %+v", task)
	}
	if m.SelectedDate != "2024-04-01" || m.Month.Index != 3 {
		t.Fatalf("expected grid to reveal the new task, got %q %+v", m.SelectedDate, m.Month)
	}

	m = paletteCommand(t, m, "add pay rent again #HOME")
	if len(m.Tags) != 2 {
		t.Fatalf("tag names should dedupe case-insensitively, got %+v", m.Tags)
	}
}

func TestSidebarLegendFollowsFilter(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = paletteCommand(t, m, "add standup on 2024-03-13 #work")
	m = paletteCommand(t, m, "add dentist on 2024-05-02 #health")
	m = paletteCommand(t, m, "add review on 2024-03-13 #WORK")

	legend := m.sidebarData().Legend
	if len(legend) != 2 || legend[0].Name != "work" || legend[1].Name != "health" {
		t.Fatalf("legend should list each tag once in list order, got %+v", legend)
	}

	m = paletteCommand(t, m, "filter day")
	legend = m.sidebarData().Legend
	if len(legend) != 1 || legend[0].Name != "work" {
		t.Fatalf("legend should only cover today's tasks, got %+v", legend)
	}
	if !strings.Contains(m.View(), "tags:") {
		t.Fatalf("expected legend in view:\n%s", m.View())
	}
}

func TestPaletteDoneAndRemove(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = paletteCommand(t, m, "add b-task on 2024-03-14")
	m = paletteCommand(t, m, "add a-task on 2024-03-12")

	m = paletteCommand(t, m, "done 1")
	first, _ := m.taskAt(1)
	if first.Name != "a-task" || !first.Completed {
		t.Fatalf("expected earliest task completed, got %+v", first)
	}

	m = paletteCommand(t, m, "rm 2")
	if len(m.Tasks) != 1 || m.Tasks[0].Name != "a-task" {
		t.Fatalf("expected b-task removed, got %+v", m.Tasks)
	}

	m = paletteCommand(t, m, "rm 9")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "no task #9") {
		t.Fatalf("expected out of range error, got %+v", m.Status)
	}
}

func TestSidebarToggleAndDelete(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = paletteCommand(t, m, "add groceries")

	m = typeAndRun(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("x"))
	if m.Focus != PaneSidebar || !m.Tasks[0].Completed {
		t.Fatalf("expected completion toggled from sidebar, got focus=%q tasks=%+v", m.Focus, m.Tasks)
	}
	m = typeAndRun(t, m, runes("x"))
	if m.Tasks[0].Completed {
		t.Fatal("second toggle should reopen the task")
	}

	m = typeAndRun(t, m, runes("d"))
	if len(m.Tasks) != 0 {
		t.Fatalf("expected task deleted, got %+v", m.Tasks)
	}
}

func TestStoreFailureKeepsTaskAndReportsError(t *testing.T) {
	store := &flakyStore{Store: taskstore.New(storage.NewMemoryDocumentStore(), taskstore.WithLocation(time.UTC))}
	m := newTestModel(t, store, "")
	m = paletteCommand(t, m, "add fragile")

	store.failDelete = true
	m = paletteCommand(t, m, "rm 1")
	if len(m.Tasks) != 1 {
		t.Fatalf("failed delete must keep the task, got %+v", m.Tasks)
	}
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "store unavailable") {
		t.Fatalf("expected store error status, got %+v", m.Status)
	}
	if !errors.Is(m.LastError, taskstore.ErrStoreUnavailable) {
		t.Fatalf("expected last error to wrap ErrStoreUnavailable, got %v", m.LastError)
	}
}

func TestDetailPopoverAndEdit(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = paletteCommand(t, m, "add review notes")

	m = typeAndRun(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("v"))
	if !m.Detail.Active {
		t.Fatal("expected detail popover")
	}
	if out := m.View(); !strings.Contains(out, "review notes") || !strings.Contains(out, "(open)") {
		t.Fatalf("expected task in detail view:\n%s", out)
	}

	m = typeAndRun(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Detail.Active || !m.Form.Active || m.Form.EditingID != m.Tasks[0].ID {
		t.Fatalf("expected edit form for task, got form=%+v detail=%+v", m.Form, m.Detail)
	}

	m = typeAndRun(t, m, runes(" v2"), tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Tasks[0].Name != "review notes v2" {
		t.Fatalf("expected renamed task, got %+v", m.Tasks[0])
	}
}

func TestFilterAndSidebarPreferencesPersist(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state", "view.json")
	m := newTestModel(t, nil, statePath)

	m, _ = press(t, m, runes("f"))
	if m.Filter != calendar.FilterDay {
		t.Fatalf("expected day filter, got %q", m.Filter)
	}
	m, _ = press(t, m, runes("s"))
	if !m.SidebarHidden {
		t.Fatal("expected sidebar hidden")
	}
	if strings.Contains(m.View(), "(no tasks)") {
		t.Fatal("hidden sidebar should not render")
	}

	restored := newTestModel(t, nil, statePath)
	if restored.Filter != calendar.FilterDay || !restored.SidebarHidden {
		t.Fatalf("expected preferences restored, got filter=%q hidden=%v", restored.Filter, restored.SidebarHidden)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t, nil, "")
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, nil, "")
	m, cmd := press(t, m, runes("q"))
	if !m.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := newTestModel(t, nil, "")
	m = paletteCommand(t, m, "add demo day")
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"March, 2024", "filter: All Tasks", "selected: 2024-03-13", "status: all good", "demo day", "SUN"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, nil, "")
	m, _ = press(t, m, runes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "help:") {
		t.Fatal("expected help panel")
	}
}

func TestGridDataBucketsAndColorsChips(t *testing.T) {
	tasks := []model.Task{
		{ID: "2", Name: "later", Date: "2024-03-13", Time: "18:00"},
		{ID: "1", Name: "early", Date: "2024-03-13", Time: "08:00",
			Tags: []model.Tag{{ID: "t1", Name: "work", Color: "#ff0000"}, {ID: "t2", Name: "x", Color: "#00ff00"}}},
		{ID: "3", Name: "april", Date: "2024-04-01"},
	}

	data := GridData(calendar.NewMonth(2024, 2), tasks, "2024-03-14", fixedNow, time.UTC)
	if data.Title != "March, 2024" {
		t.Fatalf("title = %q", data.Title)
	}

	var today, selected bool
	var chips []string
	for _, week := range data.Weeks {
		for _, cell := range week {
			if cell.Blank {
				continue
			}
			if cell.Day == 13 {
				today = cell.Today
				for _, chip := range cell.Tasks {
					chips = append(chips, chip.Name+chip.Color)
				}
			}
			if cell.Day == 14 {
				selected = cell.Selected
			}
			if cell.Day == 1 && len(cell.Tasks) != 0 {
				t.Fatalf("april task leaked into march: %+v", cell.Tasks)
			}
		}
	}
	if !today || !selected {
		t.Fatalf("today=%v selected=%v, want both", today, selected)
	}
	if got := strings.Join(chips, ","); got != "early#ff0000,later" {
		t.Fatalf("chips = %q", got)
	}
}
