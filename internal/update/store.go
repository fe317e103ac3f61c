package update

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskcal/internal/model"
	"github.com/sandeepkv93/taskcal/internal/taskstore"
)

var errNoStore = errors.New("update: no task store configured")

// storeCmd runs op against the store off the UI goroutine with the
// configured timeout.
func (m Model) storeCmd(op func(ctx context.Context, store TaskStore) tea.Msg) tea.Cmd {
	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		if store == nil {
			return AppErrorMsg{Err: errNoStore}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return op(ctx, store)
	}
}

// begin marks a store call as in flight and starts the spinner with it.
func (m *Model) begin(cmd tea.Cmd) tea.Cmd {
	m.Pending++
	if m.Pending == 1 {
		return tea.Batch(cmd, m.syncSpinner.Tick)
	}
	return cmd
}

func (m *Model) finish() {
	if m.Pending > 0 {
		m.Pending--
	}
}

func (m Model) loadCmd() tea.Cmd {
	return m.storeCmd(func(ctx context.Context, store TaskStore) tea.Msg {
		tasks, err := store.Load(ctx)
		return tasksLoadedMsg{tasks: tasks, tags: store.Tags(), err: err}
	})
}

func (m Model) createTaskCmd(draft model.TaskDraft) tea.Cmd {
	return m.storeCmd(func(ctx context.Context, store TaskStore) tea.Msg {
		task, err := store.CreateTask(ctx, draft)
		return taskSavedMsg{task: task, created: true, err: err}
	})
}

func (m Model) updateTaskCmd(id string, patch model.TaskPatch) tea.Cmd {
	return m.storeCmd(func(ctx context.Context, store TaskStore) tea.Msg {
		task, err := store.UpdateTask(ctx, id, patch)
		return taskSavedMsg{task: task, err: err}
	})
}

func (m Model) toggleCmd(id string) tea.Cmd {
	return m.storeCmd(func(ctx context.Context, store TaskStore) tea.Msg {
		task, err := store.ToggleCompletion(ctx, id)
		return taskToggledMsg{task: task, err: err}
	})
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return m.storeCmd(func(ctx context.Context, store TaskStore) tea.Msg {
		return taskDeletedMsg{id: id, err: store.DeleteTask(ctx, id)}
	})
}

func (m Model) upsertTagCmd(name, color string, attach bool) tea.Cmd {
	return m.storeCmd(func(ctx context.Context, store TaskStore) tea.Msg {
		tag, err := store.UpsertTag(ctx, name, color)
		return tagSavedMsg{tag: tag, attach: attach, err: err}
	})
}

// addWithTagsCmd resolves palette tag names through UpsertTag, then creates
// the task carrying the stored tags.
func (m Model) addWithTagsCmd(draft model.TaskDraft, tagNames []string) tea.Cmd {
	return m.storeCmd(func(ctx context.Context, store TaskStore) tea.Msg {
		for _, name := range tagNames {
			tag, err := store.UpsertTag(ctx, name, "")
			if err != nil {
				return taskSavedMsg{created: true, err: err}
			}
			draft.AddTag(tag)
		}
		task, err := store.CreateTask(ctx, draft)
		return taskSavedMsg{task: task, created: true, err: err}
	})
}

// refresh copies the store's cache into the view model.
func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	m.Tasks = m.store.Tasks()
	m.Tags = m.store.Tags()
	m.clampSidebarCursor()
}

func (m *Model) fail(op string, err error) {
	m.LastError = err
	m.Status = StatusBar{Text: describeError(err), IsError: true}
	m.log.Warn("store operation failed", zap.String("op", op), zap.Error(err))
}

func describeError(err error) string {
	switch {
	case errors.Is(err, taskstore.ErrStoreUnavailable):
		return "store unavailable, nothing was changed: " + err.Error()
	case errors.Is(err, taskstore.ErrNotFound):
		return "task no longer exists: " + err.Error()
	default:
		return err.Error()
	}
}
