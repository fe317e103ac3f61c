package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/config"
	"github.com/sandeepkv93/taskcal/internal/model"
)

// TaskStore is the subset of taskstore.Store the TUI drives.
type TaskStore interface {
	Load(ctx context.Context) ([]model.Task, error)
	Tasks() []model.Task
	Tags() []model.Tag
	Task(id string) (model.Task, bool)
	CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ToggleCompletion(ctx context.Context, id string) (model.Task, error)
	UpsertTag(ctx context.Context, name, color string) (model.Tag, error)
}

type Pane string

const (
	PaneGrid    Pane = "grid"
	PaneSidebar Pane = "sidebar"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type DetailState struct {
	Active bool
	TaskID string
}

type Model struct {
	Month         calendar.Month
	SelectedDate  string
	Filter        calendar.Filter
	Focus         Pane
	SidebarHidden bool
	SidebarCursor int
	Tasks         []model.Task
	Tags          []model.Tag
	Loaded        bool
	Form          FormState
	Detail        DetailState
	Palette       CommandPaletteState
	HelpVisible   bool
	Status        StatusBar
	Keys          KeyMap
	Pending       int
	Quitting      bool
	LastError     error
	Width         int

	store     TaskStore
	log       *zap.Logger
	loc       *time.Location
	now       func() time.Time
	timeout   time.Duration
	statePath string

	commandInput textinput.Model
	syncSpinner  spinner.Model
	helpModel    help.Model
}

type Options struct {
	Store    TaskStore
	Logger   *zap.Logger
	Location *time.Location
	// Now overrides the clock; tests pin it.
	Now          func() time.Time
	StoreTimeout time.Duration
	Keys         config.Keymap
	Filter       calendar.Filter
	// StatePath is where view preferences persist between sessions; empty
	// disables persistence.
	StatePath string
}

type tasksLoadedMsg struct {
	tasks []model.Task
	tags  []model.Tag
	err   error
}

type taskSavedMsg struct {
	task    model.Task
	created bool
	err     error
}

type taskToggledMsg struct {
	task model.Task
	err  error
}

type taskDeletedMsg struct {
	id  string
	err error
}

type tagSavedMsg struct {
	tag    model.Tag
	attach bool
	err    error
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func NewModel(opts Options) Model {
	m := Model{
		Filter:    opts.Filter,
		Focus:     PaneGrid,
		store:     opts.Store,
		log:       opts.Logger,
		loc:       opts.Location,
		now:       opts.Now,
		timeout:   opts.StoreTimeout,
		statePath: opts.StatePath,
		Keys:      NewKeyMap(opts.Keys),
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.timeout <= 0 {
		m.timeout = 5 * time.Second
	}
	if m.Filter == "" {
		m.Filter = calendar.FilterAll
	}
	if m.statePath != "" {
		if prefs, err := loadViewState(m.statePath); err == nil {
			m.applyViewState(prefs)
		} else {
			m.log.Warn("view state unreadable", zap.String("path", m.statePath), zap.Error(err))
		}
	}

	today := m.today()
	m.Month = calendar.MonthOf(today)
	m.SelectedDate = calendar.CanonicalDateKey(today)
	m.initBubbleComponents()
	if m.store != nil {
		m.Pending = 1
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = ": "
	m.commandInput.Placeholder = "add pay rent on 2024-03-15 #home"
	m.commandInput.CharLimit = 200
	m.commandInput.Cursor.SetMode(cursor.CursorStatic)

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
	m.Form = newFormState()
}

// today is the current instant in the display location.
func (m Model) today() time.Time {
	return m.now().In(m.loc)
}
