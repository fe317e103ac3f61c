// Package taskstore holds the session's tasks and tags as a write-through cache
// over a storage.DocumentStore.
//
// Every mutation is sent to the document store first; the cache changes only
// after the store confirms. A failed call returns an error and leaves the cache
// exactly as it was. Calls are serialized: the store mutex is held across the
// document-store round trip.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/taskcal/internal/model"
	"github.com/sandeepkv93/taskcal/internal/storage"
)

var (
	ErrValidation       = errors.New("taskstore: validation failed")
	ErrNotFound         = errors.New("taskstore: not found")
	ErrStoreUnavailable = errors.New("taskstore: store unavailable")
)

type Store struct {
	docs storage.DocumentStore
	loc  *time.Location
	log  *zap.Logger

	mu    sync.Mutex
	tasks []model.Task
	tags  []model.Tag
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLocation sets the zone used to convert between date keys and the
// store's UTC-normalized dates. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func New(docs storage.DocumentStore, opts ...Option) *Store {
	s := &Store{
		docs: docs,
		loc:  time.Local,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Location() *time.Location {
	return s.loc
}

// Load replaces the cache with the store's contents. Records that cannot be
// decoded are skipped and logged.
func (s *Store) Load(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var taskDocs, tagDocs []storage.Document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.docs.List(gctx, storage.CollectionTasks)
		taskDocs = docs
		return err
	})
	g.Go(func() error {
		docs, err := s.docs.List(gctx, storage.CollectionTags)
		tagDocs = docs
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("load failed", zap.Error(err))
		return nil, unavailable("load", err)
	}

	tasks := make([]model.Task, 0, len(taskDocs))
	for _, doc := range taskDocs {
		task, err := decodeTask(doc, s.loc)
		if err != nil {
			s.log.Warn("skipping task record", zap.String("task_id", doc.ID), zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}
	tags := make([]model.Tag, 0, len(tagDocs))
	for _, doc := range tagDocs {
		tag, err := decodeTag(doc)
		if err != nil {
			s.log.Warn("skipping tag record", zap.String("tag_id", doc.ID), zap.Error(err))
			continue
		}
		tags = append(tags, tag)
	}

	s.tasks = tasks
	s.tags = tags
	s.log.Debug("loaded", zap.Int("tasks", len(tasks)), zap.Int("tags", len(tags)))
	return cloneTasks(tasks), nil
}

func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

func (s *Store) Tags() []model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Tag{}, s.tags...)
}

func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.tasks[idx].Clone(), true
	}
	return model.Task{}, false
}

func (s *Store) CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	task := model.Task{
		Name:        strings.TrimSpace(draft.Name),
		Date:        strings.TrimSpace(draft.Date),
		Time:        strings.TrimSpace(draft.Time),
		Description: draft.Description,
		Tags:        append([]model.Tag{}, draft.Tags...),
	}
	if err := validate(task); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := encodeTask(task, s.loc)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	id, err := s.docs.Create(ctx, storage.CollectionTasks, body)
	if err != nil {
		s.log.Warn("create task failed", zap.String("collection", storage.CollectionTasks), zap.String("name", task.Name), zap.Error(err))
		return model.Task{}, unavailable("create task", err)
	}
	task.ID = id
	s.tasks = append(s.tasks, task)
	s.log.Info("task created", zap.String("task_id", id), zap.String("date", task.Date))
	return task.Clone(), nil
}

// UpdateTask merges patch into the cached task and writes it through. A task
// the store no longer has is dropped from the cache and reported as not found.
func (s *Store) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, id, patch)
}

// ToggleCompletion flips Completed through the same write-through path as
// UpdateTask.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, notFound(id)
	}
	done := !s.tasks[idx].Completed
	return s.updateLocked(ctx, id, model.TaskPatch{Completed: &done})
}

func (s *Store) updateLocked(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, notFound(id)
	}
	next := patch.Apply(s.tasks[idx])
	next.ID = id
	if err := validate(next); err != nil {
		return model.Task{}, err
	}
	body, err := encodeTask(next, s.loc)
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.docs.Replace(ctx, storage.CollectionTasks, id, body); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same as DeleteTask: the store is the record of truth.
			s.tasks = append(s.tasks[:idx:idx], s.tasks[idx+1:]...)
			s.log.Warn("task gone from store, dropped from cache", zap.String("task_id", id))
			return model.Task{}, notFound(id)
		}
		s.log.Warn("update task failed", zap.String("collection", storage.CollectionTasks), zap.String("task_id", id), zap.Error(err))
		return model.Task{}, unavailable("update task", err)
	}
	s.tasks[idx] = next
	s.log.Info("task updated", zap.String("task_id", id))
	return next.Clone(), nil
}

// DeleteTask removes the task from the store, then from the cache. A task the
// store no longer has is dropped from the cache as well.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return notFound(id)
	}
	if err := s.docs.Delete(ctx, storage.CollectionTasks, id); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("delete task failed", zap.String("collection", storage.CollectionTasks), zap.String("task_id", id), zap.Error(err))
			return unavailable("delete task", err)
		}
		s.log.Warn("task already gone from store", zap.String("task_id", id))
	}
	s.tasks = append(s.tasks[:idx:idx], s.tasks[idx+1:]...)
	s.log.Info("task deleted", zap.String("task_id", id))
	return nil
}

// UpsertTag returns the existing tag when one with the same name (trimmed,
// case-insensitive) is known; otherwise the tag is created in the store and
// only then cached.
func (s *Store) UpsertTag(ctx context.Context, name, color string) (model.Tag, error) {
	tag, err := model.NormalizeTag(name, color)
	if err != nil {
		return model.Tag{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tags {
		if model.SameName(existing.Name, tag.Name) {
			return existing, nil
		}
	}
	body, err := encodeTag(tag)
	if err != nil {
		return model.Tag{}, err
	}
	id, err := s.docs.Create(ctx, storage.CollectionTags, body)
	if err != nil {
		s.log.Warn("create tag failed", zap.String("collection", storage.CollectionTags), zap.String("name", tag.Name), zap.Error(err))
		return model.Tag{}, unavailable("create tag", err)
	}
	tag.ID = id
	s.tags = append(s.tags, tag)
	s.log.Info("tag created", zap.String("tag_id", id), zap.String("name", tag.Name))
	return tag, nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func validate(t model.Task) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	for _, tag := range t.Tags {
		if tag.ID == "" {
			return fmt.Errorf("%w: tag %q has not been stored", ErrValidation, tag.Name)
		}
	}
	return nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: task %q", ErrNotFound, id)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}
