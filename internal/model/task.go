package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultTagColor = "#808080"
)

var (
	ErrNameRequired    = errors.New("model: task name is required")
	ErrDateRequired    = errors.New("model: task date is required")
	ErrInvalidDate     = errors.New("model: invalid task date")
	ErrInvalidTime     = errors.New("model: invalid task time")
	ErrTagNameRequired = errors.New("model: tag name is required")
	ErrInvalidColor    = errors.New("model: invalid tag color")
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Tag is a named color label. ID is assigned by the document store and is the
// tag's identity everywhere (selection, removal, de-duplication).
type Tag struct {
	ID    string
	Name  string
	Color string
}

// NormalizeTag trims the name and fills in the default color.
func NormalizeTag(name, color string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, ErrTagNameRequired
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultTagColor
	}
	if !hexColor.MatchString(color) {
		return Tag{}, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	return Tag{Name: name, Color: strings.ToLower(color)}, nil
}

// SameName reports whether two tag names collide (trimmed, case-insensitive).
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Task embeds copies of its tags; later edits to a Tag do not reach tasks that
// already carry it.
type Task struct {
	ID          string
	Name        string
	Date        string
	Time        string
	Description string
	Tags        []Tag
	Completed   bool
}

func (t Task) Validate() error {
	return validateFields(t.Name, t.Date, t.Time)
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = append(make([]Tag, 0, len(t.Tags)), t.Tags...)
	}
	return out
}

func (t Task) HasTag(id string) bool {
	for _, tag := range t.Tags {
		if tag.ID == id {
			return true
		}
	}
	return false
}

// TaskDraft holds the user-entered fields of a task that has not been stored yet.
type TaskDraft struct {
	Name        string
	Date        string
	Time        string
	Description string
	Tags        []Tag
}

func (d TaskDraft) Validate() error {
	return validateFields(d.Name, d.Date, d.Time)
}

// AddTag appends tag unless a tag with the same ID is already attached.
func (d *TaskDraft) AddTag(tag Tag) {
	d.Tags = appendTag(d.Tags, tag)
}

func (d TaskDraft) HasTag(id string) bool {
	return Task{Tags: d.Tags}.HasTag(id)
}

func (d *TaskDraft) RemoveTag(id string) {
	d.Tags = removeTag(d.Tags, id)
}

// TaskPatch carries the fields of an update; nil fields are left unchanged.
type TaskPatch struct {
	Name        *string
	Date        *string
	Time        *string
	Description *string
	Tags        *[]Tag
	Completed   *bool
}

// Apply merges the patch into a copy of t.
func (p TaskPatch) Apply(t Task) Task {
	out := t.Clone()
	if p.Name != nil {
		out.Name = strings.TrimSpace(*p.Name)
	}
	if p.Date != nil {
		out.Date = strings.TrimSpace(*p.Date)
	}
	if p.Time != nil {
		out.Time = strings.TrimSpace(*p.Time)
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Tags != nil {
		tags := make([]Tag, 0, len(*p.Tags))
		for _, tag := range *p.Tags {
			tags = appendTag(tags, tag)
		}
		out.Tags = tags
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}
	return out
}

func validateFields(name, date, clock string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return ErrDateRequired
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	clock = strings.TrimSpace(clock)
	if clock != "" {
		if _, err := time.Parse(TimeLayout, clock); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTime, clock)
		}
	}
	return nil
}

func appendTag(tags []Tag, tag Tag) []Tag {
	for _, existing := range tags {
		if existing.ID == tag.ID {
			return tags
		}
	}
	return append(tags, tag)
}

func removeTag(tags []Tag, id string) []Tag {
	out := tags[:0:0]
	for _, tag := range tags {
		if tag.ID != id {
			out = append(out, tag)
		}
	}
	return out
}
