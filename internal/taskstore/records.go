package taskstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/model"
	"github.com/sandeepkv93/taskcal/internal/storage"
)

// taskRecord is the stored shape of a task. Date holds the UTC instant of
// local midnight; tags are embedded copies.
type taskRecord struct {
	Name        string      `json:"name"`
	Date        string      `json:"date"`
	Time        string      `json:"time,omitempty"`
	Description string      `json:"description,omitempty"`
	Tags        []tagRecord `json:"tags"`
	Completed   bool        `json:"completed"`
}

type tagRecord struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func encodeTask(t model.Task, loc *time.Location) ([]byte, error) {
	date, err := calendar.ToStoreDate(t.Date, loc)
	if err != nil {
		return nil, err
	}
	rec := taskRecord{
		Name:        t.Name,
		Date:        date,
		Time:        t.Time,
		Description: t.Description,
		Tags:        make([]tagRecord, 0, len(t.Tags)),
		Completed:   t.Completed,
	}
	for _, tag := range t.Tags {
		rec.Tags = append(rec.Tags, tagRecord(tag))
	}
	return json.Marshal(rec)
}

func decodeTask(doc storage.Document, loc *time.Location) (model.Task, error) {
	var rec taskRecord
	if err := json.Unmarshal(doc.Body, &rec); err != nil {
		return model.Task{}, fmt.Errorf("decode task %s: %w", doc.ID, err)
	}
	date, err := calendar.FromStoreDate(rec.Date, loc)
	if err != nil {
		return model.Task{}, fmt.Errorf("decode task %s: %w", doc.ID, err)
	}
	task := model.Task{
		ID:          doc.ID,
		Name:        rec.Name,
		Date:        date,
		Time:        rec.Time,
		Description: rec.Description,
		Tags:        make([]model.Tag, 0, len(rec.Tags)),
		Completed:   rec.Completed,
	}
	for _, tag := range rec.Tags {
		task.Tags = append(task.Tags, model.Tag(tag))
	}
	return task, nil
}

func encodeTag(t model.Tag) ([]byte, error) {
	return json.Marshal(tagRecord{Name: t.Name, Color: t.Color})
}

func decodeTag(doc storage.Document) (model.Tag, error) {
	var rec tagRecord
	if err := json.Unmarshal(doc.Body, &rec); err != nil {
		return model.Tag{}, fmt.Errorf("decode tag %s: %w", doc.ID, err)
	}
	return model.Tag{ID: doc.ID, Name: rec.Name, Color: rec.Color}, nil
}
