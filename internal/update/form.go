package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/taskcal/internal/model"
	"github.com/sandeepkv93/taskcal/internal/views"
)

var formFields = []views.FormField{
	views.FieldName,
	views.FieldDate,
	views.FieldTime,
	views.FieldDescription,
	views.FieldTags,
	views.FieldNewTag,
	views.FieldNewColor,
}

// FormState backs the new/edit task overlay. Attached tags are tracked by
// store id.
type FormState struct {
	Active    bool
	EditingID string
	Field     int
	Tags      []model.Tag
	TagCursor int
	Err       string

	name        textinput.Model
	date        textinput.Model
	clock       textinput.Model
	description textarea.Model
	newTag      textinput.Model
	newColor    textinput.Model
}

func newFormState() FormState {
	input := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Cursor.SetMode(cursor.CursorStatic)
		return ti
	}
	desc := textarea.New()
	desc.Placeholder = "notes (markdown)"
	desc.ShowLineNumbers = false
	desc.SetWidth(48)
	desc.SetHeight(3)
	desc.Cursor.SetMode(cursor.CursorStatic)

	return FormState{
		name:        input("task name", 120),
		date:        input(model.DateLayout, 10),
		clock:       input("HH:MM (optional)", 5),
		description: desc,
		newTag:      input("tag name", 40),
		newColor:    input(model.DefaultTagColor, 7),
	}
}

func (f FormState) field() views.FormField {
	return formFields[f.Field]
}

func (f FormState) draft() model.TaskDraft {
	return model.TaskDraft{
		Name:        f.name.Value(),
		Date:        f.date.Value(),
		Time:        f.clock.Value(),
		Description: f.description.Value(),
		Tags:        append([]model.Tag(nil), f.Tags...),
	}
}

func (f *FormState) focus(i int) {
	n := len(formFields)
	f.Field = ((i % n) + n) % n
	f.name.Blur()
	f.date.Blur()
	f.clock.Blur()
	f.description.Blur()
	f.newTag.Blur()
	f.newColor.Blur()
	switch f.field() {
	case views.FieldName:
		f.name.Focus()
	case views.FieldDate:
		f.date.Focus()
	case views.FieldTime:
		f.clock.Focus()
	case views.FieldDescription:
		f.description.Focus()
	case views.FieldNewTag:
		f.newTag.Focus()
	case views.FieldNewColor:
		f.newColor.Focus()
	}
}

func (m *Model) openNewTaskForm(date string) {
	f := newFormState()
	f.Active = true
	f.date.SetValue(date)
	f.focus(0)
	m.Form = f
	m.Detail = DetailState{}
}

func (m *Model) openEditForm(task model.Task) {
	f := newFormState()
	f.Active = true
	f.EditingID = task.ID
	f.name.SetValue(task.Name)
	f.date.SetValue(task.Date)
	f.clock.SetValue(task.Time)
	f.description.SetValue(task.Description)
	f.Tags = append([]model.Tag(nil), task.Tags...)
	f.focus(0)
	m.Form = f
	m.Detail = DetailState{}
}

func (m *Model) closeForm() {
	m.Form = newFormState()
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := &m.Form
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "tab":
		f.focus(f.Field + 1)
		return m, nil
	case "shift+tab":
		f.focus(f.Field - 1)
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	case "ctrl+d":
		if f.EditingID == "" {
			return m, nil
		}
		return m, m.begin(m.deleteCmd(f.EditingID))
	}

	switch f.field() {
	case views.FieldTags:
		switch msg.String() {
		case "left", "h":
			if f.TagCursor > 0 {
				f.TagCursor--
			}
		case "right", "l":
			if f.TagCursor < len(m.Tags)-1 {
				f.TagCursor++
			}
		case " ", "enter":
			if f.TagCursor >= 0 && f.TagCursor < len(m.Tags) {
				tag := m.Tags[f.TagCursor]
				d := model.TaskDraft{Tags: f.Tags}
				if d.HasTag(tag.ID) {
					d.RemoveTag(tag.ID)
				} else {
					d.AddTag(tag)
				}
				f.Tags = d.Tags
			}
		}
		return m, nil
	case views.FieldNewTag, views.FieldNewColor:
		if msg.String() == "enter" {
			name := strings.TrimSpace(f.newTag.Value())
			if name == "" {
				f.Err = "tag name is required"
				return m, nil
			}
			return m, m.begin(m.upsertTagCmd(name, f.newColor.Value(), true))
		}
	case views.FieldName, views.FieldDate, views.FieldTime:
		if msg.String() == "enter" {
			return m.submitForm()
		}
	}

	var cmd tea.Cmd
	switch f.field() {
	case views.FieldName:
		f.name, cmd = f.name.Update(msg)
	case views.FieldDate:
		f.date, cmd = f.date.Update(msg)
	case views.FieldTime:
		f.clock, cmd = f.clock.Update(msg)
	case views.FieldDescription:
		f.description, cmd = f.description.Update(msg)
	case views.FieldNewTag:
		f.newTag, cmd = f.newTag.Update(msg)
	case views.FieldNewColor:
		f.newColor, cmd = f.newColor.Update(msg)
	}
	return m, cmd
}

// submitForm validates locally so obvious mistakes never reach the store;
// the store validates again.
func (m Model) submitForm() (Model, tea.Cmd) {
	draft := m.Form.draft()
	if err := draft.Validate(); err != nil {
		m.Form.Err = err.Error()
		return m, nil
	}
	m.Form.Err = ""
	if m.Form.EditingID == "" {
		return m, m.begin(m.createTaskCmd(draft))
	}
	tags := draft.Tags
	if tags == nil {
		tags = []model.Tag{}
	}
	patch := model.TaskPatch{
		Name:        &draft.Name,
		Date:        &draft.Date,
		Time:        &draft.Time,
		Description: &draft.Description,
		Tags:        &tags,
	}
	return m, m.begin(m.updateTaskCmd(m.Form.EditingID, patch))
}

func (m Model) formData() views.FormData {
	f := m.Form
	data := views.FormData{
		Editing:         f.EditingID != "",
		Focused:         f.field(),
		NameView:        f.name.View(),
		DateView:        f.date.View(),
		TimeView:        f.clock.View(),
		DescriptionView: f.description.View(),
		Attached:        tagData(f.Tags),
		Available:       tagData(m.Tags),
		AvailableOn:     make([]bool, len(m.Tags)),
		TagCursor:       f.TagCursor,
		NewTagView:      f.newTag.View(),
		NewColorView:    f.newColor.View(),
		ErrorText:       f.Err,
	}
	attached := model.TaskDraft{Tags: f.Tags}
	for i, tag := range m.Tags {
		data.AvailableOn[i] = attached.HasTag(tag.ID)
	}
	return data
}
