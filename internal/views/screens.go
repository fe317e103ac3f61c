package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SidebarItemData struct {
	Index     int
	Name      string
	Date      string
	Time      string
	Completed bool
	Tags      []TagData
}

type SidebarData struct {
	FilterLabel string
	Items       []SidebarItemData
	// Legend lists the distinct tags carried by Items.
	Legend  []TagData
	Cursor  int
	Focused bool
	Width   int
}

type FormField string

const (
	FieldName        FormField = "name"
	FieldDate        FormField = "date"
	FieldTime        FormField = "time"
	FieldDescription FormField = "description"
	FieldTags        FormField = "tags"
	FieldNewTag      FormField = "new_tag"
	FieldNewColor    FormField = "new_color"
)

type FormData struct {
	Editing         bool
	Focused         FormField
	NameView        string
	DateView        string
	TimeView        string
	DescriptionView string
	Attached        []TagData
	Available       []TagData
	AvailableOn     []bool
	TagCursor       int
	NewTagView      string
	NewColorView    string
	ErrorText       string
}

type DetailData struct {
	Name        string
	Date        string
	Time        string
	Completed   bool
	Tags        []TagData
	Description string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
	activeLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Width(12)
)

func RenderSidebar(data SidebarData) string {
	width := data.Width
	if width <= 0 {
		width = 34
	}
	var b strings.Builder
	title := data.FilterLabel
	if data.Focused {
		title = accentStyle.Render(title)
	} else {
		title = headerStyle.UnsetForeground().Render(title)
	}
	b.WriteString(title + "\n")
	if len(data.Items) == 0 {
		b.WriteString(mutedStyle.Render("(no tasks)"))
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}
	for i, item := range data.Items {
		cursor := " "
		if data.Focused && i == data.Cursor {
			cursor = cursorStyle.Render(">")
		}
		check := "[ ]"
		name := item.Name
		if item.Completed {
			check = "[x]"
			name = doneChipStyle.Render(name)
		}
		when := item.Date
		if item.Time != "" {
			when += " " + item.Time
		}
		b.WriteString(fmt.Sprintf("%s %2d %s %s\n", cursor, item.Index, check, name))
		line := "       " + mutedStyle.Render(when)
		for _, tag := range item.Tags {
			line += " " + renderTag(tag)
		}
		b.WriteString(line + "\n")
	}
	if len(data.Legend) > 0 {
		tags := make([]string, 0, len(data.Legend))
		for _, tag := range data.Legend {
			tags = append(tags, renderTag(tag))
		}
		b.WriteString("\n" + mutedStyle.Render("tags:") + " " + strings.Join(tags, " ") + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.TrimSuffix(b.String(), "\n"))
}

func RenderForm(data FormData) string {
	var b strings.Builder
	if data.Editing {
		b.WriteString(accentStyle.Render("Edit Task") + "\n")
	} else {
		b.WriteString(accentStyle.Render("New Task") + "\n")
	}
	writeField(&b, data.Focused, FieldName, "name", data.NameView)
	writeField(&b, data.Focused, FieldDate, "date", data.DateView)
	writeField(&b, data.Focused, FieldTime, "time", data.TimeView)
	writeField(&b, data.Focused, FieldDescription, "description", data.DescriptionView)

	attached := make([]string, 0, len(data.Attached))
	for _, tag := range data.Attached {
		attached = append(attached, renderTag(tag))
	}
	if len(attached) == 0 {
		attached = append(attached, mutedStyle.Render("(none)"))
	}
	writeField(&b, data.Focused, FieldTags, "tags", strings.Join(attached, " "))

	if len(data.Available) > 0 {
		picks := make([]string, 0, len(data.Available))
		for i, tag := range data.Available {
			mark := " "
			if i < len(data.AvailableOn) && data.AvailableOn[i] {
				mark = "✓"
			}
			entry := mark + renderTag(tag)
			if data.Focused == FieldTags && i == data.TagCursor {
				entry = cursorStyle.Render("[") + entry + cursorStyle.Render("]")
			}
			picks = append(picks, entry)
		}
		b.WriteString(strings.Repeat(" ", 12) + strings.Join(picks, " ") + "\n")
	}
	writeField(&b, data.Focused, FieldNewTag, "new tag", data.NewTagView)
	writeField(&b, data.Focused, FieldNewColor, "color", data.NewColorView)

	if data.ErrorText != "" {
		b.WriteString(errorStyle.Render("error: "+data.ErrorText) + "\n")
	}
	keys := "[tab] field  [ctrl+s] save  [esc] cancel  [space] attach/detach tag  [enter] create tag"
	if data.Editing {
		keys += "  [ctrl+d] delete"
	}
	b.WriteString(footerStyle.Render(keys))
	return b.String()
}

func writeField(b *strings.Builder, focused, field FormField, label, value string) {
	style := labelStyle
	if focused == field {
		style = activeLabel
	}
	b.WriteString(style.Render(label) + value + "\n")
}

func RenderDetail(data DetailData) string {
	var b strings.Builder
	status := "open"
	if data.Completed {
		status = "done"
	}
	b.WriteString(accentStyle.Render(data.Name) + "\n")
	when := data.Date
	if data.Time != "" {
		when += " at " + data.Time
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", when, mutedStyle.Render("("+status+")")))
	if len(data.Tags) > 0 {
		tags := make([]string, 0, len(data.Tags))
		for _, tag := range data.Tags {
			tags = append(tags, renderTag(tag))
		}
		b.WriteString(strings.Join(tags, " ") + "\n")
	}
	if desc := RenderMarkdown(data.Description); desc != "" {
		b.WriteString("\n" + desc + "\n")
	}
	b.WriteString(footerStyle.Render("[esc] close  [enter] edit"))
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s",
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
