package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskcal/internal/calendar"
	"github.com/sandeepkv93/taskcal/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeFilter Type = "filter"
	TypeGoto   Type = "goto"
	TypeTag    Type = "tag"
	TypeDone   Type = "done"
	TypeRemove Type = "rm"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, a ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, a...)}
}

// AddArgs is `add <name> [on YYYY-MM-DD] [at HH:MM] [#tag...]`. An empty Date
// means the selected day.
type AddArgs struct {
	Name string
	Date string
	Time string
	Tags []string
}

type FilterArgs struct {
	Filter calendar.Filter
}

// GotoArgs targets either today or a specific month.
type GotoArgs struct {
	Today bool
	Month calendar.Month
}

type TagArgs struct {
	Name  string
	Color string
}

// IndexArgs addresses a task by its 1-based position in the sidebar list.
type IndexArgs struct {
	Index int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Filter *FilterArgs
	Goto   *GotoArgs
	Tag    *TagArgs
	Done   *IndexArgs
	Remove *IndexArgs
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimLeft(raw, ":/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeGoto:
		return parseGoto(input, args)
	case TypeTag:
		return parseTag(input, args)
	case TypeDone:
		idx, err := parseIndex(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDone, Raw: input, Done: &idx}, nil
	case TypeRemove, "delete":
		idx, err := parseIndex(head, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeRemove, Raw: input, Remove: &idx}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	var out AddArgs
	var name []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		lower := strings.ToLower(arg)
		switch {
		case lower == "on" && i+1 < len(args) && isDate(args[i+1]):
			out.Date = args[i+1]
			i++
		case lower == "at" && i+1 < len(args) && isClock(args[i+1]):
			out.Time = args[i+1]
			i++
		case strings.HasPrefix(arg, "#") && len(arg) > 1:
			out.Tags = append(out.Tags, arg[1:])
		default:
			name = append(name, arg)
		}
	}
	out.Name = strings.Join(name, " ")
	if out.Name == "" {
		return Command{}, invalid("add requires a task name")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("filter requires one of all, day, week, month")
	}
	f, err := calendar.ParseFilter(args[0])
	if err != nil {
		return Command{}, invalid("filter requires one of all, day, week, month")
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Filter: f}}, nil
}

func parseGoto(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("goto requires YYYY-MM or today")
	}
	if strings.EqualFold(args[0], "today") {
		return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Today: true}}, nil
	}
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return Command{}, invalid("goto requires YYYY-MM or today, got %q", args[0])
	}
	return Command{Type: TypeGoto, Raw: raw, Goto: &GotoArgs{Month: calendar.MonthOf(t)}}, nil
}

func parseTag(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("tag requires a name")
	}
	out := TagArgs{}
	if last := args[len(args)-1]; hexColor.MatchString(last) {
		out.Color = last
		args = args[:len(args)-1]
	}
	out.Name = strings.Join(args, " ")
	if out.Name == "" {
		return Command{}, invalid("tag requires a name")
	}
	return Command{Type: TypeTag, Raw: raw, Tag: &out}, nil
}

func parseIndex(head string, args []string) (IndexArgs, error) {
	if len(args) != 1 {
		return IndexArgs{}, invalid("%s requires a task number", head)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return IndexArgs{}, invalid("%s requires a positive task number, got %q", head, args[0])
	}
	return IndexArgs{Index: n}, nil
}

func isDate(s string) bool {
	_, err := time.Parse(model.DateLayout, s)
	return err == nil
}

func isClock(s string) bool {
	_, err := time.Parse(model.TimeLayout, s)
	return err == nil
}
