package commands

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sandeepkv93/taskcal/internal/calendar"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{":filter week", TypeFilter},
		{"goto 2024-03", TypeGoto},
		{"tag work #ff0000", TypeTag},
		{"done 2", TypeDone},
		{"rm 1", TypeRemove},
		{"delete 1", TypeRemove},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("add call mom on 2024-03-15 at 18:30 #family #phone")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := AddArgs{Name: "call mom", Date: "2024-03-15", Time: "18:30", Tags: []string{"family", "phone"}}
	if !reflect.DeepEqual(*cmd.Add, want) {
		t.Fatalf("unexpected add args: %+v", *cmd.Add)
	}

	// "on" and "at" without a valid value are part of the name.
	cmd, err = Parse("add sit on the bench at noon")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Name != "sit on the bench at noon" || cmd.Add.Date != "" || cmd.Add.Time != "" {
		t.Fatalf("unexpected add args: %+v", *cmd.Add)
	}
}

func TestParseGotoAndFilter(t *testing.T) {
	cmd, err := Parse("goto 2024-03")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Goto.Today || cmd.Goto.Month != (calendar.Month{Year: 2024, Index: 2}) {
		t.Fatalf("unexpected goto args: %+v", *cmd.Goto)
	}

	cmd, err = Parse("goto TODAY")
	if err != nil || !cmd.Goto.Today {
		t.Fatalf("expected goto today, got %+v (%v)", cmd.Goto, err)
	}

	cmd, err = Parse("filter month")
	if err != nil || cmd.Filter.Filter != calendar.FilterMonth {
		t.Fatalf("expected month filter, got %+v (%v)", cmd.Filter, err)
	}
}

func TestParseTagColor(t *testing.T) {
	cmd, err := Parse("tag deep work #0af")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Tag.Name != "deep work" || cmd.Tag.Color != "#0af" {
		t.Fatalf("unexpected tag args: %+v", *cmd.Tag)
	}
	cmd, err = Parse("tag errands")
	if err != nil || cmd.Tag.Color != "" {
		t.Fatalf("expected no color, got %+v (%v)", cmd.Tag, err)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	inputs := []string{
		"add",
		"add #only-tags",
		"filter yearly",
		"filter",
		"goto 2024-13",
		"goto march",
		"tag",
		"tag #fff",
		"done",
		"done zero",
		"rm 0",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseEmptyAndUnknown(t *testing.T) {
	_, err := Parse("  / ")
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}

	_, err = Parse("/unknown do x")
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Name != "write docs" {
				t.Fatalf("unexpected name: %q", a.Name)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("done 3")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
