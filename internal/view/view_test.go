package view

import (
	"bytes"
	"strings"
	"testing"

	"tasklist/internal/tasks"
)

func sample() []tasks.Task {
	return []tasks.Task{
		{ID: 1, Text: "Buy milk"},
		{ID: 2, Text: "Walk <dog>", Completed: true},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sample())
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].ID != 1 || rows[1].ID != 2 {
		t.Errorf("rows out of order: %+v", rows)
	}
	if rows[0].TextClass != textClass || rows[0].AriaPressed != "false" {
		t.Errorf("active row = %+v", rows[0])
	}
	if !strings.Contains(rows[1].TextClass, "line-through") || !strings.Contains(rows[1].ItemClass, "opacity-70") {
		t.Errorf("completed row not struck through and dimmed: %+v", rows[1])
	}
	if rows[1].AriaPressed != "true" {
		t.Errorf("AriaPressed = %q, want true", rows[1].AriaPressed)
	}
}

func TestRows_Empty(t *testing.T) {
	if rows := Rows(nil); len(rows) != 0 {
		t.Errorf("Rows(nil) = %v, want empty", rows)
	}
}

func TestHTML_Render(t *testing.T) {
	var buf bytes.Buffer
	err := NewHTML().Render(&buf, tasks.Page{
		Tasks:     sample(),
		Filter:    tasks.StatusCompleted,
		Notice:    tasks.NoticeEmptyInput,
		CSRFToken: "tok-1",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`role="alert"`,
		tasks.NoticeEmptyInput,
		`action="/tasks/1/toggle"`,
		`href="/tasks/2/delete"`,
		`href="/tasks/2/edit"`,
		`aria-pressed="true"`,
		"Walk &lt;dog&gt;",
		`<option value="Concluídos" selected>`,
		`<option value="Todos">`,
		`name="csrf_token" value="tok-1"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// add form plus one toggle form per row
	if n := strings.Count(out, `value="tok-1"`); n != 3 {
		t.Errorf("token rendered %d times, want 3", n)
	}
	if strings.Contains(out, "oninput") {
		t.Error("search field submits on every keystroke")
	}
	if strings.Contains(out, "Walk <dog>") {
		t.Error("task text was not escaped")
	}
	if strings.Index(out, "Buy milk") > strings.Index(out, "Walk &lt;dog&gt;") {
		t.Error("rows rendered out of order")
	}
}

func TestHTML_RenderIsFullRebuild(t *testing.T) {
	h := NewHTML()
	var first, second bytes.Buffer
	if err := h.Render(&first, tasks.Page{Tasks: sample()}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := h.Render(&second, tasks.Page{Tasks: sample()[:1]}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(second.String(), "Walk") {
		t.Error("second render still shows a task it was not given")
	}
	if !strings.Contains(second.String(), `<option value="Todos" selected>`) {
		t.Error("no filter should select Todos")
	}
}

func TestHTML_PromptAndConfirm(t *testing.T) {
	h := NewHTML()
	task := tasks.Task{ID: 5, Text: "Pay rent"}
	token := `name="csrf_token" value="tok-2"`

	var prompt bytes.Buffer
	if err := h.RenderPrompt(&prompt, tasks.Dialog{Task: task, Message: tasks.PromptEdit, CSRFToken: "tok-2"}); err != nil {
		t.Fatalf("RenderPrompt: %v", err)
	}
	for _, want := range []string{tasks.PromptEdit, `action="/tasks/5/edit"`, `value="Pay rent"`, `name="cancel"`, token} {
		if !strings.Contains(prompt.String(), want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	var confirm bytes.Buffer
	if err := h.RenderConfirm(&confirm, tasks.Dialog{Task: task, Message: tasks.ConfirmRemove, CSRFToken: "tok-2"}); err != nil {
		t.Fatalf("RenderConfirm: %v", err)
	}
	for _, want := range []string{tasks.ConfirmRemove, `action="/tasks/5/delete"`, `value="yes"`, "Pay rent", token} {
		if !strings.Contains(confirm.String(), want) {
			t.Errorf("confirm missing %q", want)
		}
	}
}

func TestTerminal_Render(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTerminal(&buf).Render(&buf, sample()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "[ ]") || !strings.Contains(lines[0], "Buy milk") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "[x]") || !strings.Contains(lines[1], "Walk <dog>") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestTerminal_RenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTerminal(&buf).Render(&buf, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "nenhuma tarefa") {
		t.Errorf("output = %q", buf.String())
	}
}
