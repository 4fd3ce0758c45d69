package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"tasklist/internal/storage"
)

func setupEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TASKS_CONFIG", "STORAGE_KEY", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", filepath.Join(t.TempDir(), "tasks.json"))
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, stdin, args...)
	if err != nil {
		t.Fatalf("tasks %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCLI_AddListToggle(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "", "add", "Buy", "milk")
	if !strings.Contains(out, "[ ]") || !strings.Contains(out, "Buy milk") {
		t.Errorf("add output = %q", out)
	}
	mustRun(t, "", "add", "Task B")

	out = mustRun(t, "", "toggle", "1")
	if !strings.Contains(out, "[x]") {
		t.Errorf("toggle output = %q", out)
	}

	out = mustRun(t, "", "list", "--filter", "Ativos")
	if strings.Contains(out, "Buy milk") || !strings.Contains(out, "Task B") {
		t.Errorf("list --filter Ativos = %q", out)
	}

	out = mustRun(t, "", "list", "--search", "MILK")
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Task B") {
		t.Errorf("list --search MILK = %q", out)
	}

	out = mustRun(t, "", "list", "--filter", "Expirados")
	if !strings.Contains(out, "nenhuma tarefa") {
		t.Errorf("list --filter Expirados = %q", out)
	}
}

func TestCLI_AddEmpty(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "", "add", "   ")
	if err == nil || !strings.Contains(err.Error(), "Digite uma tarefa") {
		t.Fatalf("err = %v, want empty input notice", err)
	}
}

func TestCLI_Edit(t *testing.T) {
	setupEnv(t)
	mustRun(t, "", "add", "Buy milk")

	out := mustRun(t, "\n", "edit", "1")
	if !strings.Contains(out, "edição cancelada") {
		t.Errorf("empty answer output = %q", out)
	}

	out = mustRun(t, "Buy bread\n", "edit", "1")
	if !strings.Contains(out, "Edite a tarefa:") || !strings.Contains(out, "Buy bread") {
		t.Errorf("edit output = %q", out)
	}

	out = mustRun(t, "", "list")
	if !strings.Contains(out, "Buy bread") {
		t.Errorf("list after edit = %q", out)
	}
}

func TestCLI_Remove(t *testing.T) {
	setupEnv(t)
	mustRun(t, "", "add", "Buy milk")

	mustRun(t, "n\n", "rm", "1")
	if out := mustRun(t, "", "list"); !strings.Contains(out, "Buy milk") {
		t.Fatalf("declined rm removed the task: %q", out)
	}

	mustRun(t, "s\n", "rm", "1")
	if out := mustRun(t, "", "list"); !strings.Contains(out, "nenhuma tarefa") {
		t.Errorf("confirmed rm kept the task: %q", out)
	}
}

func TestCLI_RemoveYesFlag(t *testing.T) {
	setupEnv(t)
	mustRun(t, "", "add", "Buy milk")
	mustRun(t, "", "rm", "--yes", "1")
	if out := mustRun(t, "", "list"); !strings.Contains(out, "nenhuma tarefa") {
		t.Errorf("rm --yes kept the task: %q", out)
	}
}

func TestCLI_Errors(t *testing.T) {
	setupEnv(t)
	tests := [][]string{
		{"toggle", "abc"},
		{"toggle", "42"},
		{"list", "--filter", "bogus"},
		{"list", "--filter", "Todos", "--search", "x"},
	}
	for _, args := range tests {
		if _, err := run(t, "", args...); err == nil {
			t.Errorf("tasks %s: expected error", strings.Join(args, " "))
		}
	}
}

func TestLineConfirmer(t *testing.T) {
	tests := map[string]bool{
		"s\n":    true,
		"SIM\n":  true,
		"y\n":    true,
		"n\n":    false,
		"\n":     false,
		"":       false,
		"talvez": false,
	}
	for in, want := range tests {
		var out bytes.Buffer
		got, err := NewLineConfirmer(strings.NewReader(in), &out).Confirm(context.Background(), "ok?")
		if err != nil {
			t.Fatalf("Confirm(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("Confirm(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	text, ok, err := NewLinePrompter(strings.NewReader("  novo texto \n"), &out).Prompt(context.Background(), "Edite a tarefa:", "velho")
	if err != nil || !ok || text != "novo texto" {
		t.Errorf("Prompt = (%q, %v, %v)", text, ok, err)
	}
	if !strings.Contains(out.String(), "[velho]") {
		t.Errorf("prompt output = %q", out.String())
	}

	_, ok, err = NewLinePrompter(strings.NewReader(""), &out).Prompt(context.Background(), "x", "y")
	if err != nil || ok {
		t.Errorf("EOF prompt = (%v, %v), want cancelled", ok, err)
	}
}

func TestCLI_ClosesStorageOnError(t *testing.T) {
	setupEnv(t)
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_PATH", filepath.Join(t.TempDir(), "tasks.db"))

	var a app
	var opened storage.Backend
	cmd := &cobra.Command{}
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	run := a.withStore("test", func(*cobra.Command, []string) error {
		opened = a.backend
		return errors.New("boom")
	})
	if err := run(cmd, nil); err == nil || err.Error() != "boom" {
		t.Fatalf("err = %v, want boom", err)
	}
	if opened == nil {
		t.Fatal("storage was never opened")
	}
	if _, err := opened.Get(context.Background(), "tarefas"); err == nil || errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get after failed command = %v, want closed database error", err)
	}
}

func TestCLI_VerboseIsPerTree(t *testing.T) {
	first := NewRootCmd("test")
	second := NewRootCmd("test")
	if err := first.PersistentFlags().Set("verbose", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := second.PersistentFlags().Lookup("verbose").Value.String(); got != "false" {
		t.Errorf("second tree verbose = %s, want false", got)
	}
}
