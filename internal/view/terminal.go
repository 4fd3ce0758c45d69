package view

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/tasks"
)

// Terminal renders the list for the CLI. Styles degrade to plain text when
// the writer is not a terminal.
type Terminal struct {
	done   lipgloss.Style
	active lipgloss.Style
	id     lipgloss.Style
	empty  lipgloss.Style
}

func NewTerminal(w io.Writer) *Terminal {
	r := lipgloss.NewRenderer(w)
	return &Terminal{
		done:   r.NewStyle().Strikethrough(true).Faint(true),
		active: r.NewStyle(),
		id:     r.NewStyle().Foreground(lipgloss.Color("243")),
		empty:  r.NewStyle().Faint(true),
	}
}

func (t *Terminal) Render(w io.Writer, ts []tasks.Task) error {
	rows := Rows(ts)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, t.empty.Render("(nenhuma tarefa)"))
		return err
	}
	for _, row := range rows {
		mark, style := "[ ]", t.active
		if row.Completed {
			mark, style = "[x]", t.done
		}
		if _, err := fmt.Fprintf(w, "%s %s %s\n", mark, t.id.Render(fmt.Sprintf("%4d", row.ID)), style.Render(row.Text)); err != nil {
			return err
		}
	}
	return nil
}
