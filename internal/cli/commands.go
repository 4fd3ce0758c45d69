package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/analytics"
	"tasklist/internal/tasks"
	"tasklist/internal/view"
)

func newListCmd(a *app) *cobra.Command {
	var search, filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tasks, optionally searched or filtered by status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := a.store.Tasks()
			shown := all
			switch {
			case filter != "":
				status, err := tasks.ParseStatus(filter)
				if err != nil {
					return err
				}
				shown = tasks.FilterByStatus(all, status)
			case search != "":
				shown = tasks.Search(all, search)
			default:
				a.events.Log(cmd.Context(), a.env, analytics.EventTasksLoaded, map[string]any{"task_count": len(all)})
			}
			out := cmd.OutOrStdout()
			return view.NewTerminal(out).Render(out, shown)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text to search for")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "status filter: Todos, Ativos, Concluídos or Expirados")
	cmd.MarkFlagsMutuallyExclusive("search", "filter")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.renderOnChange(cmd)
			t, err := a.store.Add(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, tasks.ErrEmptyInput) {
				return errors.New(tasks.NoticeEmptyInput)
			}
			if err != nil {
				return err
			}
			a.events.Log(cmd.Context(), a.env, analytics.EventTaskCreated, map[string]any{
				"task_id":  t.ID,
				"text_len": len(t.Text),
			})
			return nil
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Mark a task completed or active again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a.renderOnChange(cmd)
			t, err := a.store.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.events.Log(cmd.Context(), a.env, analytics.EventTaskToggled, map[string]any{
				"task_id":   t.ID,
				"completed": t.Completed,
			})
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID",
		Short: "Replace a task's text (prompts on stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a.renderOnChange(cmd)
			t, err := a.store.Edit(cmd.Context(), id, NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
			if errors.Is(err, tasks.ErrCancelled) || errors.Is(err, tasks.ErrEmptyInput) {
				fmt.Fprintln(cmd.OutOrStdout(), "edição cancelada")
				return nil
			}
			if err != nil {
				return err
			}
			a.events.Log(cmd.Context(), a.env, analytics.EventTaskEdited, map[string]any{
				"task_id":  t.ID,
				"text_len": len(t.Text),
			})
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task after confirmation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var c tasks.Confirmer = NewLineConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				c = tasks.Confirmed(true)
			}
			a.renderOnChange(cmd)
			err = a.store.Remove(cmd.Context(), id, c)
			if errors.Is(err, tasks.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			a.events.Log(cmd.Context(), a.env, analytics.EventTaskDeleted, map[string]any{"task_id": id})
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation question")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
