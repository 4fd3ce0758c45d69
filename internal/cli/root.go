package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tasklist/internal/analytics"
	"tasklist/internal/config"
	"tasklist/internal/logger"
	"tasklist/internal/storage"
	"tasklist/internal/tasks"
	"tasklist/internal/view"
)

// app is what every subcommand works against.
type app struct {
	verbose bool

	store   *tasks.Store
	backend storage.Backend
	events  *analytics.Recorder
	env     analytics.Envelope
	log     *logrus.Entry
}

// NewRootCmd builds the command tree. Each call returns a fresh tree so tests
// can run commands in isolation.
func NewRootCmd(version string) *cobra.Command {
	var a app

	root := &cobra.Command{
		Use:           "tasks",
		Short:         "Manage the task list from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(
		newListCmd(&a),
		newAddCmd(&a),
		newToggleCmd(&a),
		newEditCmd(&a),
		newRemoveCmd(&a),
	)
	for _, c := range root.Commands() {
		c.RunE = a.withStore(version, c.RunE)
	}
	return root
}

// withStore opens storage around run and always closes it, including when
// run fails and cobra skips its post-run hooks.
func (a *app) withStore(version string, run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() { err = errors.Join(err, a.close()) }()
		if err := a.open(cmd.Context(), version, cmd.ErrOrStderr()); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

// Execute runs the CLI with os.Args.
func Execute(version string) error {
	if err := NewRootCmd(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) open(ctx context.Context, version string, logOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// stdout is for the list; logs go to stderr and stay quiet unless --verbose.
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.log = logger.NewWithOutput("tasks-cli", level, logOut)

	backend, err := storage.Open(cfg.Storage, cfg.DB)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.backend = backend
	a.store = tasks.NewStore(tasks.NewRepository(backend, cfg.Storage.Key), a.log)
	a.events = analytics.NewRecorder(a.log)
	a.env = analytics.CLI(version)

	if _, err := a.store.Load(ctx); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	return nil
}

func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Close()
	a.backend = nil
	return err
}

// renderOnChange redraws the full list after every mutation, like the page does.
func (a *app) renderOnChange(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	term := view.NewTerminal(out)
	a.store.OnChange(func(ts []tasks.Task) {
		if err := term.Render(out, ts); err != nil {
			a.log.WithError(err).Warn("render failed")
		}
	})
}
