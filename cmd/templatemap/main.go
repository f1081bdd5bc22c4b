package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	templatemap "github.com/goliatone/go-templatemap"
	"github.com/goliatone/go-templatemap/pkg/config"
	"github.com/goliatone/go-templatemap/pkg/template"
)

func main() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "templatemap:", err)
		os.Exit(1)
	}
}

// app carries state shared by subcommands. The prompt hooks are swapped out
// in tests.
type app struct {
	cfgPath  string
	logLevel string
	baseDir  string

	cfg    *config.Config
	logger *slog.Logger
	repo   template.Repository

	interactive func() bool
	choose      func(message string, options []string) (string, error)
}

func newApp() *app {
	return &app{
		interactive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		choose: surveySelect,
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "templatemap",
		Short:         "Validate, inspect and apply mapping templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.repo == nil {
				return nil
			}
			return a.repo.Close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "config yaml path")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.baseDir, "base-dir", "", "directory template paths resolve against")

	cmd.AddCommand(
		newFormatsCmd(a),
		newValidateCmd(a),
		newInspectCmd(a),
		newMapCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.baseDir != "" {
		cfg.Templates.BaseDir = a.baseDir
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	repo, err := templatemap.NewRepositoryFromConfig(cfg, templatemap.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("repository: %w", err)
	}
	a.repo = repo
	return nil
}
