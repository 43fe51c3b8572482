package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/config"
	"github.com/weekendly/weekendly/internal/service"
	"github.com/weekendly/weekendly/internal/weather"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Templates service.TemplateService
	Schedule  service.ScheduleService
	Reminders service.ReminderService
	State     service.StateService

	Forecaster weather.Forecaster
	Config     *config.Config
	Logger     *slog.Logger

	// ConfigPath is where `config init` writes. Empty means config.DefaultPath().
	ConfigPath string

	// Now defaults to time.Now.
	Now func() time.Time

	// IsInteractive reports whether the board should open when no
	// subcommand is given.
	IsInteractive func() bool

	// Watch, when set, streams slot keys changed by other processes so the
	// board can reload.
	Watch func(ctx context.Context) (<-chan string, error)
}

// NewApp wires every service field to one planner.
func NewApp(p *service.Planner, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	return &App{
		Templates:  p,
		Schedule:   p,
		Reminders:  p,
		State:      p,
		Forecaster: weather.Static{},
		Config:     cfg,
	}
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "weekendly" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Config == nil {
		app.Config = config.Default()
	}
	root := &cobra.Command{
		Use:           "weekendly",
		Short:         "Plan your weekend from a library of activities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			formatter.SetTheme(app.Config.Theme)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runBoard(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newTemplateCmd(app),
		newDayCmd(app),
		newPlanCmd(app),
		newExportCmd(app),
		newRemindCmd(app),
		newWeatherCmd(app),
		newConfigCmd(app),
		newResetCmd(app),
		newUICmd(app),
	)

	return root
}

func newUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive planning board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd.Context(), app)
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all saved templates and plans and start from the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintln(out, formatter.Warning("Refusing to reset without --yes."))
				return nil
			}
			if err := app.State.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.Success("Planner reset to defaults."))
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}
