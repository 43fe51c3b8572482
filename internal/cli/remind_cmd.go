package cli

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/reminder"
)

func newRemindCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remind",
		Aliases: []string{"reminders"},
		Short:   "Show reminders for scheduled activities",
	}

	cmd.AddCommand(
		newRemindListCmd(app),
		newRemindDigestCmd(app),
		newRemindWatchCmd(app),
	)

	return cmd
}

func newRemindListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [DAY]",
		Short: "List reminders, optionally for one day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := app.Reminders.Reminders()
			if len(args) == 1 {
				entries = app.Reminders.RemindersForDay(args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReminders(entries))
			return nil
		},
	}
}

// printDigest returns a Notify that writes a digest block to w.
func printDigest(w io.Writer) reminder.Notify {
	return func(day string, entries []reminder.Entry) {
		fmt.Fprintln(w, formatter.Header("Today: "+formatter.DayTitle(day)))
		fmt.Fprint(w, formatter.FormatReminders(entries))
	}
}

func newRemindDigestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Print today's reminders, matching the day named after today's weekday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			d, err := reminder.NewDigest(app.Config.Reminders.Digest, app.Reminders.Reminders, printDigest(out), app.logger())
			if err != nil {
				return err
			}
			now := app.now()
			if sent := d.RunAt(now); len(sent) == 0 {
				fmt.Fprintf(out, "Nothing planned for %s.\n", now.Weekday())
			}
			fmt.Fprintln(out, formatter.Dim("Next digest: "+d.Next(now).Format(time.RFC1123)))
			return nil
		},
	}
}

func newRemindWatchCmd(app *App) *cobra.Command {
	var spec string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep running and print the digest on its cron schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if spec == "" {
				spec = app.Config.Reminders.Digest
			}
			out := cmd.OutOrStdout()
			d, err := reminder.NewDigest(spec, app.Reminders.Reminders, printDigest(out), app.logger())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d.Start(ctx)
			defer d.Stop()
			fmt.Fprintf(out, "Digest scheduled (%s); next at %s. Ctrl+C to stop.\n",
				d.Spec(), d.Next(app.now()).Format(time.RFC1123))
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "schedule", "", "Cron schedule, overriding reminders.digest")
	return cmd
}
