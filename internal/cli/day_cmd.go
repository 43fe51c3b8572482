package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weekendly/weekendly/internal/cli/formatter"
)

func newDayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "day",
		Aliases: []string{"days"},
		Short:   "Manage day buckets",
	}

	cmd.AddCommand(
		newDayListCmd(app),
		newDayAddCmd(app),
		newDayRemoveCmd(app),
		newDayClearCmd(app),
		newDayClearAllCmd(app),
	)

	return cmd
}

func newDayListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List days with their item counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days := app.Schedule.Days()
			if len(days) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No days. Add one with: weekendly day add NAME")
				return nil
			}
			rows := make([][]string, 0, len(days))
			for _, d := range days {
				items, _ := app.Schedule.Items(d)
				rows = append(rows, []string{d, fmt.Sprintf("%d", len(items))})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"DAY", "ITEMS"}, rows))
			return nil
		},
	}
}

func newDayAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add an empty day after the existing ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Schedule.AddDay(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("adding day %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added day %q", args[0])))
			return nil
		},
	}
}

func newDayRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove a day and everything planned in it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDay(app, args[0])
			if err != nil {
				return err
			}
			items, _ := app.Schedule.Items(day)
			if !app.Schedule.RemoveDay(cmd.Context(), day) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Warning("Day already gone."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Removed %q and %d items", day, len(items))))
			return nil
		},
	}
}

func newDayClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear NAME",
		Short: "Remove every item from a day, keeping the day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDay(app, args[0])
			if err != nil {
				return err
			}
			app.Schedule.ClearDay(cmd.Context(), day)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Cleared %q", day)))
			return nil
		},
	}
}

func newDayClearAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-all",
		Short: "Remove every item from every day, keeping the days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := app.Schedule.ClearAll(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Cleared %d items", n)))
			return nil
		},
	}
}
