package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/dragdrop"
	"github.com/weekendly/weekendly/internal/weather"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Schedule activities into days",
	}

	cmd.AddCommand(
		newPlanShowCmd(app),
		newPlanAddCmd(app),
		newPlanQuickCmd(app),
		newPlanRemoveCmd(app),
		newPlanEditCmd(app),
		newPlanMoveCmd(app, "up"),
		newPlanMoveCmd(app, "down"),
		newPlanReorderCmd(app),
		newPlanTransferCmd(app),
		newPlanDropCmd(app),
	)

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	var poster, noWeather bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the weekend plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Schedule.Snapshot()
			if !poster {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(s))
				return nil
			}
			var forecast []weather.DayForecast
			if !noWeather {
				forecast, _ = fetchForecast(cmd.Context(), app)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPoster(s, forecast))
			return nil
		},
	}
	cmd.Flags().BoolVar(&poster, "poster", false, "Render the shareable poster card")
	cmd.Flags().BoolVar(&noWeather, "no-weather", false, "Leave the forecast off the poster")
	return cmd
}

// fetchForecast asks the configured forecaster for the weekend. A nil
// forecaster yields no forecast and no error.
func fetchForecast(ctx context.Context, app *App) ([]weather.DayForecast, error) {
	if app.Forecaster == nil {
		return nil, nil
	}
	lat, lon := app.Config.Weather.Latitude, app.Config.Weather.Longitude
	ctx, cancel := context.WithTimeout(ctx, app.Config.Weather.Timeout+time.Second)
	defer cancel()
	return app.Forecaster.Weekend(ctx, lat, lon)
}

func newPlanAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add DAY TEMPLATE",
		Short: "Schedule a copy of a template at the end of a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDay(app, args[0])
			if err != nil {
				return err
			}
			tplID, err := resolveTemplateID(app, args[1])
			if err != nil {
				return err
			}
			item, err := app.Schedule.AddTemplateToDay(cmd.Context(), day, tplID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added to %s: %s", day, formatter.FormatItem(item))))
			return nil
		},
	}
}

func newPlanQuickCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quick DAY TITLE...",
		Short: "Schedule an ad-hoc activity without a template",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDay(app, args[0])
			if err != nil {
				return err
			}
			item, err := app.Schedule.QuickAdd(cmd.Context(), day, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added to %s: %s", day, formatter.FormatItem(item))))
			return nil
		},
	}
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove DAY ITEM",
		Aliases: []string{"rm"},
		Short:   "Remove a scheduled item",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, id, err := resolveDayAndItem(app, args[0], args[1])
			if err != nil {
				return err
			}
			if !app.Schedule.RemoveItem(cmd.Context(), day, id) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Warning("Item already gone."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Removed "+formatter.ShortID(id)))
			return nil
		},
	}
}

func newPlanEditCmd(app *App) *cobra.Command {
	var timeLabel, vibe, duration string
	cmd := &cobra.Command{
		Use:   "edit DAY ITEM",
		Short: "Change the time, vibe or duration of a scheduled item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, id, err := resolveDayAndItem(app, args[0], args[1])
			if err != nil {
				return err
			}

			var patch domain.ItemPatch
			if cmd.Flags().Changed("time") {
				patch.TimeLabel = &timeLabel
			}
			if cmd.Flags().Changed("vibe") {
				patch.Vibe = &vibe
			}
			if cmd.Flags().Changed("duration") {
				patch.EstimatedDuration = &duration
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change; pass --time, --vibe or --duration")
			}

			item, ok := app.Schedule.UpdateItem(cmd.Context(), day, id, patch)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Warning("Item not found; nothing changed."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Updated "+formatter.FormatItem(item)))
			return nil
		},
	}
	cmd.Flags().StringVar(&timeLabel, "time", "", "Time label, e.g. 14:30 (empty means all day)")
	cmd.Flags().StringVar(&vibe, "vibe", "", "Vibe")
	cmd.Flags().StringVar(&duration, "duration", "", "Estimated duration")
	return cmd
}

func newPlanMoveCmd(app *App, dir string) *cobra.Command {
	move, edge := app.Schedule.MoveUp, "top"
	short := "Move an item one place earlier in its day"
	if dir == "down" {
		move, edge = app.Schedule.MoveDown, "bottom"
		short = "Move an item one place later in its day"
	}
	return &cobra.Command{
		Use:   dir + " DAY ITEM",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, id, err := resolveDayAndItem(app, args[0], args[1])
			if err != nil {
				return err
			}
			if !move(cmd.Context(), day, id) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Already at the "+edge+"."))
				return nil
			}
			items, _ := app.Schedule.Items(day)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDay(domain.Day{Key: day, Items: items}))
			return nil
		},
	}
}

func newPlanReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder DAY FROM TO",
		Short: "Move the item at position FROM to position TO (1-based)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDay(app, args[0])
			if err != nil {
				return err
			}
			items, _ := app.Schedule.Items(day)
			from, err := parsePosition(args[1], len(items))
			if err != nil {
				return err
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[2])
			}
			// Targets past either end land on that end.
			to = max(1, min(to, len(items)))

			if app.Schedule.Reorder(cmd.Context(), day, from-1, to-1) {
				items, _ = app.Schedule.Items(day)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDay(domain.Day{Key: day, Items: items}))
			return nil
		},
	}
}

// parsePosition parses a 1-based position that must exist in a day of n
// items.
func parsePosition(s string, n int) (int, error) {
	pos, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	if n == 0 {
		return 0, errors.New("day has no items")
	}
	if pos < 1 || pos > n {
		return 0, fmt.Errorf("position %d out of range 1-%d", pos, n)
	}
	return pos, nil
}

func newPlanTransferCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "transfer FROM TO ITEM",
		Aliases: []string{"mv"},
		Short:   "Move a scheduled item to the end of another day",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromDay, id, err := resolveDayAndItem(app, args[0], args[2])
			if err != nil {
				return err
			}
			toDay, err := resolveDay(app, args[1])
			if err != nil {
				return err
			}
			item, ok := app.Schedule.Transfer(cmd.Context(), fromDay, toDay, id)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Warning("Nothing moved."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Moved %q from %s to %s", item.Title, fromDay, toDay)))
			return nil
		},
	}
}

func newPlanDropCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "drop DAY PAYLOAD|-",
		Short: "Apply a JSON drag payload to a day",
		Long: `Apply a JSON drag payload to a day, exactly as dropping a card on the
board does. Pass - to read the payload from stdin. Payloads are either

  {"kind":"template","template":{...}}
  {"kind":"scheduledItem","fromDay":"saturday","itemId":"sch_..."}

Unusable payloads change nothing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := []byte(args[1])
			if args[1] == "-" {
				var err error
				if raw, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("reading payload: %w", err)
				}
			}
			out := app.Schedule.Drop(cmd.Context(), args[0], raw)
			fmt.Fprintln(cmd.OutOrStdout(), describeDrop(out))
			return nil
		},
	}
}

func describeDrop(out dragdrop.Outcome) string {
	if !out.Applied {
		return formatter.Dim("Dropped without effect: " + out.Reason)
	}
	if out.Kind == dragdrop.KindScheduledItem {
		return formatter.Success(fmt.Sprintf("Moved %q from %s to %s", out.Item.Title, out.FromDay, out.ToDay))
	}
	return formatter.Success(fmt.Sprintf("Added %q to %s", out.Item.Title, out.ToDay))
}
