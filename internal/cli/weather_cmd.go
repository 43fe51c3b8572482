package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/weather"
)

func newWeatherCmd(app *App) *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show the weekend forecast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("lat") {
				app.Config.Weather.Latitude = lat
			}
			if cmd.Flags().Changed("lon") {
				app.Config.Weather.Longitude = lon
			}
			forecast, err := fetchForecast(cmd.Context(), app)
			switch {
			case errors.Is(err, weather.ErrTimeout):
				return fmt.Errorf("forecast took too long: %w", err)
			case err != nil:
				return fmt.Errorf("fetching forecast: %w", err)
			case len(forecast) == 0:
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No forecast source configured."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatForecast(forecast))
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude (default from config)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude (default from config)")
	return cmd
}
