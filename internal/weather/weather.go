// Package weather fetches the weekend forecast shown next to the plan. The
// planner never depends on it; a failed fetch only means no forecast.
package weather

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the forecast service could not be reached.
	ErrUnavailable = errors.New("weather service unavailable")

	// ErrTimeout indicates the forecast request exceeded its deadline.
	ErrTimeout = errors.New("weather request timed out")

	// ErrIncomplete indicates the response did not cover both weekend days.
	ErrIncomplete = errors.New("forecast does not cover the weekend")
)

// DayForecast is the forecast for one weekend day.
type DayForecast struct {
	Day  string  // "Saturday" or "Sunday"
	Date string  // YYYY-MM-DD, empty for static forecasts
	MaxC float64 // daily maximum temperature in Celsius
	Code int     // WMO weather interpretation code
}

// Condition returns a short description of the weather code.
func (f DayForecast) Condition() string { return Describe(f.Code) }

// Glyph returns an emoji for the weather code.
func (f DayForecast) Glyph() string { return glyph(f.Code) }

func (f DayForecast) String() string {
	return fmt.Sprintf("%s: %s %.0f°C %s", f.Day, f.Glyph(), f.MaxC, f.Condition())
}

// Forecaster returns the Saturday and Sunday forecast for a location.
type Forecaster interface {
	Weekend(ctx context.Context, lat, lon float64) ([]DayForecast, error)
}

// Static always returns the same mild weekend.
type Static struct{}

func (Static) Weekend(context.Context, float64, float64) ([]DayForecast, error) {
	return []DayForecast{
		{Day: "Saturday", MaxC: 25, Code: 0},
		{Day: "Sunday", MaxC: 22, Code: 80},
	}, nil
}

// Describe maps a WMO weather code to a short description.
func Describe(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "partly cloudy"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "showers"
	case code == 85 || code == 86:
		return "snow showers"
	case code >= 95:
		return "thunderstorm"
	}
	return "unknown"
}

func glyph(code int) string {
	switch Describe(code) {
	case "clear":
		return "☀️"
	case "partly cloudy":
		return "⛅"
	case "fog":
		return "🌫️"
	case "drizzle", "showers":
		return "🌦️"
	case "rain":
		return "🌧️"
	case "snow", "snow showers":
		return "❄️"
	case "thunderstorm":
		return "⛈️"
	}
	return "🌡️"
}
