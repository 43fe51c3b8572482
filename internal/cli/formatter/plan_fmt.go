package formatter

import (
	"fmt"
	"strings"

	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/weather"
)

// FormatItem renders one scheduled item on a single line.
func FormatItem(it domain.ScheduledItem) string {
	label := it.TimeLabel
	if label == "" {
		label = "—"
	}
	return fmt.Sprintf("%s  %s %s  %s · %s  %s",
		StyleAccent.Render(fmt.Sprintf("%-5s", label)),
		Icon(it.Category), Bold(it.Title),
		Dim(it.EstimatedDuration), Vibe(it.Vibe),
		Dim(ShortID(it.ID)))
}

// FormatDay renders a day heading followed by its items in schedule order.
func FormatDay(d domain.Day) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s (%d)", DayTitle(d.Key), len(d.Items))))
	b.WriteString("\n")
	if len(d.Items) == 0 {
		b.WriteString(Dim("  Drop activities here or use: weekendly plan add " + d.Key + " ID"))
		b.WriteString("\n")
	}
	for i, it := range d.Items {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%2d.", i+1)), FormatItem(it))
	}
	return b.String()
}

// FormatPlan renders every day of the schedule in order.
func FormatPlan(s domain.Schedule) string {
	if len(s.Days) == 0 {
		return RenderBox("Your weekend", Dim("No days. Add one with: weekendly day add NAME"))
	}
	parts := make([]string, len(s.Days))
	for i, d := range s.Days {
		parts[i] = FormatDay(d)
	}
	return RenderBox("Your weekend", strings.Join(parts, "\n"))
}

// FormatPoster renders the shareable summary card, optionally with the
// weekend forecast.
func FormatPoster(s domain.Schedule, forecast []weather.DayForecast) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("📅 My Plan"))
	b.WriteString("\n")
	if len(forecast) > 0 {
		b.WriteString(FormatForecastLine(forecast))
		b.WriteString("\n")
	}
	for _, d := range s.Days {
		b.WriteString("\n")
		b.WriteString(StyleAccent.Render("🌟 " + DayTitle(d.Key)))
		b.WriteString("\n")
		if len(d.Items) == 0 {
			b.WriteString(Dim("   nothing planned yet"))
			b.WriteString("\n")
		}
		for _, it := range d.Items {
			label := it.TimeLabel
			if label == "" {
				label = "—"
			}
			fmt.Fprintf(&b, "   ⏰ %s  %s (%s, %s)\n", label, Bold(it.Title), it.EstimatedDuration, Vibe(it.Vibe))
		}
	}
	b.WriteString("\n")
	b.WriteString(Dim("✨ Generated with Weekendly ✨"))
	return RenderBox("", b.String())
}

// FormatForecast renders the forecast, one day per line.
func FormatForecast(forecast []weather.DayForecast) string {
	lines := make([]string, len(forecast))
	for i, f := range forecast {
		lines[i] = fmt.Sprintf("%s %s %s %s",
			Bold(f.Day+":"), f.Glyph(), StyleAccent.Render(fmt.Sprintf("%.0f°C", f.MaxC)), Dim(f.Condition()))
	}
	return RenderBox("Weekend forecast", strings.Join(lines, "\n"))
}

// FormatForecastLine renders the forecast compactly on one line.
func FormatForecastLine(forecast []weather.DayForecast) string {
	parts := make([]string, len(forecast))
	for i, f := range forecast {
		parts[i] = fmt.Sprintf("%s %s %.0f°C", f.Day, f.Glyph(), f.MaxC)
	}
	return Dim(strings.Join(parts, "   "))
}
