package formatter

import (
	"github.com/weekendly/weekendly/internal/export"
	"github.com/weekendly/weekendly/internal/reminder"
)

// FormatReminders renders reminder entries as a table.
func FormatReminders(entries []reminder.Entry) string {
	if len(entries) == 0 {
		return Dim("No reminders.")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			DayTitle(e.Day),
			StyleAccent.Render(export.TimeOrAllDay(e.TimeLabel)),
			Bold(e.Title),
			Dim(ShortID(e.ItemID)),
		})
	}
	return RenderTable([]string{"DAY", "TIME", "ACTIVITY", "ITEM"}, rows)
}
