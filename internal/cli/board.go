package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/reminder"
)

// runBoard opens the full-screen planning board and blocks until it quits.
// With reminders enabled the digest runs alongside and lands in the status
// line.
func runBoard(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newAppModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))

	if app.Config.Reminders.Enabled {
		d, err := reminder.NewDigest(app.Config.Reminders.Digest, app.Reminders.Reminders, func(day string, entries []reminder.Entry) {
			p.Send(statusMsg{text: digestStatus(day, entries)})
		}, app.logger())
		if err != nil {
			app.logger().Warn("reminder digest disabled", "error", err)
		} else {
			d.Start(ctx)
			defer d.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running board: %w", err)
	}
	return nil
}

// digestStatus renders a digest as one status line.
func digestStatus(day string, entries []reminder.Entry) string {
	text := fmt.Sprintf("⏰ %s: %d planned", formatter.DayTitle(day), len(entries))
	if len(entries) > 0 {
		e := entries[0]
		text += " · first up " + formatter.Bold(e.Title)
		if e.TimeLabel != "" {
			text += " at " + e.TimeLabel
		}
	}
	return formatter.StyleAccent.Render(text)
}
