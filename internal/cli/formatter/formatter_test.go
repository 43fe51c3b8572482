package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/reminder"
	"github.com/weekendly/weekendly/internal/weather"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func samplePlan() domain.Schedule {
	s := domain.SeedSchedule()
	s.Days[0].Items = append(s.Days[0].Items, domain.ScheduledItem{
		ID:        "sch_0123456789abcdef",
		Activity:  domain.Activity{Title: "Brunch", Category: "Food", EstimatedDuration: "1.5h", Vibe: "Relaxed"},
		TimeLabel: "10:30",
	})
	return s
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "LONGER"}, [][]string{{"xxxx", "y"}, {"z"}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Len(t, lines, 4)
	assert.Equal(t, "A     LONGER", lines[0])
	assert.Equal(t, "xxxx  y", lines[2])
	assert.Equal(t, "z     ", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "act_5f0c1d2e", ShortID("act_5f0c1d2e-aaaa-bbbb"))
	assert.Equal(t, "a1", ShortID("a1"))
	assert.Equal(t, "sch_1", ShortID("sch_1"))
	assert.Equal(t, "01234567", ShortID("0123456789"))
}

func TestDayTitle(t *testing.T) {
	assert.Equal(t, "Saturday", DayTitle("saturday"))
	assert.Equal(t, "Über", DayTitle("über"))
	assert.Empty(t, DayTitle(""))
}

func TestFormatTemplateList(t *testing.T) {
	out := stripANSI(FormatTemplateList(domain.SeedTemplates()))

	assert.Contains(t, out, "ACTIVITIES")
	assert.Contains(t, out, "Movie Night")
	assert.Contains(t, out, "Entertainment")
	assert.Contains(t, out, "▶")

	empty := stripANSI(FormatTemplateList(nil))
	assert.Contains(t, empty, "No templates")
}

func TestFormatPlan(t *testing.T) {
	out := stripANSI(FormatPlan(samplePlan()))

	assert.Contains(t, out, "SATURDAY (1)")
	assert.Contains(t, out, "SUNDAY (0)")
	assert.Contains(t, out, "10:30")
	assert.Contains(t, out, "Brunch")
	assert.Contains(t, out, "sch_01234567")
	assert.Contains(t, out, "weekendly plan add sunday ID")
}

func TestFormatPoster(t *testing.T) {
	forecast, _ := weather.Static{}.Weekend(t.Context(), 0, 0)
	out := stripANSI(FormatPoster(samplePlan(), forecast))

	assert.Contains(t, out, "My Plan")
	assert.Contains(t, out, "🌟 Saturday")
	assert.Contains(t, out, "⏰ 10:30  Brunch (1.5h, Relaxed)")
	assert.Contains(t, out, "nothing planned yet")
	assert.Contains(t, out, "Saturday ☀️ 25°C")
}

func TestFormatReminders(t *testing.T) {
	out := stripANSI(FormatReminders([]reminder.Entry{{ItemID: "sch_1", Day: "sunday", Title: "Reading"}}))

	assert.Contains(t, out, "Sunday")
	assert.Contains(t, out, "All day")
	assert.Contains(t, out, "Reading")
	assert.Equal(t, "No reminders.", stripANSI(FormatReminders(nil)))
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("default") })

	SetTheme("Adventure")
	assert.Equal(t, "adventure", Theme())
	assert.Equal(t, Palettes["adventure"].Accent, ColorAccent)

	SetTheme("neon")
	assert.Equal(t, "default", Theme())
}

func TestVibeStyle(t *testing.T) {
	assert.Equal(t, StyleCalm.Render("x"), VibeStyle("Relaxed").Render("x"))
	assert.Equal(t, StyleDim.Render("x"), VibeStyle("Neutral").Render("x"))
}
