package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/library"
)

// vibeSuggestions are offered while typing a vibe.
var vibeSuggestions = []string{"Relaxed", "Energetic", "Chill", "Calm", "Happy", "Adventurous", "Cozy", "Social", "Neutral"}

// weekendlyHuhTheme returns a huh theme painted with the active palette.
func weekendlyHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	accent := lipgloss.NewStyle().Foreground(formatter.ColorAccent)
	dim := lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Focused state: accent color
	t.Focused.Title = formatter.StyleHeader
	t.Focused.SelectSelector = accent
	t.Focused.SelectedOption = formatter.StyleGood
	t.Focused.UnselectedOption = formatter.StyleFg
	t.Focused.FocusedButton = formatter.StyleFg.Background(formatter.ColorAccent).Padding(0, 1)
	t.Focused.BlurredButton = dim.Padding(0, 1)
	t.Focused.TextInput.Cursor = accent
	t.Focused.TextInput.Prompt = accent
	t.Focused.TextInput.Text = formatter.StyleFg
	t.Focused.TextInput.Placeholder = dim
	t.Focused.Description = dim

	// Blurred state: dimmed
	t.Blurred.Title = dim
	t.Blurred.SelectSelector = dim
	t.Blurred.SelectedOption = dim
	t.Blurred.UnselectedOption = dim
	t.Blurred.TextInput.Prompt = dim
	t.Blurred.TextInput.Text = dim

	return t
}

func requiredText(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

// templateFields backs the template add and edit forms.
type templateFields struct {
	title    string
	category string
	duration string
	vibe     string
}

func templateFieldsFrom(t domain.ActivityTemplate) *templateFields {
	return &templateFields{
		title:    t.Title,
		category: t.Category,
		duration: t.EstimatedDuration,
		vibe:     t.Vibe,
	}
}

func templateForm(f *templateFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Placeholder("Picnic in the park").Value(&f.title).Validate(requiredText("title")),
			huh.NewInput().Title("Category").Placeholder(domain.DefaultCategory).
				Suggestions([]string{"Outdoors", "Food", "Entertainment", "Solo"}).Value(&f.category),
			huh.NewInput().Title("Duration").Placeholder(domain.DefaultDuration).Value(&f.duration),
			huh.NewInput().Title("Vibe").Placeholder(domain.DefaultVibe).Suggestions(vibeSuggestions).Value(&f.vibe),
		),
	).WithTheme(weekendlyHuhTheme()).WithShowHelp(false)
}

// applyCreateTemplate adds the template described by f and reports the
// result as a status message.
func applyCreateTemplate(state *SharedState, f *templateFields) tea.Msg {
	t, err := state.App.Templates.CreateTemplate(state.Ctx, library.CreateInput{
		Title:    f.title,
		Category: f.category,
		Duration: f.duration,
		Vibe:     f.vibe,
	})
	if err != nil {
		return statusError(err)
	}
	return statusMsg{text: formatter.Success("Added " + formatter.Bold(t.Title) + " to the library")}
}

// applyEditTemplate replaces every field of template id with f.
func applyEditTemplate(state *SharedState, id string, f *templateFields) tea.Msg {
	t, err := state.App.Templates.UpdateTemplate(state.Ctx, id, domain.TemplatePatch{
		Title:             &f.title,
		Category:          &f.category,
		EstimatedDuration: &f.duration,
		Vibe:              &f.vibe,
	})
	if err != nil {
		return statusError(err)
	}
	return statusMsg{text: formatter.Success("Updated " + formatter.Bold(t.Title))}
}

// itemFields backs the scheduled item edit form.
type itemFields struct {
	timeLabel string
	vibe      string
	duration  string
}

func itemFieldsFrom(it domain.ScheduledItem) *itemFields {
	return &itemFields{timeLabel: it.TimeLabel, vibe: it.Vibe, duration: it.EstimatedDuration}
}

func itemForm(title string, f *itemFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Time").Description(title+" · blank for all day").
				Placeholder(domain.DefaultTimeLabel).Value(&f.timeLabel),
			huh.NewInput().Title("Vibe").Suggestions(vibeSuggestions).Value(&f.vibe),
			huh.NewInput().Title("Duration").Value(&f.duration),
		),
	).WithTheme(weekendlyHuhTheme()).WithShowHelp(false)
}

// applyEditItem writes f into the scheduled item.
func applyEditItem(state *SharedState, day, id string, f *itemFields) tea.Msg {
	it, ok := state.App.Schedule.UpdateItem(state.Ctx, day, id, domain.ItemPatch{
		TimeLabel:         &f.timeLabel,
		Vibe:              &f.vibe,
		EstimatedDuration: &f.duration,
	})
	if !ok {
		return statusMsg{text: formatter.Warning("That item is gone; nothing changed.")}
	}
	return statusMsg{text: formatter.Success("Updated " + formatter.Bold(it.Title))}
}

func dayForm(name *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Day name").Placeholder("friday night").Value(name).Validate(requiredText("day name")),
		),
	).WithTheme(weekendlyHuhTheme()).WithShowHelp(false)
}

// applyAddDay appends the named day.
func applyAddDay(state *SharedState, name string) tea.Msg {
	if err := state.App.Schedule.AddDay(state.Ctx, name); err != nil {
		return statusError(err)
	}
	return statusMsg{text: formatter.Success(fmt.Sprintf("Added day %q", strings.TrimSpace(name)))}
}

func confirmForm(prompt string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(prompt).Affirmative("Yes").Negative("No").Value(confirmed),
		),
	).WithTheme(weekendlyHuhTheme()).WithShowHelp(false)
}

// applyRemoveDay removes day when confirmed.
func applyRemoveDay(state *SharedState, day string, confirmed bool) tea.Msg {
	if !confirmed {
		return statusMsg{text: formatter.Dim("Kept " + day + ".")}
	}
	if !state.App.Schedule.RemoveDay(state.Ctx, day) {
		return statusMsg{text: formatter.Warning("Day already gone.")}
	}
	return statusMsg{text: formatter.Success("Removed " + day)}
}

func statusError(err error) tea.Msg {
	var text string
	switch {
	case errors.Is(err, library.ErrEmptyTitle):
		text = "A title is required."
	default:
		text = err.Error()
	}
	return statusMsg{text: formatter.StyleBad.Render("✗ ") + text}
}
