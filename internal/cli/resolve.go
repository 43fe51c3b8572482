package cli

import (
	"fmt"
	"strings"

	"github.com/weekendly/weekendly/internal/cli/formatter"
	"github.com/weekendly/weekendly/internal/library"
	"github.com/weekendly/weekendly/internal/schedule"
)

// resolvePrefix picks the id that input identifies: an exact match, or the
// single id starting with input.
func resolvePrefix(kind, input string, ids []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no %s matches %q", kind, input)
	case 1:
		return matches[0], nil
	}
	short := make([]string, len(matches))
	for i, m := range matches {
		short[i] = formatter.ShortID(m)
	}
	return "", fmt.Errorf("%q matches %d %ss (%s); use a longer prefix",
		input, len(matches), kind, strings.Join(short, ", "))
}

// resolveTemplateID resolves a template id or unique id prefix.
func resolveTemplateID(app *App, input string) (string, error) {
	templates := app.Templates.ListTemplates("")
	ids := make([]string, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	id, err := resolvePrefix("template", input, ids)
	if err != nil {
		return "", fmt.Errorf("%w: %v", library.ErrNotFound, err)
	}
	return id, nil
}

// resolveDay returns the stored spelling of a day key, matched ignoring case.
func resolveDay(app *App, input string) (string, error) {
	for _, d := range app.Schedule.Days() {
		if d == input {
			return d, nil
		}
	}
	for _, d := range app.Schedule.Days() {
		if strings.EqualFold(d, input) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", schedule.ErrDayNotFound, input)
}

// resolveItemID resolves an item id or unique prefix within one day.
func resolveItemID(app *App, day, input string) (string, error) {
	items, ok := app.Schedule.Items(day)
	if !ok {
		return "", fmt.Errorf("%w: %q", schedule.ErrDayNotFound, day)
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return resolvePrefix("item", input, ids)
}

// resolveDayAndItem resolves both halves of a DAY ITEM argument pair.
func resolveDayAndItem(app *App, dayArg, itemArg string) (string, string, error) {
	day, err := resolveDay(app, dayArg)
	if err != nil {
		return "", "", err
	}
	id, err := resolveItemID(app, day, itemArg)
	if err != nil {
		return "", "", err
	}
	return day, id, nil
}
