package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/weekendly/weekendly/internal/domain"
)

// shortIDLen is how many id characters after the prefix are shown.
const shortIDLen = 8

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// ShortID trims a generated id such as "act_5f0c...". The kind prefix is
// kept and the rest is cut to a few characters, enough to be a unique prefix
// in practice.
func ShortID(id string) string {
	prefix, rest, found := strings.Cut(id, "_")
	if !found {
		prefix, rest = "", id
	} else {
		prefix += "_"
	}
	if len(rest) <= shortIDLen {
		return id
	}
	return prefix + rest[:shortIDLen]
}

// Icon renders the glyph for a category.
func Icon(category string) string {
	return domain.CategoryIcon(category).Glyph()
}

// DayTitle capitalizes the first letter of a day key.
func DayTitle(key string) string {
	if key == "" {
		return key
	}
	r := []rune(key)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
