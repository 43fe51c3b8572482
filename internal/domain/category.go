package domain

import "strings"

// Icon identifies the pictogram shown next to an activity's category.
type Icon string

const (
	IconSun      Icon = "sun"
	IconFilm     Icon = "film"
	IconBook     Icon = "book"
	IconBag      Icon = "bag"
	IconSparkles Icon = "sparkles"
)

// categoryIcons is keyed by lower-cased category. Categories not listed get
// IconSparkles.
var categoryIcons = map[string]Icon{
	"outdoors":      IconSun,
	"entertainment": IconFilm,
	"solo":          IconBook,
	"food":          IconBag,
}

// CategoryIcon maps a free-text category to its icon. Unknown or empty
// categories resolve to the default icon.
func CategoryIcon(category string) Icon {
	if icon, ok := categoryIcons[strings.ToLower(strings.TrimSpace(category))]; ok {
		return icon
	}
	return IconSparkles
}

// Glyph returns a single-cell terminal glyph for the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconSun:
		return "☀"
	case IconFilm:
		return "▶"
	case IconBook:
		return "▤"
	case IconBag:
		return "◍"
	default:
		return "✦"
	}
}
