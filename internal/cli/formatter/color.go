package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors a theme paints with.
type Palette struct {
	Accent lipgloss.Color
	Header lipgloss.Color
	Fg     lipgloss.Color
	Dim    lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
	Bad    lipgloss.Color
	Calm   lipgloss.Color
}

// Palettes keyed by theme name. The default is Gruvbox-inspired.
var Palettes = map[string]Palette{
	"default": {
		Accent: "#83a598", Header: "#fe8019", Fg: "#ebdbb2", Dim: "#928374",
		Good: "#8ec07c", Warn: "#fabd2f", Bad: "#fb4934", Calm: "#d3869b",
	},
	"lazy": {
		Accent: "#c084fc", Header: "#f0abfc", Fg: "#fae8ff", Dim: "#a78bfa",
		Good: "#86efac", Warn: "#fde68a", Bad: "#fda4af", Calm: "#f9a8d4",
	},
	"adventure": {
		Accent: "#059669", Header: "#34d399", Fg: "#ecfdf5", Dim: "#6b8f7d",
		Good: "#a3e635", Warn: "#facc15", Bad: "#f87171", Calm: "#5eead4",
	},
	"family": {
		Accent: "#f97316", Header: "#fb923c", Fg: "#fffbeb", Dim: "#a8a29e",
		Good: "#84cc16", Warn: "#fde047", Bad: "#ef4444", Calm: "#fdba74",
	},
}

// Active styles. SetTheme repaints them.
var (
	ColorAccent lipgloss.Color
	ColorDim    lipgloss.Color

	StyleAccent lipgloss.Style
	StyleGood   lipgloss.Style
	StyleWarn   lipgloss.Style
	StyleBad    lipgloss.Style
	StyleCalm   lipgloss.Style
	StyleDim    lipgloss.Style
	StyleFg     lipgloss.Style
	StyleHeader lipgloss.Style
	StyleBold   lipgloss.Style

	theme = "default"
)

func init() {
	SetTheme("default")
}

// SetTheme switches the active palette. Unknown names select the default.
func SetTheme(name string) {
	p, ok := Palettes[strings.ToLower(name)]
	if !ok {
		name, p = "default", Palettes["default"]
	}
	theme = strings.ToLower(name)

	ColorAccent = p.Accent
	ColorDim = p.Dim
	StyleAccent = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	StyleGood = lipgloss.NewStyle().Foreground(p.Good)
	StyleWarn = lipgloss.NewStyle().Foreground(p.Warn)
	StyleBad = lipgloss.NewStyle().Foreground(p.Bad)
	StyleCalm = lipgloss.NewStyle().Foreground(p.Calm)
	StyleDim = lipgloss.NewStyle().Foreground(p.Dim)
	StyleFg = lipgloss.NewStyle().Foreground(p.Fg)
	StyleHeader = lipgloss.NewStyle().Foreground(p.Header).Bold(true)
	StyleBold = lipgloss.NewStyle().Foreground(p.Fg).Bold(true)
}

// Theme returns the active theme name.
func Theme() string { return theme }

// VibeStyle colors a vibe by its energy.
func VibeStyle(vibe string) lipgloss.Style {
	switch strings.ToLower(vibe) {
	case "energetic", "adventurous", "excited":
		return StyleWarn
	case "happy", "fun", "social":
		return StyleGood
	case "relaxed", "calm", "chill", "cozy":
		return StyleCalm
	default:
		return StyleDim
	}
}

// Vibe renders a vibe in its color.
func Vibe(vibe string) string {
	return VibeStyle(vibe).Render(vibe)
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Success renders a confirmation line.
func Success(text string) string {
	return StyleGood.Render("✓ ") + text
}

// Warning renders a line for a request that changed nothing.
func Warning(text string) string {
	return StyleWarn.Render("! ") + text
}
