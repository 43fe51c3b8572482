package formatter

import (
	"fmt"

	"github.com/weekendly/weekendly/internal/domain"
)

// FormatTemplateList renders the template catalog as a table in a box.
func FormatTemplateList(templates []domain.ActivityTemplate) string {
	if len(templates) == 0 {
		return RenderBox("Activities", Dim("No templates. Add one with: weekendly template add TITLE"))
	}
	headers := []string{"ID", "", "TITLE", "CATEGORY", "DURATION", "VIBE"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			Dim(ShortID(t.ID)),
			Icon(t.Category),
			Bold(t.Title),
			t.Category,
			t.EstimatedDuration,
			Vibe(t.Vibe),
		})
	}
	return RenderBox("Activities", RenderTable(headers, rows))
}

// FormatTemplate renders one template on a single line.
func FormatTemplate(t domain.ActivityTemplate) string {
	return fmt.Sprintf("%s %s %s  %s · %s · %s",
		Dim(ShortID(t.ID)), Icon(t.Category), Bold(t.Title),
		t.Category, t.EstimatedDuration, Vibe(t.Vibe))
}
