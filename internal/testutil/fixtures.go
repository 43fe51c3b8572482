package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/weekendly/weekendly/internal/domain"
)

var testIDCounter atomic.Int64

// TemplateOption customizes a fixture template.
type TemplateOption func(*domain.ActivityTemplate)

func WithCategory(c string) TemplateOption {
	return func(t *domain.ActivityTemplate) { t.Category = c }
}

func WithDuration(d string) TemplateOption {
	return func(t *domain.ActivityTemplate) { t.EstimatedDuration = d }
}

func WithVibe(v string) TemplateOption {
	return func(t *domain.ActivityTemplate) { t.Vibe = v }
}

func WithTemplateID(id string) TemplateOption {
	return func(t *domain.ActivityTemplate) { t.ID = id }
}

// NewTestTemplate returns a fully populated template with a unique id.
func NewTestTemplate(title string, opts ...TemplateOption) domain.ActivityTemplate {
	t := domain.ActivityTemplate{
		ID: fmt.Sprintf("tpl_test_%d", testIDCounter.Add(1)),
		Activity: domain.Activity{
			Title:             title,
			Category:          "Outdoors",
			EstimatedDuration: "2h",
			Vibe:              "Energetic",
		},
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// NewTestItem returns a scheduled item copied from a fixture template.
func NewTestItem(title, timeLabel string) domain.ScheduledItem {
	tpl := NewTestTemplate(title)
	return domain.ScheduledItem{
		ID:        fmt.Sprintf("sch_test_%d", testIDCounter.Add(1)),
		Activity:  tpl.Activity,
		TimeLabel: timeLabel,
	}
}
