package domain

// Defaults applied when a template or scheduled item omits a field.
const (
	DefaultCategory  = "General"
	DefaultDuration  = "1h"
	DefaultVibe      = "Neutral"
	DefaultTimeLabel = "09:00"

	// QuickAddCategory is the category given to ad-hoc items added straight
	// into a day without a template.
	QuickAddCategory = "Custom"
)

// Activity holds the displayable fields shared by templates and the items
// scheduled from them.
type Activity struct {
	Title             string `json:"title" yaml:"title"`
	Category          string `json:"category" yaml:"category"`
	EstimatedDuration string `json:"estimatedDuration" yaml:"estimatedDuration"`
	Vibe              string `json:"vibe" yaml:"vibe"`
}

// QuickAdd returns the Activity used for an ad-hoc item with the given title.
func QuickAdd(title string) Activity {
	return Activity{
		Title:             title,
		Category:          QuickAddCategory,
		EstimatedDuration: DefaultDuration,
		Vibe:              DefaultVibe,
	}
}

// ActivityTemplate is a reusable activity definition owned by the template
// library. Scheduling a template copies its fields; no reference is kept.
type ActivityTemplate struct {
	ID string `json:"id"`
	Activity
}

// TemplatePatch carries optional replacements for a template's fields.
type TemplatePatch struct {
	Title             *string
	Category          *string
	EstimatedDuration *string
	Vibe              *string
}

// Apply merges the non-nil fields of p into t. The ID never changes.
func (t *ActivityTemplate) Apply(p TemplatePatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.EstimatedDuration != nil {
		t.EstimatedDuration = *p.EstimatedDuration
	}
	if p.Vibe != nil {
		t.Vibe = *p.Vibe
	}
}

// ScheduledItem is an independently editable copy of an activity placed in
// exactly one day bucket.
type ScheduledItem struct {
	ID string `json:"id"`
	Activity
	TimeLabel string `json:"timeLabel"`
}

// ItemPatch carries optional replacements for the editable fields of a
// scheduled item. Title and category are fixed once scheduled.
type ItemPatch struct {
	TimeLabel         *string
	Vibe              *string
	EstimatedDuration *string
}

// IsEmpty reports whether the patch would change nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.TimeLabel == nil && p.Vibe == nil && p.EstimatedDuration == nil
}

// Apply merges the non-nil fields of p into it.
func (it *ScheduledItem) Apply(p ItemPatch) {
	if p.TimeLabel != nil {
		it.TimeLabel = *p.TimeLabel
	}
	if p.Vibe != nil {
		it.Vibe = *p.Vibe
	}
	if p.EstimatedDuration != nil {
		it.EstimatedDuration = *p.EstimatedDuration
	}
}
