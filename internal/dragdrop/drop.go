package dragdrop

import (
	"strings"

	"github.com/weekendly/weekendly/internal/domain"
)

// Target is the schedule a payload is dropped onto.
type Target interface {
	HasDay(day string) bool
	AddToDay(day string, src domain.Activity) (domain.ScheduledItem, error)
	TransferBetweenDays(fromDay, toDay, itemID string) (domain.ScheduledItem, bool)
}

// Outcome describes what a drop did. When Applied is false nothing changed
// and Reason says why.
type Outcome struct {
	Applied bool
	Kind    Kind
	Item    domain.ScheduledItem
	FromDay string
	ToDay   string
	Reason  string
}

// Drop decodes raw and applies it to toDay. Bad payloads, unknown days and
// vanished items all resolve to an unapplied outcome.
func Drop(t Target, toDay string, raw []byte) Outcome {
	p, err := Decode(raw)
	if err != nil {
		return Outcome{ToDay: toDay, Reason: err.Error()}
	}
	return Apply(t, toDay, p)
}

// Apply performs the single mutation a decoded payload maps to: templates
// are copied into toDay, item references are transferred there.
func Apply(t Target, toDay string, p Payload) Outcome {
	out := Outcome{Kind: p.Kind, ToDay: toDay, FromDay: p.FromDay}
	if err := p.Validate(); err != nil {
		out.Reason = err.Error()
		return out
	}
	if !t.HasDay(toDay) {
		out.Reason = "drop target is not a day"
		return out
	}

	switch p.Kind {
	case KindTemplate:
		item, err := t.AddToDay(toDay, p.Template.Activity)
		if err != nil {
			out.Reason = err.Error()
			return out
		}
		out.Item, out.Applied = item, true
	case KindScheduledItem:
		// Day names resolve case-insensitively.
		if strings.EqualFold(p.FromDay, toDay) {
			out.Reason = "dropped on its own day"
			return out
		}
		item, ok := t.TransferBetweenDays(p.FromDay, toDay, p.ItemID)
		if !ok {
			out.Reason = "item is no longer in " + p.FromDay
			return out
		}
		out.Item, out.Applied = item, true
	}
	return out
}
