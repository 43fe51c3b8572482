// Package dragdrop turns a drag payload dropped on a day into exactly one
// schedule mutation.
package dragdrop

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/weekendly/weekendly/internal/domain"
)

// Kind tags the payload variant.
type Kind string

const (
	KindTemplate      Kind = "template"
	KindScheduledItem Kind = "scheduledItem"
)

// MIMEType is the drag-data channel type the payload travels under.
const MIMEType = "application/json"

var ErrInvalidPayload = errors.New("invalid drag payload")

// Payload is what a drag carries: either a template to copy into a day or a
// reference to an item already scheduled in FromDay.
type Payload struct {
	Kind     Kind
	Template domain.ActivityTemplate
	FromDay  string
	ItemID   string
}

// FromTemplate builds the payload for dragging a template.
func FromTemplate(t domain.ActivityTemplate) Payload {
	return Payload{Kind: KindTemplate, Template: t}
}

// FromItem builds the payload for dragging a scheduled item out of day.
func FromItem(day, itemID string) Payload {
	return Payload{Kind: KindScheduledItem, FromDay: day, ItemID: itemID}
}

type wirePayload struct {
	Kind     Kind                     `json:"kind"`
	Template *domain.ActivityTemplate `json:"template,omitempty"`
	FromDay  string                   `json:"fromDay,omitempty"`
	ItemID   string                   `json:"itemId,omitempty"`
}

// Validate checks that the variant's required fields are present.
func (p Payload) Validate() error {
	switch p.Kind {
	case KindTemplate:
		if strings.TrimSpace(p.Template.Title) == "" {
			return fmt.Errorf("%w: template without title", ErrInvalidPayload)
		}
	case KindScheduledItem:
		if p.FromDay == "" || p.ItemID == "" {
			return fmt.Errorf("%w: item reference needs fromDay and itemId", ErrInvalidPayload)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPayload, p.Kind)
	}
	return nil
}

// MarshalJSON encodes the payload in its wire form.
func (p Payload) MarshalJSON() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	w := wirePayload{Kind: p.Kind}
	if p.Kind == KindTemplate {
		t := p.Template
		w.Template = &t
	} else {
		w.FromDay = p.FromDay
		w.ItemID = p.ItemID
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes and validates the wire form.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	decoded := Payload{Kind: w.Kind, FromDay: w.FromDay, ItemID: w.ItemID}
	if w.Kind == KindTemplate {
		if w.Template == nil {
			return fmt.Errorf("%w: template payload without template", ErrInvalidPayload)
		}
		decoded.Template = *w.Template
		decoded.FromDay, decoded.ItemID = "", ""
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Encode returns the wire bytes for p.
func Encode(p Payload) ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses wire bytes. Any failure wraps ErrInvalidPayload.
func Decode(raw []byte) (Payload, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Payload{}, fmt.Errorf("%w: empty", ErrInvalidPayload)
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		if errors.Is(err, ErrInvalidPayload) {
			return Payload{}, err
		}
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, nil
}
