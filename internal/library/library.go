// Package library holds the catalog of reusable activity templates.
package library

import (
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/weekendly/weekendly/internal/domain"
)

var (
	ErrEmptyTitle = errors.New("template title is required")
	ErrNotFound   = errors.New("template not found")
)

// CreateInput describes a new template. Empty optional fields take the
// domain defaults.
type CreateInput struct {
	Title    string `validate:"required"`
	Category string
	Duration string
	Vibe     string
}

// Library owns the template catalog, most recent first. It is not safe for
// concurrent use; the planner serializes access.
type Library struct {
	templates []domain.ActivityTemplate
	newID     func() string
	validate  *validator.Validate
}

// Option configures a Library.
type Option func(*Library)

// WithIDGenerator replaces the id source, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(l *Library) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// New returns a library holding a copy of templates.
func New(templates []domain.ActivityTemplate, opts ...Option) *Library {
	l := &Library{
		templates: slices.Clone(templates),
		newID:     func() string { return "act_" + uuid.NewString() },
		validate:  validator.New(),
	}
	if l.templates == nil {
		l.templates = []domain.ActivityTemplate{}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Create adds a template at the front of the catalog and returns it.
func (l *Library) Create(in CreateInput) (domain.ActivityTemplate, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := l.validate.Struct(in); err != nil {
		return domain.ActivityTemplate{}, ErrEmptyTitle
	}

	t := domain.ActivityTemplate{
		ID: l.freshID(),
		Activity: domain.Activity{
			Title:             in.Title,
			Category:          domain.CoalesceStr(in.Category, domain.DefaultCategory),
			EstimatedDuration: domain.CoalesceStr(in.Duration, domain.DefaultDuration),
			Vibe:              domain.CoalesceStr(in.Vibe, domain.DefaultVibe),
		},
	}
	l.templates = slices.Insert(l.templates, 0, t)
	return t, nil
}

// Delete removes the template with the given id. Items already scheduled
// from it are unaffected. It reports whether anything was removed.
func (l *Library) Delete(id string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.templates = slices.Delete(l.templates, i, i+1)
	return true
}

// Update edits a template in place. Scheduled copies do not change.
func (l *Library) Update(id string, p domain.TemplatePatch) (domain.ActivityTemplate, error) {
	i := l.indexOf(id)
	if i < 0 {
		return domain.ActivityTemplate{}, ErrNotFound
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return domain.ActivityTemplate{}, ErrEmptyTitle
		}
		p.Title = &title
	}
	l.templates[i].Apply(p)
	return l.templates[i], nil
}

// Get returns the template with the given id.
func (l *Library) Get(id string) (domain.ActivityTemplate, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return domain.ActivityTemplate{}, false
	}
	return l.templates[i], true
}

// All returns a copy of the catalog in display order.
func (l *Library) All() []domain.ActivityTemplate {
	return slices.Clone(l.templates)
}

// Len returns the number of templates.
func (l *Library) Len() int {
	return len(l.templates)
}

// Filter returns a view of the templates whose title or category contains
// query, ignoring case. An empty query matches everything. The view reads
// the catalog each time it is ranged over.
func (l *Library) Filter(query string) iter.Seq[domain.ActivityTemplate] {
	q := strings.ToLower(query)
	return func(yield func(domain.ActivityTemplate) bool) {
		for _, t := range slices.Clone(l.templates) {
			if q != "" && !matches(t, q) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

func matches(t domain.ActivityTemplate, lowered string) bool {
	return strings.Contains(strings.ToLower(t.Title), lowered) ||
		strings.Contains(strings.ToLower(t.Category), lowered)
}

func (l *Library) indexOf(id string) int {
	return slices.IndexFunc(l.templates, func(t domain.ActivityTemplate) bool {
		return t.ID == id
	})
}

func (l *Library) freshID() string {
	for {
		id := l.newID()
		if l.indexOf(id) < 0 {
			return id
		}
	}
}
