package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/library"
)

// ListTemplates returns the templates matching query, newest first.
func (p *Planner) ListTemplates(query string) []domain.ActivityTemplate {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []domain.ActivityTemplate
	for t := range p.lib.Filter(query) {
		out = append(out, t)
	}
	return out
}

func (p *Planner) GetTemplate(id string) (domain.ActivityTemplate, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lib.Get(id)
}

func (p *Planner) CreateTemplate(ctx context.Context, in library.CreateInput) (t domain.ActivityTemplate, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"title": in.Title}
	defer p.observe(ctx, "create-template", fields, &err)()

	t, err = p.lib.Create(in)
	if err != nil {
		return t, err
	}
	fields["template_id"] = t.ID
	p.flushTemplatesLocked(ctx)
	return t, nil
}

func (p *Planner) UpdateTemplate(ctx context.Context, id string, patch domain.TemplatePatch) (t domain.ActivityTemplate, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.observe(ctx, "update-template", map[string]any{"template_id": id}, &err)()

	t, err = p.lib.Update(id, patch)
	if err != nil {
		return t, err
	}
	p.flushTemplatesLocked(ctx)
	return t, nil
}

func (p *Planner) DeleteTemplate(ctx context.Context, id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"template_id": id}
	defer p.observe(ctx, "delete-template", fields, nil)()

	ok := p.lib.Delete(id)
	fields["applied"] = ok
	if ok {
		p.flushTemplatesLocked(ctx)
	}
	return ok
}

// ImportTemplates creates a template for each valid input. Invalid inputs
// are skipped and reported together in the returned error.
func (p *Planner) ImportTemplates(ctx context.Context, inputs []library.CreateInput) (created []domain.ActivityTemplate, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"inputs": len(inputs)}
	defer p.observe(ctx, "import-templates", fields, &err)()

	var errs []error
	for i, in := range inputs {
		t, cerr := p.lib.Create(in)
		if cerr != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i+1, cerr))
			continue
		}
		created = append(created, t)
	}
	fields["created"] = len(created)
	if len(created) > 0 {
		p.flushTemplatesLocked(ctx)
	}
	return created, errors.Join(errs...)
}
