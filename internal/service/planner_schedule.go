package service

import (
	"context"

	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/dragdrop"
	"github.com/weekendly/weekendly/internal/library"
	"github.com/weekendly/weekendly/internal/schedule"
)

func (p *Planner) Days() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Days()
}

func (p *Planner) Items(day string) ([]domain.ScheduledItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Items(day)
}

// FindItem returns the item with id and the day holding it.
func (p *Planner) FindItem(id string) (string, domain.ScheduledItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Find(id)
}

func (p *Planner) AddDay(ctx context.Context, key string) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.observe(ctx, "add-day", map[string]any{"day": key}, &err)()

	if err = p.store.AddDay(key); err != nil {
		return err
	}
	p.flushScheduleLocked(ctx)
	return nil
}

// RemoveDay deletes a day and its items.
func (p *Planner) RemoveDay(ctx context.Context, key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"day": key}
	defer p.observe(ctx, "remove-day", fields, nil)()

	removed, ok := p.store.RemoveDay(key)
	fields["applied"] = ok
	if !ok {
		return false
	}
	p.reminders.OnRemove(itemIDs(removed)...)
	p.flushScheduleLocked(ctx)
	return true
}

// ClearDay empties a day, keeping it.
func (p *Planner) ClearDay(ctx context.Context, key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"day": key}
	defer p.observe(ctx, "clear-day", fields, nil)()

	removed, ok := p.store.ClearDay(key)
	fields["applied"] = ok
	if !ok {
		return false
	}
	fields["removed"] = len(removed)
	p.reminders.OnRemove(itemIDs(removed)...)
	p.flushScheduleLocked(ctx)
	return true
}

// ClearAll empties every day and returns how many items were removed.
func (p *Planner) ClearAll(ctx context.Context) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{}
	defer p.observe(ctx, "clear-all", fields, nil)()

	removed := p.store.ClearAll()
	fields["removed"] = len(removed)
	p.reminders.OnRemove(itemIDs(removed)...)
	p.flushScheduleLocked(ctx)
	return len(removed)
}

// AddTemplateToDay schedules a copy of the template with templateID.
func (p *Planner) AddTemplateToDay(ctx context.Context, day, templateID string) (item domain.ScheduledItem, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"day": day, "template_id": templateID}
	defer p.observe(ctx, "add-to-day", fields, &err)()

	t, ok := p.lib.Get(templateID)
	if !ok {
		return item, library.ErrNotFound
	}
	item, err = p.store.AddToDay(day, t.Activity)
	if err != nil {
		return item, err
	}
	fields["item_id"] = item.ID
	p.afterAddLocked(ctx, item)
	return item, nil
}

// QuickAdd schedules an ad-hoc item with just a title.
func (p *Planner) QuickAdd(ctx context.Context, day, title string) (item domain.ScheduledItem, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"day": day}
	defer p.observe(ctx, "quick-add", fields, &err)()

	item, err = p.store.QuickAdd(day, title)
	if err != nil {
		return item, err
	}
	fields["item_id"] = item.ID
	p.afterAddLocked(ctx, item)
	return item, nil
}

func (p *Planner) afterAddLocked(ctx context.Context, item domain.ScheduledItem) {
	day, _, _ := p.store.Find(item.ID)
	p.reminders.OnAdd(day, item)
	p.flushScheduleLocked(ctx)
}

func (p *Planner) RemoveItem(ctx context.Context, day, id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"day": day, "item_id": id}
	defer p.observe(ctx, "remove-item", fields, nil)()

	_, ok := p.store.RemoveFromDay(day, id)
	fields["applied"] = ok
	if !ok {
		return false
	}
	p.reminders.OnRemove(id)
	p.flushScheduleLocked(ctx)
	return true
}

// UpdateItem edits the time, vibe or duration of a scheduled item.
func (p *Planner) UpdateItem(ctx context.Context, day, id string, patch domain.ItemPatch) (domain.ScheduledItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"day": day, "item_id": id}
	defer p.observe(ctx, "update-item", fields, nil)()

	item, ok := p.store.UpdateItem(day, id, patch)
	fields["applied"] = ok
	if !ok {
		return item, false
	}
	p.reminders.OnUpdate(item)
	p.flushScheduleLocked(ctx)
	return item, true
}

func (p *Planner) Reorder(ctx context.Context, day string, from, to int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"day": day, "from": from, "to": to}
	defer p.observe(ctx, "reorder", fields, nil)()

	ok := p.store.ReorderWithinDay(day, from, to)
	fields["applied"] = ok
	if ok {
		p.flushScheduleLocked(ctx)
	}
	return ok
}

func (p *Planner) MoveUp(ctx context.Context, day, id string) bool {
	return p.move(ctx, "move-up", day, id, (*schedule.Store).MoveUp)
}

func (p *Planner) MoveDown(ctx context.Context, day, id string) bool {
	return p.move(ctx, "move-down", day, id, (*schedule.Store).MoveDown)
}

func (p *Planner) move(ctx context.Context, name, day, id string, fn func(s *schedule.Store, day, id string) bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"day": day, "item_id": id}
	defer p.observe(ctx, name, fields, nil)()

	ok := fn(p.store, day, id)
	fields["applied"] = ok
	if ok {
		p.flushScheduleLocked(ctx)
	}
	return ok
}

// Transfer moves an item, unchanged, to another day.
func (p *Planner) Transfer(ctx context.Context, fromDay, toDay, id string) (domain.ScheduledItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"from": fromDay, "to": toDay, "item_id": id}
	defer p.observe(ctx, "transfer", fields, nil)()

	item, ok := p.store.TransferBetweenDays(fromDay, toDay, id)
	fields["applied"] = ok
	if !ok {
		return item, false
	}
	p.afterTransferLocked(ctx, toDay, item)
	return item, true
}

func (p *Planner) afterTransferLocked(ctx context.Context, toDay string, item domain.ScheduledItem) {
	key, _ := p.store.DayKey(toDay)
	p.reminders.OnTransfer(key, item)
	p.flushScheduleLocked(ctx)
}

// Drop applies a serialized drag payload to day. Unusable payloads leave
// everything unchanged; the outcome says why.
func (p *Planner) Drop(ctx context.Context, day string, raw []byte) dragdrop.Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := map[string]any{"day": day}
	defer p.observe(ctx, "drop", fields, nil)()

	out := dragdrop.Drop(p.store, day, raw)
	fields["kind"] = string(out.Kind)
	fields["applied"] = out.Applied
	if !out.Applied {
		fields["reason"] = out.Reason
		return out
	}

	switch out.Kind {
	case dragdrop.KindTemplate:
		p.afterAddLocked(ctx, out.Item)
	case dragdrop.KindScheduledItem:
		p.afterTransferLocked(ctx, day, out.Item)
	}
	return out
}

func itemIDs(items []domain.ScheduledItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
