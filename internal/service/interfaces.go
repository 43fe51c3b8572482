package service

import (
	"context"

	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/dragdrop"
	"github.com/weekendly/weekendly/internal/library"
	"github.com/weekendly/weekendly/internal/reminder"
)

type TemplateService interface {
	ListTemplates(query string) []domain.ActivityTemplate
	GetTemplate(id string) (domain.ActivityTemplate, bool)
	CreateTemplate(ctx context.Context, in library.CreateInput) (domain.ActivityTemplate, error)
	UpdateTemplate(ctx context.Context, id string, p domain.TemplatePatch) (domain.ActivityTemplate, error)
	DeleteTemplate(ctx context.Context, id string) bool
	ImportTemplates(ctx context.Context, inputs []library.CreateInput) ([]domain.ActivityTemplate, error)
}

type ScheduleService interface {
	Snapshot() domain.Schedule
	Days() []string
	Items(day string) ([]domain.ScheduledItem, bool)
	FindItem(id string) (string, domain.ScheduledItem, bool)

	AddDay(ctx context.Context, key string) error
	RemoveDay(ctx context.Context, key string) bool
	ClearDay(ctx context.Context, key string) bool
	ClearAll(ctx context.Context) int

	AddTemplateToDay(ctx context.Context, day, templateID string) (domain.ScheduledItem, error)
	QuickAdd(ctx context.Context, day, title string) (domain.ScheduledItem, error)
	RemoveItem(ctx context.Context, day, id string) bool
	UpdateItem(ctx context.Context, day, id string, p domain.ItemPatch) (domain.ScheduledItem, bool)
	Reorder(ctx context.Context, day string, from, to int) bool
	MoveUp(ctx context.Context, day, id string) bool
	MoveDown(ctx context.Context, day, id string) bool
	Transfer(ctx context.Context, fromDay, toDay, id string) (domain.ScheduledItem, bool)
	Drop(ctx context.Context, day string, raw []byte) dragdrop.Outcome
}

type ReminderService interface {
	Reminders() []reminder.Entry
	RemindersForDay(day string) []reminder.Entry
}

// StateService controls the planner's lifecycle against storage.
type StateService interface {
	Reload(ctx context.Context)
	Reset(ctx context.Context) error
	VerifyReminders() error
}

var (
	_ StateService    = (*Planner)(nil)
	_ TemplateService = (*Planner)(nil)
	_ ScheduleService = (*Planner)(nil)
	_ ReminderService = (*Planner)(nil)
)
