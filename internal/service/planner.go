package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/library"
	"github.com/weekendly/weekendly/internal/persist"
	"github.com/weekendly/weekendly/internal/reminder"
	"github.com/weekendly/weekendly/internal/schedule"
	"github.com/weekendly/weekendly/internal/storage"
)

// Planner owns the template library, the schedule and the reminder index for
// one session. It restores them from storage when opened and writes the
// affected slots back after every mutation. In-memory state is authoritative:
// a failed write is logged and the mutation stands.
//
// Planner methods are mutually exclusive.
type Planner struct {
	mu sync.Mutex

	adapter   *persist.Adapter
	lib       *library.Library
	store     *schedule.Store
	reminders *reminder.Index

	log      *slog.Logger
	observer UseCaseObserver
	opts     Options
}

// Options configures a Planner. Zero values are fine.
type Options struct {
	Logger   *slog.Logger
	Observer UseCaseObserver
	// TemplateIDs and ItemIDs replace the uuid-based id sources.
	TemplateIDs func() string
	ItemIDs     func() string
}

// Open restores planner state from kv. It never fails: missing or unusable
// slots fall back to the seed values, which are then written back. A slot
// whose read failed gets the seed in memory only.
func Open(ctx context.Context, kv storage.KV, opts Options) *Planner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	p := &Planner{
		adapter:  persist.New(kv, opts.Logger),
		log:      opts.Logger,
		observer: useCaseObserverOrNoop([]UseCaseObserver{opts.Observer}),
		opts:     opts,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadLocked(ctx, true)
	return p
}

// loadLocked replaces in-memory state with what kv holds. With writeBack the
// seeded or rebuilt slots are stored, except those that could not be read.
func (p *Planner) loadLocked(ctx context.Context, writeBack bool) {
	startedAt := time.Now().UTC()
	st := p.adapter.Load(ctx)

	p.lib = library.New(st.Templates, library.WithIDGenerator(p.opts.TemplateIDs))
	p.store = schedule.New(st.Schedule, schedule.WithIDGenerator(p.opts.ItemIDs))
	p.reminders = st.Reminders

	if len(st.Unread) > 0 {
		p.log.WarnContext(ctx, "some slots could not be read, not overwriting them", slog.Any("slots", st.Unread))
	}
	if writeBack {
		if st.TemplatesSeeded && st.CanWriteBack(persist.SlotTemplates) {
			p.flushTemplatesLocked(ctx)
		}
		if (st.ScheduleSeeded || st.RemindersRebuilt) && st.CanWriteBack(persist.SlotSchedule, persist.SlotReminders) {
			p.flushScheduleLocked(ctx)
		}
	}

	p.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "load",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
		Fields: map[string]any{
			"templates":         p.lib.Len(),
			"items":             st.Schedule.ItemCount(),
			"templates_seeded":  st.TemplatesSeeded,
			"schedule_seeded":   st.ScheduleSeeded,
			"reminders_rebuilt": st.RemindersRebuilt,
		},
	})
}

// Reload discards in-memory state and reads every slot again. Used when
// another process has written the store, so it never writes: a rebuilt
// reminder index stays in memory until the next mutation.
func (p *Planner) Reload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadLocked(ctx, false)
}

// Reset deletes the stored state and reloads the seeds.
func (p *Planner) Reset(ctx context.Context) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.observe(ctx, "reset", nil, &err)()

	if err = p.adapter.Reset(ctx); err != nil {
		return err
	}
	p.loadLocked(ctx, true)
	return nil
}

func (p *Planner) flushTemplatesLocked(ctx context.Context) {
	if err := p.adapter.SaveTemplates(ctx, p.lib.All()); err != nil {
		p.log.WarnContext(ctx, "persisting templates failed", slog.String("slot", persist.SlotTemplates), slog.String("error", err.Error()))
	}
}

func (p *Planner) flushScheduleLocked(ctx context.Context) {
	if err := p.adapter.SaveSchedule(ctx, p.store.Snapshot(), p.reminders); err != nil {
		p.log.WarnContext(ctx, "persisting schedule failed", slog.String("slot", persist.SlotSchedule), slog.String("error", err.Error()))
	}
}

// observe returns a func that reports the use case when deferred. errp may be
// nil for use cases that cannot fail.
func (p *Planner) observe(ctx context.Context, name string, fields map[string]any, errp *error) func() {
	startedAt := time.Now().UTC()
	return func() {
		var err error
		if errp != nil {
			err = *errp
		}
		p.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}
}

// Reminders returns every reminder entry.
func (p *Planner) Reminders() []reminder.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reminders.Entries()
}

// RemindersForDay returns the reminder entries of one day bucket.
func (p *Planner) RemindersForDay(day string) []reminder.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reminders.ForDay(day)
}

// VerifyReminders checks the reminder index against the schedule.
func (p *Planner) VerifyReminders() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reminders.Verify(p.store.Snapshot())
}

// Snapshot returns a deep copy of the schedule.
func (p *Planner) Snapshot() domain.Schedule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Snapshot()
}
