// Package persist moves the template library, the schedule and the reminder
// index in and out of named storage slots. Loading never fails: a slot that
// is missing, unusable or unreadable is replaced by the seed value.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/reminder"
	"github.com/weekendly/weekendly/internal/storage"
)

// Slot keys, one per top-level entity.
const (
	SlotTemplates = "wg_activities"
	SlotSchedule  = "wg_schedule"
	SlotReminders = "wg_reminders"
)

var errNotSequence = errors.New("templates must be a sequence")

// Adapter reads and writes planner state through a KV store.
type Adapter struct {
	kv  storage.KV
	log *slog.Logger
}

func New(kv storage.KV, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{kv: kv, log: log}
}

// State is everything restored at startup. The Seeded flags report which
// slots fell back to their seed; RemindersRebuilt reports that the stored
// index was missing or disagreed with the schedule. Unread lists the slots
// whose read failed: their fallback lives in memory only and the slot must
// not be written over.
type State struct {
	Templates []domain.ActivityTemplate
	Schedule  domain.Schedule
	Reminders *reminder.Index

	TemplatesSeeded  bool
	ScheduleSeeded   bool
	RemindersRebuilt bool
	Unread           []string
}

// CanWriteBack reports whether the fallback for each of keys may replace
// what is stored.
func (s State) CanWriteBack(keys ...string) bool {
	for _, k := range keys {
		if slices.Contains(s.Unread, k) {
			return false
		}
	}
	return true
}

type slotStatus int

const (
	slotPresent slotStatus = iota
	slotAbsent
	slotUnusable
	slotUnreadable
)

// Load restores every slot.
func (a *Adapter) Load(ctx context.Context) State {
	var st State
	var ts, ss, rs slotStatus
	st.Templates, ts = a.loadTemplates(ctx)
	st.Schedule, ss = a.loadSchedule(ctx)
	st.Reminders, rs = a.loadReminders(ctx, st.Schedule)

	st.TemplatesSeeded = ts != slotPresent
	st.ScheduleSeeded = ss != slotPresent
	st.RemindersRebuilt = rs != slotPresent
	for key, status := range map[string]slotStatus{SlotTemplates: ts, SlotSchedule: ss, SlotReminders: rs} {
		if status == slotUnreadable {
			st.Unread = append(st.Unread, key)
		}
	}
	slices.Sort(st.Unread)
	return st
}

// LoadTemplates returns the stored library, or the seed templates and true.
func (a *Adapter) LoadTemplates(ctx context.Context) ([]domain.ActivityTemplate, bool) {
	ts, status := a.loadTemplates(ctx)
	return ts, status != slotPresent
}

// LoadSchedule returns the stored schedule, or the seed schedule and true.
func (a *Adapter) LoadSchedule(ctx context.Context) (domain.Schedule, bool) {
	s, status := a.loadSchedule(ctx)
	return s, status != slotPresent
}

// LoadReminders returns the stored index when it agrees with s. Otherwise the
// index is rebuilt from s and the second result is true.
func (a *Adapter) LoadReminders(ctx context.Context, s domain.Schedule) (*reminder.Index, bool) {
	idx, status := a.loadReminders(ctx, s)
	return idx, status != slotPresent
}

func (a *Adapter) loadTemplates(ctx context.Context) ([]domain.ActivityTemplate, slotStatus) {
	raw, status := a.read(ctx, SlotTemplates)
	if status != slotPresent {
		return domain.SeedTemplates(), status
	}
	ts, err := DecodeTemplates(raw)
	if err != nil {
		a.log.Warn("stored templates unusable, using seed", slog.String("slot", SlotTemplates), slog.String("error", err.Error()))
		return domain.SeedTemplates(), slotUnusable
	}
	return ts, slotPresent
}

func (a *Adapter) loadSchedule(ctx context.Context) (domain.Schedule, slotStatus) {
	raw, status := a.read(ctx, SlotSchedule)
	if status != slotPresent {
		return domain.SeedSchedule(), status
	}
	s, err := DecodeSchedule(raw)
	if err != nil {
		a.log.Warn("stored schedule unusable, using seed", slog.String("slot", SlotSchedule), slog.String("error", err.Error()))
		return domain.SeedSchedule(), slotUnusable
	}
	return s, slotPresent
}

func (a *Adapter) loadReminders(ctx context.Context, s domain.Schedule) (*reminder.Index, slotStatus) {
	raw, status := a.read(ctx, SlotReminders)
	if status != slotPresent {
		return reminder.Build(s), status
	}
	idx := reminder.NewIndex()
	if err := json.Unmarshal(raw, idx); err != nil {
		a.log.Warn("stored reminders unusable, rebuilding", slog.String("slot", SlotReminders), slog.String("error", err.Error()))
		return reminder.Build(s), slotUnusable
	}
	if err := idx.Verify(s); err != nil {
		a.log.Warn("stored reminders out of sync, rebuilding", slog.String("slot", SlotReminders), slog.String("error", err.Error()))
		return reminder.Build(s), slotUnusable
	}
	return idx, slotPresent
}

func (a *Adapter) read(ctx context.Context, key string) ([]byte, slotStatus) {
	raw, err := a.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, slotAbsent
	}
	if err != nil {
		a.log.Warn("reading slot failed, keeping it and using seed in memory", slog.String("slot", key), slog.String("error", err.Error()))
		return nil, slotUnreadable
	}
	return raw, slotPresent
}

// SaveTemplates writes the full library.
func (a *Adapter) SaveTemplates(ctx context.Context, ts []domain.ActivityTemplate) error {
	raw, err := EncodeTemplates(ts)
	if err != nil {
		return err
	}
	if err := a.kv.Put(ctx, SlotTemplates, raw); err != nil {
		return fmt.Errorf("saving templates: %w", err)
	}
	return nil
}

// SaveSchedule writes the schedule together with its reminder index.
func (a *Adapter) SaveSchedule(ctx context.Context, s domain.Schedule, idx *reminder.Index) error {
	sched, err := EncodeSchedule(s)
	if err != nil {
		return err
	}
	entries := map[string][]byte{SlotSchedule: sched}
	if idx != nil {
		rem, err := json.Marshal(idx)
		if err != nil {
			return fmt.Errorf("encoding reminders: %w", err)
		}
		entries[SlotReminders] = rem
	}
	if err := a.kv.PutMany(ctx, entries); err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	return nil
}

// Reset deletes every slot so the next Load yields the seeds.
func (a *Adapter) Reset(ctx context.Context) error {
	for _, key := range []string{SlotTemplates, SlotSchedule, SlotReminders} {
		if err := a.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("resetting %s: %w", key, err)
		}
	}
	return nil
}

// EncodeTemplates serializes a library. A nil slice encodes as [].
func EncodeTemplates(ts []domain.ActivityTemplate) ([]byte, error) {
	if ts == nil {
		ts = []domain.ActivityTemplate{}
	}
	raw, err := json.Marshal(ts)
	if err != nil {
		return nil, fmt.Errorf("encoding templates: %w", err)
	}
	return raw, nil
}

// DecodeTemplates parses a serialized library. Anything other than an array
// of templates with distinct non-empty ids is rejected.
func DecodeTemplates(raw []byte) ([]domain.ActivityTemplate, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotSequence
	}
	var ts []domain.ActivityTemplate
	if err := json.Unmarshal(trimmed, &ts); err != nil {
		return nil, fmt.Errorf("decoding templates: %w", err)
	}
	seen := make(map[string]bool, len(ts))
	for _, t := range ts {
		if t.ID == "" {
			return nil, fmt.Errorf("template %q has no id", t.Title)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return ts, nil
}

// EncodeSchedule serializes a schedule as a day-keyed mapping.
func EncodeSchedule(s domain.Schedule) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding schedule: %w", err)
	}
	return raw, nil
}

// DecodeSchedule parses a serialized schedule and checks its invariants.
func DecodeSchedule(raw []byte) (domain.Schedule, error) {
	var s domain.Schedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Schedule{}, fmt.Errorf("decoding schedule: %w", err)
	}
	if err := s.Validate(); err != nil {
		return domain.Schedule{}, fmt.Errorf("invalid schedule: %w", err)
	}
	return s, nil
}
