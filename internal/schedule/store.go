// Package schedule owns the day buckets and the ordered items inside them.
//
// Every exported method is atomic: it takes the store lock for its whole
// duration, so readers never see a half-applied change such as an item that
// is in two days at once or in none.
package schedule

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/weekendly/weekendly/internal/domain"
)

var (
	ErrDayExists   = errors.New("day already exists")
	ErrEmptyDayKey = errors.New("day key is required")
	ErrDayNotFound = errors.New("day not found")
	ErrEmptyTitle  = errors.New("item title is required")
)

// Store holds the schedule and applies mutations to it.
type Store struct {
	mu     sync.RWMutex
	sched  domain.Schedule
	newID  func() string
	issued map[string]struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the item id source, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New returns a store holding a deep copy of sched.
func New(sched domain.Schedule, opts ...Option) *Store {
	s := &Store{
		sched:  sched.Clone(),
		newID:  func() string { return "sch_" + uuid.NewString() },
		issued: sched.IDs(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddToDay copies src into a new item with a fresh id and appends it to day.
// The time label starts at the default and a blank vibe becomes the default
// vibe.
func (s *Store) AddToDay(day string, src domain.Activity) (domain.ScheduledItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.sched.IndexOf(day)
	if i < 0 {
		return domain.ScheduledItem{}, ErrDayNotFound
	}
	item := domain.ScheduledItem{
		ID:        s.freshID(),
		Activity:  src,
		TimeLabel: domain.DefaultTimeLabel,
	}
	item.Vibe = domain.CoalesceStr(src.Vibe, domain.DefaultVibe)
	s.sched.Days[i].Items = append(s.sched.Days[i].Items, item)
	return item, nil
}

// QuickAdd schedules an ad-hoc item that has no template behind it.
func (s *Store) QuickAdd(day, title string) (domain.ScheduledItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.ScheduledItem{}, ErrEmptyTitle
	}
	return s.AddToDay(day, domain.QuickAdd(title))
}

// RemoveFromDay deletes the item from day and returns it. Missing days or
// ids leave the store unchanged.
func (s *Store) RemoveFromDay(day, itemID string) (domain.ScheduledItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, j := s.locate(day, itemID)
	if j < 0 {
		return domain.ScheduledItem{}, false
	}
	item := s.sched.Days[d].Items[j]
	s.sched.Days[d].Items = slices.Delete(s.sched.Days[d].Items, j, j+1)
	return item, true
}

// UpdateItem merges p into the matching item and returns the result.
func (s *Store) UpdateItem(day, itemID string, p domain.ItemPatch) (domain.ScheduledItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, j := s.locate(day, itemID)
	if j < 0 {
		return domain.ScheduledItem{}, false
	}
	s.sched.Days[d].Items[j].Apply(p)
	return s.sched.Days[d].Items[j], true
}

// ReorderWithinDay moves the item at from to position to, clamped into the
// day's bounds. Every other item keeps its relative order. It reports whether
// the order changed; an out-of-range from is ignored.
func (s *Store) ReorderWithinDay(day string, from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.sched.IndexOf(day)
	if d < 0 {
		return false
	}
	return s.reorder(d, from, to)
}

// MoveUp swaps the item with its predecessor. The first item stays put.
func (s *Store) MoveUp(day, itemID string) bool {
	return s.shift(day, itemID, -1)
}

// MoveDown swaps the item with its successor. The last item stays put.
func (s *Store) MoveDown(day, itemID string) bool {
	return s.shift(day, itemID, +1)
}

func (s *Store) shift(day, itemID string, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, j := s.locate(day, itemID)
	if j < 0 {
		return false
	}
	return s.reorder(d, j, j+delta)
}

func (s *Store) reorder(d, from, to int) bool {
	items := s.sched.Days[d].Items
	if from < 0 || from >= len(items) {
		return false
	}
	to = max(0, min(to, len(items)-1))
	if from == to {
		return false
	}
	item := items[from]
	items = slices.Delete(items, from, from+1)
	s.sched.Days[d].Items = slices.Insert(items, to, item)
	return true
}

// TransferBetweenDays moves an item, unchanged, from one day to the end of
// another. Same-day transfers, unknown days and unknown items are no-ops.
func (s *Store) TransferBetweenDays(fromDay, toDay, itemID string) (domain.ScheduledItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	to := s.sched.IndexOf(toDay)
	if to < 0 {
		return domain.ScheduledItem{}, false
	}
	from, j := s.locate(fromDay, itemID)
	if j < 0 || from == to {
		return domain.ScheduledItem{}, false
	}
	item := s.sched.Days[from].Items[j]
	s.sched.Days[from].Items = slices.Delete(s.sched.Days[from].Items, j, j+1)
	s.sched.Days[to].Items = append(s.sched.Days[to].Items, item)
	return item, true
}

// AddDay appends an empty day. Keys are trimmed and must be unique ignoring
// case.
func (s *Store) AddDay(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyDayKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched.IndexOf(key) >= 0 {
		return ErrDayExists
	}
	s.sched.Days = append(s.sched.Days, domain.Day{Key: key, Items: []domain.ScheduledItem{}})
	return nil
}

// RemoveDay deletes a day together with its items and returns the items.
func (s *Store) RemoveDay(key string) ([]domain.ScheduledItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.sched.IndexOf(key)
	if d < 0 {
		return nil, false
	}
	removed := s.sched.Days[d].Items
	s.sched.Days = slices.Delete(s.sched.Days, d, d+1)
	return removed, true
}

// ClearDay empties one day, keeping its key, and returns the removed items.
func (s *Store) ClearDay(key string) ([]domain.ScheduledItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.sched.IndexOf(key)
	if d < 0 {
		return nil, false
	}
	removed := s.sched.Days[d].Items
	s.sched.Days[d].Items = []domain.ScheduledItem{}
	return removed, true
}

// ClearAll empties every day, keeping the keys, and returns the removed items.
func (s *Store) ClearAll() []domain.ScheduledItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []domain.ScheduledItem
	for d := range s.sched.Days {
		removed = append(removed, s.sched.Days[d].Items...)
		s.sched.Days[d].Items = []domain.ScheduledItem{}
	}
	return removed
}

// Find returns the item with the given id and the day holding it.
func (s *Store) Find(itemID string) (string, domain.ScheduledItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.sched.Days {
		for _, it := range d.Items {
			if it.ID == itemID {
				return d.Key, it, true
			}
		}
	}
	return "", domain.ScheduledItem{}, false
}

// HasDay reports whether a day with the given key exists.
func (s *Store) HasDay(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sched.IndexOf(key) >= 0
}

// DayKey returns the stored spelling of the day matching key.
func (s *Store) DayKey(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.sched.IndexOf(key)
	if i < 0 {
		return "", false
	}
	return s.sched.Days[i].Key, true
}

// Days returns the day keys in order.
func (s *Store) Days() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sched.DayKeys()
}

// Items returns a copy of the day's items.
func (s *Store) Items(day string) ([]domain.ScheduledItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.sched.Items(day)
	if !ok {
		return nil, false
	}
	return slices.Clone(items), true
}

// Snapshot returns a deep copy of the current schedule.
func (s *Store) Snapshot() domain.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sched.Clone()
}

// locate returns the day index and item index, or -1 for the item index when
// either is missing.
func (s *Store) locate(day, itemID string) (int, int) {
	d := s.sched.IndexOf(day)
	if d < 0 {
		return -1, -1
	}
	j := slices.IndexFunc(s.sched.Days[d].Items, func(it domain.ScheduledItem) bool {
		return it.ID == itemID
	})
	return d, j
}

func (s *Store) freshID() string {
	for {
		id := s.newID()
		if _, used := s.issued[id]; !used {
			s.issued[id] = struct{}{}
			return id
		}
	}
}
