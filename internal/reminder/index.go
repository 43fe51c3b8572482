// Package reminder keeps the derived reminder index: one entry per scheduled
// item recording which day it sits in and when. The index carries no state of
// its own and can always be rebuilt from the schedule.
package reminder

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/weekendly/weekendly/internal/domain"
)

// Entry is the reminder for one scheduled item.
type Entry struct {
	ItemID    string `json:"itemId"`
	Day       string `json:"day"`
	Title     string `json:"title"`
	TimeLabel string `json:"timeLabel"`
}

// Index maps scheduled item ids to their reminder entries.
type Index struct {
	entries map[string]Entry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Build returns an index consistent with s.
func Build(s domain.Schedule) *Index {
	idx := NewIndex()
	idx.Sync(s)
	return idx
}

func entryFor(day string, it domain.ScheduledItem) Entry {
	return Entry{ItemID: it.ID, Day: day, Title: it.Title, TimeLabel: it.TimeLabel}
}

// OnAdd records an item newly placed in day.
func (x *Index) OnAdd(day string, it domain.ScheduledItem) {
	x.entries[it.ID] = entryFor(day, it)
}

// OnRemove forgets the given item ids.
func (x *Index) OnRemove(ids ...string) {
	for _, id := range ids {
		delete(x.entries, id)
	}
}

// OnUpdate refreshes the title and time of an item, keeping its day.
func (x *Index) OnUpdate(it domain.ScheduledItem) {
	e, ok := x.entries[it.ID]
	if !ok {
		return
	}
	e.Title = it.Title
	e.TimeLabel = it.TimeLabel
	x.entries[it.ID] = e
}

// OnTransfer moves an item's entry to toDay.
func (x *Index) OnTransfer(toDay string, it domain.ScheduledItem) {
	x.entries[it.ID] = entryFor(toDay, it)
}

// Sync replaces the contents of the index with entries derived from s.
func (x *Index) Sync(s domain.Schedule) {
	x.entries = make(map[string]Entry, s.ItemCount())
	for _, d := range s.Days {
		for _, it := range d.Items {
			x.entries[it.ID] = entryFor(d.Key, it)
		}
	}
}

// Verify reports the first difference between the index and what s implies.
func (x *Index) Verify(s domain.Schedule) error {
	want := Build(s)
	if len(want.entries) != len(x.entries) {
		return fmt.Errorf("index holds %d entries, schedule has %d items", len(x.entries), len(want.entries))
	}
	for id, w := range want.entries {
		got, ok := x.entries[id]
		if !ok {
			return fmt.Errorf("item %s missing from index", id)
		}
		if got != w {
			return fmt.Errorf("item %s: index has %+v, schedule implies %+v", id, got, w)
		}
	}
	return nil
}

// Get returns the entry for an item id.
func (x *Index) Get(id string) (Entry, bool) {
	e, ok := x.entries[id]
	return e, ok
}

func (x *Index) Len() int { return len(x.entries) }

// Entries returns every entry ordered by day, then time, then item id.
func (x *Index) Entries() []Entry {
	out := make([]Entry, 0, len(x.entries))
	for _, e := range x.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.Day, b.Day),
			cmp.Compare(a.TimeLabel, b.TimeLabel),
			cmp.Compare(a.ItemID, b.ItemID),
		)
	})
	return out
}

// ForDay returns the entries of the day matching key case-insensitively,
// ordered by time. Entries with no time sort first.
func (x *Index) ForDay(key string) []Entry {
	var out []Entry
	for _, e := range x.Entries() {
		if strings.EqualFold(e.Day, key) {
			out = append(out, e)
		}
	}
	return out
}

// MarshalJSON writes the index as an ordered array of entries.
func (x *Index) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.Entries())
}

// UnmarshalJSON reads an array of entries. Entries without an item id are
// rejected.
func (x *Index) UnmarshalJSON(data []byte) error {
	var list []Entry
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("reminder index must be a sequence")
	}
	entries := make(map[string]Entry, len(list))
	for _, e := range list {
		if e.ItemID == "" {
			return fmt.Errorf("reminder entry without item id")
		}
		entries[e.ItemID] = e
	}
	x.entries = entries
	return nil
}
