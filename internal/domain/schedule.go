package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotMapping is returned when a serialized schedule is not a JSON object.
var ErrNotMapping = errors.New("schedule must be a mapping of day key to items")

// Day is a named, ordered bucket of scheduled items.
type Day struct {
	Key   string
	Items []ScheduledItem
}

// Schedule maps day keys to ordered item sequences. Days keep the order in
// which they were added; the JSON form is an object whose key order matches.
type Schedule struct {
	Days []Day
}

// NewSchedule returns a schedule with an empty bucket for each key.
func NewSchedule(keys ...string) Schedule {
	s := Schedule{Days: make([]Day, 0, len(keys))}
	for _, k := range keys {
		s.Days = append(s.Days, Day{Key: k, Items: []ScheduledItem{}})
	}
	return s
}

// DayKeys returns the day keys in insertion order.
func (s Schedule) DayKeys() []string {
	keys := make([]string, len(s.Days))
	for i, d := range s.Days {
		keys[i] = d.Key
	}
	return keys
}

// IndexOf returns the position of the day matching key, or -1. An exact match
// wins; otherwise the comparison is case-insensitive, which is unambiguous
// because day keys are unique under case folding.
func (s Schedule) IndexOf(key string) int {
	fold := -1
	for i, d := range s.Days {
		if d.Key == key {
			return i
		}
		if fold < 0 && strings.EqualFold(d.Key, key) {
			fold = i
		}
	}
	return fold
}

// Items returns the items of the named day and whether the day exists.
func (s Schedule) Items(key string) ([]ScheduledItem, bool) {
	i := s.IndexOf(key)
	if i < 0 {
		return nil, false
	}
	return s.Days[i].Items, true
}

// ItemCount returns the number of items across all days.
func (s Schedule) ItemCount() int {
	n := 0
	for _, d := range s.Days {
		n += len(d.Items)
	}
	return n
}

// IDs returns the set of scheduled item ids across all days.
func (s Schedule) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, s.ItemCount())
	for _, d := range s.Days {
		for _, it := range d.Items {
			ids[it.ID] = struct{}{}
		}
	}
	return ids
}

// Clone returns a deep copy that shares no slices with s.
func (s Schedule) Clone() Schedule {
	out := Schedule{Days: make([]Day, len(s.Days))}
	for i, d := range s.Days {
		items := make([]ScheduledItem, len(d.Items))
		copy(items, d.Items)
		out.Days[i] = Day{Key: d.Key, Items: items}
	}
	return out
}

// Validate checks the structural invariants: non-empty day keys that are
// unique ignoring case, and non-empty item ids unique across the schedule.
func (s Schedule) Validate() error {
	seenDays := make(map[string]bool, len(s.Days))
	seenIDs := make(map[string]string)
	for _, d := range s.Days {
		if strings.TrimSpace(d.Key) == "" {
			return fmt.Errorf("empty day key")
		}
		folded := strings.ToLower(d.Key)
		if seenDays[folded] {
			return fmt.Errorf("duplicate day key %q", d.Key)
		}
		seenDays[folded] = true
		for _, it := range d.Items {
			if it.ID == "" {
				return fmt.Errorf("item without id in day %q", d.Key)
			}
			if other, ok := seenIDs[it.ID]; ok {
				return fmt.Errorf("item id %q appears in %q and %q", it.ID, other, d.Key)
			}
			seenIDs[it.ID] = d.Key
		}
	}
	return nil
}

// MarshalJSON writes the schedule as an object keyed by day, preserving day
// order. Empty days encode as [] rather than null.
func (s Schedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range s.Days {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		items := d.Items
		if items == nil {
			items = []ScheduledItem{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("encoding day %q: %w", d.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by day, keeping the document's key
// order. Anything other than an object of arrays is rejected.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading schedule: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotMapping
	}

	var days []Day
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading day key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return ErrNotMapping
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("reading day %q: %w", key, err)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			return fmt.Errorf("day %q: items must be a sequence", key)
		}
		items := []ScheduledItem{}
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decoding day %q: %w", key, err)
		}
		days = append(days, Day{Key: key, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("closing schedule: %w", err)
	}

	if days == nil {
		days = []Day{}
	}
	s.Days = days
	return nil
}
