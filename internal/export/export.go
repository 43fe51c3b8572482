// Package export renders read-only views of a schedule for sharing.
package export

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/weekendly/weekendly/internal/domain"
)

// AllDay labels items that have no time.
const AllDay = "All day"

// Snapshot is the exported JSON document.
type Snapshot struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Schedule    domain.Schedule `json:"schedule"`
}

// JSON returns the indented snapshot document for s stamped with at.
func JSON(s domain.Schedule, at time.Time) ([]byte, error) {
	raw, err := json.MarshalIndent(Snapshot{GeneratedAt: at.UTC(), Schedule: s}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return append(raw, '\n'), nil
}

// Filename returns the default export file name for the date of at.
func Filename(at time.Time) string {
	return "weekendly-plan-" + at.UTC().Format(time.DateOnly) + ".json"
}

// Text renders s as plain text: days in key order, each followed by its
// items sorted by time label.
func Text(s domain.Schedule) string {
	var b strings.Builder
	WriteText(&b, s)
	return b.String()
}

// WriteText writes the Text rendering of s to w.
func WriteText(w io.Writer, s domain.Schedule) {
	days := slices.Clone(s.Days)
	slices.SortStableFunc(days, func(a, b domain.Day) int { return cmp.Compare(a.Key, b.Key) })

	for i, d := range days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", d.Key)
		for _, it := range SortedItems(d.Items) {
			fmt.Fprintf(w, "- %s: %s (%s)\n", TimeOrAllDay(it.TimeLabel), it.Title, it.Vibe)
		}
	}
}

// SortedItems returns a copy of items ordered by time label. Items without a
// time come first; ties keep their schedule order.
func SortedItems(items []domain.ScheduledItem) []domain.ScheduledItem {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b domain.ScheduledItem) int {
		return cmp.Compare(a.TimeLabel, b.TimeLabel)
	})
	return out
}

// TimeOrAllDay returns label, or AllDay when it is empty.
func TimeOrAllDay(label string) string {
	if label == "" {
		return AllDay
	}
	return label
}
