package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekendly/weekendly/internal/domain"
)

func it(id, title, timeLabel, vibe string) domain.ScheduledItem {
	return domain.ScheduledItem{
		ID:        id,
		Activity:  domain.Activity{Title: title, Category: "Food", EstimatedDuration: "1h", Vibe: vibe},
		TimeLabel: timeLabel,
	}
}

func sample() domain.Schedule {
	s := domain.NewSchedule("sunday", "saturday")
	s.Days[0].Items = append(s.Days[0].Items, it("1", "Reading", "15:00", "Calm"))
	s.Days[1].Items = append(s.Days[1].Items,
		it("2", "Brunch", "11:00", "Relaxed"),
		it("3", "Picnic", "", "Happy"),
		it("4", "Hiking", "09:00", "Energetic"),
	)
	return s
}

func TestText(t *testing.T) {
	want := "saturday:\n" +
		"- All day: Picnic (Happy)\n" +
		"- 09:00: Hiking (Energetic)\n" +
		"- 11:00: Brunch (Relaxed)\n" +
		"\n" +
		"sunday:\n" +
		"- 15:00: Reading (Calm)\n"
	assert.Equal(t, want, Text(sample()))
}

func TestText_DoesNotMutate(t *testing.T) {
	s := sample()
	before := s.Clone()

	_ = Text(s)

	assert.Equal(t, before, s)
}

func TestText_EmptySchedule(t *testing.T) {
	assert.Empty(t, Text(domain.NewSchedule()))
	assert.Equal(t, "saturday:\n", Text(domain.NewSchedule("saturday")))
}

func TestJSON(t *testing.T) {
	at := time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)

	raw, err := JSON(sample(), at)
	require.NoError(t, err)

	var doc struct {
		GeneratedAt string                     `json:"generatedAt"`
		Schedule    map[string]json.RawMessage `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "2025-06-14T09:30:00Z", doc.GeneratedAt)
	assert.Len(t, doc.Schedule, 2)

	var back Snapshot
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, sample(), back.Schedule)
	assert.True(t, at.Equal(back.GeneratedAt))
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, 6, 14, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "weekendly-plan-2025-06-14.json", Filename(at))
}
