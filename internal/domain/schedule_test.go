package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brunchItem(id string) ScheduledItem {
	return ScheduledItem{
		ID:        id,
		Activity:  Activity{Title: "Brunch", Category: "Food", EstimatedDuration: "1.5h", Vibe: "Relaxed"},
		TimeLabel: "09:00",
	}
}

func TestScheduleMarshal_PreservesDayOrder(t *testing.T) {
	s := NewSchedule("sunday", "saturday", "monday")
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"sunday":[],"saturday":[],"monday":[]}`, string(data))
}

func TestScheduleMarshal_NilItemsEncodeAsEmptyArray(t *testing.T) {
	s := Schedule{Days: []Day{{Key: "saturday"}}}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"saturday":[]}`, string(data))
}

func TestScheduleMarshal_ItemFieldNames(t *testing.T) {
	s := NewSchedule("saturday")
	s.Days[0].Items = append(s.Days[0].Items, brunchItem("sch_1"))
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"saturday":[{"id":"sch_1","title":"Brunch","category":"Food","estimatedDuration":"1.5h","vibe":"Relaxed","timeLabel":"09:00"}]}`, string(data))
}

func TestScheduleRoundTrip(t *testing.T) {
	s := NewSchedule("saturday", "sunday", "Holiday")
	s.Days[0].Items = append(s.Days[0].Items, brunchItem("x1"), brunchItem("x2"))
	s.Days[2].Items = append(s.Days[2].Items, brunchItem("x3"))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got Schedule
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s, got)
}

func TestScheduleUnmarshal_RejectsWrongShapes(t *testing.T) {
	cases := map[string]string{
		"array":        `[{"saturday":[]}]`,
		"string":       `"not a schedule"`,
		"null":         `null`,
		"day not list": `{"saturday":{"id":"x"}}`,
		"day null":     `{"saturday":null}`,
		"bad item":     `{"saturday":[1,2]}`,
	}
	for name, input := range cases {
		var s Schedule
		assert.Error(t, json.Unmarshal([]byte(input), &s), name)
	}
}

func TestScheduleUnmarshal_EmptyObject(t *testing.T) {
	var s Schedule
	require.NoError(t, json.Unmarshal([]byte(`{}`), &s))
	assert.NotNil(t, s.Days)
	assert.Empty(t, s.Days)
}

func TestScheduleValidate(t *testing.T) {
	ok := NewSchedule("saturday", "sunday")
	ok.Days[0].Items = []ScheduledItem{brunchItem("a")}
	ok.Days[1].Items = []ScheduledItem{brunchItem("b")}
	assert.NoError(t, ok.Validate())

	dupID := ok.Clone()
	dupID.Days[1].Items[0].ID = "a"
	assert.ErrorContains(t, dupID.Validate(), `"a"`)

	emptyID := ok.Clone()
	emptyID.Days[0].Items[0].ID = ""
	assert.Error(t, emptyID.Validate())

	dupDay := NewSchedule("saturday", "Saturday")
	assert.ErrorContains(t, dupDay.Validate(), "duplicate day")

	blankDay := NewSchedule(" ")
	assert.Error(t, blankDay.Validate())
}

func TestScheduleIndexOf_PrefersExactThenFold(t *testing.T) {
	s := NewSchedule("saturday", "Sunday")
	assert.Equal(t, 0, s.IndexOf("saturday"))
	assert.Equal(t, 1, s.IndexOf("sunday"))
	assert.Equal(t, 0, s.IndexOf("SATURDAY"))
	assert.Equal(t, -1, s.IndexOf("monday"))
}

func TestScheduleClone_IsDeep(t *testing.T) {
	s := NewSchedule("saturday")
	s.Days[0].Items = append(s.Days[0].Items, brunchItem("a"))

	c := s.Clone()
	c.Days[0].Items[0].TimeLabel = "12:00"
	c.Days[0].Key = "changed"

	assert.Equal(t, "09:00", s.Days[0].Items[0].TimeLabel)
	assert.Equal(t, "saturday", s.Days[0].Key)
}

func TestScheduleIDsAndCount(t *testing.T) {
	s := NewSchedule("saturday", "sunday")
	s.Days[0].Items = []ScheduledItem{brunchItem("a"), brunchItem("b")}
	s.Days[1].Items = []ScheduledItem{brunchItem("c")}

	assert.Equal(t, 3, s.ItemCount())
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}, "c": {}}, s.IDs())
	assert.Equal(t, []string{"saturday", "sunday"}, s.DayKeys())
}
