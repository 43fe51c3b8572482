package dragdrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/schedule"
)

func newTarget(t *testing.T) *schedule.Store {
	t.Helper()
	return schedule.New(domain.NewSchedule("saturday", "sunday"))
}

func mustEncode(t *testing.T, p Payload) []byte {
	t.Helper()
	raw, err := Encode(p)
	require.NoError(t, err)
	return raw
}

func TestDrop_TemplateAddsCopy(t *testing.T) {
	s := newTarget(t)

	out := Drop(s, "sunday", mustEncode(t, FromTemplate(hiking)))
	require.True(t, out.Applied, out.Reason)
	assert.Equal(t, KindTemplate, out.Kind)
	assert.NotEqual(t, hiking.ID, out.Item.ID)
	assert.Equal(t, hiking.Activity, out.Item.Activity)
	assert.Equal(t, "09:00", out.Item.TimeLabel)

	items, _ := s.Items("sunday")
	assert.Equal(t, []domain.ScheduledItem{out.Item}, items)
}

func TestDrop_ItemTransfers(t *testing.T) {
	s := newTarget(t)
	item, err := s.AddToDay("saturday", hiking.Activity)
	require.NoError(t, err)

	out := Drop(s, "sunday", mustEncode(t, FromItem("saturday", item.ID)))
	require.True(t, out.Applied, out.Reason)
	assert.Equal(t, item, out.Item)
	assert.Equal(t, "saturday", out.FromDay)
	assert.Equal(t, "sunday", out.ToDay)

	sat, _ := s.Items("saturday")
	sun, _ := s.Items("sunday")
	assert.Empty(t, sat)
	assert.Equal(t, []domain.ScheduledItem{item}, sun)
}

func TestDrop_NoopCases(t *testing.T) {
	s := newTarget(t)
	item, err := s.AddToDay("saturday", hiking.Activity)
	require.NoError(t, err)
	before := s.Snapshot()

	cases := map[string]struct {
		day string
		raw []byte
	}{
		"garbage":        {"sunday", []byte("{{{")},
		"empty":          {"sunday", nil},
		"outside days":   {"monday", mustEncode(t, FromTemplate(hiking))},
		"same day":       {"saturday", mustEncode(t, FromItem("saturday", item.ID))},
		"vanished item":  {"sunday", mustEncode(t, FromItem("saturday", "gone"))},
		"wrong day":      {"saturday", mustEncode(t, FromItem("sunday", item.ID))},
		"unknown source": {"sunday", mustEncode(t, FromItem("friday", item.ID))},
	}
	for name, tc := range cases {
		out := Drop(s, tc.day, tc.raw)
		assert.False(t, out.Applied, name)
		assert.NotEmpty(t, out.Reason, name)
		assert.Equal(t, before, s.Snapshot(), name)
	}
}

func TestApply_InvalidPayload(t *testing.T) {
	s := newTarget(t)
	out := Apply(s, "saturday", Payload{Kind: KindTemplate})
	assert.False(t, out.Applied)
	assert.Equal(t, 0, s.Snapshot().ItemCount())
}

func TestDrop_SameDayIgnoresCase(t *testing.T) {
	s := newTarget(t)
	item, err := s.AddToDay("saturday", hiking.Activity)
	require.NoError(t, err)
	before := s.Snapshot()

	out := Drop(s, "saturday", mustEncode(t, FromItem("Saturday", item.ID)))
	assert.False(t, out.Applied)
	assert.Equal(t, "dropped on its own day", out.Reason)
	assert.Equal(t, before, s.Snapshot())
}
