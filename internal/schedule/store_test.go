package schedule

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekendly/weekendly/internal/domain"
)

var brunch = domain.Activity{Title: "Brunch", Category: "Food", EstimatedDuration: "1.5h", Vibe: "Relaxed"}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("sch_%d", n)
	}
}

func newWeekend(t *testing.T) *Store {
	t.Helper()
	return New(domain.NewSchedule("saturday", "sunday"), WithIDGenerator(seqIDs()))
}

func ids(items []domain.ScheduledItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func dayIDs(t *testing.T, s *Store, day string) []string {
	t.Helper()
	items, ok := s.Items(day)
	require.True(t, ok, "day %q should exist", day)
	return ids(items)
}

func TestAddThenTransfer_Scenario(t *testing.T) {
	s := newWeekend(t)

	item, err := s.AddToDay("saturday", brunch)
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "09:00", item.TimeLabel)
	assert.Equal(t, "Relaxed", item.Vibe)
	assert.Equal(t, brunch, item.Activity)

	sat, _ := s.Items("saturday")
	require.Len(t, sat, 1)
	assert.Equal(t, item, sat[0])

	moved, ok := s.TransferBetweenDays("saturday", "sunday", item.ID)
	require.True(t, ok)
	assert.Equal(t, item, moved)

	sat, _ = s.Items("saturday")
	sun, _ := s.Items("sunday")
	assert.Empty(t, sat)
	require.Len(t, sun, 1)
	assert.Equal(t, item, sun[0])
}

func TestAddToDay_DefaultsBlankVibe(t *testing.T) {
	s := newWeekend(t)
	item, err := s.AddToDay("sunday", domain.Activity{Title: "Nap"})
	require.NoError(t, err)
	assert.Equal(t, "Neutral", item.Vibe)
}

func TestAddToDay_UnknownDay(t *testing.T) {
	s := newWeekend(t)
	_, err := s.AddToDay("monday", brunch)
	assert.ErrorIs(t, err, ErrDayNotFound)
	assert.Equal(t, 0, s.Snapshot().ItemCount())
}

func TestAddToDay_AppendsInOrder(t *testing.T) {
	s := newWeekend(t)
	for i := 0; i < 3; i++ {
		_, err := s.AddToDay("saturday", brunch)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"sch_1", "sch_2", "sch_3"}, dayIDs(t, s, "saturday"))
}

func TestAddToDay_NeverReusesIssuedIDs(t *testing.T) {
	gen := []string{"dup", "dup", "dup", "fresh"}
	s := New(domain.NewSchedule("saturday"), WithIDGenerator(func() string {
		id := gen[0]
		gen = gen[1:]
		return id
	}))

	first, err := s.AddToDay("saturday", brunch)
	require.NoError(t, err)
	_, ok := s.RemoveFromDay("saturday", first.ID)
	require.True(t, ok)

	second, err := s.AddToDay("saturday", brunch)
	require.NoError(t, err)
	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestNew_ExistingIDsAreReserved(t *testing.T) {
	sched := domain.NewSchedule("saturday")
	sched.Days[0].Items = []domain.ScheduledItem{{ID: "sch_1", Activity: brunch}}
	s := New(sched, WithIDGenerator(seqIDs()))

	item, err := s.AddToDay("saturday", brunch)
	require.NoError(t, err)
	assert.Equal(t, "sch_2", item.ID)
}

func TestQuickAdd(t *testing.T) {
	s := newWeekend(t)
	item, err := s.QuickAdd("sunday", "  Farmers Market ")
	require.NoError(t, err)
	assert.Equal(t, "Farmers Market", item.Title)
	assert.Equal(t, "Custom", item.Category)
	assert.Equal(t, "1h", item.EstimatedDuration)
	assert.Equal(t, "Neutral", item.Vibe)

	_, err = s.QuickAdd("sunday", " ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestCopyIndependence(t *testing.T) {
	src := brunch
	s := newWeekend(t)
	item, err := s.AddToDay("saturday", src)
	require.NoError(t, err)

	src.Title = "Dinner"
	got, _ := s.Items("saturday")
	assert.Equal(t, "Brunch", got[0].Title)

	_, ok := s.UpdateItem("saturday", item.ID, domain.ItemPatch{Vibe: domain.StrPtr("Rowdy")})
	require.True(t, ok)
	assert.Equal(t, "Relaxed", brunch.Vibe)
}

func TestRemoveFromDay(t *testing.T) {
	s := newWeekend(t)
	a, _ := s.AddToDay("saturday", brunch)
	b, _ := s.AddToDay("saturday", brunch)

	removed, ok := s.RemoveFromDay("saturday", a.ID)
	require.True(t, ok)
	assert.Equal(t, a, removed)
	assert.Equal(t, []string{b.ID}, dayIDs(t, s, "saturday"))

	_, ok = s.RemoveFromDay("saturday", a.ID)
	assert.False(t, ok)
	_, ok = s.RemoveFromDay("sunday", b.ID)
	assert.False(t, ok)
	_, ok = s.RemoveFromDay("monday", b.ID)
	assert.False(t, ok)
	assert.Equal(t, []string{b.ID}, dayIDs(t, s, "saturday"))
}

func TestUpdateItem(t *testing.T) {
	s := newWeekend(t)
	item, _ := s.AddToDay("saturday", brunch)

	got, ok := s.UpdateItem("saturday", item.ID, domain.ItemPatch{
		TimeLabel:         domain.StrPtr("11:30"),
		EstimatedDuration: domain.StrPtr("2h"),
	})
	require.True(t, ok)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, "11:30", got.TimeLabel)
	assert.Equal(t, "2h", got.EstimatedDuration)
	assert.Equal(t, "Brunch", got.Title)
	assert.Equal(t, "Food", got.Category)

	_, ok = s.UpdateItem("sunday", item.ID, domain.ItemPatch{TimeLabel: domain.StrPtr("x")})
	assert.False(t, ok)
	stored, _ := s.Items("saturday")
	assert.Equal(t, "11:30", stored[0].TimeLabel)
}

func TestReorderWithinDay(t *testing.T) {
	s := newWeekend(t)
	for i := 0; i < 4; i++ {
		_, _ = s.AddToDay("saturday", brunch)
	}

	assert.True(t, s.ReorderWithinDay("saturday", 0, 2))
	assert.Equal(t, []string{"sch_2", "sch_3", "sch_1", "sch_4"}, dayIDs(t, s, "saturday"))

	assert.True(t, s.ReorderWithinDay("saturday", 3, 0))
	assert.Equal(t, []string{"sch_4", "sch_2", "sch_3", "sch_1"}, dayIDs(t, s, "saturday"))

	// Target index is clamped.
	assert.True(t, s.ReorderWithinDay("saturday", 0, 99))
	assert.Equal(t, []string{"sch_2", "sch_3", "sch_1", "sch_4"}, dayIDs(t, s, "saturday"))
	assert.True(t, s.ReorderWithinDay("saturday", 3, -5))
	assert.Equal(t, []string{"sch_4", "sch_2", "sch_3", "sch_1"}, dayIDs(t, s, "saturday"))

	assert.False(t, s.ReorderWithinDay("saturday", 1, 1))
	assert.False(t, s.ReorderWithinDay("saturday", 7, 0))
	assert.False(t, s.ReorderWithinDay("saturday", -1, 0))
	assert.False(t, s.ReorderWithinDay("monday", 0, 1))
	assert.False(t, s.ReorderWithinDay("sunday", 0, 0))
}

func TestMoveUpDown(t *testing.T) {
	s := newWeekend(t)
	a, _ := s.AddToDay("saturday", brunch)
	b, _ := s.AddToDay("saturday", brunch)
	c, _ := s.AddToDay("saturday", brunch)

	assert.False(t, s.MoveUp("saturday", a.ID))
	assert.False(t, s.MoveDown("saturday", c.ID))

	assert.True(t, s.MoveUp("saturday", c.ID))
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, dayIDs(t, s, "saturday"))

	assert.True(t, s.MoveDown("saturday", a.ID))
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, dayIDs(t, s, "saturday"))

	assert.False(t, s.MoveUp("saturday", "missing"))
}

func TestMoveOnlyItemIsNoop(t *testing.T) {
	s := newWeekend(t)
	a, _ := s.AddToDay("sunday", brunch)
	assert.False(t, s.MoveUp("sunday", a.ID))
	assert.False(t, s.MoveDown("sunday", a.ID))
	assert.Equal(t, []string{a.ID}, dayIDs(t, s, "sunday"))
}

func TestTransfer_Noops(t *testing.T) {
	s := newWeekend(t)
	a, _ := s.AddToDay("saturday", brunch)
	before := s.Snapshot()

	_, ok := s.TransferBetweenDays("saturday", "saturday", a.ID)
	assert.False(t, ok, "same day")
	_, ok = s.TransferBetweenDays("saturday", "SATURDAY", a.ID)
	assert.False(t, ok, "same day, different case")
	_, ok = s.TransferBetweenDays("sunday", "saturday", a.ID)
	assert.False(t, ok, "item not in source day")
	_, ok = s.TransferBetweenDays("saturday", "monday", a.ID)
	assert.False(t, ok, "unknown target")
	_, ok = s.TransferBetweenDays("monday", "sunday", a.ID)
	assert.False(t, ok, "unknown source")
	_, ok = s.TransferBetweenDays("saturday", "sunday", "missing")
	assert.False(t, ok, "unknown item")

	assert.Equal(t, before, s.Snapshot())
}

func TestAddDay(t *testing.T) {
	s := newWeekend(t)

	require.NoError(t, s.AddDay(" monday "))
	assert.Equal(t, []string{"saturday", "sunday", "monday"}, s.Days())

	before := s.Snapshot()
	assert.ErrorIs(t, s.AddDay("saturday"), ErrDayExists)
	assert.ErrorIs(t, s.AddDay("Saturday"), ErrDayExists)
	assert.ErrorIs(t, s.AddDay(""), ErrEmptyDayKey)
	assert.Equal(t, before, s.Snapshot())

	items, ok := s.Items("monday")
	assert.True(t, ok)
	assert.Empty(t, items)
}

func TestRemoveDay(t *testing.T) {
	s := newWeekend(t)
	a, _ := s.AddToDay("saturday", brunch)

	removed, ok := s.RemoveDay("saturday")
	require.True(t, ok)
	assert.Equal(t, []string{a.ID}, ids(removed))
	assert.Equal(t, []string{"sunday"}, s.Days())
	assert.False(t, s.HasDay("saturday"))

	_, ok = s.RemoveDay("saturday")
	assert.False(t, ok)
}

func TestClearDayAndClearAll(t *testing.T) {
	s := newWeekend(t)
	a, _ := s.AddToDay("saturday", brunch)
	b, _ := s.AddToDay("sunday", brunch)
	c, _ := s.AddToDay("sunday", brunch)

	removed, ok := s.ClearDay("saturday")
	require.True(t, ok)
	assert.Equal(t, []string{a.ID}, ids(removed))
	assert.Empty(t, dayIDs(t, s, "saturday"))
	assert.Equal(t, []string{b.ID, c.ID}, dayIDs(t, s, "sunday"))

	_, ok = s.ClearDay("monday")
	assert.False(t, ok)

	all := s.ClearAll()
	assert.Equal(t, []string{b.ID, c.ID}, ids(all))
	assert.Equal(t, []string{"saturday", "sunday"}, s.Days())
	assert.Equal(t, 0, s.Snapshot().ItemCount())
}

func TestFind(t *testing.T) {
	s := newWeekend(t)
	_, _ = s.AddToDay("saturday", brunch)
	b, _ := s.AddToDay("sunday", brunch)

	day, item, ok := s.Find(b.ID)
	require.True(t, ok)
	assert.Equal(t, "sunday", day)
	assert.Equal(t, b, item)

	_, _, ok = s.Find("nope")
	assert.False(t, ok)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newWeekend(t)
	_, _ = s.AddToDay("saturday", brunch)

	snap := s.Snapshot()
	snap.Days[0].Items[0].Title = "changed"
	snap.Days = snap.Days[:1]

	items, _ := s.Items("saturday")
	assert.Equal(t, "Brunch", items[0].Title)
	assert.Len(t, s.Days(), 2)
}

// randomOps drives the store through a seeded sequence of operations and
// checks the structural invariants after every step.
func TestRandomOperations_PreserveInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7))
		s := New(domain.NewSchedule("saturday", "sunday", "monday"))
		days := []string{"saturday", "sunday", "monday"}

		for step := 0; step < 300; step++ {
			day := days[rng.IntN(len(days))]
			other := days[rng.IntN(len(days))]
			before := s.Snapshot()

			switch rng.IntN(6) {
			case 0, 1:
				_, err := s.AddToDay(day, brunch)
				require.NoError(t, err)
			case 2:
				items, _ := s.Items(day)
				if len(items) > 0 {
					_, ok := s.RemoveFromDay(day, items[rng.IntN(len(items))].ID)
					require.True(t, ok)
				}
			case 3:
				items, _ := s.Items(day)
				if len(items) > 0 {
					from := rng.IntN(len(items))
					to := rng.IntN(len(items))
					s.ReorderWithinDay(day, from, to)
					assertSameMultiset(t, ids(items), dayIDs(t, s, day))
				}
			case 4:
				items, _ := s.Items(day)
				if len(items) > 0 {
					id := items[rng.IntN(len(items))].ID
					_, ok := s.TransferBetweenDays(day, other, id)
					assert.Equal(t, day != other, ok)
					assert.Equal(t, before.ItemCount(), s.Snapshot().ItemCount())
					got, _, found := s.Find(id)
					require.True(t, found)
					if ok {
						assert.Equal(t, other, got)
						assert.NotContains(t, dayIDs(t, s, day), id)
					}
				}
			case 5:
				items, _ := s.Items(day)
				if len(items) > 0 {
					id := items[rng.IntN(len(items))].ID
					if rng.IntN(2) == 0 {
						s.MoveUp(day, id)
					} else {
						s.MoveDown(day, id)
					}
					assertSameMultiset(t, ids(items), dayIDs(t, s, day))
				}
			}
			require.NoError(t, s.Snapshot().Validate(), "seed %d step %d", seed, step)
		}
	}
}

func assertSameMultiset(t *testing.T, want, got []string) {
	t.Helper()
	w := slices.Clone(want)
	g := slices.Clone(got)
	sort.Strings(w)
	sort.Strings(g)
	assert.Equal(t, w, g)
}

func TestDayKey(t *testing.T) {
	s := newWeekend(t)

	key, ok := s.DayKey("SATURDAY")
	require.True(t, ok)
	assert.Equal(t, "saturday", key)

	_, ok = s.DayKey("monday")
	assert.False(t, ok)
}
