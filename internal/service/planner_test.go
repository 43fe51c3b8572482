package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weekendly/weekendly/internal/domain"
	"github.com/weekendly/weekendly/internal/dragdrop"
	"github.com/weekendly/weekendly/internal/library"
	"github.com/weekendly/weekendly/internal/persist"
	"github.com/weekendly/weekendly/internal/schedule"
	"github.com/weekendly/weekendly/internal/storage"
	"github.com/weekendly/weekendly/internal/testutil"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	return r.events[len(r.events)-1]
}

func seq(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func openTestPlanner(t *testing.T, kv storage.KV) (*Planner, *recordingObserver) {
	t.Helper()
	obs := &recordingObserver{}
	p := Open(context.Background(), kv, Options{
		Observer:    obs,
		TemplateIDs: seq("act_"),
		ItemIDs:     seq("sch_"),
	})
	return p, obs
}

func TestOpen_SeedsAndWritesBack(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewTestKV(t)

	p, obs := openTestPlanner(t, kv)

	assert.Equal(t, domain.SeedTemplates(), p.ListTemplates(""))
	assert.Equal(t, []string{"saturday", "sunday"}, p.Days())
	require.NotEmpty(t, obs.events)
	assert.Equal(t, "load", obs.events[0].Name)
	assert.Equal(t, true, obs.events[0].Fields["templates_seeded"])

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{persist.SlotTemplates, persist.SlotReminders, persist.SlotSchedule}, keys)
}

func TestPlanner_ScenarioPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewTestKV(t)
	p, _ := openTestPlanner(t, kv)

	item, err := p.AddTemplateToDay(ctx, "saturday", "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTimeLabel, item.TimeLabel)
	assert.Equal(t, "Relaxed", item.Vibe)

	moved, ok := p.Transfer(ctx, "saturday", "sunday", item.ID)
	require.True(t, ok)
	assert.Equal(t, item, moved)
	require.NoError(t, p.VerifyReminders())

	again, _ := openTestPlanner(t, kv)
	assert.Equal(t, p.Snapshot(), again.Snapshot())
	sat, _ := again.Items("saturday")
	sun, _ := again.Items("sunday")
	assert.Empty(t, sat)
	require.Len(t, sun, 1)
	assert.Equal(t, item, sun[0])
	assert.Equal(t, p.Reminders(), again.Reminders())
}

func TestPlanner_RemindersFollowEveryMutation(t *testing.T) {
	ctx := context.Background()
	p, _ := openTestPlanner(t, testutil.NewTestKV(t))

	a, err := p.AddTemplateToDay(ctx, "SATURDAY", "a2")
	require.NoError(t, err)
	b, err := p.QuickAdd(ctx, "sunday", "Farmers market")
	require.NoError(t, err)
	require.NoError(t, p.AddDay(ctx, "Friday"))
	_, err = p.QuickAdd(ctx, "friday", "Drinks")
	require.NoError(t, err)
	require.NoError(t, p.VerifyReminders())

	_, ok := p.UpdateItem(ctx, "saturday", a.ID, domain.ItemPatch{TimeLabel: domain.StrPtr("07:00")})
	require.True(t, ok)
	require.NoError(t, p.VerifyReminders())

	_, ok = p.Transfer(ctx, "sunday", "Saturday", b.ID)
	require.True(t, ok)
	require.NoError(t, p.VerifyReminders())

	due := p.RemindersForDay("saturday")
	require.Len(t, due, 2)
	assert.Equal(t, "07:00", due[0].TimeLabel)

	assert.True(t, p.RemoveItem(ctx, "saturday", a.ID))
	require.True(t, p.RemoveDay(ctx, "friday"))
	require.NoError(t, p.VerifyReminders())

	assert.Equal(t, 1, p.ClearAll(ctx))
	require.NoError(t, p.VerifyReminders())
	assert.Empty(t, p.Reminders())
}

func TestPlanner_PersistFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	kv := &testutil.FailingKV{KV: testutil.NewTestKV(t)}

	p := Open(ctx, kv, Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})

	item, err := p.QuickAdd(ctx, "saturday", "Picnic")
	require.NoError(t, err)

	items, ok := p.Items("saturday")
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, item, items[0])
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), persist.SlotSchedule)
	assert.Greater(t, kv.Writes(), 0)
}

func TestPlanner_ValidationRejections(t *testing.T) {
	ctx := context.Background()
	p, obs := openTestPlanner(t, testutil.NewTestKV(t))
	before := p.Snapshot()

	err := p.AddDay(ctx, "Saturday")
	assert.ErrorIs(t, err, schedule.ErrDayExists)
	assert.False(t, obs.last().Success)
	assert.Equal(t, "add-day", obs.last().Name)

	_, err = p.CreateTemplate(ctx, library.CreateInput{Title: "   "})
	assert.ErrorIs(t, err, library.ErrEmptyTitle)

	_, err = p.AddTemplateToDay(ctx, "saturday", "missing")
	assert.ErrorIs(t, err, library.ErrNotFound)

	_, err = p.AddTemplateToDay(ctx, "monday", "a1")
	assert.ErrorIs(t, err, schedule.ErrDayNotFound)

	assert.False(t, p.RemoveItem(ctx, "saturday", "nope"))
	assert.False(t, p.ClearDay(ctx, "monday"))
	assert.False(t, p.Reorder(ctx, "saturday", 0, 1))
	assert.Equal(t, before, p.Snapshot())
}

func TestPlanner_TemplatesAreCopied(t *testing.T) {
	ctx := context.Background()
	p, _ := openTestPlanner(t, testutil.NewTestKV(t))

	tpl, err := p.CreateTemplate(ctx, library.CreateInput{Title: "Museum", Category: "Entertainment"})
	require.NoError(t, err)
	item, err := p.AddTemplateToDay(ctx, "sunday", tpl.ID)
	require.NoError(t, err)

	_, err = p.UpdateTemplate(ctx, tpl.ID, domain.TemplatePatch{Title: domain.StrPtr("Gallery")})
	require.NoError(t, err)
	assert.True(t, p.DeleteTemplate(ctx, tpl.ID))

	_, got, ok := p.FindItem(item.ID)
	require.True(t, ok)
	assert.Equal(t, "Museum", got.Title)
}

func TestPlanner_Drop(t *testing.T) {
	ctx := context.Background()
	p, _ := openTestPlanner(t, testutil.NewTestKV(t))

	tpl, ok := p.GetTemplate("a3")
	require.True(t, ok)
	raw, err := dragdrop.Encode(dragdrop.FromTemplate(tpl))
	require.NoError(t, err)

	out := p.Drop(ctx, "saturday", raw)
	require.True(t, out.Applied)
	assert.Equal(t, "Movie Night", out.Item.Title)

	raw, err = dragdrop.Encode(dragdrop.FromItem("saturday", out.Item.ID))
	require.NoError(t, err)
	assert.False(t, p.Drop(ctx, "saturday", raw).Applied, "same-day drop is a no-op")

	moved := p.Drop(ctx, "sunday", raw)
	require.True(t, moved.Applied)
	assert.Equal(t, out.Item.ID, moved.Item.ID)
	require.NoError(t, p.VerifyReminders())

	before := p.Snapshot()
	assert.False(t, p.Drop(ctx, "sunday", []byte("not json")).Applied)
	assert.False(t, p.Drop(ctx, "saturday", raw).Applied, "item already left saturday")
	assert.False(t, p.Drop(ctx, "nowhere", raw).Applied)
	assert.Equal(t, before, p.Snapshot())
}

func TestPlanner_ImportTemplates(t *testing.T) {
	ctx := context.Background()
	p, obs := openTestPlanner(t, testutil.NewTestKV(t))

	created, err := p.ImportTemplates(ctx, []library.CreateInput{
		{Title: "Swim"},
		{Title: ""},
		{Title: "Bike", Category: "Outdoors"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, library.ErrEmptyTitle)
	assert.Contains(t, err.Error(), "entry 2")
	require.Len(t, created, 2)
	assert.Equal(t, 7, len(p.ListTemplates("")))
	assert.Equal(t, 2, obs.last().Fields["created"])
}

func TestPlanner_ReloadAndReset(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewTestKV(t)
	p, _ := openTestPlanner(t, kv)
	other, _ := openTestPlanner(t, kv)

	require.NoError(t, other.AddDay(ctx, "monday"))
	assert.NotContains(t, p.Days(), "monday")

	p.Reload(ctx)
	assert.Contains(t, p.Days(), "monday")

	require.NoError(t, p.Reset(ctx))
	assert.Equal(t, []string{"saturday", "sunday"}, p.Days())
}

func TestOpen_ReadFailureLeavesStoredPlan(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewTestKV(t)
	p, _ := openTestPlanner(t, kv)
	_, err := p.QuickAdd(ctx, "saturday", "Picnic")
	require.NoError(t, err)

	unreadable := &testutil.FailingKV{KV: kv, FailReads: true, FailOn: -1}
	degraded, obs := openTestPlanner(t, unreadable)
	items, ok := degraded.Items("saturday")
	require.True(t, ok)
	assert.Empty(t, items, "seed stands in memory")
	assert.Equal(t, 3, obs.events[0].Fields["unread"])
	assert.Zero(t, unreadable.Writes())

	reopened, _ := openTestPlanner(t, kv)
	items, _ = reopened.Items("saturday")
	require.Len(t, items, 1)
	assert.Equal(t, "Picnic", items[0].Title)
}

func TestPlanner_ReloadNeverWrites(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewTestKV(t)
	counting := &testutil.FailingKV{KV: kv, FailOn: -1}
	p, _ := openTestPlanner(t, counting)
	_, err := p.QuickAdd(ctx, "sunday", "Call grandma")
	require.NoError(t, err)
	writes := counting.Writes()

	// Another process is midway through a save: the index landed, the
	// schedule did not yet.
	require.NoError(t, kv.Put(ctx, persist.SlotReminders, []byte(`[]`)))
	p.Reload(ctx)

	assert.Equal(t, writes, counting.Writes())
	require.NoError(t, p.VerifyReminders())
	raw, err := kv.Get(ctx, persist.SlotReminders)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))
}

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "add-day", Err: schedule.ErrDayExists})

	assert.Contains(t, buf.String(), "use_case=add-day")
	assert.Contains(t, buf.String(), "day already exists")
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
