package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDiskv(t *testing.T) *DiskvKV {
	t.Helper()
	kv, err := OpenDiskv(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)
	return kv
}

func TestDiskvKV_RoundTrip(t *testing.T) {
	kv := openTestDiskv(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "wg_schedule")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.PutMany(ctx, map[string][]byte{
		"wg_schedule":   []byte(`{"saturday":[]}`),
		"wg_activities": []byte(`[]`),
	}))

	got, err := kv.Get(ctx, "wg_schedule")
	require.NoError(t, err)
	assert.Equal(t, `{"saturday":[]}`, string(got))

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"wg_activities", "wg_schedule"}, keys)

	require.NoError(t, kv.Delete(ctx, "wg_schedule"))
	require.NoError(t, kv.Delete(ctx, "wg_schedule"))
	_, err = kv.Get(ctx, "wg_schedule")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiskvKV_RejectsPathKeys(t *testing.T) {
	kv := openTestDiskv(t)
	ctx := context.Background()

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, kv.Put(ctx, key, []byte("x")), "key %q", key)
	}
}

func TestDiskvKV_SeesExternalWrites(t *testing.T) {
	kv := openTestDiskv(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "slot", []byte("one")))
	require.NoError(t, os.WriteFile(filepath.Join(kv.BasePath(), "slot"), []byte("two"), 0o644))

	got, err := kv.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestDiskvKV_WatchReportsChangedSlot(t *testing.T) {
	kv := openTestDiskv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := kv.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(kv.BasePath(), "wg_schedule"), []byte("{}"), 0o644))

	select {
	case key := <-changes:
		assert.Equal(t, "wg_schedule", key)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	for range changes {
	}
}

func TestKeyThrottle_CoalescesBurst(t *testing.T) {
	th := newKeyThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan string, 8)
	send := func(k string) { got <- k }
	for range 5 {
		th.Enqueue("a", send)
	}

	select {
	case k := <-got:
		assert.Equal(t, "a", k)
	case <-time.After(time.Second):
		t.Fatal("throttle never flushed")
	}
	select {
	case k := <-got:
		t.Fatalf("unexpected second event %q", k)
	case <-time.After(60 * time.Millisecond):
	}
}
