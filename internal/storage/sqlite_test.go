package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestMigrate_Idempotent(t *testing.T) {
	kv := openTestSQLite(t)

	require.NoError(t, migrate(kv.conn))
	require.NoError(t, migrate(kv.conn))
}

func TestSQLiteKV_GetMissing(t *testing.T) {
	kv := openTestSQLite(t)

	_, err := kv.Get(context.Background(), "wg_activities")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteKV_PutGetOverwrite(t *testing.T) {
	kv := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "slot", []byte(`{"a":1}`)))
	require.NoError(t, kv.Put(ctx, "slot", []byte(`{"a":2}`)))

	got, err := kv.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	rev, err := kv.Revision(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, 2, rev)
}

func TestSQLiteKV_PutManyAndKeys(t *testing.T) {
	kv := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, kv.PutMany(ctx, map[string][]byte{
		"b": []byte("2"),
		"a": []byte("1"),
	}))

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestSQLiteKV_Delete(t *testing.T) {
	kv := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "slot", []byte("x")))
	require.NoError(t, kv.Delete(ctx, "slot"))
	require.NoError(t, kv.Delete(ctx, "slot"), "deleting twice is fine")

	_, err := kv.Get(ctx, "slot")
	assert.ErrorIs(t, err, ErrNotFound)

	rev, err := kv.Revision(ctx, "slot")
	require.NoError(t, err)
	assert.Zero(t, rev)
}

func TestSQLiteKV_FilePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "weekendly.db")
	ctx := context.Background()

	kv, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, "slot", []byte("kept")))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	got, err := kv.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	kv := openTestSQLite(t)
	ctx := context.Background()

	err := withinTx(ctx, kv.conn, func(ctx context.Context, tx execer) error {
		if _, err := tx.ExecContext(ctx, upsertSlot, "k", []byte("v"), now()); err != nil {
			return err
		}
		return errors.New("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	kv := openTestSQLite(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = withinTx(ctx, kv.conn, func(ctx context.Context, tx execer) error {
			_, _ = tx.ExecContext(ctx, upsertSlot, "k", []byte("v"), now())
			panic("boom")
		})
	})

	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound, "row should not exist after panic rollback")
}
