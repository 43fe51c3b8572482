package testutil

import (
	"testing"

	"github.com/weekendly/weekendly/internal/storage"
)

// NewTestKV returns an in-memory SQLite slot store closed at test cleanup.
func NewTestKV(t *testing.T) *storage.SQLiteKV {
	t.Helper()
	kv, err := storage.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}
