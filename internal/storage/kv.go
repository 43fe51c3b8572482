// Package storage provides the key-value slots the planner persists into.
// Two backends exist: a SQLite table (the default) and a diskv directory
// tree that can be watched for changes made by other processes.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a slot has never been written or was
// deleted.
var ErrNotFound = errors.New("storage: slot not found")

// KV is a durable string-keyed store of opaque values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutMany writes several slots together. SQLiteKV commits them in one
	// transaction; DiskvKV writes each file atomically.
	PutMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
