package testutil

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/weekendly/weekendly/internal/storage"
)

// ErrInjected is the default error FailingKV returns.
var ErrInjected = errors.New("injected storage failure")

// FailingKV wraps a KV and fails writes. With FailOn zero every write fails;
// otherwise only the FailOn-th write (counted from 1) fails. Reads pass
// through unless FailReads is set.
type FailingKV struct {
	storage.KV
	FailOn    int32
	FailReads bool
	Err       error

	writes atomic.Int32
}

func (f *FailingKV) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

func (f *FailingKV) failWrite() bool {
	n := f.writes.Add(1)
	return f.FailOn == 0 || n == f.FailOn
}

// Writes reports how many writes were attempted.
func (f *FailingKV) Writes() int { return int(f.writes.Load()) }

func (f *FailingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.FailReads {
		return nil, f.err()
	}
	return f.KV.Get(ctx, key)
}

func (f *FailingKV) Put(ctx context.Context, key string, value []byte) error {
	if f.failWrite() {
		return f.err()
	}
	return f.KV.Put(ctx, key, value)
}

func (f *FailingKV) PutMany(ctx context.Context, entries map[string][]byte) error {
	if f.failWrite() {
		return f.err()
	}
	return f.KV.PutMany(ctx, entries)
}

func (f *FailingKV) Delete(ctx context.Context, key string) error {
	if f.failWrite() {
		return f.err()
	}
	return f.KV.Delete(ctx, key)
}
