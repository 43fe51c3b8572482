package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvKV keeps one file per slot under a base directory.
type DiskvKV struct {
	d        *diskv.Diskv
	basePath string
}

// OpenDiskv creates the base directory if needed. Writes go through a
// sibling temp directory so a reader never sees a half-written slot.
func OpenDiskv(basePath string) (*DiskvKV, error) {
	basePath = filepath.Clean(basePath)
	tempDir := basePath + ".tmp"
	for _, dir := range []string{basePath, tempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: ensure %s: %w", dir, err)
		}
	}
	return &DiskvKV{
		d: diskv.New(diskv.Options{
			BasePath: basePath,
			TempDir:  tempDir,
			Transform: func(string) []string {
				return []string{}
			},
			// Slot files may be rewritten by another process, so reads
			// always go to disk.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
	}, nil
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("storage: invalid slot key %q", key)
	}
	return nil
}

func (k *DiskvKV) Get(_ context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	val, err := k.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", key, err)
	}
	return val, nil
}

func (k *DiskvKV) Put(_ context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := k.d.Write(key, value); err != nil {
		return fmt.Errorf("writing slot %q: %w", key, err)
	}
	return nil
}

func (k *DiskvKV) PutMany(ctx context.Context, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		if err := validKey(key); err != nil {
			return err
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := k.Put(ctx, key, entries[key]); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes key. Deleting a missing slot is not an error.
func (k *DiskvKV) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := k.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting slot %q: %w", key, err)
	}
	return nil
}

func (k *DiskvKV) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	for key := range k.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// BasePath returns the directory holding the slot files.
func (k *DiskvKV) BasePath() string { return k.basePath }

func (k *DiskvKV) Close() error { return nil }
