package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDelay is how long Watch waits for a burst of writes to settle.
const watchDelay = 100 * time.Millisecond

// Watch streams the keys of slots changed on disk until ctx is cancelled.
// Bursts of writes to the same slot collapse into one notification. Callers
// should drain the channel; events are dropped when it is full.
func (k *DiskvKV) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("storage: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				slog.Warn("storage: watcher close", "error", err)
			}
		})
	}
	if err := watcher.Add(k.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("storage: watch %s: %w", k.basePath, err)
	}

	changes := make(chan string, 16)
	send := func(key string) {
		select {
		case changes <- key:
		default:
		}
	}

	go func() {
		defer close(changes)
		defer closeWatcher()

		throttle := newKeyThrottle(watchDelay)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("storage: watcher error", "error", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				key := filepath.Base(evt.Name)
				if validKey(key) != nil {
					continue
				}
				throttle.Enqueue(key, send)
			}
		}
	}()

	return changes, nil
}

// keyThrottle coalesces notifications per key within a delay window.
type keyThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
	stopped bool
}

func newKeyThrottle(delay time.Duration) *keyThrottle {
	return &keyThrottle{delay: delay, pending: make(map[string]struct{})}
}

func (t *keyThrottle) Enqueue(key string, send func(string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending[key] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() { t.flush(send) })
	}
}

// flush sends under the lock so Stop cannot return while a send is in
// flight. send never blocks.
func (t *keyThrottle) flush(send func(string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	for key := range t.pending {
		send(key)
	}
	t.pending = make(map[string]struct{})
	t.timer = nil
}

func (t *keyThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
