// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package cache

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*Memory)(nil)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		now:     time.Now,
		entries: map[string]memoryEntry{},
	}
}

// SetClock replaces the time source, used by tests.
func (store *Memory) SetClock(now func() time.Time) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.now = now
}

// Get returns the value of key, or ErrMiss.
func (store *Memory) Get(ctx context.Context, key string) (_ []byte, err error) {
	defer mon.Task()(&ctx)(&err)

	store.mu.Lock()
	defer store.mu.Unlock()

	entry, ok := store.entries[key]
	if !ok {
		return nil, ErrMiss.New("%q", key)
	}
	if !entry.expires.IsZero() && !store.now().Before(entry.expires) {
		delete(store.entries, key)
		return nil, ErrMiss.New("%q", key)
	}
	return append([]byte(nil), entry.value...), nil
}

// Set stores value under key.
func (store *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (err error) {
	defer mon.Task()(&ctx)(&err)

	store.mu.Lock()
	defer store.mu.Unlock()

	store.entries[key] = memoryEntry{
		value:   append([]byte(nil), value...),
		expires: expiration(store.now(), ttl),
	}
	return nil
}

// Delete removes key.
func (store *Memory) Delete(ctx context.Context, key string) (err error) {
	defer mon.Task()(&ctx)(&err)

	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.entries, key)
	return nil
}

// Close implements Store.
func (store *Memory) Close() error { return nil }
