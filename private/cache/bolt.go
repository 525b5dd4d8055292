// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package cache

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/zeebo/errs"
	"go.etcd.io/bbolt"
)

var _ Store = (*Bolt)(nil)

var boltBucket = []byte("cache")

const (
	fileMode     = 0600
	openTimeout  = time.Second
	expiresBytes = 8
)

// Bolt is a Store persisted in a bbolt database file.
//
// Every value is prefixed with its expiration in unix nanoseconds, zero for
// entries that never expire.
type Bolt struct {
	db  *bbolt.DB
	now func() time.Time
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*Bolt, error) {
	if path == "" {
		return nil, Error.New("bolt cache path is required")
	}
	db, err := bbolt.Open(path, fileMode, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, Error.Wrap(err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		return nil, Error.Wrap(errs.Combine(err, db.Close()))
	}
	return &Bolt{db: db, now: time.Now}, nil
}

// SetClock replaces the time source, used by tests.
func (store *Bolt) SetClock(now func() time.Time) { store.now = now }

// Get returns the value of key, or ErrMiss.
func (store *Bolt) Get(ctx context.Context, key string) (value []byte, err error) {
	defer mon.Task()(&ctx)(&err)

	expired := false
	err = store.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(key))
		if len(raw) < expiresBytes {
			return ErrMiss.New("%q", key)
		}
		expires := int64(binary.BigEndian.Uint64(raw[:expiresBytes]))
		if expires != 0 && store.now().UnixNano() >= expires {
			expired = true
			return ErrMiss.New("%q", key)
		}
		value = append([]byte(nil), raw[expiresBytes:]...)
		return nil
	})
	if expired {
		// stale entries are removed lazily
		_ = store.Delete(ctx, key)
	}
	if ErrMiss.Has(err) {
		return nil, err
	}
	return value, Error.Wrap(err)
}

// Set stores value under key.
func (store *Bolt) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (err error) {
	defer mon.Task()(&ctx)(&err)

	var expires int64
	if at := expiration(store.now(), ttl); !at.IsZero() {
		expires = at.UnixNano()
	}
	raw := make([]byte, expiresBytes+len(value))
	binary.BigEndian.PutUint64(raw, uint64(expires))
	copy(raw[expiresBytes:], value)

	return Error.Wrap(store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), raw)
	}))
}

// Delete removes key.
func (store *Bolt) Delete(ctx context.Context, key string) (err error) {
	defer mon.Task()(&ctx)(&err)

	return Error.Wrap(store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	}))
}

// Close closes the database.
func (store *Bolt) Close() error {
	return Error.Wrap(store.db.Close())
}
