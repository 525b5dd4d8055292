// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package cache implements small key/value stores with per-entry expiration.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var (
	// Error is the default cache error class.
	Error = errs.Class("cache")

	// ErrMiss is returned when a key is absent or expired.
	ErrMiss = errs.Class("cache miss")

	mon = monkit.Package()
)

// Store describes a key/value cache with expiring entries.
type Store interface {
	// Get returns the value of key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A non-positive ttl keeps the entry until it is deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the store resources.
	Close() error
}

// Config selects and configures a cache store.
type Config struct {
	Backend string `help:"cache backend, one of memory, bolt or redis" default:"memory"`
	Path    string `help:"database file of the bolt cache" default:""`
	Address string `help:"address of the redis cache, redis://[:password@]host:port[/db]" default:""`
}

// Open creates the configured store.
func Open(ctx context.Context, log *zap.Logger, config Config) (_ Store, err error) {
	defer mon.Task()(&ctx)(&err)

	switch strings.ToLower(config.Backend) {
	case "", "memory":
		log.Debug("using in-memory cache")
		return NewMemory(), nil
	case "bolt":
		log.Debug("using bolt cache", zap.String("path", config.Path))
		return OpenBolt(config.Path)
	case "redis":
		log.Debug("using redis cache")
		return OpenRedisFrom(ctx, config.Address)
	default:
		return nil, Error.New("unknown cache backend %q", config.Backend)
	}
}

// expiration returns the expiration time for ttl, zero when the entry does not expire.
func expiration(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
