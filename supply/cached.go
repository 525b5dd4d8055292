// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package supply

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"storj.io/nftmeta/private/cache"
)

// CacheKey is the cache key of the total supply.
const CacheKey = "supply/total"

// Cached memoizes any Provider in a cache store. Entries only expire through
// their TTL.
type Cached struct {
	log      *zap.Logger
	provider Provider
	store    cache.Store
	ttl      time.Duration
	timeout  time.Duration

	group singleflight.Group
}

// NewCached wraps provider. A refresh shared by concurrent callers runs
// detached from their contexts and is bounded by timeout instead, when positive.
func NewCached(log *zap.Logger, provider Provider, store cache.Store, ttl, timeout time.Duration) *Cached {
	return &Cached{
		log:      log,
		provider: provider,
		store:    store,
		ttl:      ttl,
		timeout:  timeout,
	}
}

// TotalSupply returns the cached value, asking the wrapped provider on a miss.
func (cached *Cached) TotalSupply(ctx context.Context) (_ int64, err error) {
	defer mon.Task()(&ctx)(&err)

	value, err := cached.store.Get(ctx, CacheKey)
	switch {
	case err == nil:
		supply, parseErr := strconv.ParseInt(string(value), 10, 64)
		if parseErr == nil {
			mon.Counter("total_supply_cache_hit").Inc(1)
			return supply, nil
		}
		cached.log.Warn("ignoring unexpected cached total supply", zap.ByteString("value", value))
	case cache.ErrMiss.Has(err):
	default:
		// a broken cache must not take the supply down
		cached.log.Warn("total supply cache unavailable", zap.Error(err))
	}
	mon.Counter("total_supply_cache_miss").Inc(1)

	results := cached.group.DoChan(CacheKey, func() (any, error) {
		return cached.refresh(context.WithoutCancel(ctx))
	})
	select {
	case result := <-results:
		if result.Err != nil {
			return 0, result.Err
		}
		return result.Val.(int64), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// refresh asks the wrapped provider and stores the answer.
func (cached *Cached) refresh(ctx context.Context) (_ int64, err error) {
	defer mon.Task()(&ctx)(&err)

	if cached.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cached.timeout)
		defer cancel()
	}

	supply, err := cached.provider.TotalSupply(ctx)
	if err != nil {
		return 0, err
	}
	if err := cached.store.Set(ctx, CacheKey, []byte(strconv.FormatInt(supply, 10)), cached.ttl); err != nil {
		cached.log.Warn("failed to cache total supply", zap.Error(err))
	}
	return supply, nil
}

// Close closes the wrapped provider when it holds resources.
func (cached *Cached) Close() error {
	return closeProvider(cached.provider)
}
