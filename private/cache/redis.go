// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*Redis)(nil)

// Redis is a Store shared between processes through a redis server.
type Redis struct {
	db *redis.Client
}

// OpenRedis returns a configured client, verifying that the server answers.
func OpenRedis(ctx context.Context, address, password string, db int) (*Redis, error) {
	return openRedis(ctx, &redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// OpenRedisFrom returns a configured client from a redis:// URL.
func OpenRedisFrom(ctx context.Context, address string) (*Redis, error) {
	options, err := redis.ParseURL(address)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return openRedis(ctx, options)
}

func openRedis(ctx context.Context, options *redis.Options) (*Redis, error) {
	client := &Redis{db: redis.NewClient(options)}

	// ping here to verify we are able to connect to redis with the initialized client.
	if err := client.db.Ping(ctx).Err(); err != nil {
		_ = client.db.Close()
		return nil, Error.New("ping failed: %v", err)
	}
	return client, nil
}

// Get returns the value of key, or ErrMiss.
func (client *Redis) Get(ctx context.Context, key string) (_ []byte, err error) {
	defer mon.Task()(&ctx)(&err)

	value, err := client.db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss.New("%q", key)
	}
	if err != nil {
		return nil, Error.New("get error: %v", err)
	}
	return value, nil
}

// Set stores value under key. Redis expires the entry on its own.
func (client *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (err error) {
	defer mon.Task()(&ctx)(&err)

	if ttl < 0 {
		ttl = 0
	}
	if err := client.db.Set(ctx, key, value, ttl).Err(); err != nil {
		return Error.New("set error: %v", err)
	}
	return nil
}

// Delete removes key.
func (client *Redis) Delete(ctx context.Context, key string) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := client.db.Del(ctx, key).Err(); err != nil {
		return Error.New("delete error: %v", err)
	}
	return nil
}

// Close closes the redis client.
func (client *Redis) Close() error {
	return client.db.Close()
}
