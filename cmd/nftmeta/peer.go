// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"context"
	"strings"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/collection/backendlogger"
	"storj.io/nftmeta/collection/localfs"
	"storj.io/nftmeta/collection/s3store"
	"storj.io/nftmeta/export"
	"storj.io/nftmeta/private/cache"
	"storj.io/nftmeta/resolver"
	"storj.io/nftmeta/server"
	"storj.io/nftmeta/supply"
	"storj.io/nftmeta/updater"
)

// Config is the configuration of every nftmeta command.
type Config struct {
	Collection collection.Config
	Storage    StorageConfig
	Resolver   resolver.Config
	Updater    updater.Config
	Supply     supply.Config
	Cache      cache.Config
	Export     export.Config
	Server     server.Config
}

// StorageConfig selects where the collection is stored.
type StorageConfig struct {
	Backend  string `help:"storage backend of the collection, local or s3" default:"local"`
	LogCalls bool   `help:"log every storage call at debug level" default:"false"`

	Local localfs.Config
	S3    s3store.Config
}

// openBackend creates the configured storage backend.
func openBackend(log *zap.Logger, config StorageConfig, collectionConfig collection.Config) (backend collection.Backend, err error) {
	switch strings.ToLower(config.Backend) {
	case "", "local":
		backend, err = localfs.New(config.Local, collectionConfig)
	case "s3":
		backend, err = s3store.New(config.S3, collectionConfig)
	default:
		return nil, errs.New("unknown storage backend %q", config.Backend)
	}
	if err != nil {
		return nil, err
	}

	if config.LogCalls {
		backend = backendlogger.New(log.Named("storage"), backend)
	}
	return backend, nil
}

// peer holds the components shared by the commands.
type peer struct {
	log      *zap.Logger
	backend  collection.Backend
	resolver *resolver.Resolver
	cache    cache.Store
	supply   supply.Provider
}

// openPeer wires the components. The total supply provider is only opened
// when withSupply is set, since it may dial remote services.
func openPeer(ctx context.Context, log *zap.Logger, config Config, withSupply bool) (_ *peer, err error) {
	if err := config.Collection.Verify(); err != nil {
		return nil, errs.New("invalid collection configuration: %w", err)
	}

	chain, err := config.Updater.Build()
	if err != nil {
		return nil, err
	}

	p := &peer{log: log}
	defer func() {
		if err != nil {
			err = errs.Combine(err, p.Close())
		}
	}()

	p.backend, err = openBackend(log, config.Storage, config.Collection)
	if err != nil {
		return nil, err
	}

	p.resolver = resolver.New(log.Named("resolver"), p.backend, config.Collection, chain, config.Resolver)

	if !withSupply {
		return p, nil
	}

	p.cache, err = cache.Open(ctx, log.Named("cache"), config.Cache)
	if err != nil {
		return nil, err
	}

	p.supply, err = supply.Open(ctx, log.Named("supply"), config.Supply, p.resolver, p.cache)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Close releases every opened component.
func (p *peer) Close() error {
	var group errs.Group
	if p.supply != nil {
		group.Add(supply.Close(p.supply))
	}
	if p.cache != nil {
		group.Add(p.cache.Close())
	}
	if p.backend != nil {
		group.Add(p.backend.Close())
	}
	return group.Err()
}
