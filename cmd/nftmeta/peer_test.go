// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/common/testcontext"
	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/collection/backendlogger"
	"storj.io/nftmeta/collection/localfs"
	"storj.io/nftmeta/collection/s3store"
	"storj.io/nftmeta/private/cache"
	"storj.io/nftmeta/supply"
)

var testCollection = collection.Config{MaxTokenID: 3, AssetsExtension: "png", HiddenAssetExtension: "gif"}

func TestOpenBackend(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	log := zaptest.NewLogger(t)

	backend, err := openBackend(log, StorageConfig{Local: localfs.Config{Path: ctx.Dir("local")}}, testCollection)
	require.NoError(t, err)
	require.IsType(t, &localfs.Backend{}, backend)
	require.NoError(t, backend.Close())

	backend, err = openBackend(log, StorageConfig{Backend: "local", LogCalls: true, Local: localfs.Config{Path: ctx.Dir("logged")}}, testCollection)
	require.NoError(t, err)
	require.IsType(t, &backendlogger.Logger{}, backend)
	require.NoError(t, backend.Close())

	_, err = openBackend(log, StorageConfig{Backend: "s3", S3: s3store.Config{Endpoint: "ftp://invalid"}}, testCollection)
	require.Error(t, err)

	_, err = openBackend(log, StorageConfig{Backend: "ipfs"}, testCollection)
	require.Error(t, err)
}

func TestOpenPeer(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	config := Config{
		Collection: testCollection,
		Storage:    StorageConfig{Local: localfs.Config{Path: ctx.Dir("collection")}},
		Supply:     supply.Config{Provider: "static", Static: 2},
		Cache:      cache.Config{Backend: "memory"},
	}

	p, err := openPeer(ctx, zaptest.NewLogger(t), config, true)
	require.NoError(t, err)
	defer ctx.Check(p.Close)

	totalSupply, err := p.supply.TotalSupply(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, totalSupply)
	require.Equal(t, 3, p.resolver.MaxTokenID())

	p, err = openPeer(ctx, zaptest.NewLogger(t), config, false)
	require.NoError(t, err)
	require.Nil(t, p.supply)
	require.NoError(t, p.Close())

	config.Collection.MaxTokenID = 0
	_, err = openPeer(ctx, zaptest.NewLogger(t), config, false)
	require.Error(t, err)

	config.Collection = testCollection
	config.Supply.Provider = "oracle"
	_, err = openPeer(ctx, zaptest.NewLogger(t), config, true)
	require.Error(t, err)
}
