// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package testsuite contains the contract tests every cache store must pass.
package testsuite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storj.io/common/testcontext"
	"storj.io/nftmeta/private/cache"
)

// RunTests runs the common cache store tests. Expiry is store specific and
// is not covered here.
func RunTests(t *testing.T, store cache.Store) {
	t.Run("Miss", func(t *testing.T) { testMiss(t, store) })
	t.Run("SetGet", func(t *testing.T) { testSetGet(t, store) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, store) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, store) })
	t.Run("Isolation", func(t *testing.T) { testIsolation(t, store) })
}

func testMiss(t *testing.T, store cache.Store) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	_, err := store.Get(ctx, "miss/never-set")
	require.True(t, cache.ErrMiss.Has(err), err)
}

func testSetGet(t *testing.T, store cache.Store) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	require.NoError(t, store.Set(ctx, "setget/forever", []byte("one"), 0))
	require.NoError(t, store.Set(ctx, "setget/hour", []byte("two"), time.Hour))
	require.NoError(t, store.Set(ctx, "setget/empty", []byte{}, time.Hour))

	value, err := store.Get(ctx, "setget/forever")
	require.NoError(t, err)
	require.Equal(t, "one", string(value))

	value, err = store.Get(ctx, "setget/hour")
	require.NoError(t, err)
	require.Equal(t, "two", string(value))

	value, err = store.Get(ctx, "setget/empty")
	require.NoError(t, err)
	require.Empty(t, value)
}

func testOverwrite(t *testing.T, store cache.Store) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	require.NoError(t, store.Set(ctx, "overwrite", []byte("old"), time.Hour))
	require.NoError(t, store.Set(ctx, "overwrite", []byte("new"), time.Hour))

	value, err := store.Get(ctx, "overwrite")
	require.NoError(t, err)
	require.Equal(t, "new", string(value))
}

func testDelete(t *testing.T, store cache.Store) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	require.NoError(t, store.Delete(ctx, "delete/missing"))

	require.NoError(t, store.Set(ctx, "delete/present", []byte("x"), time.Hour))
	require.NoError(t, store.Delete(ctx, "delete/present"))

	_, err := store.Get(ctx, "delete/present")
	require.True(t, cache.ErrMiss.Has(err), err)
}

func testIsolation(t *testing.T, store cache.Store) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	value := []byte("original")
	require.NoError(t, store.Set(ctx, "isolation", value, time.Hour))
	value[0] = 'X'

	loaded, err := store.Get(ctx, "isolation")
	require.NoError(t, err)
	require.Equal(t, "original", string(loaded))

	loaded[0] = 'Y'
	again, err := store.Get(ctx, "isolation")
	require.NoError(t, err)
	require.Equal(t, "original", string(again))
}
