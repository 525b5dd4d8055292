// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package shuffle_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/common/testcontext"
	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/collection/localfs"
	"storj.io/nftmeta/shuffle"
)

func TestGenerateKeepsOutsideOfRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		maxTokenID := 2 + rng.IntN(60)
		min := 1 + rng.IntN(maxTokenID-1)
		max := min + 1 + rng.IntN(maxTokenID-min)

		mapping, err := shuffle.Generate(maxTokenID, min, max, rng)
		require.NoError(t, err)
		require.Len(t, mapping, maxTokenID)
		require.NoError(t, mapping.Validate(maxTokenID))

		for position := 1; position <= maxTokenID; position++ {
			actual := int(mapping[position-1])
			if position < min || position > max {
				require.Equal(t, position, actual, "position %d of [%d, %d]", position, min, max)
				continue
			}
			require.GreaterOrEqual(t, actual, min)
			require.LessOrEqual(t, actual, max)
		}
	}
}

func TestGenerateInvalidRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for _, tc := range []struct{ min, max int }{
		{5, 3},
		{3, 3},
		{0, 5},
		{-1, 5},
		{1, 11},
	} {
		_, err := shuffle.Generate(10, tc.min, tc.max, rng)
		require.True(t, collection.ErrInvalidTokensRange.Has(err), "%v: %v", tc, err)
	}

	mapping, err := shuffle.Generate(10, 1, 10, rng)
	require.NoError(t, err)
	require.NoError(t, mapping.Validate(10))
}

func TestGenerateIsUniform(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	const trials = 6000
	counts := map[[3]collection.TokenID]int{}
	for i := 0; i < trials; i++ {
		mapping, err := shuffle.Generate(4, 2, 4, rng)
		require.NoError(t, err)
		require.Equal(t, collection.TokenID(1), mapping[0])
		counts[[3]collection.TokenID{mapping[1], mapping[2], mapping[3]}]++
	}

	require.Len(t, counts, 6)
	for permutation, count := range counts {
		require.InDelta(t, trials/6, count, 200, "%v", permutation)
	}
}

func TestEngineShuffle(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	backend, err := localfs.New(localfs.Config{Path: ctx.Dir("collection")}, collection.Config{
		MaxTokenID: 10, AssetsExtension: "png", HiddenAssetExtension: "png",
	})
	require.NoError(t, err)

	cache := &recordingCache{}
	engine := shuffle.NewEngine(zaptest.NewLogger(t), backend, 10, cache)

	_, err = engine.Shuffle(ctx, 5, 3)
	require.True(t, collection.ErrInvalidTokensRange.Has(err), err)
	require.Zero(t, cache.replaced)

	mapping, err := engine.Shuffle(ctx, 3, 8)
	require.NoError(t, err)
	require.Equal(t, 1, cache.replaced)

	stored, err := backend.GetShuffleMapping(ctx)
	require.NoError(t, err)
	require.Equal(t, mapping, stored)
	require.True(t, cache.storedBeforeDrop)
}

func TestEngineShuffleWithoutCache(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	backend, err := localfs.New(localfs.Config{Path: ctx.Dir("collection")}, collection.Config{
		MaxTokenID: 4, AssetsExtension: "png", HiddenAssetExtension: "png",
	})
	require.NoError(t, err)

	engine := shuffle.NewEngine(zaptest.NewLogger(t), backend, 4, nil)
	engine.SetRand(func() (*rand.Rand, error) { return rand.New(rand.NewPCG(7, 7)), nil })

	mapping, err := engine.Shuffle(ctx, 1, 4)
	require.NoError(t, err)

	stored, err := backend.GetShuffleMapping(ctx)
	require.NoError(t, err)
	require.Equal(t, mapping, stored)
}

func TestEngineStoreFailureKeepsCache(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	cache := &recordingCache{}
	engine := shuffle.NewEngine(zaptest.NewLogger(t), failingBackend{}, 10, cache)

	_, err := engine.Shuffle(ctx, 1, 10)
	require.True(t, collection.ErrExternalService.Has(err), err)
	require.Zero(t, cache.dropped)
}

// recordingCache mimics the resolver: it drops its copy only after a
// successful store.
type recordingCache struct {
	replaced         int
	dropped          int
	storedBeforeDrop bool
}

func (cache *recordingCache) ReplaceMapping(ctx context.Context, store func(ctx context.Context) error) error {
	cache.replaced++
	if err := store(ctx); err != nil {
		return err
	}
	cache.storedBeforeDrop = true
	cache.dropped++
	return nil
}

type failingBackend struct{ collection.Backend }

func (failingBackend) StoreShuffleMapping(ctx context.Context, mapping collection.Mapping) error {
	return collection.ErrExternalService.New("store unavailable")
}
