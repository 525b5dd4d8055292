// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package testsuite contains the contract tests every collection backend must pass.
package testsuite

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/common/testcontext"
	"storj.io/nftmeta/collection"
)

// Fixture gives the suite raw access to the storage behind a backend.
type Fixture interface {
	// Put writes data under a layout path.
	Put(ctx context.Context, key string, data []byte) error
	// Get reads the data under a layout path.
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns every layout path below prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// RunTests runs the backend contract tests against an empty collection.
// The backend must be configured with the "png" assets extension and the
// "gif" hidden asset extension.
func RunTests(t *testing.T, backend collection.Backend, fixture Fixture) {
	t.Run("Metadata", func(t *testing.T) { testMetadata(t, backend, fixture) })
	t.Run("Asset", func(t *testing.T) { testAsset(t, backend, fixture) })
	t.Run("Hidden", func(t *testing.T) { testHidden(t, backend, fixture) })
	t.Run("ABI", func(t *testing.T) { testABI(t, backend, fixture) })
	t.Run("Mapping", func(t *testing.T) { testMapping(t, backend, fixture) })
	t.Run("Export", func(t *testing.T) { testExport(t, backend, fixture) })
}

func testMetadata(t *testing.T, backend collection.Backend, fixture Fixture) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	_, err := backend.GetMetadata(ctx, 1)
	require.True(t, collection.ErrNotFound.Has(err), err)

	require.NoError(t, fixture.Put(ctx, collection.MetadataPath(1), []byte(`{"name":"one","image":"old"}`)))
	doc, err := backend.GetMetadata(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "one", doc["name"])
	require.Equal(t, "old", doc["image"])

	require.NoError(t, fixture.Put(ctx, collection.MetadataPath(2), []byte(`[1, 2, 3]`)))
	_, err = backend.GetMetadata(ctx, 2)
	require.True(t, collection.ErrMalformedContent.Has(err), err)

	require.NoError(t, fixture.Put(ctx, collection.MetadataPath(3), []byte(`{"name":"three"} trailing`)))
	_, err = backend.GetMetadata(ctx, 3)
	require.True(t, collection.ErrMalformedContent.Has(err), err)
}

func testAsset(t *testing.T, backend collection.Backend, fixture Fixture) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	require.Equal(t, "png", backend.AssetsExtension())

	_, err := backend.GetAsset(ctx, 3)
	require.True(t, collection.ErrNotFound.Has(err), err)

	require.NoError(t, fixture.Put(ctx, collection.AssetPath(3, "png"), []byte("asset-3")))
	asset, err := backend.GetAsset(ctx, 3)
	require.NoError(t, err)
	defer ctx.Check(asset.Close)

	require.Equal(t, "png", asset.Extension)
	require.Equal(t, int64(len("asset-3")), asset.Size)
	data, err := io.ReadAll(asset)
	require.NoError(t, err)
	require.Equal(t, "asset-3", string(data))
}

func testHidden(t *testing.T, backend collection.Backend, fixture Fixture) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	require.Equal(t, "gif", backend.HiddenAssetExtension())

	_, err := backend.GetHiddenMetadata(ctx)
	require.True(t, collection.ErrNotFound.Has(err), err)
	_, err = backend.GetHiddenAsset(ctx)
	require.True(t, collection.ErrNotFound.Has(err), err)

	require.NoError(t, fixture.Put(ctx, collection.HiddenMetadataPath, []byte(`{"name":"hidden"}`)))
	require.NoError(t, fixture.Put(ctx, collection.HiddenAssetPath("gif"), []byte("hidden-asset")))

	doc, err := backend.GetHiddenMetadata(ctx)
	require.NoError(t, err)
	require.Equal(t, "hidden", doc["name"])

	asset, err := backend.GetHiddenAsset(ctx)
	require.NoError(t, err)
	defer ctx.Check(asset.Close)
	data, err := io.ReadAll(asset)
	require.NoError(t, err)
	require.Equal(t, "hidden-asset", string(data))
}

func testABI(t *testing.T, backend collection.Backend, fixture Fixture) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	_, err := backend.GetABI(ctx)
	require.True(t, collection.ErrNotFound.Has(err), err)

	require.NoError(t, fixture.Put(ctx, collection.ABIPath, []byte(`{"not":"an array"}`)))
	_, err = backend.GetABI(ctx)
	require.True(t, collection.ErrMalformedContent.Has(err), err)

	abi := `[{"type":"function","name":"totalSupply","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}]`
	require.NoError(t, fixture.Put(ctx, collection.ABIPath, []byte(abi)))
	raw, err := backend.GetABI(ctx)
	require.NoError(t, err)
	require.JSONEq(t, abi, string(raw))
}

func testMapping(t *testing.T, backend collection.Backend, fixture Fixture) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	mapping, err := backend.GetShuffleMapping(ctx)
	require.NoError(t, err)
	require.Nil(t, mapping)

	first := collection.Mapping{3, 1, 2}
	require.NoError(t, backend.StoreShuffleMapping(ctx, first))
	mapping, err = backend.GetShuffleMapping(ctx)
	require.NoError(t, err)
	require.Equal(t, first, mapping)

	second := collection.Mapping{2, 3, 1, 4}
	require.NoError(t, backend.StoreShuffleMapping(ctx, second))
	mapping, err = backend.GetShuffleMapping(ctx)
	require.NoError(t, err)
	require.Equal(t, second, mapping)

	raw, err := fixture.Get(ctx, collection.MappingPath)
	require.NoError(t, err)
	var decoded []int
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, []int{2, 3, 1, 4}, decoded)

	require.NoError(t, fixture.Put(ctx, collection.MappingPath, []byte(`["a","b"]`)))
	_, err = backend.GetShuffleMapping(ctx)
	require.True(t, collection.ErrMalformedContent.Has(err), err)
}

func testExport(t *testing.T, backend collection.Backend, fixture Fixture) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	// clearing an export that never happened is fine
	require.NoError(t, backend.ClearExportedAssets(ctx))
	require.NoError(t, backend.ClearExportedMetadata(ctx))

	for _, id := range []collection.TokenID{10, 11} {
		require.NoError(t, fixture.Put(ctx, collection.AssetPath(id, "png"), []byte("asset-"+id.String())))
	}

	require.NoError(t, backend.StoreExportedAsset(ctx, 10, 1))
	require.NoError(t, backend.StoreExportedAsset(ctx, 11, 2))
	require.NoError(t, backend.StoreExportedMetadata(ctx, 1, collection.Document{"name": "first"}))
	require.NoError(t, backend.StoreExportedMetadata(ctx, 2, collection.Document{"name": "second"}))

	err := backend.StoreExportedAsset(ctx, 99, 3)
	require.True(t, collection.ErrNotFound.Has(err), err)

	data, err := fixture.Get(ctx, collection.ExportedAssetPath(1, "png"))
	require.NoError(t, err)
	require.Equal(t, "asset-10", string(data))

	data, err = fixture.Get(ctx, collection.ExportedMetadataPath(2))
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"second"}`, string(data))

	requireKeys(ctx, t, fixture, collection.ExportedAssetsDir, collection.ExportedAssetPath(1, "png"), collection.ExportedAssetPath(2, "png"))
	requireKeys(ctx, t, fixture, collection.ExportedMetadataDir, collection.ExportedMetadataPath(1), collection.ExportedMetadataPath(2))

	require.NoError(t, backend.ClearExportedAssets(ctx))
	requireKeys(ctx, t, fixture, collection.ExportedAssetsDir)
	requireKeys(ctx, t, fixture, collection.ExportedMetadataDir, collection.ExportedMetadataPath(1), collection.ExportedMetadataPath(2))

	require.NoError(t, backend.ClearExportedMetadata(ctx))
	requireKeys(ctx, t, fixture, collection.ExportedMetadataDir)

	// sources stay untouched
	data, err = fixture.Get(ctx, collection.AssetPath(10, "png"))
	require.NoError(t, err)
	require.Equal(t, "asset-10", string(data))
}

func requireKeys(ctx context.Context, t *testing.T, fixture Fixture, prefix string, expected ...string) {
	t.Helper()

	keys, err := fixture.List(ctx, prefix)
	require.NoError(t, err)
	sort.Strings(keys)
	sort.Strings(expected)
	if len(expected) == 0 {
		require.Empty(t, keys)
		return
	}
	require.Equal(t, expected, keys)
}
