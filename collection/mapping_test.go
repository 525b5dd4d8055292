// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package collection_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/nftmeta/collection"
)

func TestMappingLookup(t *testing.T) {
	mapping := collection.Mapping{3, 1, 2}

	for public, expected := range map[collection.TokenID]collection.TokenID{1: 3, 2: 1, 3: 2} {
		real, err := mapping.Lookup(public)
		require.NoError(t, err)
		require.Equal(t, expected, real)
	}

	for _, public := range []collection.TokenID{0, -1, 4} {
		_, err := mapping.Lookup(public)
		require.True(t, collection.ErrInvalidTokenID.Has(err), public)
	}
}

func TestMappingValidate(t *testing.T) {
	require.NoError(t, collection.Identity(5).Validate(5))
	require.NoError(t, collection.Mapping{3, 1, 2}.Validate(3))

	for _, invalid := range []collection.Mapping{
		{1, 2},
		{1, 2, 3, 4},
		{1, 1, 2},
		{0, 1, 2},
		{1, 2, 4},
	} {
		err := invalid.Validate(3)
		require.True(t, collection.ErrMalformedContent.Has(err), invalid)
	}
}

func TestMappingCodec(t *testing.T) {
	mapping := collection.Mapping{2, 3, 1}

	data, err := collection.EncodeMapping(mapping)
	require.NoError(t, err)
	require.JSONEq(t, `[2,3,1]`, string(data))

	decoded, err := collection.DecodeMapping(data)
	require.NoError(t, err)
	require.Equal(t, mapping, decoded)

	for _, invalid := range []string{`{"a":1}`, `[1.5]`, `["1"]`, `null`, `nope`} {
		_, err := collection.DecodeMapping([]byte(invalid))
		require.True(t, collection.ErrMalformedContent.Has(err), invalid)
	}
}

func TestDecodeDocument(t *testing.T) {
	doc, err := collection.DecodeDocument("1.json", []byte(`{"name":"first","attributes":[{"trait_type":"a"}]}`))
	require.NoError(t, err)
	require.Equal(t, "first", doc["name"])

	for _, invalid := range []string{`[1,2]`, `"text"`, `null`, `{`, `{"name":"a"} garbage`, `{"name":"a"}{"x":1}`} {
		_, err := collection.DecodeDocument("1.json", []byte(invalid))
		require.True(t, collection.ErrMalformedContent.Has(err), invalid)
	}
}

func TestConfigVerify(t *testing.T) {
	require.NoError(t, collection.Config{MaxTokenID: 1, AssetsExtension: "png", HiddenAssetExtension: "gif"}.Verify())
	require.Error(t, collection.Config{}.Verify())
}

func TestLayout(t *testing.T) {
	require.Equal(t, "metadata/7.json", collection.MetadataPath(7))
	require.Equal(t, "assets/7.png", collection.AssetPath(7, "png"))
	require.Equal(t, "hidden/hidden.gif", collection.HiddenAssetPath("gif"))
	require.Equal(t, "exported/metadata/7.json", collection.ExportedMetadataPath(7))
	require.Equal(t, "exported/assets/7.png", collection.ExportedAssetPath(7, "png"))
	require.Equal(t, "image/png", collection.ContentType("png"))
}
