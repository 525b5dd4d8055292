// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package updater_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/common/testcontext"
	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/updater"
)

func TestURI(t *testing.T) {
	doc := collection.Document{"image": "ipfs://old"}
	require.NoError(t, updater.URI{}.Update(doc, 3, "https://example.com/asset/3.png"))
	require.Equal(t, "https://example.com/asset/3.png", doc["image"])
}

func TestChainOrder(t *testing.T) {
	var calls []string
	record := func(name string) updater.Updater {
		return updater.Func(func(doc collection.Document, id collection.TokenID, assetURI string) error {
			calls = append(calls, name)
			return nil
		})
	}

	chain := updater.NewChain(record("first"), nil, record("second"), record("third"))
	require.Equal(t, 3, chain.Len())
	require.NoError(t, chain.Update(collection.Document{}, 1, ""))
	require.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestChainStopsOnError(t *testing.T) {
	failed := updater.Func(func(doc collection.Document, id collection.TokenID, assetURI string) error {
		return updater.Error.New("boom")
	})
	touched := false
	after := updater.Func(func(doc collection.Document, id collection.TokenID, assetURI string) error {
		touched = true
		return nil
	})

	err := updater.NewChain(failed, after).Update(collection.Document{}, 1, "")
	require.True(t, updater.Error.Has(err), err)
	require.False(t, touched)
}

func TestTemplateSeesEarlierUpdates(t *testing.T) {
	templated, err := updater.ParseTemplate([]byte(`{"external_url": "{ASSET_URI}", "description": "Token {TOKEN_ID}"}`))
	require.NoError(t, err)

	doc := collection.Document{"name": "raw", "image": "raw.png"}
	chain := updater.NewChain(updater.URI{}, templated)
	require.NoError(t, chain.Update(doc, 5, "https://nft.test/asset/5.png"))

	require.Equal(t, collection.Document{
		"name":         "raw",
		"image":        "https://nft.test/asset/5.png",
		"external_url": "https://nft.test/asset/5.png",
		"description":  "Token 5",
	}, doc)
}

func TestTemplatedPlaceholders(t *testing.T) {
	templated, err := updater.ParseTemplate([]byte(`{
		// comments are allowed
		"name": "Token #{TOKEN_ID}",
		"edition": "{INT_TOKEN_ID}",
		"label": "{INT_TOKEN_ID} of many",
		"rank": 12,
		"flag": true,
	}`))
	require.NoError(t, err)

	doc := collection.Document{"name": "raw", "untouched": "value"}
	require.NoError(t, templated.Update(doc, 5, "uri"))
	require.Equal(t, "Token #5", doc["name"])
	require.Equal(t, 5, doc["edition"])
	require.Equal(t, "{INT_TOKEN_ID} of many", doc["label"])
	require.Equal(t, json.Number("12"), doc["rank"])
	require.Equal(t, true, doc["flag"])
	require.Equal(t, "value", doc["untouched"])

	doc = collection.Document{}
	require.NoError(t, templated.Update(doc, 7, "uri"))
	require.Equal(t, 7, doc["edition"])
	require.NotEqual(t, "7", doc["edition"])
}

func TestTemplatedNesting(t *testing.T) {
	templated, err := updater.ParseTemplate([]byte(`{"attrs": {"a": 1}}`))
	require.NoError(t, err)
	err = templated.Update(collection.Document{}, 1, "")
	require.True(t, collection.ErrUnsupportedNesting.Has(err), err)

	templated, err = updater.ParseTemplate([]byte(`{"tags": ["a"]}`))
	require.NoError(t, err)
	err = templated.Update(collection.Document{}, 1, "")
	require.True(t, collection.ErrUnsupportedNesting.Has(err), err)

	// the existing value may not be nested either, and nothing is applied
	templated, err = updater.ParseTemplate([]byte(`{"name": "Token {TOKEN_ID}", "attributes": "none"}`))
	require.NoError(t, err)
	doc := collection.Document{"name": "raw", "attributes": []any{map[string]any{"trait_type": "eyes"}}}
	err = templated.Update(doc, 1, "")
	require.True(t, collection.ErrUnsupportedNesting.Has(err), err)
	require.Equal(t, "raw", doc["name"])
}

func TestParseTemplateEmpty(t *testing.T) {
	for _, input := range []string{"", "  \n", "null", "// nothing here\n"} {
		templated, err := updater.ParseTemplate([]byte(input))
		require.NoError(t, err, input)

		doc := collection.Document{"name": "raw"}
		require.NoError(t, templated.Update(doc, 1, ""))
		require.Equal(t, collection.Document{"name": "raw"}, doc)
	}

	_, err := updater.ParseTemplate([]byte(`["not", "an", "object"]`))
	require.True(t, collection.ErrMalformedContent.Has(err), err)
}

func TestNaming(t *testing.T) {
	doc := collection.Document{}
	require.NoError(t, updater.Naming{Prefix: "My awesome token "}.Update(doc, 12, ""))
	require.Equal(t, collection.Document{"name": "My awesome token #12"}, doc)

	doc = collection.Document{}
	require.NoError(t, updater.Naming{Prefix: "SABC #", Edition: true}.Update(doc, 4, ""))
	require.Equal(t, collection.Document{"name": "SABC #4", "edition": 4}, doc)
}

func TestConfigBuild(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	path := filepath.Join(ctx.Dir("template"), "template.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"description": "from file {TOKEN_ID}", /* trailing */}`), 0644))

	chain, err := updater.Config{
		Template:     `{"description": "inline"}`,
		TemplateFile: path,
		NamePrefix:   "SABC ",
		Edition:      true,
	}.Build()
	require.NoError(t, err)
	require.Equal(t, 3, chain.Len())

	doc := collection.Document{}
	require.NoError(t, chain.Update(doc, 9, "https://nft.test/asset/9.png"))
	require.Equal(t, collection.Document{
		"image":       "https://nft.test/asset/9.png",
		"name":        "SABC #9",
		"edition":     9,
		"description": "from file 9",
	}, doc)

	_, err = updater.Config{Edition: true}.Build()
	require.Error(t, err)

	_, err = updater.Config{TemplateFile: filepath.Join(ctx.Dir("template"), "missing.json")}.Build()
	require.Error(t, err)
}
