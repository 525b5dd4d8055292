// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package localfs_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/common/testcontext"
	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/collection/localfs"
	"storj.io/nftmeta/collection/testsuite"
)

var testCollection = collection.Config{
	MaxTokenID:           100,
	AssetsExtension:      "png",
	HiddenAssetExtension: "gif",
}

func TestSuite(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	backend, err := localfs.New(localfs.Config{Path: ctx.Dir("collection")}, testCollection)
	require.NoError(t, err)
	defer ctx.Check(backend.Close)

	testsuite.RunTests(t, backend, testsuite.DirFixture(backend.Root()))
}

func TestMissingPath(t *testing.T) {
	_, err := localfs.New(localfs.Config{}, testCollection)
	require.Error(t, err)
}

func TestMappingWriteLeavesNoTemporaryFiles(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	root := ctx.Dir("collection")
	backend, err := localfs.New(localfs.Config{Path: root}, testCollection)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, backend.StoreShuffleMapping(ctx, collection.Identity(10)))
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, collection.MappingPath, entries[0].Name())
}
