// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package backendlogger_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storj.io/common/testcontext"
	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/collection/backendlogger"
	"storj.io/nftmeta/collection/localfs"
	"storj.io/nftmeta/collection/testsuite"
)

func TestSuite(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	backend, err := localfs.New(localfs.Config{Path: ctx.Dir("collection")}, collection.Config{
		MaxTokenID:           100,
		AssetsExtension:      "png",
		HiddenAssetExtension: "gif",
	})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	logged := backendlogger.New(zap.New(core), backend)
	defer ctx.Check(logged.Close)

	testsuite.RunTests(t, logged, testsuite.DirFixture(backend.Root()))

	require.NotZero(t, logs.FilterMessage("GetShuffleMapping").Len())
	require.NotZero(t, logs.FilterMessage("StoreExportedAsset").Len())

	failed := logs.FilterMessage("GetMetadata").FilterField(zap.Stringer("token", collection.TokenID(2))).All()
	require.NotEmpty(t, failed)
}
