// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package localfs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/common/testcontext"
)

func TestAtomicWriteRenameFailure(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	dir := ctx.Dir("atomic")
	target := filepath.Join(dir, "target")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0755))

	err := atomicWrite(target, 0644, func(w io.Writer) error {
		_, err := w.Write([]byte("data"))
		return err
	})
	require.Error(t, err)
	require.False(t, errors.Is(err, os.ErrClosed), err)
	require.NotContains(t, err.Error(), "already closed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "target", entries[0].Name())
}

func TestAtomicWriteCallbackFailure(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	dir := ctx.Dir("atomic")
	target := filepath.Join(dir, "target.json")

	failure := errors.New("write failed")
	err := atomicWrite(target, 0644, func(w io.Writer) error { return failure })
	require.ErrorIs(t, err, failure)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
