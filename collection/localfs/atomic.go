// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package localfs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/errs"
)

// atomicWrite writes to a temporary file next to outfile and renames it into
// place, so readers observe either the old or the new content.
func atomicWrite(outfile string, mode os.FileMode, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(outfile), 0755); err != nil {
		return Error.Wrap(err)
	}

	fh, err := os.CreateTemp(filepath.Dir(outfile), "."+filepath.Base(outfile)+".*")
	if err != nil {
		return Error.Wrap(err)
	}
	closed := false
	defer func() {
		if err != nil {
			if !closed {
				err = errs.Combine(err, fh.Close())
			}
			err = errs.Combine(err, os.Remove(fh.Name()))
		}
	}()

	if err := write(fh); err != nil {
		return Error.Wrap(err)
	}
	if err := fh.Chmod(mode); err != nil {
		return Error.Wrap(err)
	}
	if err := fh.Sync(); err != nil {
		return Error.Wrap(err)
	}
	closed = true
	if err := fh.Close(); err != nil {
		return Error.Wrap(err)
	}
	if err := os.Rename(fh.Name(), outfile); err != nil {
		return Error.Wrap(err)
	}
	return nil
}
