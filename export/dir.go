// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package export

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/errs"

	"storj.io/nftmeta/collection"
)

var _ Target = (*DirTarget)(nil)

// AssetOpener opens token assets by real ID.
type AssetOpener interface {
	GetAsset(ctx context.Context, id collection.TokenID) (collection.Asset, error)
}

// DirTarget exports into a plain local directory, "<id>.json" for metadata
// and "<id>.<extension>" for assets, e.g. for uploading to IPFS.
type DirTarget struct {
	dir       string
	assets    AssetOpener
	extension string
}

// NewDirTarget creates a target writing into dir. Assets are read from assets.
func NewDirTarget(dir string, assets AssetOpener, extension string) (*DirTarget, error) {
	if dir == "" {
		return nil, Error.New("output directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, Error.Wrap(err)
	}
	return &DirTarget{dir: dir, assets: assets, extension: extension}, nil
}

// Dir returns the output directory.
func (target *DirTarget) Dir() string { return target.dir }

// ClearExportedAssets removes the asset files from the directory.
func (target *DirTarget) ClearExportedAssets(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return target.removeMatching("*." + target.extension)
}

// ClearExportedMetadata removes the metadata files from the directory.
func (target *DirTarget) ClearExportedMetadata(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return target.removeMatching("*.json")
}

// StoreExportedAsset copies the asset of source to "<target>.<extension>".
func (target *DirTarget) StoreExportedAsset(ctx context.Context, source, id collection.TokenID) (err error) {
	defer mon.Task()(&ctx)(&err)

	asset, err := target.assets.GetAsset(ctx, source)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, asset.Close()) }()

	return target.write(id.String()+"."+target.extension, func(w io.Writer) error {
		_, err := io.Copy(w, asset)
		return err
	})
}

// StoreExportedMetadata writes doc to "<target>.json".
func (target *DirTarget) StoreExportedMetadata(ctx context.Context, id collection.TokenID, doc collection.Document) (err error) {
	defer mon.Task()(&ctx)(&err)

	data, err := collection.EncodeDocument(doc)
	if err != nil {
		return err
	}
	return target.write(id.String()+".json", func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func (target *DirTarget) write(name string, fn func(io.Writer) error) (err error) {
	fh, err := os.Create(filepath.Join(target.dir, name))
	if err != nil {
		return Error.Wrap(err)
	}
	defer func() { err = errs.Combine(err, Error.Wrap(fh.Close())) }()

	return Error.Wrap(fn(fh))
}

func (target *DirTarget) removeMatching(pattern string) error {
	matches, err := filepath.Glob(filepath.Join(target.dir, pattern))
	if err != nil {
		return Error.Wrap(err)
	}

	var group errs.Group
	for _, match := range matches {
		group.Add(os.Remove(match))
	}
	return Error.Wrap(group.Err())
}
