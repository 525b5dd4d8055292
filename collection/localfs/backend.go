// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package localfs implements a collection backend on top of a local directory.
package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"

	"storj.io/nftmeta/collection"
)

var (
	// Error is the default localfs error class.
	Error = errs.Class("localfs")

	mon = monkit.Package()
)

var _ collection.Backend = (*Backend)(nil)

// Config configures the local backend.
type Config struct {
	Path string `help:"root directory of the collection files" default:""`
}

// Backend stores the collection in a local directory.
type Backend struct {
	root                 string
	assetsExtension      string
	hiddenAssetExtension string
}

// New creates a backend rooted at config.Path.
func New(config Config, collectionConfig collection.Config) (*Backend, error) {
	if config.Path == "" {
		return nil, Error.New("collection path is required")
	}
	root, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return &Backend{
		root:                 root,
		assetsExtension:      collectionConfig.AssetsExtension,
		hiddenAssetExtension: collectionConfig.HiddenAssetExtension,
	}, nil
}

// Root returns the collection directory.
func (backend *Backend) Root() string { return backend.root }

// AssetsExtension returns the extension of the token asset files.
func (backend *Backend) AssetsExtension() string { return backend.assetsExtension }

// HiddenAssetExtension returns the extension of the hidden asset file.
func (backend *Backend) HiddenAssetExtension() string { return backend.hiddenAssetExtension }

// GetMetadata loads the raw metadata of a token.
func (backend *Backend) GetMetadata(ctx context.Context, id collection.TokenID) (_ collection.Document, err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.readDocument(collection.MetadataPath(id))
}

// GetAsset opens the asset of a token.
func (backend *Backend) GetAsset(ctx context.Context, id collection.TokenID) (_ collection.Asset, err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.openAsset(collection.AssetPath(id, backend.assetsExtension), backend.assetsExtension)
}

// GetHiddenMetadata loads the placeholder metadata.
func (backend *Backend) GetHiddenMetadata(ctx context.Context) (_ collection.Document, err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.readDocument(collection.HiddenMetadataPath)
}

// GetHiddenAsset opens the placeholder asset.
func (backend *Backend) GetHiddenAsset(ctx context.Context) (_ collection.Asset, err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.openAsset(collection.HiddenAssetPath(backend.hiddenAssetExtension), backend.hiddenAssetExtension)
}

// GetABI loads the contract interface description.
func (backend *Backend) GetABI(ctx context.Context) (_ json.RawMessage, err error) {
	defer mon.Task()(&ctx)(&err)
	data, err := backend.read(collection.ABIPath)
	if err != nil {
		return nil, err
	}
	return collection.DecodeABI(data)
}

// GetShuffleMapping loads the persisted mapping, nil when there is none.
func (backend *Backend) GetShuffleMapping(ctx context.Context) (_ collection.Mapping, err error) {
	defer mon.Task()(&ctx)(&err)
	data, err := backend.read(collection.MappingPath)
	if collection.ErrNotFound.Has(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return collection.DecodeMapping(data)
}

// StoreShuffleMapping replaces the persisted mapping.
func (backend *Backend) StoreShuffleMapping(ctx context.Context, mapping collection.Mapping) (err error) {
	defer mon.Task()(&ctx)(&err)
	data, err := collection.EncodeMapping(mapping)
	if err != nil {
		return err
	}
	return backend.write(collection.MappingPath, data)
}

// ClearExportedAssets removes the exported assets directory.
func (backend *Backend) ClearExportedAssets(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return Error.Wrap(os.RemoveAll(backend.path(collection.ExportedAssetsDir)))
}

// ClearExportedMetadata removes the exported metadata directory.
func (backend *Backend) ClearExportedMetadata(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return Error.Wrap(os.RemoveAll(backend.path(collection.ExportedMetadataDir)))
}

// StoreExportedAsset copies the asset of source to the export directory as target.
func (backend *Backend) StoreExportedAsset(ctx context.Context, source, target collection.TokenID) (err error) {
	defer mon.Task()(&ctx)(&err)

	asset, err := backend.GetAsset(ctx, source)
	if err != nil {
		return err
	}
	defer func() { err = errs.Combine(err, Error.Wrap(asset.Close())) }()

	return backend.writeFrom(collection.ExportedAssetPath(target, backend.assetsExtension), asset)
}

// StoreExportedMetadata writes doc to the export directory as target.
func (backend *Backend) StoreExportedMetadata(ctx context.Context, target collection.TokenID, doc collection.Document) (err error) {
	defer mon.Task()(&ctx)(&err)
	data, err := collection.EncodeDocument(doc)
	if err != nil {
		return err
	}
	return backend.write(collection.ExportedMetadataPath(target), data)
}

// Close implements collection.Backend.
func (backend *Backend) Close() error { return nil }

func (backend *Backend) path(relative string) string {
	return filepath.Join(backend.root, filepath.FromSlash(relative))
}

func (backend *Backend) read(relative string) ([]byte, error) {
	data, err := os.ReadFile(backend.path(relative))
	if err != nil {
		return nil, classify(relative, err)
	}
	return data, nil
}

func (backend *Backend) readDocument(relative string) (collection.Document, error) {
	data, err := backend.read(relative)
	if err != nil {
		return nil, err
	}
	return collection.DecodeDocument(relative, data)
}

func (backend *Backend) openAsset(relative, extension string) (collection.Asset, error) {
	file, err := os.Open(backend.path(relative))
	if err != nil {
		return collection.Asset{}, classify(relative, err)
	}
	info, err := file.Stat()
	if err != nil {
		return collection.Asset{}, errs.Combine(Error.Wrap(err), file.Close())
	}
	if info.IsDir() {
		return collection.Asset{}, errs.Combine(collection.ErrMalformedContent.New("%s is a directory", relative), file.Close())
	}
	return collection.Asset{
		Key:            relative,
		Extension:      extension,
		ContentType:    collection.ContentType(extension),
		Size:           info.Size(),
		ModTime:        info.ModTime(),
		ReadSeekCloser: file,
	}, nil
}

func (backend *Backend) write(relative string, data []byte) error {
	return atomicWrite(backend.path(relative), 0644, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func (backend *Backend) writeFrom(relative string, source io.Reader) error {
	return atomicWrite(backend.path(relative), 0644, func(w io.Writer) error {
		_, err := io.Copy(w, source)
		return err
	})
}

func classify(relative string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return collection.ErrNotFound.New("%s", relative)
	}
	return Error.Wrap(err)
}
