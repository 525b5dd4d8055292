// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package s3store implements a collection backend on an S3 compatible object store.
package s3store

import (
	"context"
	"encoding/json"
	"io"
	"path"
	"strings"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"

	"storj.io/nftmeta/collection"
)

var (
	// Error is the default s3store error class.
	Error = errs.Class("s3store")

	mon = monkit.Package()
)

var _ collection.Backend = (*Backend)(nil)

// Config configures the object store backend.
type Config struct {
	Endpoint  string `help:"S3 endpoint, either host[:port] or an http(s) URL" default:""`
	Region    string `help:"S3 region" default:""`
	AccessKey string `help:"S3 access key" default:""`
	SecretKey string `help:"S3 secret key" default:""`
	Bucket    string `help:"bucket holding the collection" default:""`
	Prefix    string `help:"key prefix of the collection inside the bucket" default:""`
	Insecure  bool   `help:"connect without TLS when the endpoint has no scheme" default:"false"`

	ConnectTimeout time.Duration `help:"timeout for establishing a connection" default:"5s"`
	Timeout        time.Duration `help:"timeout for a single request" default:"10s"`
}

// Verify checks the configuration values.
func (config Config) Verify() error {
	var group errs.Group
	if config.Endpoint == "" {
		group.Add(errs.New("s3 endpoint is required"))
	}
	if config.Bucket == "" {
		group.Add(errs.New("s3 bucket is required"))
	}
	if config.ConnectTimeout <= 0 || config.Timeout <= 0 {
		group.Add(errs.New("s3 timeouts must be positive"))
	}
	return group.Err()
}

// Backend stores the collection in a bucket.
type Backend struct {
	objects              Objects
	prefix               string
	timeout              time.Duration
	assetsExtension      string
	hiddenAssetExtension string
}

// New creates a backend talking to the configured object store.
func New(config Config, collectionConfig collection.Config) (*Backend, error) {
	if err := config.Verify(); err != nil {
		return nil, Error.Wrap(err)
	}
	objects, err := dialMinio(config)
	if err != nil {
		return nil, err
	}
	return NewWithObjects(objects, config, collectionConfig), nil
}

// NewWithObjects creates a backend on top of an existing Objects implementation.
func NewWithObjects(objects Objects, config Config, collectionConfig collection.Config) *Backend {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Backend{
		objects:              objects,
		prefix:               strings.Trim(config.Prefix, "/"),
		timeout:              timeout,
		assetsExtension:      collectionConfig.AssetsExtension,
		hiddenAssetExtension: collectionConfig.HiddenAssetExtension,
	}
}

// Key returns the absolute object key of a layout path.
func (backend *Backend) Key(relative string) string {
	return strings.Trim(path.Join(backend.prefix, strings.Trim(relative, "/")), "/")
}

// AssetsExtension returns the extension of the token asset files.
func (backend *Backend) AssetsExtension() string { return backend.assetsExtension }

// HiddenAssetExtension returns the extension of the hidden asset file.
func (backend *Backend) HiddenAssetExtension() string { return backend.hiddenAssetExtension }

// GetMetadata loads the raw metadata of a token.
func (backend *Backend) GetMetadata(ctx context.Context, id collection.TokenID) (_ collection.Document, err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.readDocument(ctx, collection.MetadataPath(id))
}

// GetAsset opens the asset of a token.
func (backend *Backend) GetAsset(ctx context.Context, id collection.TokenID) (_ collection.Asset, err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.openAsset(ctx, collection.AssetPath(id, backend.assetsExtension), backend.assetsExtension)
}

// GetHiddenMetadata loads the placeholder metadata.
func (backend *Backend) GetHiddenMetadata(ctx context.Context) (_ collection.Document, err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.readDocument(ctx, collection.HiddenMetadataPath)
}

// GetHiddenAsset opens the placeholder asset.
func (backend *Backend) GetHiddenAsset(ctx context.Context) (_ collection.Asset, err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.openAsset(ctx, collection.HiddenAssetPath(backend.hiddenAssetExtension), backend.hiddenAssetExtension)
}

// GetABI loads the contract interface description.
func (backend *Backend) GetABI(ctx context.Context) (_ json.RawMessage, err error) {
	defer mon.Task()(&ctx)(&err)
	data, err := backend.read(ctx, collection.ABIPath)
	if err != nil {
		return nil, err
	}
	return collection.DecodeABI(data)
}

// GetShuffleMapping loads the persisted mapping, nil when there is none.
func (backend *Backend) GetShuffleMapping(ctx context.Context) (_ collection.Mapping, err error) {
	defer mon.Task()(&ctx)(&err)
	data, err := backend.read(ctx, collection.MappingPath)
	if collection.ErrNotFound.Has(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return collection.DecodeMapping(data)
}

// StoreShuffleMapping replaces the persisted mapping. A single PUT replaces
// the object as a whole.
func (backend *Backend) StoreShuffleMapping(ctx context.Context, mapping collection.Mapping) (err error) {
	defer mon.Task()(&ctx)(&err)
	data, err := collection.EncodeMapping(mapping)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, backend.timeout)
	defer cancel()
	return backend.objects.Put(ctx, backend.Key(collection.MappingPath), data, "application/json")
}

// ClearExportedAssets removes every exported asset.
func (backend *Backend) ClearExportedAssets(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.objects.RemovePrefix(ctx, backend.Key(collection.ExportedAssetsDir)+"/")
}

// ClearExportedMetadata removes every exported metadata document.
func (backend *Backend) ClearExportedMetadata(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return backend.objects.RemovePrefix(ctx, backend.Key(collection.ExportedMetadataDir)+"/")
}

// StoreExportedAsset copies the asset of source to the export area as target.
func (backend *Backend) StoreExportedAsset(ctx context.Context, source, target collection.TokenID) (err error) {
	defer mon.Task()(&ctx)(&err)
	ctx, cancel := context.WithTimeout(ctx, backend.timeout)
	defer cancel()
	return backend.objects.Copy(ctx,
		backend.Key(collection.AssetPath(source, backend.assetsExtension)),
		backend.Key(collection.ExportedAssetPath(target, backend.assetsExtension)),
	)
}

// StoreExportedMetadata writes doc to the export area as target.
func (backend *Backend) StoreExportedMetadata(ctx context.Context, target collection.TokenID, doc collection.Document) (err error) {
	defer mon.Task()(&ctx)(&err)
	data, err := collection.EncodeDocument(doc)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, backend.timeout)
	defer cancel()
	return backend.objects.Put(ctx, backend.Key(collection.ExportedMetadataPath(target)), data, "application/json")
}

// Close implements collection.Backend.
func (backend *Backend) Close() error { return nil }

func (backend *Backend) read(ctx context.Context, relative string) (_ []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, backend.timeout)
	defer cancel()

	object, err := backend.objects.Open(ctx, backend.Key(relative))
	if err != nil {
		return nil, err
	}
	defer func() { err = errs.Combine(err, object.Close()) }()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, collection.ErrExternalService.Wrap(err)
	}
	return data, nil
}

func (backend *Backend) readDocument(ctx context.Context, relative string) (collection.Document, error) {
	data, err := backend.read(ctx, relative)
	if err != nil {
		return nil, err
	}
	return collection.DecodeDocument(relative, data)
}

// openAsset does not bound the request with a deadline, since the body is
// streamed after returning. The transport limits connect and header times.
func (backend *Backend) openAsset(ctx context.Context, relative, extension string) (collection.Asset, error) {
	object, err := backend.objects.Open(ctx, backend.Key(relative))
	if err != nil {
		return collection.Asset{}, err
	}
	contentType := object.ContentType
	if contentType == "" || contentType == "binary/octet-stream" {
		contentType = collection.ContentType(extension)
	}
	return collection.Asset{
		Key:            relative,
		Extension:      extension,
		ContentType:    contentType,
		Size:           object.Size,
		ModTime:        object.ModTime,
		ReadSeekCloser: object.ReadSeekCloser,
	}, nil
}
