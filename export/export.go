// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package export writes the published collection, addressed by public
// token ID, to an export target.
package export

import (
	"context"
	"strings"
	"sync"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/resolver"
)

var (
	// Error is the default export error class.
	Error = errs.Class("export")

	mon = monkit.Package()
)

// Target receives exported files. Every collection.Backend is a Target
// writing to its own export area.
type Target interface {
	ClearExportedAssets(ctx context.Context) error
	ClearExportedMetadata(ctx context.Context) error
	StoreExportedAsset(ctx context.Context, source, target collection.TokenID) error
	StoreExportedMetadata(ctx context.Context, target collection.TokenID, doc collection.Document) error
}

// Source resolves public token IDs, see resolver.Resolver.
type Source interface {
	MaxTokenID() int
	AssetsExtension() string
	LoadMapping(ctx context.Context) error
	Metadata(ctx context.Context, id collection.TokenID, assetURI string) (collection.Document, error)
	ExportAsset(ctx context.Context, target resolver.AssetExporter, id collection.TokenID) error
}

var _ Source = (*resolver.Resolver)(nil)

// Config configures the export.
type Config struct {
	Concurrency int `help:"number of tokens exported in parallel" default:"1"`
}

// Progress is called once for every exported token. Calls are serialized.
type Progress func(id collection.TokenID)

// Pipeline exports every token of a collection.
type Pipeline struct {
	log    *zap.Logger
	source Source
	target Target
	config Config
}

// NewPipeline creates an export pipeline from source to target.
func NewPipeline(log *zap.Logger, source Source, target Target, config Config) *Pipeline {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &Pipeline{
		log:    log,
		source: source,
		target: target,
		config: config,
	}
}

// ExportAssets replaces the exported assets with the asset of every public
// token ID.
func (pipeline *Pipeline) ExportAssets(ctx context.Context, progress Progress) (err error) {
	defer mon.Task()(&ctx)(&err)

	if err := pipeline.target.ClearExportedAssets(ctx); err != nil {
		return err
	}
	if err := pipeline.source.LoadMapping(ctx); err != nil {
		return err
	}

	err = pipeline.forEach(ctx, progress, func(ctx context.Context, id collection.TokenID) error {
		return pipeline.source.ExportAsset(ctx, pipeline.target, id)
	})
	if err != nil {
		return err
	}

	pipeline.log.Info("assets exported", zap.Int("tokens", pipeline.source.MaxTokenID()))
	return nil
}

// ExportMetadata replaces the exported metadata with the published metadata
// of every public token ID. Images link to "<uriPrefix>/<id>.<extension>".
func (pipeline *Pipeline) ExportMetadata(ctx context.Context, uriPrefix string, progress Progress) (err error) {
	defer mon.Task()(&ctx)(&err)

	prefix := strings.Trim(uriPrefix, "/")
	if prefix == "" {
		return Error.New("invalid URI prefix %q", uriPrefix)
	}
	extension := pipeline.source.AssetsExtension()

	if err := pipeline.target.ClearExportedMetadata(ctx); err != nil {
		return err
	}
	if err := pipeline.source.LoadMapping(ctx); err != nil {
		return err
	}

	err = pipeline.forEach(ctx, progress, func(ctx context.Context, id collection.TokenID) error {
		doc, err := pipeline.source.Metadata(ctx, id, AssetURI(prefix, id, extension))
		if err != nil {
			return err
		}
		return pipeline.target.StoreExportedMetadata(ctx, id, doc)
	})
	if err != nil {
		return err
	}

	pipeline.log.Info("metadata exported", zap.Int("tokens", pipeline.source.MaxTokenID()), zap.String("uri prefix", prefix))
	return nil
}

// AssetURI returns the link of an exported asset below prefix.
func AssetURI(prefix string, id collection.TokenID, extension string) string {
	return strings.Trim(prefix, "/") + "/" + id.String() + "." + extension
}

func (pipeline *Pipeline) forEach(ctx context.Context, progress Progress, fn func(ctx context.Context, id collection.TokenID) error) error {
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(pipeline.config.Concurrency)

	maxTokenID := collection.TokenID(pipeline.source.MaxTokenID())
	for id := collection.TokenID(1); id <= maxTokenID; id++ {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := fn(groupCtx, id); err != nil {
				return Error.New("token %d: %w", id, err)
			}
			if progress != nil {
				mu.Lock()
				progress(id)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
