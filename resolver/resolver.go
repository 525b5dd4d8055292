// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package resolver turns public token IDs into published metadata and assets.
package resolver

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/updater"
)

var (
	// Error is the default resolver error class.
	Error = errs.Class("resolver")

	mon = monkit.Package()
)

// URL template placeholders.
const (
	TokenIDPlaceholder   = "{TOKEN_ID}"
	ExtensionPlaceholder = "{EXTENSION}"
)

// Config configures the resolver.
type Config struct {
	AssetURLTemplate       string        `help:"absolute URL of a token asset, {TOKEN_ID} and {EXTENSION} are replaced" default:"http://localhost:8080/asset/{TOKEN_ID}.{EXTENSION}"`
	HiddenAssetURLTemplate string        `help:"absolute URL of the hidden asset, {EXTENSION} is replaced" default:"http://localhost:8080/hidden/hidden.{EXTENSION}"`
	MappingTTL             time.Duration `help:"how long the shuffle mapping is kept in memory before it is reloaded, so shuffles by other processes become visible; 0 keeps it until this process shuffles" default:"1m"`
}

// Resolver maps public token IDs through the shuffle mapping, loads the raw
// content from the backend and runs metadata through the updater chain.
//
// The mapping is loaded lazily and cached. The Resolver is the only holder
// of a cached copy in the process.
type Resolver struct {
	log        *zap.Logger
	backend    collection.Backend
	chain      *updater.Chain
	maxTokenID int
	config     Config
	now        func() time.Time

	mu       sync.RWMutex
	loaded   bool
	mapping  collection.Mapping
	loadedAt time.Time
}

// New creates a resolver. A nil chain publishes raw documents.
func New(log *zap.Logger, backend collection.Backend, collectionConfig collection.Config, chain *updater.Chain, config Config) *Resolver {
	if chain == nil {
		chain = updater.NewChain()
	}
	return &Resolver{
		log:        log,
		backend:    backend,
		chain:      chain,
		maxTokenID: collectionConfig.MaxTokenID,
		config:     config,
		now:        time.Now,
	}
}

// MaxTokenID returns the highest token ID of the collection.
func (resolver *Resolver) MaxTokenID() int { return resolver.maxTokenID }

// AssetsExtension returns the extension of the token assets.
func (resolver *Resolver) AssetsExtension() string { return resolver.backend.AssetsExtension() }

// HiddenAssetExtension returns the extension of the hidden asset.
func (resolver *Resolver) HiddenAssetExtension() string {
	return resolver.backend.HiddenAssetExtension()
}

// AssetURL returns the public link to the asset of a public token ID.
func (resolver *Resolver) AssetURL(id collection.TokenID) string {
	return strings.NewReplacer(
		TokenIDPlaceholder, id.String(),
		ExtensionPlaceholder, resolver.backend.AssetsExtension(),
	).Replace(resolver.config.AssetURLTemplate)
}

// HiddenAssetURL returns the public link to the hidden asset.
func (resolver *Resolver) HiddenAssetURL() string {
	return strings.ReplaceAll(resolver.config.HiddenAssetURLTemplate, ExtensionPlaceholder, resolver.backend.HiddenAssetExtension())
}

// LoadMapping makes sure the mapping is cached, e.g. before a batch.
func (resolver *Resolver) LoadMapping(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	return resolver.withMapping(ctx, func(collection.Mapping) error { return nil })
}

// InvalidateMapping drops the cached mapping. The next resolution reloads it.
func (resolver *Resolver) InvalidateMapping() {
	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	resolver.invalidate()
}

// ReplaceMapping runs store while resolutions are held off and drops the
// cached mapping once store succeeded.
func (resolver *Resolver) ReplaceMapping(ctx context.Context, store func(ctx context.Context) error) (err error) {
	defer mon.Task()(&ctx)(&err)

	resolver.mu.Lock()
	defer resolver.mu.Unlock()

	if err := store(ctx); err != nil {
		return err
	}
	resolver.invalidate()
	resolver.log.Debug("shuffle mapping replaced")
	return nil
}

// MappedTokenID returns the real token ID backing a public token ID.
func (resolver *Resolver) MappedTokenID(ctx context.Context, id collection.TokenID) (mapped collection.TokenID, err error) {
	defer mon.Task()(&ctx)(&err)

	err = resolver.withMapping(ctx, func(mapping collection.Mapping) error {
		mapped, err = resolver.lookup(mapping, id)
		return err
	})
	return mapped, err
}

// Metadata returns the published metadata of a public token ID. An empty
// assetURI links the image to AssetURL. Storage is never modified.
func (resolver *Resolver) Metadata(ctx context.Context, id collection.TokenID, assetURI string) (_ collection.Document, err error) {
	defer mon.Task()(&ctx)(&err)

	var doc collection.Document
	err = resolver.withMapping(ctx, func(mapping collection.Mapping) error {
		mapped, err := resolver.lookup(mapping, id)
		if err != nil {
			return err
		}
		doc, err = resolver.backend.GetMetadata(ctx, mapped)
		return err
	})
	if err != nil {
		return nil, err
	}

	if assetURI == "" {
		assetURI = resolver.AssetURL(id)
	}
	if err := resolver.chain.Update(doc, id, assetURI); err != nil {
		return nil, err
	}
	return doc, nil
}

// Asset opens the asset of a public token ID. The caller must close it.
func (resolver *Resolver) Asset(ctx context.Context, id collection.TokenID) (asset collection.Asset, err error) {
	defer mon.Task()(&ctx)(&err)

	err = resolver.withMapping(ctx, func(mapping collection.Mapping) error {
		mapped, err := resolver.lookup(mapping, id)
		if err != nil {
			return err
		}
		asset, err = resolver.backend.GetAsset(ctx, mapped)
		return err
	})
	return asset, err
}

// ExportAsset copies the asset of a public token ID to the export area of
// target under the same public ID.
func (resolver *Resolver) ExportAsset(ctx context.Context, target AssetExporter, id collection.TokenID) (err error) {
	defer mon.Task()(&ctx)(&err)

	return resolver.withMapping(ctx, func(mapping collection.Mapping) error {
		mapped, err := resolver.lookup(mapping, id)
		if err != nil {
			return err
		}
		return target.StoreExportedAsset(ctx, mapped, id)
	})
}

// AssetExporter copies assets addressed by real ID to an export area
// addressed by public ID.
type AssetExporter interface {
	StoreExportedAsset(ctx context.Context, source, target collection.TokenID) error
}

// HiddenMetadata returns the placeholder metadata with its image linked to
// HiddenAssetURL.
func (resolver *Resolver) HiddenMetadata(ctx context.Context) (_ collection.Document, err error) {
	defer mon.Task()(&ctx)(&err)

	doc, err := resolver.backend.GetHiddenMetadata(ctx)
	if err != nil {
		return nil, err
	}
	doc["image"] = resolver.HiddenAssetURL()
	return doc, nil
}

// HiddenAsset opens the placeholder asset. The caller must close it.
func (resolver *Resolver) HiddenAsset(ctx context.Context) (_ collection.Asset, err error) {
	defer mon.Task()(&ctx)(&err)
	return resolver.backend.GetHiddenAsset(ctx)
}

// ABI returns the contract interface description.
func (resolver *Resolver) ABI(ctx context.Context) (_ json.RawMessage, err error) {
	defer mon.Task()(&ctx)(&err)
	return resolver.backend.GetABI(ctx)
}

func (resolver *Resolver) lookup(mapping collection.Mapping, id collection.TokenID) (collection.TokenID, error) {
	if id < 1 || int(id) > resolver.maxTokenID {
		return 0, collection.ErrInvalidTokenID.New("%d is not in [1, %d]", id, resolver.maxTokenID)
	}
	if mapping == nil {
		return id, nil
	}
	return mapping.Lookup(id)
}

// withMapping runs fn with the cached mapping while holding off replacements.
func (resolver *Resolver) withMapping(ctx context.Context, fn func(collection.Mapping) error) error {
	for attempt := 0; ; attempt++ {
		resolver.mu.RLock()
		// a mapping that was just loaded is used even when the TTL is shorter
		// than the load itself
		if resolver.loaded && (attempt > 0 || resolver.fresh()) {
			defer resolver.mu.RUnlock()
			return fn(resolver.mapping)
		}
		resolver.mu.RUnlock()

		if err := resolver.load(ctx); err != nil {
			return err
		}
	}
}

func (resolver *Resolver) fresh() bool {
	if resolver.config.MappingTTL <= 0 {
		return true
	}
	return resolver.now().Sub(resolver.loadedAt) < resolver.config.MappingTTL
}

func (resolver *Resolver) load(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)

	resolver.mu.Lock()
	defer resolver.mu.Unlock()

	if resolver.loaded && resolver.fresh() {
		return nil
	}

	mapping, err := resolver.backend.GetShuffleMapping(ctx)
	if err != nil {
		return err
	}
	if mapping != nil {
		if err := mapping.Validate(resolver.maxTokenID); err != nil {
			resolver.log.Warn("shuffle mapping does not match the collection", zap.Error(err))
		}
	}

	resolver.mapping = mapping
	resolver.loaded = true
	resolver.loadedAt = resolver.now()
	mon.Counter("mapping_loads").Inc(1)
	return nil
}

func (resolver *Resolver) invalidate() {
	resolver.loaded = false
	resolver.mapping = nil
	resolver.loadedAt = time.Time{}
}
