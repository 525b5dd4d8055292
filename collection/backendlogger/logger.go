// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package backendlogger wraps a collection backend with debug logging.
package backendlogger

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"

	"github.com/spacemonkeygo/monkit/v3"
	"go.uber.org/zap"

	"storj.io/nftmeta/collection"
)

var mon = monkit.Package()

var id int64

var _ collection.Backend = (*Logger)(nil)

// Logger implements collection.Backend and logs every call.
type Logger struct {
	log     *zap.Logger
	backend collection.Backend
}

// New creates a new Logger with log and backend.
func New(log *zap.Logger, backend collection.Backend) *Logger {
	loggerid := atomic.AddInt64(&id, 1)
	return &Logger{log.Named(strconv.FormatInt(loggerid, 10)), backend}
}

// AssetsExtension returns the extension of the token asset files.
func (logger *Logger) AssetsExtension() string { return logger.backend.AssetsExtension() }

// HiddenAssetExtension returns the extension of the hidden asset file.
func (logger *Logger) HiddenAssetExtension() string { return logger.backend.HiddenAssetExtension() }

// GetMetadata loads the raw metadata of a token.
func (logger *Logger) GetMetadata(ctx context.Context, tokenID collection.TokenID) (_ collection.Document, err error) {
	defer mon.Task()(&ctx)(&err)
	doc, err := logger.backend.GetMetadata(ctx, tokenID)
	logger.log.Debug("GetMetadata", zap.Stringer("token", tokenID), zap.Int("fields", len(doc)), zap.Error(err))
	return doc, err
}

// GetAsset opens the asset of a token.
func (logger *Logger) GetAsset(ctx context.Context, tokenID collection.TokenID) (_ collection.Asset, err error) {
	defer mon.Task()(&ctx)(&err)
	asset, err := logger.backend.GetAsset(ctx, tokenID)
	logger.log.Debug("GetAsset", zap.Stringer("token", tokenID), zap.Int64("size", asset.Size), zap.Error(err))
	return asset, err
}

// GetHiddenMetadata loads the placeholder metadata.
func (logger *Logger) GetHiddenMetadata(ctx context.Context) (_ collection.Document, err error) {
	defer mon.Task()(&ctx)(&err)
	doc, err := logger.backend.GetHiddenMetadata(ctx)
	logger.log.Debug("GetHiddenMetadata", zap.Error(err))
	return doc, err
}

// GetHiddenAsset opens the placeholder asset.
func (logger *Logger) GetHiddenAsset(ctx context.Context) (_ collection.Asset, err error) {
	defer mon.Task()(&ctx)(&err)
	asset, err := logger.backend.GetHiddenAsset(ctx)
	logger.log.Debug("GetHiddenAsset", zap.Int64("size", asset.Size), zap.Error(err))
	return asset, err
}

// GetABI loads the contract interface description.
func (logger *Logger) GetABI(ctx context.Context) (_ json.RawMessage, err error) {
	defer mon.Task()(&ctx)(&err)
	abi, err := logger.backend.GetABI(ctx)
	logger.log.Debug("GetABI", zap.Int("length", len(abi)), zap.Error(err))
	return abi, err
}

// GetShuffleMapping loads the persisted mapping.
func (logger *Logger) GetShuffleMapping(ctx context.Context) (_ collection.Mapping, err error) {
	defer mon.Task()(&ctx)(&err)
	mapping, err := logger.backend.GetShuffleMapping(ctx)
	logger.log.Debug("GetShuffleMapping", zap.Bool("present", mapping != nil), zap.Int("length", len(mapping)), zap.Error(err))
	return mapping, err
}

// StoreShuffleMapping replaces the persisted mapping.
func (logger *Logger) StoreShuffleMapping(ctx context.Context, mapping collection.Mapping) (err error) {
	defer mon.Task()(&ctx)(&err)
	err = logger.backend.StoreShuffleMapping(ctx, mapping)
	logger.log.Debug("StoreShuffleMapping", zap.Int("length", len(mapping)), zap.Error(err))
	return err
}

// ClearExportedAssets removes every exported asset.
func (logger *Logger) ClearExportedAssets(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	err = logger.backend.ClearExportedAssets(ctx)
	logger.log.Debug("ClearExportedAssets", zap.Error(err))
	return err
}

// ClearExportedMetadata removes every exported metadata document.
func (logger *Logger) ClearExportedMetadata(ctx context.Context) (err error) {
	defer mon.Task()(&ctx)(&err)
	err = logger.backend.ClearExportedMetadata(ctx)
	logger.log.Debug("ClearExportedMetadata", zap.Error(err))
	return err
}

// StoreExportedAsset copies the asset of source to the export area as target.
func (logger *Logger) StoreExportedAsset(ctx context.Context, source, target collection.TokenID) (err error) {
	defer mon.Task()(&ctx)(&err)
	err = logger.backend.StoreExportedAsset(ctx, source, target)
	logger.log.Debug("StoreExportedAsset", zap.Stringer("source", source), zap.Stringer("target", target), zap.Error(err))
	return err
}

// StoreExportedMetadata writes doc to the export area as target.
func (logger *Logger) StoreExportedMetadata(ctx context.Context, target collection.TokenID, doc collection.Document) (err error) {
	defer mon.Task()(&ctx)(&err)
	err = logger.backend.StoreExportedMetadata(ctx, target, doc)
	logger.log.Debug("StoreExportedMetadata", zap.Stringer("target", target), zap.Int("fields", len(doc)), zap.Error(err))
	return err
}

// Close closes the backend.
func (logger *Logger) Close() error {
	logger.log.Debug("Close")
	return logger.backend.Close()
}
