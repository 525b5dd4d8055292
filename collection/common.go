// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package collection defines the shared types, error classes and the storage
// contract for a numbered NFT collection.
package collection

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/zeebo/errs"
)

var (
	// ErrInvalidTokenID is returned when a token ID is out of range or absent from a mapping.
	ErrInvalidTokenID = errs.Class("invalid token id")

	// ErrInvalidTokensRange is returned when shuffle bounds are malformed.
	ErrInvalidTokensRange = errs.Class("invalid tokens range")

	// ErrNotFound is returned when a backing file or object does not exist.
	ErrNotFound = errs.Class("not found")

	// ErrMalformedContent is returned when content exists but cannot be decoded as expected.
	ErrMalformedContent = errs.Class("malformed content")

	// ErrExternalService is returned when a remote service fails or answers with an unexpected shape.
	ErrExternalService = errs.Class("external service")

	// ErrUnsupportedNesting is returned when a templated update meets nested structures.
	ErrUnsupportedNesting = errs.Class("unsupported nesting")
)

// TokenID identifies a token. Valid IDs are in [1, MaxTokenID].
type TokenID int

// String implements fmt.Stringer.
func (id TokenID) String() string { return strconv.Itoa(int(id)) }

// Document is a decoded metadata document.
type Document map[string]any

// Clone returns a shallow copy of the document.
func (doc Document) Clone() Document {
	clone := make(Document, len(doc))
	for key, value := range doc {
		clone[key] = value
	}
	return clone
}

// Asset is an opened asset file or object. The caller must close it.
type Asset struct {
	Key         string
	Extension   string
	ContentType string
	Size        int64
	ModTime     time.Time

	io.ReadSeekCloser
}

// Backend gives raw access to the collection content.
//
// Reads are addressed by real token ID, export writes by public token ID.
type Backend interface {
	// AssetsExtension returns the extension of the token asset files.
	AssetsExtension() string
	// HiddenAssetExtension returns the extension of the hidden asset file.
	HiddenAssetExtension() string

	// GetMetadata loads the raw metadata of a token.
	GetMetadata(ctx context.Context, id TokenID) (Document, error)
	// GetAsset opens the asset of a token.
	GetAsset(ctx context.Context, id TokenID) (Asset, error)
	// GetHiddenMetadata loads the placeholder metadata served before reveal.
	GetHiddenMetadata(ctx context.Context) (Document, error)
	// GetHiddenAsset opens the placeholder asset served before reveal.
	GetHiddenAsset(ctx context.Context) (Asset, error)
	// GetABI loads the contract interface description.
	GetABI(ctx context.Context) (json.RawMessage, error)

	// GetShuffleMapping loads the persisted mapping. It returns nil without
	// an error when no mapping was ever stored.
	GetShuffleMapping(ctx context.Context) (Mapping, error)
	// StoreShuffleMapping replaces the persisted mapping atomically.
	StoreShuffleMapping(ctx context.Context, mapping Mapping) error

	// ClearExportedAssets removes every previously exported asset.
	ClearExportedAssets(ctx context.Context) error
	// ClearExportedMetadata removes every previously exported metadata document.
	ClearExportedMetadata(ctx context.Context) error
	// StoreExportedAsset copies the asset of source to the export area under target.
	StoreExportedAsset(ctx context.Context, source, target TokenID) error
	// StoreExportedMetadata writes doc to the export area under target.
	StoreExportedMetadata(ctx context.Context, target TokenID, doc Document) error

	// Close releases the backend resources.
	Close() error
}

// Config describes the collection. It is immutable after startup.
type Config struct {
	MaxTokenID           int    `help:"the highest token ID of the collection" default:"10000"`
	AssetsExtension      string `help:"extension of the token asset files" default:"png"`
	HiddenAssetExtension string `help:"extension of the hidden asset file" default:"png"`
}

// Verify checks the configuration values.
func (config Config) Verify() error {
	var group errs.Group
	if config.MaxTokenID < 1 {
		group.Add(errs.New("max token id must be positive, got %d", config.MaxTokenID))
	}
	if config.AssetsExtension == "" {
		group.Add(errs.New("assets extension is required"))
	}
	if config.HiddenAssetExtension == "" {
		group.Add(errs.New("hidden asset extension is required"))
	}
	return group.Err()
}
