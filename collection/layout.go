// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package collection

import (
	"mime"
	"path"
	"strings"
)

// Persisted layout, relative to the collection root.
const (
	MetadataDir         = "metadata"
	AssetsDir           = "assets"
	HiddenMetadataPath  = "hidden/hidden.json"
	ABIPath             = "abi.json"
	MappingPath         = "mapping.json"
	ExportedMetadataDir = "exported/metadata"
	ExportedAssetsDir   = "exported/assets"

	hiddenAssetBase = "hidden/hidden."
)

// MetadataPath returns the path of the metadata of a real token.
func MetadataPath(id TokenID) string {
	return path.Join(MetadataDir, id.String()+".json")
}

// AssetPath returns the path of the asset of a real token.
func AssetPath(id TokenID, extension string) string {
	return path.Join(AssetsDir, id.String()+"."+extension)
}

// HiddenAssetPath returns the path of the hidden asset.
func HiddenAssetPath(extension string) string {
	return hiddenAssetBase + extension
}

// ExportedMetadataPath returns the export path of the metadata of a public token.
func ExportedMetadataPath(id TokenID) string {
	return path.Join(ExportedMetadataDir, id.String()+".json")
}

// ExportedAssetPath returns the export path of the asset of a public token.
func ExportedAssetPath(id TokenID, extension string) string {
	return path.Join(ExportedAssetsDir, id.String()+"."+extension)
}

// ContentType guesses the content type from a file extension.
func ContentType(extension string) string {
	contentType := mime.TypeByExtension("." + strings.TrimPrefix(extension, "."))
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}
