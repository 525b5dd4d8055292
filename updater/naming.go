// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package updater

import (
	"strings"

	"storj.io/nftmeta/collection"
)

// Naming names every token after its public ID, e.g. "My awesome token #12".
type Naming struct {
	// Prefix is prepended to the token ID. A trailing "#" is added when missing.
	Prefix string
	// Edition also stores the public ID in the "edition" field.
	Edition bool
}

// Update implements Updater.
func (naming Naming) Update(doc collection.Document, id collection.TokenID, assetURI string) error {
	prefix := naming.Prefix
	if !strings.HasSuffix(prefix, "#") {
		prefix += "#"
	}
	doc["name"] = prefix + id.String()
	if naming.Edition {
		doc["edition"] = int(id)
	}
	return nil
}
