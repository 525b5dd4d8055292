// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package updater

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"

	"storj.io/nftmeta/collection"
)

// Template placeholders.
const (
	TokenIDPlaceholder    = "{TOKEN_ID}"
	IntTokenIDPlaceholder = "{INT_TOKEN_ID}"
	AssetURIPlaceholder   = "{ASSET_URI}"
)

// Templated replaces first level keys of the document with the values of a
// template. Keys missing from the template are left untouched.
//
// String values may contain {TOKEN_ID} and {ASSET_URI}. A value equal to
// {INT_TOKEN_ID} is replaced by the token ID as an integer.
type Templated struct {
	template map[string]any
	keys     []string
}

// NewTemplated returns an updater for template. A nil template does nothing.
func NewTemplated(template map[string]any) *Templated {
	keys := make([]string, 0, len(template))
	for key := range template {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return &Templated{template: template, keys: keys}
}

// ParseTemplate decodes a JSON template, allowing comments and trailing
// commas. Blank input and null produce a template that does nothing.
func ParseTemplate(data []byte) (*Templated, error) {
	data = bytes.TrimSpace(jsonc.ToJSON(data))
	if len(data) == 0 {
		return NewTemplated(nil), nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var template map[string]any
	if err := decoder.Decode(&template); err != nil {
		return nil, collection.ErrMalformedContent.New("metadata template: %v", err)
	}
	return NewTemplated(template), nil
}

// Update implements Updater. The document is left untouched when the
// template cannot be applied.
func (templated *Templated) Update(doc collection.Document, id collection.TokenID, assetURI string) error {
	if templated.template == nil {
		return nil
	}

	for _, key := range templated.keys {
		if isNested(templated.template[key]) || isNested(doc[key]) {
			return collection.ErrUnsupportedNesting.New("key %q: deep level replacement is not supported", key)
		}
	}

	for _, key := range templated.keys {
		doc[key] = replacePlaceholders(templated.template[key], id, assetURI)
	}
	return nil
}

func replacePlaceholders(value any, id collection.TokenID, assetURI string) any {
	text, ok := value.(string)
	if !ok {
		return value
	}
	if text == IntTokenIDPlaceholder {
		return int(id)
	}
	return strings.NewReplacer(
		TokenIDPlaceholder, id.String(),
		AssetURIPlaceholder, assetURI,
	).Replace(text)
}

func isNested(value any) bool {
	switch value.(type) {
	case map[string]any, []any, collection.Document:
		return true
	default:
		return false
	}
}
