// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package updater implements the transformations applied to a raw metadata
// document before it is published.
package updater

import (
	"github.com/zeebo/errs"

	"storj.io/nftmeta/collection"
)

// Error is the default updater error class.
var Error = errs.Class("updater")

// Updater mutates a metadata document in place.
//
// id is the public token ID and assetURI the public link of the token asset.
type Updater interface {
	Update(doc collection.Document, id collection.TokenID, assetURI string) error
}

// Func adapts an ordinary function to the Updater interface.
type Func func(doc collection.Document, id collection.TokenID, assetURI string) error

// Update calls fn.
func (fn Func) Update(doc collection.Document, id collection.TokenID, assetURI string) error {
	return fn(doc, id, assetURI)
}

// Chain applies updaters in registration order. It cannot be reordered once
// built.
type Chain struct {
	updaters []Updater
}

// NewChain returns a chain running updaters in the given order. Nil updaters are skipped.
func NewChain(updaters ...Updater) *Chain {
	chain := &Chain{}
	for _, updater := range updaters {
		if updater != nil {
			chain.updaters = append(chain.updaters, updater)
		}
	}
	return chain
}

// Len returns the number of updaters in the chain.
func (chain *Chain) Len() int { return len(chain.updaters) }

// Update runs every updater sequentially and stops at the first failure.
func (chain *Chain) Update(doc collection.Document, id collection.TokenID, assetURI string) error {
	for _, updater := range chain.updaters {
		if err := updater.Update(doc, id, assetURI); err != nil {
			return err
		}
	}
	return nil
}

// URI sets the image of the document to the asset URI.
type URI struct{}

// Update implements Updater.
func (URI) Update(doc collection.Document, id collection.TokenID, assetURI string) error {
	doc["image"] = assetURI
	return nil
}
