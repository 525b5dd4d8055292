// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package shuffle generates and persists the mapping that hides which real
// token backs each public token until the collection is revealed.
package shuffle

import (
	"context"
	crand "crypto/rand"
	"math/rand/v2"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/nftmeta/collection"
)

var (
	// Error is the default shuffle error class.
	Error = errs.Class("shuffle")

	mon = monkit.Package()
)

// Generate returns a mapping of length maxTokenID where only the positions
// in [min, max] are permuted. Every other position maps to itself.
func Generate(maxTokenID, min, max int, rng *rand.Rand) (collection.Mapping, error) {
	if min <= 0 || min >= max || max > maxTokenID {
		return nil, collection.ErrInvalidTokensRange.New("min %d, max %d, max token id %d", min, max, maxTokenID)
	}

	mapping := collection.Identity(maxTokenID)
	target := mapping[min-1 : max]
	rng.Shuffle(len(target), func(i, j int) {
		target[i], target[j] = target[j], target[i]
	})
	return mapping, nil
}

// Cache is the in-process copy of the mapping a new shuffle replaces.
type Cache interface {
	// ReplaceMapping runs store while mapping readers are held off and drops
	// the cached copy once store succeeded.
	ReplaceMapping(ctx context.Context, store func(ctx context.Context) error) error
}

// Engine shuffles a collection.
type Engine struct {
	log        *zap.Logger
	backend    collection.Backend
	maxTokenID int
	cache      Cache

	newRand func() (*rand.Rand, error)
}

// NewEngine creates a shuffle engine. cache may be nil when no process keeps
// a copy of the mapping.
func NewEngine(log *zap.Logger, backend collection.Backend, maxTokenID int, cache Cache) *Engine {
	return &Engine{
		log:        log,
		backend:    backend,
		maxTokenID: maxTokenID,
		cache:      cache,
		newRand:    secureRand,
	}
}

// Shuffle permutes the tokens in [min, max], persists the new mapping and
// returns it.
func (engine *Engine) Shuffle(ctx context.Context, min, max int) (_ collection.Mapping, err error) {
	defer mon.Task()(&ctx)(&err)

	rng, err := engine.newRand()
	if err != nil {
		return nil, Error.Wrap(err)
	}

	mapping, err := Generate(engine.maxTokenID, min, max, rng)
	if err != nil {
		return nil, err
	}

	store := func(ctx context.Context) error {
		return engine.backend.StoreShuffleMapping(ctx, mapping)
	}
	if engine.cache != nil {
		err = engine.cache.ReplaceMapping(ctx, store)
	} else {
		err = store(ctx)
	}
	if err != nil {
		return nil, err
	}

	engine.log.Info("collection shuffled",
		zap.Int("min", min),
		zap.Int("max", max),
		zap.Int("max token id", engine.maxTokenID))
	return mapping, nil
}

// secureRand returns a generator seeded from the operating system.
func secureRand() (*rand.Rand, error) {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, err
	}
	return rand.New(rand.NewChaCha8(seed)), nil
}
