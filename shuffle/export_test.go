// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package shuffle

import "math/rand/v2"

// SetRand replaces the generator source, used by tests.
func (engine *Engine) SetRand(newRand func() (*rand.Rand, error)) {
	engine.newRand = newRand
}
