// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package resolver

import "time"

// SetClock replaces the time source, used by tests.
func (resolver *Resolver) SetClock(now func() time.Time) {
	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	resolver.now = now
}
