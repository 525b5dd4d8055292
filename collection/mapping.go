// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package collection

// Mapping redirects public token IDs to real token IDs.
//
// The entry at position i-1 is the real token backing public token i.
type Mapping []TokenID

// Identity returns the mapping where every public ID equals its real ID.
func Identity(maxTokenID int) Mapping {
	mapping := make(Mapping, maxTokenID)
	for i := range mapping {
		mapping[i] = TokenID(i + 1)
	}
	return mapping
}

// Lookup returns the real ID for the public ID.
func (mapping Mapping) Lookup(public TokenID) (TokenID, error) {
	if public < 1 || int(public) > len(mapping) {
		return 0, ErrInvalidTokenID.New("%d is not in the shuffle mapping", public)
	}
	return mapping[public-1], nil
}

// Validate checks that the mapping is a bijection on [1, maxTokenID].
func (mapping Mapping) Validate(maxTokenID int) error {
	if len(mapping) != maxTokenID {
		return ErrMalformedContent.New("mapping has %d entries, expected %d", len(mapping), maxTokenID)
	}

	seen := make([]bool, maxTokenID+1)
	for i, actual := range mapping {
		if actual < 1 || int(actual) > maxTokenID {
			return ErrMalformedContent.New("mapping entry %d is out of range: %d", i+1, actual)
		}
		if seen[actual] {
			return ErrMalformedContent.New("mapping entry %d repeats token %d", i+1, actual)
		}
		seen[actual] = true
	}
	return nil
}

// Clone returns a copy of the mapping.
func (mapping Mapping) Clone() Mapping {
	if mapping == nil {
		return nil
	}
	return append(Mapping(nil), mapping...)
}
