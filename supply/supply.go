// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package supply provides the number of tokens minted so far.
package supply

import (
	"context"
	"encoding/json"
	"math"
	"math/big"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"

	"storj.io/nftmeta/collection"
)

var (
	// Error is the default supply error class.
	Error = errs.Class("supply")

	mon = monkit.Package()
)

// Provider returns the current total supply.
type Provider interface {
	TotalSupply(ctx context.Context) (int64, error)
}

// Static is a fixed total supply.
type Static int64

// TotalSupply implements Provider.
func (static Static) TotalSupply(ctx context.Context) (int64, error) {
	return int64(static), nil
}

// toSupply converts a decoded value into a total supply, failing on
// anything that is not a non-negative integer.
func toSupply(source string, value any) (int64, error) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil || !v.IsInt64() || v.Sign() < 0 {
			return 0, collection.ErrExternalService.New("%s: total supply %v out of range", source, v)
		}
		return v.Int64(), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, collection.ErrExternalService.New("%s: total supply %d out of range", source, v)
		}
		return int64(v), nil
	case float64:
		if v < 0 || v != math.Trunc(v) || v >= math.MaxInt64 {
			return 0, collection.ErrExternalService.New("%s: total supply %v is not an integer", source, v)
		}
		return int64(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return toSupply(source, big.NewInt(n))
		}
		f, err := v.Float64()
		if err != nil {
			return 0, collection.ErrExternalService.New("%s: total supply %q is not a number", source, v.String())
		}
		return toSupply(source, f)
	default:
		return 0, collection.ErrExternalService.New("%s: unexpected total supply %T(%v)", source, value, value)
	}
}
