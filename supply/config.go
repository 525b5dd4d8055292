// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package supply

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"storj.io/nftmeta/private/cache"
)

// Config selects and configures the total supply provider.
type Config struct {
	Provider string `help:"source of the total supply, one of static, contract or indexer" default:"static"`
	Static   int64  `help:"total supply returned by the static provider" default:"0"`

	RPCEndpoint     string `help:"Ethereum JSON-RPC endpoint of the contract provider" default:""`
	ContractAddress string `help:"address of the collection contract" default:""`

	IndexerURL     string `help:"indexer API URL of the collection, {SLUG} is replaced by the collection slug" default:"https://api.opensea.io/api/v1/collection/{SLUG}"`
	IndexerPath    string `help:"JMESPath expression of the total supply in the indexer response" default:"collection.stats.total_supply"`
	IndexerAPIKey  string `help:"API key sent to the indexer" default:""`
	CollectionSlug string `help:"collection slug on the indexer" default:""`

	ConnectTimeout time.Duration `help:"timeout for connecting to remote providers" default:"5s"`
	Timeout        time.Duration `help:"timeout for a single remote request" default:"10s"`
	CacheTTL       time.Duration `help:"how long the total supply is cached, 0 disables caching" default:"1m"`
}

// ABILoader returns the contract interface description.
type ABILoader interface {
	ABI(ctx context.Context) (json.RawMessage, error)
}

// Open creates the configured provider, wrapped in a cache when store is not
// nil and CacheTTL is positive.
func Open(ctx context.Context, log *zap.Logger, config Config, abis ABILoader, store cache.Store) (_ Provider, err error) {
	defer mon.Task()(&ctx)(&err)

	var provider Provider
	switch strings.ToLower(config.Provider) {
	case "", "static":
		if config.Static < 0 {
			return nil, Error.New("static total supply must not be negative")
		}
		provider = Static(config.Static)
	case "contract":
		if !common.IsHexAddress(config.ContractAddress) {
			return nil, Error.New("invalid contract address %q", config.ContractAddress)
		}
		if abis == nil {
			return nil, Error.New("contract provider requires the collection abi")
		}
		rawABI, err := abis.ABI(ctx)
		if err != nil {
			return nil, err
		}
		provider, err = DialContract(ctx, log.Named("contract"), config.RPCEndpoint,
			common.HexToAddress(config.ContractAddress), rawABI, config.ConnectTimeout, config.Timeout)
		if err != nil {
			return nil, err
		}
	case "indexer":
		url := config.IndexerURL
		if strings.Contains(url, SlugPlaceholder) {
			if config.CollectionSlug == "" {
				return nil, Error.New("collection slug is required by %q", url)
			}
			url = IndexerURL(url, config.CollectionSlug)
		}
		provider, err = NewIndexer(log.Named("indexer"), NewHTTPClient(config.ConnectTimeout, config.Timeout),
			url, config.IndexerPath, config.IndexerAPIKey)
		if err != nil {
			return nil, err
		}
	default:
		return nil, Error.New("unknown total supply provider %q", config.Provider)
	}

	if store == nil || config.CacheTTL <= 0 {
		return provider, nil
	}
	return NewCached(log.Named("cached"), provider, store, config.CacheTTL, config.Timeout), nil
}

// Close releases the resources of provider, if any.
func Close(provider Provider) error {
	return closeProvider(provider)
}

func closeProvider(provider Provider) error {
	if closer, ok := provider.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
