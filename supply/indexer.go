// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package supply

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/nftmeta/collection"
)

// maxIndexerResponse bounds the body read from the indexer.
const maxIndexerResponse = 4 << 20

// SlugPlaceholder is replaced by the collection slug in indexer URLs.
const SlugPlaceholder = "{SLUG}"

// NewHTTPClient returns a client that gives up after connectTimeout when
// connecting and after timeout for the whole request.
func NewHTTPClient(connectTimeout, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: connectTimeout}).DialContext,
			TLSHandshakeTimeout: connectTimeout,
		},
	}
}

// Indexer reads the total supply from an external indexer API, e.g. the
// OpenSea collection stats.
type Indexer struct {
	log    *zap.Logger
	client *http.Client
	url    string
	apiKey string
	path   *jmespath.JMESPath
}

// NewIndexer creates a provider querying url and extracting the value at
// the JMESPath expression path.
func NewIndexer(log *zap.Logger, client *http.Client, url, path, apiKey string) (*Indexer, error) {
	if url == "" {
		return nil, Error.New("indexer url is required")
	}
	compiled, err := jmespath.Compile(path)
	if err != nil {
		return nil, Error.New("invalid indexer path %q: %v", path, err)
	}
	return &Indexer{
		log:    log,
		client: client,
		url:    url,
		apiKey: apiKey,
		path:   compiled,
	}, nil
}

// IndexerURL fills the collection slug into template.
func IndexerURL(template, slug string) string {
	return strings.ReplaceAll(template, SlugPlaceholder, slug)
}

// TotalSupply implements Provider.
func (indexer *Indexer) TotalSupply(ctx context.Context) (_ int64, err error) {
	defer mon.Task()(&ctx)(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexer.url, nil)
	if err != nil {
		return 0, Error.Wrap(err)
	}
	req.Header.Set("Accept", "application/json")
	if indexer.apiKey != "" {
		req.Header.Set("X-API-KEY", indexer.apiKey)
	}

	resp, err := indexer.client.Do(req)
	if err != nil {
		return 0, collection.ErrExternalService.Wrap(err)
	}
	defer func() { err = errs.Combine(err, resp.Body.Close()) }()

	if resp.StatusCode != http.StatusOK {
		return 0, collection.ErrExternalService.New("indexer responded with %s", resp.Status)
	}

	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxIndexerResponse))
	decoder.UseNumber()

	var body any
	if err := decoder.Decode(&body); err != nil {
		return 0, collection.ErrExternalService.New("decoding indexer response: %v", err)
	}

	value, err := indexer.path.Search(body)
	if err != nil {
		return 0, collection.ErrExternalService.New("searching indexer response: %v", err)
	}
	if value == nil {
		return 0, collection.ErrExternalService.New("indexer response has no total supply")
	}

	supply, err := toSupply("indexer", value)
	if err != nil {
		return 0, err
	}
	indexer.log.Debug("total supply from indexer", zap.Int64("supply", supply))
	return supply, nil
}
