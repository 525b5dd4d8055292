// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package server publishes the collection over HTTP.
package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/blake3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/supply"
)

var (
	// Error is the default server error class.
	Error = errs.Class("server")

	mon = monkit.Package()
)

// Config configures the HTTP server.
type Config struct {
	Address        string        `help:"address the server listens on" default:":8080"`
	Revealed       bool          `help:"serve the real metadata and assets of minted tokens" default:"false"`
	WebsiteURL     string        `help:"where the root path redirects to" default:""`
	CacheMaxAge    time.Duration `help:"max age of responses that may change, e.g. hidden metadata" default:"1h"`
	RevealedMaxAge time.Duration `help:"max age of revealed token metadata" default:"8760h"`
}

// Resolver resolves public token IDs, see resolver.Resolver.
type Resolver interface {
	AssetsExtension() string
	HiddenAssetExtension() string
	Metadata(ctx context.Context, id collection.TokenID, assetURI string) (collection.Document, error)
	Asset(ctx context.Context, id collection.TokenID) (collection.Asset, error)
	HiddenMetadata(ctx context.Context) (collection.Document, error)
	HiddenAsset(ctx context.Context) (collection.Asset, error)
}

// Server serves token metadata, assets and the total supply.
type Server struct {
	log      *zap.Logger
	listener net.Listener
	server   http.Server
	resolver Resolver
	supply   supply.Provider
	config   Config
}

// New creates a server. listener may be nil when only Handler is used.
func New(log *zap.Logger, listener net.Listener, resolver Resolver, provider supply.Provider, config Config) *Server {
	server := &Server{
		log:      log,
		listener: listener,
		resolver: resolver,
		supply:   provider,
		config:   config,
	}

	router := mux.NewRouter()
	router.HandleFunc("/", server.handleRoot).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/metadata/{id:[0-9]+}.json", server.handleMetadata).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/asset/{id:[0-9]+}.{ext}", server.handleAsset).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/hidden/hidden.{ext}", server.handleHiddenAsset).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/total-supply", server.handleTotalSupply).Methods(http.MethodGet, http.MethodHead)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.errorResponse(w, r, ErrNotFound)
	})

	server.server = http.Server{
		Handler:           gzhttp.GzipHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(log),
	}
	return server
}

// Handler returns the HTTP handler of the server.
func (server *Server) Handler() http.Handler { return server.server.Handler }

// Run serves until ctx is canceled.
func (server *Server) Run(ctx context.Context) error {
	if server.listener == nil {
		return Error.New("no listener")
	}
	server.log.Info("serving collection", zap.Stringer("address", server.listener.Addr()), zap.Bool("revealed", server.config.Revealed))

	ctx, cancel := context.WithCancel(ctx)
	var group errgroup.Group
	group.Go(func() error {
		<-ctx.Done()
		return Error.Wrap(server.server.Shutdown(context.Background()))
	})
	group.Go(func() error {
		defer cancel()
		err := server.server.Serve(server.listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return Error.Wrap(err)
	})
	return group.Wait()
}

// Close closes the server and the listener.
func (server *Server) Close() error {
	return Error.Wrap(server.server.Close())
}

func (server *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if server.config.WebsiteURL == "" {
		server.errorResponse(w, r, ErrNotFound)
		return
	}
	http.Redirect(w, r, server.config.WebsiteURL, http.StatusFound)
}

func (server *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	defer mon.Task()(&ctx)(&err)

	id, err := parseTokenID(mux.Vars(r)["id"])
	if err != nil {
		server.errorResponse(w, r, err)
		return
	}

	visible, err := server.visible(ctx, id)
	if err != nil {
		server.errorResponse(w, r, err)
		return
	}

	if !visible {
		var doc collection.Document
		doc, err = server.resolver.HiddenMetadata(ctx)
		if err != nil {
			server.errorResponse(w, r, err)
			return
		}
		server.jsonResponse(w, r, server.config.CacheMaxAge, doc)
		return
	}

	doc, err := server.resolver.Metadata(ctx, id, "")
	if err != nil {
		server.errorResponse(w, r, err)
		return
	}
	server.jsonResponse(w, r, server.config.RevealedMaxAge, doc)
}

func (server *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	defer mon.Task()(&ctx)(&err)

	vars := mux.Vars(r)
	id, err := parseTokenID(vars["id"])
	if err != nil {
		server.errorResponse(w, r, err)
		return
	}
	if vars["ext"] != server.resolver.AssetsExtension() {
		server.errorResponse(w, r, ErrNotFound)
		return
	}

	visible, err := server.visible(ctx, id)
	if err != nil {
		server.errorResponse(w, r, err)
		return
	}
	if !visible {
		server.errorResponse(w, r, ErrNotFound)
		return
	}

	asset, err := server.resolver.Asset(ctx, id)
	if err != nil {
		server.errorResponse(w, r, err)
		return
	}
	server.assetResponse(w, r, server.config.CacheMaxAge, asset)
}

func (server *Server) handleHiddenAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	defer mon.Task()(&ctx)(&err)

	if mux.Vars(r)["ext"] != server.resolver.HiddenAssetExtension() {
		server.errorResponse(w, r, ErrNotFound)
		return
	}

	asset, err := server.resolver.HiddenAsset(ctx)
	if err != nil {
		server.errorResponse(w, r, err)
		return
	}
	server.assetResponse(w, r, server.config.CacheMaxAge, asset)
}

func (server *Server) handleTotalSupply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var err error
	defer mon.Task()(&ctx)(&err)

	totalSupply, err := server.supply.TotalSupply(ctx)
	if err != nil {
		server.errorResponse(w, r, err)
		return
	}
	server.jsonResponse(w, r, server.config.CacheMaxAge, map[string]int64{"total_supply": totalSupply})
}

// visible reports whether the real content of a token may be served: the
// collection is revealed and the token is minted.
func (server *Server) visible(ctx context.Context, id collection.TokenID) (bool, error) {
	if !server.config.Revealed || id < 1 {
		return false, nil
	}
	totalSupply, err := server.supply.TotalSupply(ctx)
	if err != nil {
		return false, err
	}
	return int64(id) <= totalSupply, nil
}

func parseTokenID(value string) (collection.TokenID, error) {
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, ErrNotFound
	}
	return collection.TokenID(id), nil
}

func (server *Server) jsonResponse(w http.ResponseWriter, r *http.Request, maxAge time.Duration, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		server.errorResponse(w, r, err)
		return
	}

	sum := blake3.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	setCacheControl(w, maxAge)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

func (server *Server) assetResponse(w http.ResponseWriter, r *http.Request, maxAge time.Duration, asset collection.Asset) {
	defer func() {
		if err := asset.Close(); err != nil {
			server.log.Warn("failed to close asset", zap.String("key", asset.Key), zap.Error(err))
		}
	}()

	w.Header().Set("Content-Type", asset.ContentType)
	setCacheControl(w, maxAge)
	http.ServeContent(w, r, asset.Key, asset.ModTime, asset)
}

func (server *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	response := toErrorResponse(err)
	if response.StatusCode >= http.StatusInternalServerError {
		server.log.Warn("error during request", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		server.log.Debug("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}

	data, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(response.StatusCode)
	_, _ = w.Write(data)
}

func setCacheControl(w http.ResponseWriter, maxAge time.Duration) {
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge/time.Second)))
}
