// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package supply

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"storj.io/nftmeta/collection"
)

const totalSupplyMethod = "totalSupply"

// Contract reads the total supply from the collection smart contract.
type Contract struct {
	log      *zap.Logger
	contract *bind.BoundContract
	address  common.Address
	timeout  time.Duration
	closer   func()
}

// NewContract binds the contract at address described by rawABI. The ABI
// must declare a totalSupply function.
func NewContract(log *zap.Logger, caller bind.ContractCaller, address common.Address, rawABI json.RawMessage, timeout time.Duration) (*Contract, error) {
	parsed, err := abi.JSON(bytes.NewReader(rawABI))
	if err != nil {
		return nil, collection.ErrMalformedContent.New("contract abi: %v", err)
	}
	if _, ok := parsed.Methods[totalSupplyMethod]; !ok {
		return nil, collection.ErrMalformedContent.New("contract abi has no %s function", totalSupplyMethod)
	}

	return &Contract{
		log:      log,
		contract: bind.NewBoundContract(address, parsed, caller, nil, nil),
		address:  address,
		timeout:  timeout,
	}, nil
}

// DialContract connects to an Ethereum JSON-RPC endpoint and binds the contract.
func DialContract(ctx context.Context, log *zap.Logger, endpoint string, address common.Address, rawABI json.RawMessage, connectTimeout, timeout time.Duration) (_ *Contract, err error) {
	defer mon.Task()(&ctx)(&err)

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: connectTimeout}).DialContext,
			TLSHandshakeTimeout: connectTimeout,
		},
	}

	client, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, collection.ErrExternalService.Wrap(err)
	}

	contract, err := NewContract(log, ethclient.NewClient(client), address, rawABI, timeout)
	if err != nil {
		client.Close()
		return nil, err
	}
	contract.closer = client.Close
	return contract, nil
}

// TotalSupply calls totalSupply() on the contract.
func (contract *Contract) TotalSupply(ctx context.Context) (_ int64, err error) {
	defer mon.Task()(&ctx)(&err)

	if contract.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, contract.timeout)
		defer cancel()
	}

	var out []any
	if err := contract.contract.Call(&bind.CallOpts{Context: ctx}, &out, totalSupplyMethod); err != nil {
		return 0, collection.ErrExternalService.New("calling %s on %s: %v", totalSupplyMethod, contract.address.Hex(), err)
	}
	if len(out) != 1 {
		return 0, collection.ErrExternalService.New("%s returned %d values", totalSupplyMethod, len(out))
	}

	supply, err := toSupply(totalSupplyMethod, out[0])
	if err != nil {
		return 0, err
	}
	contract.log.Debug("total supply from contract", zap.Stringer("address", contract.address), zap.Int64("supply", supply))
	return supply, nil
}

// Close closes the RPC connection, if any.
func (contract *Contract) Close() error {
	if contract.closer != nil {
		contract.closer()
	}
	return nil
}
