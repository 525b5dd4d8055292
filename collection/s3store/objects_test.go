// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package s3store

import (
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/errs"

	"storj.io/nftmeta/collection"
)

func TestConvertError(t *testing.T) {
	require.NoError(t, convertError("key", nil))

	err := convertError("metadata/1.json", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})
	require.True(t, collection.ErrNotFound.Has(err), err)

	err = convertError("metadata/1.json", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403})
	require.True(t, collection.ErrExternalService.Has(err), err)

	err = convertError("metadata/1.json", errs.New("connection reset"))
	require.True(t, collection.ErrExternalService.Has(err), err)
}

func TestParseEndpoint(t *testing.T) {
	for _, tc := range []struct {
		endpoint string
		secure   bool
		host     string
		expected bool
		fails    bool
	}{
		{endpoint: "localhost:9000", secure: true, host: "localhost:9000", expected: true},
		{endpoint: "localhost:9000", secure: false, host: "localhost:9000", expected: false},
		{endpoint: "http://minio:9000", secure: true, host: "minio:9000", expected: false},
		{endpoint: "https://s3.amazonaws.com", secure: false, host: "s3.amazonaws.com", expected: true},
		{endpoint: "ftp://example.com", fails: true},
		{endpoint: "", fails: true},
	} {
		host, secure, err := parseEndpoint(tc.endpoint, tc.secure)
		if tc.fails {
			require.Error(t, err, tc.endpoint)
			continue
		}
		require.NoError(t, err, tc.endpoint)
		require.Equal(t, tc.host, host)
		require.Equal(t, tc.expected, secure, tc.endpoint)
	}
}
