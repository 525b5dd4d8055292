// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package s3store_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storj.io/common/testcontext"
	"storj.io/nftmeta/collection"
	"storj.io/nftmeta/collection/s3store"
	"storj.io/nftmeta/collection/testsuite"
)

var testCollection = collection.Config{
	MaxTokenID:           100,
	AssetsExtension:      "png",
	HiddenAssetExtension: "gif",
}

func TestSuite(t *testing.T) {
	for _, prefix := range []string{"", "collections/test", "/nested/"} {
		t.Run("prefix="+prefix, func(t *testing.T) {
			ctx := testcontext.New(t)
			defer ctx.Cleanup()

			bucket := newMemoryBucket()
			backend := s3store.NewWithObjects(bucket, s3store.Config{Prefix: prefix}, testCollection)
			defer ctx.Check(backend.Close)

			testsuite.RunTests(t, backend, prefixFixture{bucket: bucket, backend: backend})

			for _, key := range bucket.keys("") {
				require.True(t, strings.HasPrefix(key, strings.Trim(prefix, "/")), key)
			}
		})
	}
}

func TestKey(t *testing.T) {
	backend := s3store.NewWithObjects(newMemoryBucket(), s3store.Config{Prefix: "/a/b/"}, testCollection)
	require.Equal(t, "a/b/metadata/1.json", backend.Key(collection.MetadataPath(1)))

	backend = s3store.NewWithObjects(newMemoryBucket(), s3store.Config{}, testCollection)
	require.Equal(t, "mapping.json", backend.Key(collection.MappingPath))
}

func TestConfigVerify(t *testing.T) {
	require.Error(t, s3store.Config{}.Verify())
	require.NoError(t, s3store.Config{
		Endpoint:       "localhost:9000",
		Bucket:         "nft",
		ConnectTimeout: 5 * time.Second,
		Timeout:        10 * time.Second,
	}.Verify())
}

func TestNewRejectsBadEndpoint(t *testing.T) {
	_, err := s3store.New(s3store.Config{
		Endpoint:       "ftp://example.com",
		Bucket:         "nft",
		ConnectTimeout: 5 * time.Second,
		Timeout:        10 * time.Second,
	}, testCollection)
	require.Error(t, err)
}

// prefixFixture addresses the bucket through the backend's key layout.
type prefixFixture struct {
	bucket  *memoryBucket
	backend *s3store.Backend
}

func (fixture prefixFixture) Put(ctx context.Context, key string, data []byte) error {
	return fixture.bucket.Put(ctx, fixture.backend.Key(key), data, "")
}

func (fixture prefixFixture) Get(ctx context.Context, key string) ([]byte, error) {
	object, err := fixture.bucket.Open(ctx, fixture.backend.Key(key))
	if err != nil {
		return nil, err
	}
	defer func() { _ = object.Close() }()
	return io.ReadAll(object)
}

func (fixture prefixFixture) List(ctx context.Context, prefix string) ([]string, error) {
	root := fixture.backend.Key("")
	var keys []string
	for _, key := range fixture.bucket.keys(fixture.backend.Key(prefix) + "/") {
		if root != "" {
			key = strings.TrimPrefix(key, root+"/")
		}
		keys = append(keys, key)
	}
	return keys, nil
}

type memoryObject struct {
	data        []byte
	contentType string
	modTime     time.Time
}

// memoryBucket is an in-memory s3store.Objects.
type memoryBucket struct {
	mu      sync.Mutex
	objects map[string]memoryObject
}

func newMemoryBucket() *memoryBucket {
	return &memoryBucket{objects: map[string]memoryObject{}}
}

func (bucket *memoryBucket) keys(prefix string) []string {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	var keys []string
	for key := range bucket.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (bucket *memoryBucket) Open(ctx context.Context, key string) (s3store.Object, error) {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	object, ok := bucket.objects[key]
	if !ok {
		return s3store.Object{}, collection.ErrNotFound.New("%s", key)
	}
	return s3store.Object{
		ReadSeekCloser: nopCloser{bytes.NewReader(object.data)},
		Size:           int64(len(object.data)),
		ContentType:    object.contentType,
		ModTime:        object.modTime,
	}, nil
}

func (bucket *memoryBucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	bucket.objects[key] = memoryObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		modTime:     time.Now(),
	}
	return nil
}

func (bucket *memoryBucket) Copy(ctx context.Context, source, target string) error {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	object, ok := bucket.objects[source]
	if !ok {
		return collection.ErrNotFound.New("%s", source)
	}
	bucket.objects[target] = object
	return nil
}

func (bucket *memoryBucket) RemovePrefix(ctx context.Context, prefix string) error {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	for key := range bucket.objects {
		if strings.HasPrefix(key, prefix) {
			delete(bucket.objects, key)
		}
	}
	return nil
}

type nopCloser struct{ *bytes.Reader }

func (nopCloser) Close() error { return nil }
