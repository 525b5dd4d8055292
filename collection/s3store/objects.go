// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package s3store

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/zeebo/errs"

	"storj.io/nftmeta/collection"
)

const noSuchKey = "NoSuchKey"

// Object is an opened object.
type Object struct {
	io.ReadSeekCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Objects is the part of the object store API the backend relies on.
// Keys are absolute object keys inside a single bucket.
type Objects interface {
	Open(ctx context.Context, key string) (Object, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Copy(ctx context.Context, source, target string) error
	RemovePrefix(ctx context.Context, prefix string) error
}

// minioObjects implements Objects with a minio client.
type minioObjects struct {
	client *minio.Client
	bucket string
}

func dialMinio(config Config) (*minioObjects, error) {
	endpoint, secure, err := parseEndpoint(config.Endpoint, !config.Insecure)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   config.ConnectTimeout,
		ResponseHeaderTimeout: config.Timeout,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure:    secure,
		Region:    config.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	return &minioObjects{client: client, bucket: config.Bucket}, nil
}

// parseEndpoint accepts either "host[:port]" or a full URL.
func parseEndpoint(endpoint string, secure bool) (host string, _ bool, err error) {
	if endpoint == "" {
		return "", false, errs.New("endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, secure, nil
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", false, err
	}
	switch parsed.Scheme {
	case "https":
		return parsed.Host, true, nil
	case "http":
		return parsed.Host, false, nil
	default:
		return "", false, errs.New("unsupported endpoint scheme %q", parsed.Scheme)
	}
}

func (objects *minioObjects) Open(ctx context.Context, key string) (_ Object, err error) {
	defer mon.Task()(&ctx)(&err)

	object, err := objects.client.GetObject(ctx, objects.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Object{}, convertError(key, err)
	}
	info, err := object.Stat()
	if err != nil {
		return Object{}, errs.Combine(convertError(key, err), object.Close())
	}
	return Object{
		ReadSeekCloser: object,
		Size:           info.Size,
		ContentType:    info.ContentType,
		ModTime:        info.LastModified,
	}, nil
}

func (objects *minioObjects) Put(ctx context.Context, key string, data []byte, contentType string) (err error) {
	defer mon.Task()(&ctx)(&err)

	_, err = objects.client.PutObject(ctx, objects.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return convertError(key, err)
}

func (objects *minioObjects) Copy(ctx context.Context, source, target string) (err error) {
	defer mon.Task()(&ctx)(&err)

	_, err = objects.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: objects.bucket, Object: target},
		minio.CopySrcOptions{Bucket: objects.bucket, Object: source},
	)
	return convertError(source, err)
}

func (objects *minioObjects) RemovePrefix(ctx context.Context, prefix string) (err error) {
	defer mon.Task()(&ctx)(&err)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var listErr error
	listed := make(chan struct{})
	toRemove := make(chan minio.ObjectInfo)
	go func() {
		defer close(listed)
		defer close(toRemove)
		for object := range objects.client.ListObjects(ctx, objects.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			select {
			case toRemove <- object:
			case <-ctx.Done():
				return
			}
		}
	}()

	var group errs.Group
	for removeErr := range objects.client.RemoveObjects(ctx, objects.bucket, toRemove, minio.RemoveObjectsOptions{}) {
		group.Add(convertError(removeErr.ObjectName, removeErr.Err))
	}
	cancel()
	<-listed

	group.Add(convertError(prefix, listErr))
	return group.Err()
}

// convertError maps object store failures onto the collection error classes.
func convertError(key string, err error) error {
	if err == nil {
		return nil
	}
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return collection.ErrNotFound.New("%s", key)
	}
	return collection.ErrExternalService.Wrap(err)
}
