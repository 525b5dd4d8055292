// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package testsuite

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DirFixture is a Fixture over a collection laid out in a local directory.
type DirFixture string

func (dir DirFixture) path(key string) string {
	return filepath.Join(string(dir), filepath.FromSlash(key))
}

// Put writes data under key.
func (dir DirFixture) Put(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dir.path(key)), 0755); err != nil {
		return err
	}
	return os.WriteFile(dir.path(key), data, 0644)
}

// Get reads the data under key.
func (dir DirFixture) Get(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(dir.path(key))
}

// List returns every file below prefix.
func (dir DirFixture) List(ctx context.Context, prefix string) (keys []string, err error) {
	err = filepath.WalkDir(dir.path(prefix), func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(string(dir), path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return keys, err
}
