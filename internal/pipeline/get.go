// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"rescribe.xyz/autothresh"
)

type DownloadLister interface {
	Download(bucket string, key string, fn string) error
	ListObjects(bucket string, prefix string) ([]string, error)
	Log(v ...interface{})
	StorageId() string
}

// IsResult reports whether a storage key names one of the files
// saved by ProcessImage
func IsResult(key string) bool {
	for _, s := range []string{
		autothresh.GraySuffix,
		autothresh.BinarySuffix,
		autothresh.ThresholdsSuffix,
		autothresh.GraphSuffix,
		autothresh.ReportSuffix,
	} {
		if strings.HasSuffix(key, s) {
			return true
		}
	}
	return false
}

// DownloadResults downloads every result saved under prefix into
// dir, returning the paths of the downloaded files
func DownloadResults(ctx context.Context, dir string, prefix string, conn DownloadLister) ([]string, error) {
	var done []string

	objs, err := conn.ListObjects(conn.StorageId(), prefix)
	if err != nil {
		return done, fmt.Errorf("Failed to get list of files for %s: %w", prefix, err)
	}

	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return done, fmt.Errorf("Failed to create directory %s: %w", dir, err)
	}

	for _, key := range objs {
		select {
		case <-ctx.Done():
			return done, ctx.Err()
		default:
		}
		if !IsResult(key) {
			continue
		}
		fn := filepath.Join(dir, path.Base(key))
		conn.Log("Downloading file", key)
		err = conn.Download(conn.StorageId(), key, fn)
		if err != nil {
			return done, fmt.Errorf("Failed to download file %s: %w", key, err)
		}
		done = append(done, fn)
	}

	return done, nil
}
