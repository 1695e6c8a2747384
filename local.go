// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package autothresh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// localStorageId puts objects straight into the Dir of a LocalConn
const localStorageId = "."

// LocalConn is a simple implementation of the connection interface
// that doesn't rely on any "cloud" services, instead storing
// everything as files on the local machine.
type LocalConn struct {
	// these should be set before running Init(), or left to defaults
	Dir    string
	Logger *zerolog.Logger
}

// Init creates the storage directory if needed
func (a *LocalConn) Init() error {
	if a.Dir == "" {
		a.Dir = filepath.Join(os.TempDir(), "autothresh")
	}
	err := os.MkdirAll(a.Dir, 0755)
	if err != nil {
		return fmt.Errorf("Error creating storage directory %s: %w", a.Dir, err)
	}

	if a.Logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		a.Logger = &l
	}

	return nil
}

// StorageId returns the bucket results are stored in
func (a *LocalConn) StorageId() string {
	return localStorageId
}

func (a *LocalConn) path(bucket, key string) string {
	return filepath.Join(a.Dir, bucket, filepath.FromSlash(key))
}

// ListObjects lists the keys in a bucket which start with prefix
func (a *LocalConn) ListObjects(bucket string, prefix string) ([]string, error) {
	var names []string
	root := filepath.Join(a.Dir, bucket)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return names, nil
	}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		n := filepath.ToSlash(rel)
		if strings.HasPrefix(n, prefix) {
			names = append(names, n)
		}
		return nil
	})
	return names, err
}

// Download copies the file from Dir/bucket/key to path
func (a *LocalConn) Download(bucket string, key string, path string) error {
	fin, err := os.Open(a.path(bucket, key))
	if err != nil {
		return err
	}
	defer fin.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, fin)
	return err
}

// Upload copies the file from path to Dir/bucket/key
func (a *LocalConn) Upload(bucket string, key string, path string) error {
	fin, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fin.Close()

	dest := a.path(bucket, key)
	err = os.MkdirAll(filepath.Dir(dest), 0755)
	if err != nil {
		return fmt.Errorf("Error creating directory for %s: %w", key, err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, fin)
	return err
}

// DeleteObjects removes a list of objects
func (a *LocalConn) DeleteObjects(bucket string, keys []string) error {
	for _, k := range keys {
		err := os.Remove(a.path(bucket, k))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (a *LocalConn) GetLogger() *zerolog.Logger {
	return a.Logger
}

// Log records an item with the Logger. Arguments are handled as
// with fmt.Println.
func (a *LocalConn) Log(v ...interface{}) {
	logln(a.Logger, v...)
}
