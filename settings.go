// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package autothresh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Settings holds the details of the cloud account used by AwsConn
type Settings struct {
	Region, Bucket string
}

// SettingsPath returns the location of the settings file
func SettingsPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "autothresh", "settings")
}

// GetSettings reads the settings file at SettingsPath. If there is
// no settings file the defaults are returned.
func GetSettings() (Settings, error) {
	return ReadSettings(SettingsPath())
}

// ReadSettings reads a settings file containing the region and
// bucket, separated by whitespace. If the file doesn't exist the
// defaults are returned.
func ReadSettings(p string) (Settings, error) {
	s := Settings{Region: defaultAwsRegion, Bucket: defaultBucket}
	b, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("Error reading settings from %s: %w", p, err)
	}
	f := strings.Fields(string(b))
	if len(f) != 2 {
		return s, fmt.Errorf("Error parsing settings in %s, need %d fields, got %d", p, 2, len(f))
	}
	s.Region, s.Bucket = f[0], f[1]
	return s, nil
}
