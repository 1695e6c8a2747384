// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func Test_CheckImage(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writeTestImage(t, good)
	bad := filepath.Join(dir, "bad.png")
	err := os.WriteFile(bad, []byte("not a png"), 0600)
	if err != nil {
		t.Fatalf("Error preparing test file: %v", err)
	}
	notreadable := filepath.Join(dir, "notreadable.png")
	writeTestImage(t, notreadable)

	cases := []struct {
		name string
		path string
		err  string
	}{
		{"good", good, ""},
		{"bad", bad, "Decoding image " + bad + " failed: image: unknown format"},
		{"missing", filepath.Join(dir, "missing.png"), "Opening image " + filepath.Join(dir, "missing.png") + " failed"},
		{"notreadable", notreadable, "Opening image " + notreadable + " failed"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.name == "notreadable" {
				if os.Geteuid() == 0 {
					t.Skip("Skipping unreadable file test as root can read anything")
				}
				err := os.Chmod(c.path, 0000)
				if err != nil {
					t.Fatalf("Error preparing test by setting file to be unreadable: %v", err)
				}
				defer os.Chmod(c.path, 0644)
			}

			err := CheckImage(context.Background(), c.path)
			if err == nil && c.err != "" {
				t.Fatalf("Expected error '%v', got no error", c.err)
			}
			if err != nil && c.err == "" {
				t.Fatalf("Expected no error, got error '%v'", err)
			}
			if err != nil && !strings.HasPrefix(err.Error(), c.err) {
				t.Fatalf("Got an unexpected error, expected '%v', got '%v'", c.err, err)
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = CheckImage(ctx, good)
	if err != context.Canceled {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}
