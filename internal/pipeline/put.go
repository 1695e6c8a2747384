// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"
	"os"

	"rescribe.xyz/autothresh/pixbuf"
)

// CheckImage checks that a file is an image that can be decoded,
// before any work is started on it
func CheckImage(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Opening image %s failed: %w", path, err)
	}
	defer f.Close()
	_, _, err = pixbuf.Decode(f)
	if err != nil {
		return fmt.Errorf("Decoding image %s failed: %w", path, err)
	}

	return nil
}
