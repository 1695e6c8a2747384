// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"rescribe.xyz/autothresh/pixbuf"
)

// Binarize creates a new image which is white (255) wherever img is
// brighter than threshold, and black (0) everywhere else
func Binarize(img *pixbuf.Gray, threshold int) *pixbuf.Gray {
	out := pixbuf.NewGray(img.Width, img.Height)
	inBands(img.Height, func(start, end int) {
		for y := start; y < end; y++ {
			dst := out.Row(y)
			for x, v := range img.Row(y) {
				if int(v) > threshold {
					dst[x] = 255
				}
			}
		}
	})
	return out
}
