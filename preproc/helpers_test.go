// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"math/rand"

	"rescribe.xyz/autothresh/histogram"
	"rescribe.xyz/autothresh/pixbuf"
)

// grayFromRow creates a single row gray image with the given values
func grayFromRow(v ...uint8) *pixbuf.Gray {
	g := pixbuf.NewGray(len(v), 1)
	copy(g.Pix, v)
	return g
}

// rgbBuffer creates a w x h, 3 byte per pixel buffer with stride
// bytes per row, filled with random values
func rgbBuffer(w, h, stride int, seed int64) *pixbuf.Buffer {
	r := rand.New(rand.NewSource(seed))
	b := &pixbuf.Buffer{
		Width:         w,
		Height:        h,
		Stride:        stride,
		BytesPerPixel: 3,
		Pix:           make([]byte, h*stride),
	}
	r.Read(b.Pix)
	return b
}

// histOf creates a histogram with count c at each of the levels
// given as keys
func histOf(counts map[int]int) histogram.H {
	var h histogram.H
	for k, c := range counts {
		h[k] = c
	}
	return h
}

func grayEqual(a, b *pixbuf.Gray) bool {
	if a.Width != b.Width || a.Height != b.Height {
		return false
	}
	for y := 0; y < a.Height; y++ {
		ra, rb := a.Row(y), b.Row(y)
		for x := range ra {
			if ra[x] != rb[x] {
				return false
			}
		}
	}
	return true
}
