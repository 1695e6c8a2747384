// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// histogram builds intensity histograms of 8-bit gray images
package histogram

import (
	"errors"
	"sync"

	"rescribe.xyz/autothresh/pixbuf"
)

// Levels is the number of intensity levels in an 8-bit image
const Levels = 256

// ErrEmpty is returned when an operation needs at least one pixel
var ErrEmpty = errors.New("histogram is empty")

// H is an intensity histogram; H[v] is the number of pixels with
// value v
type H [Levels]int

// New creates the histogram of an image
func New(img *pixbuf.Gray) H {
	var h H
	for y := 0; y < img.Height; y++ {
		for _, v := range img.Row(y) {
			h[v]++
		}
	}
	return h
}

// NewParallel creates the histogram of an image using n goroutines,
// each counting a band of rows into its own histogram. The partial
// histograms are summed once all bands are done.
func NewParallel(img *pixbuf.Gray, n int) H {
	if n > img.Height {
		n = img.Height
	}
	if n < 2 {
		return New(img)
	}

	parts := make([]H, n)
	var wg sync.WaitGroup
	rows := (img.Height + n - 1) / n
	for i := 0; i < n; i++ {
		start, end := i*rows, (i+1)*rows
		if end > img.Height {
			end = img.Height
		}
		wg.Add(1)
		go func(part *H, start, end int) {
			defer wg.Done()
			for y := start; y < end; y++ {
				for _, v := range img.Row(y) {
					part[v]++
				}
			}
		}(&parts[i], start, end)
	}
	wg.Wait()

	var h H
	for _, p := range parts {
		h.Add(p)
	}
	return h
}

// Add adds the counts of o to h
func (h *H) Add(o H) {
	for i, c := range o {
		h[i] += c
	}
}

// Total returns the number of pixels counted
func (h H) Total() int {
	var n int
	for _, c := range h {
		n += c
	}
	return n
}

// WeightedSum returns the sum of every pixel value counted
func (h H) WeightedSum() int {
	var n int
	for i, c := range h {
		n += i * c
	}
	return n
}

// Span returns the lowest and highest levels with a nonzero count.
// ok is false if the histogram is empty.
func (h H) Span() (min int, max int, ok bool) {
	for min = 0; min < Levels && h[min] == 0; min++ {
	}
	if min == Levels {
		return 0, 0, false
	}
	for max = Levels - 1; max > min && h[max] == 0; max-- {
	}
	return min, max, true
}

// Peak returns the highest count in the histogram
func (h H) Peak() int {
	var p int
	for _, c := range h {
		if c > p {
			p = c
		}
	}
	return p
}

// Probabilities returns the histogram normalised so that it sums
// to 1
func (h H) Probabilities() ([Levels]float64, error) {
	var p [Levels]float64
	total := h.Total()
	if total == 0 {
		return p, ErrEmpty
	}
	for i, c := range h {
		p[i] = float64(c) / float64(total)
	}
	return p, nil
}
