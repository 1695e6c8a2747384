// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// preproc converts images to gray, finds global thresholds for them
// and binarises them
package preproc

import (
	"fmt"

	"rescribe.xyz/autothresh/histogram"
	"rescribe.xyz/autothresh/pixbuf"
)

// Result holds everything produced while thresholding an image
type Result struct {
	Gray       *pixbuf.Gray
	Hist       histogram.H
	Thresholds map[Method]int
	Method     Method
	Binary     *pixbuf.Gray
}

// Threshold returns the threshold that was used to binarise the
// image
func (r Result) Threshold() int {
	return r.Thresholds[r.Method]
}

// Process converts a buffer to gray, finds its threshold with every
// Method, and binarises it with the threshold found by method
func Process(b *pixbuf.Buffer, method Method) (Result, error) {
	return ProcessMode(b, method, Luma)
}

// ProcessMode is like Process, but converts the buffer to gray
// using mode
func ProcessMode(b *pixbuf.Buffer, method Method, mode GrayscaleMode) (Result, error) {
	var r Result

	switch method {
	case Mean, Otsu, Yen:
	default:
		return r, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}

	gray, err := mode.Convert(b)
	if err != nil {
		return r, fmt.Errorf("Error converting to grayscale: %w", err)
	}

	r.Gray = gray
	r.Hist = histogram.NewParallel(gray, workers())
	r.Method = method
	r.Thresholds = make(map[Method]int)
	for _, m := range Methods() {
		t, err := Threshold(r.Hist, m)
		if err != nil {
			return r, fmt.Errorf("Error finding %s threshold: %w", m, err)
		}
		r.Thresholds[m] = t
	}

	r.Binary = Binarize(gray, r.Thresholds[method])
	return r, nil
}
