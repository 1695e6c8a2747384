// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"errors"
	"testing"

	"rescribe.xyz/autothresh/histogram"
	"rescribe.xyz/autothresh/pixbuf"
)

func TestProcessBlackWhite(t *testing.T) {
	b := pixbuf.NewBuffer(2, 1, 1)
	b.Pix[0], b.Pix[1] = 0, 255

	cases := []struct {
		method    Method
		threshold int
		binary    []uint8
	}{
		{Mean, 127, []uint8{0, 255}},
		{Otsu, 0, []uint8{0, 255}},
		{Yen, 255, []uint8{0, 0}},
	}

	for _, c := range cases {
		t.Run(c.method.String(), func(t *testing.T) {
			r, err := Process(b, c.method)
			if err != nil {
				t.Fatalf("Error processing: %v", err)
			}
			if r.Hist[0] != 1 || r.Hist[255] != 1 || r.Hist.Total() != 2 {
				t.Fatalf("Unexpected histogram")
			}
			if r.Thresholds[Mean] != 127 || r.Thresholds[Otsu] != 0 || r.Thresholds[Yen] != 255 {
				t.Fatalf("Unexpected thresholds %v", r.Thresholds)
			}
			if r.Method != c.method || r.Threshold() != c.threshold {
				t.Fatalf("Expected threshold %d from %v, got %d from %v", c.threshold, c.method, r.Threshold(), r.Method)
			}
			if !grayEqual(r.Binary, grayFromRow(c.binary...)) {
				t.Fatalf("Expected binary image %v, got %v", c.binary, r.Binary.Pix)
			}
		})
	}
}

func TestProcessRGB(t *testing.T) {
	b := rgbBuffer(50, 40, 160, 3)
	r, err := Process(b, Otsu)
	if err != nil {
		t.Fatalf("Error processing: %v", err)
	}
	if r.Hist.Total() != 50*40 {
		t.Fatalf("Histogram total %d, expected %d", r.Hist.Total(), 50*40)
	}
	if r.Hist != histogram.New(r.Gray) {
		t.Fatalf("Histogram doesn't match the intensity image")
	}
	if !grayEqual(r.Binary, Binarize(r.Gray, r.Thresholds[Otsu])) {
		t.Fatalf("Binary image doesn't match the Otsu threshold")
	}
	for _, v := range r.Binary.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("Binary image contains %d", v)
		}
	}
}

func TestProcessErrors(t *testing.T) {
	cases := []struct {
		name   string
		b      *pixbuf.Buffer
		method Method
		err    error
	}{
		{"empty", pixbuf.NewBuffer(0, 0, 3), Yen, ErrEmptyHistogram},
		{"4bpp", pixbuf.NewBuffer(3, 3, 4), Yen, ErrUnsupportedPixelFormat},
		{"method", pixbuf.NewBuffer(3, 3, 3), Method(-1), ErrUnknownMethod},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Process(c.b, c.method)
			if !errors.Is(err, c.err) {
				t.Fatalf("Expected %v, got %v", c.err, err)
			}
		})
	}
}

func BenchmarkProcess(b *testing.B) {
	buf := rgbBuffer(2480, 3508, 2480*3, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Process(buf, Yen)
		if err != nil {
			b.Fatalf("Error processing: %v", err)
		}
	}
}
