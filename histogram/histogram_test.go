// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package histogram

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"rescribe.xyz/autothresh/pixbuf"
)

func randomGray(w, h, stride int, seed int64) *pixbuf.Gray {
	r := rand.New(rand.NewSource(seed))
	g := &pixbuf.Gray{Width: w, Height: h, Stride: stride, Pix: make([]byte, h*stride)}
	for i := range g.Pix {
		g.Pix[i] = uint8(r.Intn(256))
	}
	return g
}

func TestNew(t *testing.T) {
	cases := []struct {
		w, h, stride int
	}{
		{1, 1, 1},
		{2, 1, 2},
		{17, 13, 17},
		{17, 13, 20},
		{640, 3, 641},
		{0, 0, 0},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%dx%d_%d", c.w, c.h, c.stride), func(t *testing.T) {
			g := randomGray(c.w, c.h, c.stride, int64(c.w*c.h))
			h := New(g)
			if h.Total() != c.w*c.h {
				t.Fatalf("Expected total %d, got %d", c.w*c.h, h.Total())
			}
			for _, n := range []int{2, 3, 8, 100} {
				p := NewParallel(g, n)
				if p != h {
					t.Fatalf("Parallel histogram with %d goroutines differs", n)
				}
			}
		})
	}
}

func TestTwoPixels(t *testing.T) {
	g := pixbuf.NewGray(2, 1)
	g.Pix[0], g.Pix[1] = 0, 255
	h := New(g)
	for i, c := range h {
		expected := 0
		if i == 0 || i == 255 {
			expected = 1
		}
		if c != expected {
			t.Fatalf("Expected count %d at %d, got %d", expected, i, c)
		}
	}
	if h.WeightedSum() != 255 {
		t.Fatalf("Expected weighted sum 255, got %d", h.WeightedSum())
	}
}

func TestSpan(t *testing.T) {
	cases := []struct {
		name     string
		set      []int
		min, max int
		ok       bool
	}{
		{"empty", []int{}, 0, 0, false},
		{"single", []int{7}, 7, 7, true},
		{"edges", []int{0, 255}, 0, 255, true},
		{"middle", []int{30, 31, 200}, 30, 200, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var h H
			for _, v := range c.set {
				h[v] = 3
			}
			min, max, ok := h.Span()
			if min != c.min || max != c.max || ok != c.ok {
				t.Fatalf("Expected %d, %d, %v; got %d, %d, %v", c.min, c.max, c.ok, min, max, ok)
			}
		})
	}
}

func TestProbabilities(t *testing.T) {
	var h H
	_, err := h.Probabilities()
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("Expected ErrEmpty, got %v", err)
	}

	h[10], h[20] = 1, 3
	p, err := h.Probabilities()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var sum float64
	for _, v := range p {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 || p[20] != 0.75 {
		t.Fatalf("Unexpected probabilities, sum %f, p[20] %f", sum, p[20])
	}
	if h.Peak() != 3 {
		t.Fatalf("Expected peak 3, got %d", h.Peak())
	}
}

func BenchmarkNew(b *testing.B) {
	g := randomGray(2480, 3508, 2480, 1)
	b.Run("serial", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			New(g)
		}
	})
	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			NewParallel(g, 8)
		}
	})
}
