// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pixbuf

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		name string
		buf  Buffer
		err  error
	}{
		{"packed", Buffer{Width: 2, Height: 2, Stride: 6, BytesPerPixel: 3, Pix: make([]byte, 12)}, nil},
		{"padded", Buffer{Width: 2, Height: 2, Stride: 8, BytesPerPixel: 3, Pix: make([]byte, 14)}, nil},
		{"shortstride", Buffer{Width: 2, Height: 2, Stride: 5, BytesPerPixel: 3, Pix: make([]byte, 12)}, ErrBadGeometry},
		{"shortpix", Buffer{Width: 2, Height: 2, Stride: 6, BytesPerPixel: 3, Pix: make([]byte, 11)}, ErrBadGeometry},
		{"nobpp", Buffer{Width: 2, Height: 2, Stride: 6, BytesPerPixel: 0, Pix: make([]byte, 12)}, ErrBadGeometry},
		{"empty", Buffer{BytesPerPixel: 1}, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.buf.Check()
			if c.err == nil && err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if c.err != nil && !errors.Is(err, c.err) {
				t.Fatalf("Expected error %v, got %v", c.err, err)
			}
		})
	}
}

func TestGrayAccessors(t *testing.T) {
	// 3x2 image with 2 bytes of padding per row
	g := &Gray{Width: 3, Height: 2, Stride: 5, Pix: make([]byte, 10)}
	g.Set(0, 0, 10)
	g.Set(2, 1, 20)
	g.Set(3, 0, 99)
	g.Set(-1, 0, 99)
	g.Set(0, 2, 99)

	if g.At(0, 0) != 10 || g.At(2, 1) != 20 {
		t.Fatalf("Set values not returned by At: %v", g.Pix)
	}
	if g.Pix[7] != 20 {
		t.Fatalf("Stride not respected, expected Pix[7] to be 20, got %v", g.Pix)
	}
	for i, v := range g.Pix {
		if v == 99 {
			t.Fatalf("Out of bounds Set wrote to Pix[%d]", i)
		}
	}
	if g.At(3, 0) != 0 || g.At(0, -1) != 0 {
		t.Fatalf("Out of bounds At should return 0")
	}
	if len(g.Row(1)) != 3 || g.Row(1)[2] != 20 {
		t.Fatalf("Row returned unexpected data: %v", g.Row(1))
	}
}

func TestBufferPixel(t *testing.T) {
	b := &Buffer{Width: 2, Height: 2, Stride: 8, BytesPerPixel: 3, Pix: []byte{
		1, 2, 3, 4, 5, 6, 0, 0,
		7, 8, 9, 10, 11, 12,
	}}
	p := b.Pixel(1, 1)
	if !bytes.Equal(p, []byte{10, 11, 12}) {
		t.Fatalf("Expected pixel 10 11 12, got %v", p)
	}
	if b.Pixel(2, 0) != nil {
		t.Fatalf("Expected nil for out of bounds pixel")
	}
	if !bytes.Equal(b.Row(1), []byte{7, 8, 9, 10, 11, 12}) {
		t.Fatalf("Unexpected row: %v", b.Row(1))
	}
}

func TestAsGray(t *testing.T) {
	b := NewBuffer(4, 3, 1)
	g, err := b.AsGray()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if &g.Pix[0] != &b.Pix[0] {
		t.Fatalf("AsGray copied the storage")
	}

	_, err = NewBuffer(4, 3, 3).AsGray()
	if !errors.Is(err, ErrBadGeometry) {
		t.Fatalf("Expected ErrBadGeometry, got %v", err)
	}
}

func TestFromImage(t *testing.T) {
	var identity color.Palette
	for i := 0; i < 256; i++ {
		identity = append(identity, color.Gray{uint8(i)})
	}
	reversed := make(color.Palette, 256)
	for i := range reversed {
		reversed[i] = color.Gray{uint8(255 - i)}
	}

	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix = []byte{30, 40}
	paletted := image.NewPaletted(image.Rect(0, 0, 2, 1), identity)
	paletted.Pix = []byte{50, 60}
	revpaletted := image.NewPaletted(image.Rect(0, 0, 2, 1), reversed)
	revpaletted.Pix = []byte{0, 255}
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.Set(0, 0, color.RGBA{1, 2, 3, 255})
	rgba.Set(1, 0, color.RGBA{4, 5, 6, 255})

	cases := []struct {
		name    string
		img     image.Image
		bpp     int
		palette bool
		pix     []byte
	}{
		{"gray", gray, 1, false, []byte{30, 40}},
		{"identitypalette", paletted, 1, true, []byte{50, 60}},
		{"reversedpalette", revpaletted, 3, false, []byte{255, 255, 255, 0, 0, 0}},
		{"rgba", rgba, 3, false, []byte{1, 2, 3, 4, 5, 6}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := FromImage(c.img)
			if b.BytesPerPixel != c.bpp {
				t.Fatalf("Expected %d bytes per pixel, got %d", c.bpp, b.BytesPerPixel)
			}
			if (b.Palette != nil) != c.palette {
				t.Fatalf("Palette presence differs, expected %v", c.palette)
			}
			if !bytes.Equal(b.Pix, c.pix) {
				t.Fatalf("Expected pixels %v, got %v", c.pix, b.Pix)
			}
		})
	}
}

func TestSubImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.Gray)

	b := FromImage(sub)
	if !bytes.Equal(b.Pix, []byte{5, 6, 9, 10}) {
		t.Fatalf("Unexpected pixels from sub image: %v", b.Pix)
	}

	g := FromGray(sub)
	if g.Width != 2 || g.Height != 2 || g.At(1, 1) != 10 {
		t.Fatalf("FromGray didn't respect sub image bounds: %dx%d, At(1,1) = %d", g.Width, g.Height, g.At(1, 1))
	}
}

func TestEncodePNG(t *testing.T) {
	g := NewGray(3, 2)
	copy(g.Pix, []byte{0, 255, 0, 255, 0, 255})

	var buf bytes.Buffer
	err := EncodePNG(&buf, g)
	if err != nil {
		t.Fatalf("Could not encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Could not decode: %v", err)
	}
	back, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("Expected a gray image back, got %T", img)
	}
	if !bytes.Equal(back.Pix, g.Pix) {
		t.Fatalf("Pixels changed in round trip: %v", back.Pix)
	}

	decoded, format, err := Decode(bytes.NewReader(mustPNG(t, g)))
	if err != nil {
		t.Fatalf("Could not decode with Decode: %v", err)
	}
	if format != "png" || decoded.BytesPerPixel != 1 {
		t.Fatalf("Expected 1 byte per pixel png, got %s with %d", format, decoded.BytesPerPixel)
	}
}

func mustPNG(t *testing.T, g *Gray) []byte {
	var buf bytes.Buffer
	err := EncodePNG(&buf, g)
	if err != nil {
		t.Fatalf("Could not encode: %v", err)
	}
	return buf.Bytes()
}
