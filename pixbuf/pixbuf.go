// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// pixbuf contains the pixel buffers passed between the stages of
// thresholding: a raw Buffer as produced by a decoder, and Gray, an
// 8-bit single channel image used both for intensity images and for
// the final binary images.
package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrBadGeometry is returned when the dimensions, stride and
// storage of a buffer don't agree with each other
var ErrBadGeometry = errors.New("bad buffer geometry")

// Buffer is a raw pixel buffer. Rows start every Stride bytes, and
// each pixel takes BytesPerPixel bytes. Stride may include padding
// at the end of a row.
type Buffer struct {
	Width, Height int
	Stride        int
	BytesPerPixel int
	Pix           []byte
	// Palette is only meaningful for 1 byte per pixel buffers
	// holding indexed data; nil means plain 8-bit gray.
	Palette color.Palette
}

// NewBuffer allocates a zeroed Buffer with a tightly packed stride
func NewBuffer(width, height, bpp int) *Buffer {
	return &Buffer{
		Width:         width,
		Height:        height,
		Stride:        width * bpp,
		BytesPerPixel: bpp,
		Pix:           make([]byte, width*height*bpp),
	}
}

// Check returns an error if the buffer's storage is too small for
// its dimensions and stride
func (b *Buffer) Check() error {
	return checkGeometry(b.Width, b.Height, b.Stride, b.BytesPerPixel, len(b.Pix))
}

func checkGeometry(w, h, stride, bpp, n int) error {
	if w < 0 || h < 0 || bpp < 1 {
		return fmt.Errorf("%w: %dx%d with %d bytes per pixel", ErrBadGeometry, w, h, bpp)
	}
	if stride < w*bpp {
		return fmt.Errorf("%w: stride %d is less than %d bytes per row", ErrBadGeometry, stride, w*bpp)
	}
	if h > 0 && n < (h-1)*stride+w*bpp {
		return fmt.Errorf("%w: %d bytes of storage for %dx%d with stride %d", ErrBadGeometry, n, w, h, stride)
	}
	return nil
}

// Row returns the pixel bytes of row y, excluding any padding
func (b *Buffer) Row(y int) []byte {
	off := y * b.Stride
	return b.Pix[off : off+b.Width*b.BytesPerPixel]
}

// Pixel returns the bytes of the pixel at x, y, or nil if the
// point is outside the buffer
func (b *Buffer) Pixel(x, y int) []byte {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return nil
	}
	off := y*b.Stride + x*b.BytesPerPixel
	return b.Pix[off : off+b.BytesPerPixel]
}

// Gray is an 8-bit single channel image
type Gray struct {
	Width, Height int
	Stride        int
	Pix           []byte
}

// NewGray allocates a zeroed Gray with a tightly packed stride
func NewGray(width, height int) *Gray {
	return &Gray{
		Width:  width,
		Height: height,
		Stride: width,
		Pix:    make([]byte, width*height),
	}
}

// InBounds reports whether x, y is inside the image
func (g *Gray) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the value at x, y. Points outside the image are 0.
func (g *Gray) At(x, y int) uint8 {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.Pix[y*g.Stride+x]
}

// Set sets the value at x, y. Points outside the image are ignored.
func (g *Gray) Set(x, y int, v uint8) {
	if !g.InBounds(x, y) {
		return
	}
	g.Pix[y*g.Stride+x] = v
}

// Row returns the pixels of row y, excluding any padding
func (g *Gray) Row(y int) []byte {
	off := y * g.Stride
	return g.Pix[off : off+g.Width]
}

// Pixels returns the number of pixels in the image
func (g *Gray) Pixels() int {
	return g.Width * g.Height
}

// AsGray views a 1 byte per pixel buffer as a Gray, sharing its
// storage
func (b *Buffer) AsGray() (*Gray, error) {
	if b.BytesPerPixel != 1 {
		return nil, fmt.Errorf("%w: %d bytes per pixel can't be viewed as gray", ErrBadGeometry, b.BytesPerPixel)
	}
	err := b.Check()
	if err != nil {
		return nil, err
	}
	return &Gray{Width: b.Width, Height: b.Height, Stride: b.Stride, Pix: b.Pix}, nil
}

// FromGray wraps the pixels of an image.Gray, sharing its storage.
// The image is treated as starting at 0, 0.
func FromGray(img *image.Gray) *Gray {
	b := img.Bounds()
	off := img.PixOffset(b.Min.X, b.Min.Y)
	return &Gray{
		Width:  b.Dx(),
		Height: b.Dy(),
		Stride: img.Stride,
		Pix:    img.Pix[off:],
	}
}

// Image returns an image.Gray sharing the storage of g
func (g *Gray) Image() *image.Gray {
	return &image.Gray{
		Pix:    g.Pix,
		Stride: g.Stride,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}
}
