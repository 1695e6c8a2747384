// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"errors"
	"fmt"

	"rescribe.xyz/autothresh/pixbuf"
)

// ErrUnsupportedPixelFormat is returned when a buffer's channel
// layout can't be converted to gray
var ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")

// GrayscaleMode selects which bytes of a pixel are weighted into
// its gray value
type GrayscaleMode int

const (
	// Luma uses (c0 + 2*c1 + c2) / 4 over the three channels of
	// the pixel
	Luma GrayscaleMode = iota
	// LegacyOffset reads the third sample one byte further on, at
	// pixel offset 3 rather than 2, as some older conversion code
	// did. It falls back to offset 2 where offset 3 would be past
	// the end of the buffer.
	LegacyOffset
)

func (m GrayscaleMode) String() string {
	switch m {
	case Luma:
		return "luma"
	case LegacyOffset:
		return "legacyoffset"
	default:
		return fmt.Sprintf("GrayscaleMode(%d)", int(m))
	}
}

// IsCanonicalGrayscale reports whether a buffer already holds 8-bit
// gray values, either with no palette or with a palette mapping each
// value v to the gray v, v, v
func IsCanonicalGrayscale(b *pixbuf.Buffer) bool {
	if b.BytesPerPixel != 1 {
		return false
	}
	return b.Palette == nil || pixbuf.IdentityPalette(b.Palette)
}

// Grayscale converts a 3 byte per pixel buffer into a new gray
// image. A buffer that is already canonical grayscale is returned as
// a view of the same storage, without copying.
func Grayscale(b *pixbuf.Buffer) (*pixbuf.Gray, error) {
	return Luma.Convert(b)
}

// Convert converts a buffer to gray using mode m; see Grayscale
func (m GrayscaleMode) Convert(b *pixbuf.Buffer) (*pixbuf.Gray, error) {
	err := b.Check()
	if err != nil {
		return nil, err
	}
	if IsCanonicalGrayscale(b) {
		return b.AsGray()
	}
	if b.BytesPerPixel == 1 {
		return nil, fmt.Errorf("%w: 1 byte per pixel with a palette that isn't the identity gray ramp", ErrUnsupportedPixelFormat)
	}
	if b.BytesPerPixel != 3 {
		return nil, fmt.Errorf("%w: %d bytes per pixel", ErrUnsupportedPixelFormat, b.BytesPerPixel)
	}
	if m != Luma && m != LegacyOffset {
		return nil, fmt.Errorf("Unknown grayscale mode %v", m)
	}

	g := pixbuf.NewGray(b.Width, b.Height)
	inBands(b.Height, func(start, end int) {
		for y := start; y < end; y++ {
			src := b.Row(y)
			dst := g.Row(y)
			for x := range dst {
				i := x * 3
				third := src[i+2]
				if m == LegacyOffset {
					third = legacyThird(b, y, i)
				}
				dst[x] = uint8((int(src[i]) + int(src[i+1])<<1 + int(third)) >> 2)
			}
		}
	})
	return g, nil
}

// legacyThird returns the byte at offset 3 of the pixel starting at
// byte i of row y, or offset 2 if that would be beyond the buffer
func legacyThird(b *pixbuf.Buffer, y, i int) byte {
	off := y*b.Stride + i + 3
	if off < len(b.Pix) {
		return b.Pix[off]
	}
	return b.Pix[off-1]
}
