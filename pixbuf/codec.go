// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package pixbuf

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads an image in any registered format and converts it
// into a Buffer. Gray images, and paletted images whose palette maps
// each index v to the gray v, become 1 byte per pixel buffers
// (keeping the palette for paletted ones); anything else becomes a
// 3 byte per pixel R, G, B buffer with alpha dropped.
func Decode(r io.Reader) (*Buffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, format, err
	}
	return FromImage(img), format, nil
}

// DecodeFile opens and decodes the image at path
func DecodeFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("Could not decode image %s: %w", path, err)
	}
	return b, nil
}

// FromImage converts an image.Image into a Buffer
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	switch i := img.(type) {
	case *image.Gray:
		buf := NewBuffer(b.Dx(), b.Dy(), 1)
		for y := 0; y < b.Dy(); y++ {
			off := i.PixOffset(b.Min.X, b.Min.Y+y)
			copy(buf.Row(y), i.Pix[off:off+b.Dx()])
		}
		return buf
	case *image.Paletted:
		if IdentityPalette(i.Palette) {
			buf := NewBuffer(b.Dx(), b.Dy(), 1)
			buf.Palette = i.Palette
			for y := 0; y < b.Dy(); y++ {
				off := i.PixOffset(b.Min.X, b.Min.Y+y)
				copy(buf.Row(y), i.Pix[off:off+b.Dx()])
			}
			return buf
		}
	}

	buf := NewBuffer(b.Dx(), b.Dy(), 3)
	for y := 0; y < b.Dy(); y++ {
		row := buf.Row(y)
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			row[x*3] = c.R
			row[x*3+1] = c.G
			row[x*3+2] = c.B
		}
	}
	return buf
}

// IdentityPalette reports whether p has 256 entries with entry v
// being the opaque gray v, v, v
func IdentityPalette(p color.Palette) bool {
	if len(p) != 256 {
		return false
	}
	for v, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		if n.A != 255 || int(n.R) != v || int(n.G) != v || int(n.B) != v {
			return false
		}
	}
	return true
}

// EncodePNG writes g as an 8-bit grayscale PNG
func EncodePNG(w io.Writer, g *Gray) error {
	return png.Encode(w, g.Image())
}

// WritePNG saves g as an 8-bit grayscale PNG at path
func WritePNG(path string, g *Gray) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Could not create file %s: %w", path, err)
	}
	defer f.Close()
	err = EncodePNG(f, g)
	if err != nil {
		return fmt.Errorf("Could not encode image %s: %w", path, err)
	}
	return f.Close()
}
