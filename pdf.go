// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package autothresh

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 595.0 // A4 width in pt
const captionHeight = 24.0
const captionFontSize = 11

// Report is a PDF with one page per image, each with a caption
// underneath
type Report struct {
	fpdf *gofpdf.Fpdf
}

// Setup creates a new PDF with appropriate settings and fonts. A
// core font is used, so no font files are needed.
func (p *Report) Setup() error {
	p.fpdf = gofpdf.New("P", "pt", "A4", "")
	p.fpdf.SetFont("Helvetica", "", captionFontSize)
	p.fpdf.SetAutoPageBreak(false, float64(0))
	return p.fpdf.Error()
}

// AddPage adds a page to the pdf with an image scaled to the width
// of the page, and a caption below it
func (p *Report) AddPage(imgpath, caption string) error {
	f, err := os.Open(imgpath)
	if err != nil {
		return fmt.Errorf("Could not open file %s: %w", imgpath, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("Could not decode image %s: %w", imgpath, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return errors.New("Could not add empty image " + imgpath)
	}

	imgHeight := pageWidth * float64(cfg.Height) / float64(cfg.Width)
	p.fpdf.AddPageFormat("P", gofpdf.SizeType{Wd: pageWidth, Ht: imgHeight + captionHeight})

	_ = p.fpdf.RegisterImageOptions(imgpath, gofpdf.ImageOptions{})
	p.fpdf.ImageOptions(imgpath, 0, 0, pageWidth, imgHeight, false, gofpdf.ImageOptions{}, 0, "")

	p.fpdf.SetXY(0, imgHeight)
	p.fpdf.CellFormat(pageWidth, captionHeight, caption, "", 0, "CM", false, 0, "")

	return p.fpdf.Error()
}

// Save saves the PDF to the file at path
func (p *Report) Save(path string) error {
	return p.fpdf.OutputFileAndClose(path)
}
