package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
)

const (
	mmPerPx      = 25.4 / 96.0
	pageMarginMM = 10.0
)

// pageSize returns the page size in mm. Custom pages match the capture's
// pixel dimensions.
func pageSize(format PageFormat, c Capture) (float64, float64) {
	switch format {
	case FormatA4:
		return 210, 297
	case FormatLetter:
		return 215.9, 279.4
	default:
		return float64(c.Width) * mmPerPx, float64(c.Height) * mmPerPx
	}
}

// imagePlacement fits a capture onto a page keeping its aspect ratio and
// centers it. Custom pages take the image edge to edge.
func imagePlacement(format PageFormat, c Capture) (x, y, w, h float64) {
	pageW, pageH := pageSize(format, c)
	if format != FormatA4 && format != FormatLetter {
		return 0, 0, pageW, pageH
	}
	availW := pageW - 2*pageMarginMM
	availH := pageH - 2*pageMarginMM
	ratio := math.Min(availW/float64(c.Width), availH/float64(c.Height))
	w = float64(c.Width) * ratio
	h = float64(c.Height) * ratio
	return (pageW - w) / 2, (pageH - h) / 2, w, h
}

// WritePDF writes a single-page PDF holding the captured image.
func WritePDF(w io.Writer, c Capture, format PageFormat) error {
	if c.Image == nil || c.Width <= 0 || c.Height <= 0 {
		return ErrEmptyCapture
	}
	pageW, pageH := pageSize(format, c)
	x, y, imgW, _ := imagePlacement(format, c)

	writer := pdf.New(w, pageW, pageH, nil)
	writer.SetInfo("easel layout", "", "", "", "easel")

	page := canvas.New(pageW, pageH)
	ctx := canvas.NewContext(page)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.DrawImage(x, y, c.Image, canvas.DPMM(float64(c.Width)/imgW))
	page.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	return nil
}

func writePDFFile(path string, c Capture, format PageFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePDF(f, c, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
