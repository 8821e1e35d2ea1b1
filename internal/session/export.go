package session

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// ExportPNG writes the flattened canvas to a PNG file.
func ExportPNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// ExportPDF writes the flattened canvas as a single-page PDF, the page
// sized to the canvas at 72 dpi.
func ExportPDF(path string, img image.Image) error {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w == 0 || h == 0 {
		return fmt.Errorf("failed to export PDF: empty canvas")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode canvas for PDF: %w", err)
	}

	orient := "P"
	if w > h {
		orient = "L"
	}
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.AddPage()
	p.RegisterImageOptionsReader("canvas", gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	p.ImageOptions("canvas", 0, 0, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
