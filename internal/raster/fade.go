package raster

import (
	"fmt"
	"image"

	"snapmark/pkg/geometry"
)

// MinFadeWidth is the smallest draggable fade width.
const MinFadeWidth = 10

// ClampFadeWidth bounds a fade width to [MinFadeWidth, min(w,h)/2].
func ClampFadeWidth(width, w, h int) int {
	maxWidth := w
	if h < w {
		maxWidth = h
	}
	maxWidth /= 2
	if width < MinFadeWidth {
		width = MinFadeWidth
	}
	if width > maxWidth {
		width = maxWidth
	}
	return width
}

// EdgeFade multiplies every pixel's alpha by a smoothstep ramp of its
// distance into the image from the chosen edge: 0 at the outer edge, 1 at
// fadeWidth inward. Pixels beyond fadeWidth are untouched.
func EdgeFade(src *image.RGBA, edge Edge, fadeWidth int) (*image.RGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("edge fade on empty image")
	}
	if fadeWidth < 1 {
		return nil, fmt.Errorf("edge fade width %d is degenerate", fadeWidth)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(out.Pix, src.Pix)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dist int
			switch edge {
			case EdgeLeft:
				dist = x
			case EdgeRight:
				dist = w - 1 - x
			case EdgeTop:
				dist = y
			case EdgeBottom:
				dist = h - 1 - y
			}
			if dist >= fadeWidth {
				continue
			}
			t := float64(dist) / float64(fadeWidth)
			scalePixel(out, x, y, geometry.Smoothstep(t))
		}
	}
	return out, nil
}
