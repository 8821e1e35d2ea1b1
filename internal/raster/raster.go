// Package raster implements the destructive pixel operators: strip cut with
// optional cross-fade, single-edge fades, and dual-edge corner fades. All
// operators take a flattened RGBA buffer and return a new one; they never
// touch layer structure.
package raster

import (
	"image"
	"math"
)

// Axis selects the strip-cut orientation. A horizontal cut removes rows
// (its boundary lines are horizontal); a vertical cut removes columns.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Edge identifies one side of the image for fade operators.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	}
	return "unknown"
}

// AxisForDrag picks the cut orientation from the initial pointer movement:
// the axis with more travel wins, so dragging downward defines a horizontal
// strip.
func AxisForDrag(dx, dy float64) Axis {
	if math.Abs(dy) >= math.Abs(dx) {
		return Horizontal
	}
	return Vertical
}

// scalePixel multiplies all four channels of the pixel at (x, y) by m,
// rounding to the nearest byte so the result tracks the ramp instead of
// sitting a step below it. RGBA buffers are alpha-premultiplied, so color
// channels scale with alpha.
func scalePixel(img *image.RGBA, x, y int, m float64) {
	i := img.PixOffset(x, y)
	for c := 0; c < 4; c++ {
		img.Pix[i+c] = uint8(math.Round(float64(img.Pix[i+c]) * m))
	}
}

// copyRows copies srcCount rows starting at srcY into dst starting at dstY.
func copyRows(dst, src *image.RGBA, dstY, srcY, count int) {
	w := src.Bounds().Dx() * 4
	for r := 0; r < count; r++ {
		di := dst.PixOffset(0, dstY+r)
		si := src.PixOffset(0, srcY+r)
		copy(dst.Pix[di:di+w], src.Pix[si:si+w])
	}
}

// copyCols copies srcCount columns starting at srcX into dst starting at
// dstX.
func copyCols(dst, src *image.RGBA, dstX, srcX, count int) {
	h := src.Bounds().Dy()
	for y := 0; y < h; y++ {
		di := dst.PixOffset(dstX, y)
		si := src.PixOffset(srcX, y)
		copy(dst.Pix[di:di+count*4], src.Pix[si:si+count*4])
	}
}
