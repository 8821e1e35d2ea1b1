package raster

import (
	"fmt"
	"image"
	"math"
)

// CutStrip removes the strip [start, end) along the given axis and rejoins
// the two remaining pieces. With fade disabled the output shrinks by exactly
// the strip width. With fade enabled, a fade zone of
// min(fadeWidth, nearSize, farSize) is alpha-ramped on each piece's cut edge
// and a transparent gap of round(zone*0.2) pixels is inserted between them.
func CutStrip(src *image.RGBA, axis Axis, start, end int, fade bool, fadeWidth int) (*image.RGBA, error) {
	b := src.Bounds()
	dim := b.Dy()
	if axis == Vertical {
		dim = b.Dx()
	}

	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end > dim {
		end = dim
	}
	strip := end - start
	if strip < 1 {
		return nil, fmt.Errorf("cut strip narrower than 1 pixel")
	}
	if strip >= dim {
		return nil, fmt.Errorf("cut strip covers the whole image")
	}

	near := start      // size of the piece before the strip
	far := dim - end   // size of the piece after the strip
	if !fade {
		return cutDirect(src, axis, start, end, near, far)
	}

	zone := fadeWidth
	if zone > near {
		zone = near
	}
	if zone > far {
		zone = far
	}
	if zone < 0 {
		zone = 0
	}
	gap := int(math.Round(float64(zone) * 0.2))

	return cutFaded(src, axis, start, end, near, far, zone, gap)
}

// cutDirect blits the far piece directly adjacent to the near piece.
func cutDirect(src *image.RGBA, axis Axis, start, end, near, far int) (*image.RGBA, error) {
	b := src.Bounds()
	if axis == Horizontal {
		out := image.NewRGBA(image.Rect(0, 0, b.Dx(), near+far))
		copyRows(out, src, 0, 0, near)
		copyRows(out, src, near, end, far)
		return out, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, near+far, b.Dy()))
	copyCols(out, src, 0, 0, near)
	copyCols(out, src, near, end, far)
	return out, nil
}

// cutFaded joins the pieces with linear alpha ramps and a transparent gap.
// Output size along the axis is near + gap + far: the fade zones come out
// of the existing pieces, only the gap adds pixels.
func cutFaded(src *image.RGBA, axis Axis, start, end, near, far, zone, gap int) (*image.RGBA, error) {
	b := src.Bounds()

	var out *image.RGBA
	if axis == Horizontal {
		out = image.NewRGBA(image.Rect(0, 0, b.Dx(), near+gap+far))
		copyRows(out, src, 0, 0, near)
		copyRows(out, src, near+gap, end, far)
	} else {
		out = image.NewRGBA(image.Rect(0, 0, near+gap+far, b.Dy()))
		copyCols(out, src, 0, 0, near)
		copyCols(out, src, near+gap, end, far)
	}

	// Ramp each fade zone per row/column: multiplier is distance from the
	// cut edge over the zone size, so the edge row nearest the cut goes
	// fully transparent.
	for i := 0; i < zone; i++ {
		m := float64(i) / float64(zone)
		nearPos := near - 1 - i      // walking away from the cut
		farPos := near + gap + i     // walking into the far piece
		if axis == Horizontal {
			for x := 0; x < b.Dx(); x++ {
				scalePixel(out, x, nearPos, m)
				scalePixel(out, x, farPos, m)
			}
		} else {
			for y := 0; y < b.Dy(); y++ {
				scalePixel(out, nearPos, y, m)
				scalePixel(out, farPos, y, m)
			}
		}
	}
	return out, nil
}
