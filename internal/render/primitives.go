package render

import (
	"image"
	"image/color"
	"math"

	"snapmark/internal/annotation"
	"snapmark/pkg/colorutil"
)

// dashPattern returns the on/off pixel run lengths for a line style. Solid
// lines return (0, 0) meaning no gaps.
func dashPattern(style annotation.LineStyle, width float64) (on, off int) {
	w := int(width)
	if w < 1 {
		w = 1
	}
	switch style {
	case annotation.StyleDashed:
		return 4 * w, 3 * w
	case annotation.StyleDotted:
		return w, 2 * w
	default:
		return 0, 0
	}
}

// drawThickLine draws a line between two points using Bresenham's
// algorithm, stamping a square of side thickness at every step. The dash
// pattern is advanced once per Bresenham step.
func drawThickLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int, style annotation.LineStyle) {
	bounds := output.Bounds()
	if thickness < 1 {
		thickness = 1
	}
	on, off := dashPattern(style, float64(thickness))
	step := 0

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		visible := on == 0 || step%(on+off) < on
		if visible {
			for t := -thickness / 2; t <= thickness/2; t++ {
				for s := -thickness / 2; s <= thickness/2; s++ {
					px, py := x1+s, y1+t
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						output.SetRGBA(px, py, col)
					}
				}
			}
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillTriangle fills the triangle (ax,ay)-(bx,by)-(cx,cy) by scanning its
// bounding box with sign tests.
func fillTriangle(output *image.RGBA, ax, ay, bx, by, cx, cy float64, col color.RGBA) {
	bounds := output.Bounds()
	minX := int(math.Floor(math.Min(ax, math.Min(bx, cx))))
	maxX := int(math.Ceil(math.Max(ax, math.Max(bx, cx))))
	minY := int(math.Floor(math.Min(ay, math.Min(by, cy))))
	maxY := int(math.Ceil(math.Max(ay, math.Max(by, cy))))

	edge := func(x0, y0, x1, y1, px, py float64) float64 {
		return (x1-x0)*(py-y0) - (y1-y0)*(px-x0)
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			px, py := float64(x)+0.5, float64(y)+0.5
			d1 := edge(ax, ay, bx, by, px, py)
			d2 := edge(bx, by, cx, cy, px, py)
			d3 := edge(cx, cy, ax, ay, px, py)
			neg := d1 < 0 || d2 < 0 || d3 < 0
			pos := d1 > 0 || d2 > 0 || d3 > 0
			if !(neg && pos) {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// fillCircle draws a filled circle.
func fillCircle(output *image.RGBA, cx, cy, radius int, col color.RGBA) {
	bounds := output.Bounds()
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			px, py := cx+dx, cy+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				output.SetRGBA(px, py, col)
			}
		}
	}
}

// blendRect alpha-blends col over every pixel of the rectangle.
func blendRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			output.SetRGBA(x, y, colorutil.BlendOver(output.RGBAAt(x, y), col))
		}
	}
}

// fillRect fills the rectangle with an opaque color.
func fillRect(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawArc draws a quarter-circle arc centered at (cx, cy) between the given
// start and end angles (radians), with the given stroke thickness. Rounded
// shape corners always stroke solid regardless of the border style.
func drawArc(output *image.RGBA, cx, cy float64, radius float64, start, end float64, col color.RGBA, thickness int) {
	steps := int(radius * (end - start))
	if steps < 8 {
		steps = 8
	}
	prevX := cx + radius*math.Cos(start)
	prevY := cy + radius*math.Sin(start)
	for i := 1; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		x := cx + radius*math.Cos(a)
		y := cy + radius*math.Sin(a)
		drawThickLine(output, int(prevX), int(prevY), int(x), int(y), col, thickness, annotation.StyleSolid)
		prevX, prevY = x, y
	}
}
