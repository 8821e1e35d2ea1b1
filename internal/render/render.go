// Package render composites an annotation stack onto raster surfaces. Each
// layer variant has a dedicated draw routine; drawing order is stack order.
package render

import (
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"snapmark/internal/annotation"
	"snapmark/pkg/colorutil"
	"snapmark/pkg/geometry"
)

// Render composites the whole stack onto a fresh transparent buffer of the
// given canvas size.
func Render(stack *annotation.Stack, width, height int) *image.RGBA {
	output := image.NewRGBA(image.Rect(0, 0, width, height))
	RenderOnto(output, stack.Layers())
	return output
}

// RenderOnto draws the given layers, in order, onto dst.
func RenderOnto(dst *image.RGBA, layers []*annotation.Layer) {
	for _, l := range layers {
		drawLayer(dst, l)
	}
}

// drawLayer dispatches to the variant draw routine.
func drawLayer(dst *image.RGBA, l *annotation.Layer) {
	switch l.Type {
	case annotation.TypeImage:
		drawImageLayer(dst, l.Image)
	case annotation.TypeArrow:
		drawLineLayer(dst, l.Line, true)
	case annotation.TypeLine:
		drawLineLayer(dst, l.Line, false)
	case annotation.TypeText:
		drawString(dst, l.Text.Text, l.Text.Anchor.X, l.Text.Anchor.Y,
			colorutil.MustParseHex(l.Text.Color), l.Text.Size)
	case annotation.TypeStep:
		drawStepLayer(dst, l.Step)
	case annotation.TypeSymbol:
		drawSymbolLayer(dst, l.Symbol)
	case annotation.TypeShape:
		drawShapeLayer(dst, l.Shape)
	case annotation.TypeHighlight:
		drawHighlightLayer(dst, l.Highlight)
	}
}

func drawImageLayer(dst *image.RGBA, d *annotation.ImageData) {
	if d.Raster == nil {
		return
	}
	w, h := d.DisplaySize()
	srcBounds := d.Raster.Bounds()
	dstRect := image.Rect(int(d.X), int(d.Y), int(d.X+w), int(d.Y+h))

	if int(w) == srcBounds.Dx() && int(h) == srcBounds.Dy() {
		stddraw.Draw(dst, dstRect, d.Raster, srcBounds.Min, stddraw.Over)
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, dstRect, d.Raster, srcBounds, xdraw.Over, nil)
}

func drawLineLayer(dst *image.RGBA, d *annotation.LineData, arrow bool) {
	col := colorutil.MustParseHex(d.Color)
	thickness := int(d.Width)
	if thickness < 1 {
		thickness = 1
	}

	drawThickLine(dst, int(d.Start.X), int(d.Start.Y), int(d.End.X), int(d.End.Y),
		col, thickness, d.Style)

	if !arrow {
		return
	}

	// Arrowhead: solid triangle at the end point, sized with the stroke.
	length := math.Max(12, 4*d.Width)
	angle := math.Atan2(d.End.Y-d.Start.Y, d.End.X-d.Start.X)
	spread := math.Pi / 7
	ax := d.End.X - length*math.Cos(angle-spread)
	ay := d.End.Y - length*math.Sin(angle-spread)
	bx := d.End.X - length*math.Cos(angle+spread)
	by := d.End.Y - length*math.Sin(angle+spread)
	fillTriangle(dst, d.End.X, d.End.Y, ax, ay, bx, by, col)
}

// stepRadius returns the badge radius for a size token.
func stepRadius(tok annotation.SizeToken) int {
	return 7*sizeScale(tok) + 4
}

func drawStepLayer(dst *image.RGBA, d *annotation.StepData) {
	col := colorutil.MustParseHex(d.Color)
	r := stepRadius(d.Size)
	cx, cy := int(d.Anchor.X), int(d.Anchor.Y)
	fillCircle(dst, cx, cy, r, col)

	digits := stepDigit(d.Glyph)
	size := MeasureText(digits, d.Size)
	drawString(dst, digits,
		float64(cx)-size.Width/2, float64(cy)-size.Height/2,
		colorutil.White, d.Size)
}

func drawSymbolLayer(dst *image.RGBA, d *annotation.SymbolData) {
	text, col := symbolAppearance(d.Glyph)
	drawString(dst, text, d.Anchor.X, d.Anchor.Y, col, d.Size)
}

// shapeCornerRadius returns the arc radius for rounded shape corners.
func shapeCornerRadius(r geometry.Rect) float64 {
	return math.Min(12, math.Min(r.Width/2, r.Height/2))
}

func drawShapeLayer(dst *image.RGBA, d *annotation.ShapeData) {
	r := d.Rect
	x1, y1 := r.X, r.Y
	x2, y2 := r.X+r.Width, r.Y+r.Height
	border := colorutil.MustParseHex(d.BorderColor)
	thickness := int(d.BorderWidth)
	if thickness < 1 {
		thickness = 1
	}

	rounded := d.Corner == annotation.CornerRounded
	cr := 0.0
	if rounded {
		cr = shapeCornerRadius(r)
	}

	if d.FillColor != colorutil.Transparent && d.FillColor != "" {
		fill := colorutil.MustParseHex(d.FillColor)
		if rounded {
			fillRoundedRect(dst, r, cr, fill)
		} else {
			fillRect(dst, int(x1), int(y1), int(x2), int(y2), fill)
		}
	}

	// Border edges, inset by the corner radius when rounded.
	drawThickLine(dst, int(x1+cr), int(y1), int(x2-cr), int(y1), border, thickness, d.Style)
	drawThickLine(dst, int(x2), int(y1+cr), int(x2), int(y2-cr), border, thickness, d.Style)
	drawThickLine(dst, int(x2-cr), int(y2), int(x1+cr), int(y2), border, thickness, d.Style)
	drawThickLine(dst, int(x1), int(y2-cr), int(x1), int(y1+cr), border, thickness, d.Style)

	if rounded {
		drawArc(dst, x1+cr, y1+cr, cr, math.Pi, 1.5*math.Pi, border, thickness)
		drawArc(dst, x2-cr, y1+cr, cr, 1.5*math.Pi, 2*math.Pi, border, thickness)
		drawArc(dst, x2-cr, y2-cr, cr, 0, 0.5*math.Pi, border, thickness)
		drawArc(dst, x1+cr, y2-cr, cr, 0.5*math.Pi, math.Pi, border, thickness)
	}
}

// fillRoundedRect fills a rectangle, clipping pixels outside the corner
// arcs.
func fillRoundedRect(dst *image.RGBA, r geometry.Rect, cr float64, col color.RGBA) {
	x1, y1 := int(r.X), int(r.Y)
	x2, y2 := int(r.X+r.Width), int(r.Y+r.Height)
	bounds := dst.Bounds()
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			px, py := float64(x)+0.5, float64(y)+0.5
			// Distance test only applies inside the corner squares.
			cx := geometry.Clamp(px, r.X+cr, r.X+r.Width-cr)
			cy := geometry.Clamp(py, r.Y+cr, r.Y+r.Height-cr)
			dx, dy := px-cx, py-cy
			if dx*dx+dy*dy > cr*cr {
				continue
			}
			dst.SetRGBA(x, y, col)
		}
	}
}

func drawHighlightLayer(dst *image.RGBA, d *annotation.HighlightData) {
	a := 255 * annotation.HighlightAlpha
	col := colorutil.WithAlpha(colorutil.MustParseHex(d.Color), uint8(a))
	r := d.Rect
	blendRect(dst, int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height), col)
}

// LayerBounds returns the on-canvas bounding rectangle of a layer, using
// the same glyph metrics as rendering so hit-testing matches what is drawn.
func LayerBounds(l *annotation.Layer) geometry.Rect {
	switch l.Type {
	case annotation.TypeImage:
		return l.Image.Bounds()
	case annotation.TypeArrow, annotation.TypeLine:
		box := geometry.BoundingBox([]geometry.Point2D{l.Line.Start, l.Line.End})
		half := l.Line.Width / 2
		return geometry.Rect{X: box.X - half, Y: box.Y - half,
			Width: box.Width + l.Line.Width, Height: box.Height + l.Line.Width}
	case annotation.TypeText:
		size := MeasureText(l.Text.Text, l.Text.Size)
		return geometry.Rect{X: l.Text.Anchor.X, Y: l.Text.Anchor.Y,
			Width: size.Width, Height: size.Height}
	case annotation.TypeStep:
		r := float64(stepRadius(l.Step.Size))
		return geometry.Rect{X: l.Step.Anchor.X - r, Y: l.Step.Anchor.Y - r,
			Width: 2 * r, Height: 2 * r}
	case annotation.TypeSymbol:
		text, _ := symbolAppearance(l.Symbol.Glyph)
		size := MeasureText(text, l.Symbol.Size)
		return geometry.Rect{X: l.Symbol.Anchor.X, Y: l.Symbol.Anchor.Y,
			Width: size.Width, Height: size.Height}
	case annotation.TypeShape:
		return l.Shape.Rect
	case annotation.TypeHighlight:
		return l.Highlight.Rect
	}
	return geometry.Rect{}
}

// FlattenAll renders the whole stack to a single buffer of the canvas size.
func FlattenAll(stack *annotation.Stack, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("failed to flatten: canvas size %dx%d is degenerate", width, height)
	}
	if stack.Len() == 0 {
		return nil, fmt.Errorf("failed to flatten: no layers")
	}
	return Render(stack, width, height), nil
}

// FlattenIndices renders only the given layers to an off-screen buffer
// cropped to their union bounds. It returns the buffer and the union origin
// in canvas coordinates.
func FlattenIndices(stack *annotation.Stack, indices []int) (*image.RGBA, geometry.PointInt, error) {
	if len(indices) < 2 {
		return nil, geometry.PointInt{}, fmt.Errorf("failed to flatten subset: need at least 2 layers, got %d", len(indices))
	}

	layers := make([]*annotation.Layer, 0, len(indices))
	var union geometry.Rect
	for n, i := range indices {
		l := stack.Layer(i)
		if l == nil {
			return nil, geometry.PointInt{}, fmt.Errorf("failed to flatten subset: index %d out of range", i)
		}
		layers = append(layers, l)
		b := LayerBounds(l)
		if n == 0 {
			union = b
		} else {
			union = union.Union(b)
		}
	}
	if union.Width < 1 || union.Height < 1 {
		return nil, geometry.PointInt{}, fmt.Errorf("failed to flatten subset: degenerate bounds")
	}

	origin := geometry.PointInt{X: int(math.Floor(union.X)), Y: int(math.Floor(union.Y))}
	buf := image.NewRGBA(image.Rect(0, 0,
		int(math.Ceil(union.Width))+1, int(math.Ceil(union.Height))+1))

	// Draw translated clones so the originals keep their positions.
	for _, l := range layers {
		c := l.Clone()
		c.Translate(-float64(origin.X), -float64(origin.Y))
		drawLayer(buf, c)
	}
	return buf, origin, nil
}
