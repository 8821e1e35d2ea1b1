package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapmark/internal/annotation"
	"snapmark/pkg/geometry"
)

func TestRenderTransparentBackground(t *testing.T) {
	stack := annotation.NewStack()
	out := Render(stack, 50, 40)

	assert.Equal(t, 50, out.Bounds().Dx())
	assert.Equal(t, 40, out.Bounds().Dy())
	assert.Equal(t, uint8(0), out.RGBAAt(25, 20).A)
}

func TestRenderLinePixels(t *testing.T) {
	stack := annotation.NewStack()
	stack.Add(annotation.NewLineLayer(annotation.LineData{
		Start: geometry.Point2D{X: 10, Y: 20},
		End:   geometry.Point2D{X: 40, Y: 20},
		Color: "#ff0000", Width: 3, Style: annotation.StyleSolid,
	}))

	out := Render(stack, 50, 40)
	c := out.RGBAAt(25, 20)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(255), c.A)

	// Far from the line stays transparent.
	assert.Equal(t, uint8(0), out.RGBAAt(25, 35).A)
}

func TestRenderStackOrder(t *testing.T) {
	stack := annotation.NewStack()
	r := geometry.Rect{X: 10, Y: 10, Width: 20, Height: 20}
	stack.Add(annotation.NewShapeLayer(annotation.ShapeData{
		Rect: r, BorderColor: "#ff0000", FillColor: "#ff0000",
		BorderWidth: 1, Style: annotation.StyleSolid, Corner: annotation.CornerSquare,
	}))
	stack.Add(annotation.NewShapeLayer(annotation.ShapeData{
		Rect: r, BorderColor: "#0000ff", FillColor: "#0000ff",
		BorderWidth: 1, Style: annotation.StyleSolid, Corner: annotation.CornerSquare,
	}))

	// Later layers paint on top.
	out := Render(stack, 50, 50)
	c := out.RGBAAt(20, 20)
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(255), c.B)
}

func TestRenderHighlightAlpha(t *testing.T) {
	stack := annotation.NewStack()
	stack.Add(annotation.NewHighlightLayer(annotation.HighlightData{
		Rect:  geometry.Rect{X: 0, Y: 0, Width: 30, Height: 30},
		Color: "#ffff00",
	}))

	out := Render(stack, 30, 30)
	c := out.RGBAAt(15, 15)
	// 30% opacity over a transparent buffer.
	assert.Equal(t, uint8(76), c.A)
}

func TestLayerBoundsLineGrowsByHalfWidth(t *testing.T) {
	l := annotation.NewLineLayer(annotation.LineData{
		Start: geometry.Point2D{X: 10, Y: 30},
		End:   geometry.Point2D{X: 50, Y: 10},
		Width: 6,
	})
	b := LayerBounds(l)
	assert.Equal(t, geometry.Rect{X: 7, Y: 7, Width: 46, Height: 26}, b)
}

func TestLayerBoundsStep(t *testing.T) {
	l := annotation.NewStepLayer(annotation.StepData{
		Glyph: "①", Anchor: geometry.Point2D{X: 100, Y: 50},
		Color: "red", Size: annotation.SizeMD,
	})
	b := LayerBounds(l)
	r := float64(stepRadius(annotation.SizeMD))
	assert.Equal(t, 100-r, b.X)
	assert.Equal(t, 2*r, b.Width)
	assert.Equal(t, b.Width, b.Height)
}

func TestLayerBoundsTextTracksMeasure(t *testing.T) {
	l := annotation.NewTextLayer(annotation.TextData{
		Text: "ab\ncdef", Anchor: geometry.Point2D{X: 5, Y: 5},
		Color: "red", Size: annotation.SizeSM,
	})
	b := LayerBounds(l)
	size := MeasureText("ab\ncdef", annotation.SizeSM)
	assert.Equal(t, size.Width, b.Width)
	assert.Equal(t, size.Height, b.Height)
	assert.Greater(t, b.Width, 0.0)
}

func TestMeasureTextScalesWithToken(t *testing.T) {
	sm := MeasureText("hello", annotation.SizeSM)
	lg := MeasureText("hello", annotation.SizeLG)
	assert.Equal(t, sm.Width*2, lg.Width)
	assert.Equal(t, sm.Height*2, lg.Height)

	// Widest line wins for multi-line text.
	multi := MeasureText("a\nabcdef\nabc", annotation.SizeSM)
	single := MeasureText("abcdef", annotation.SizeSM)
	assert.Equal(t, single.Width, multi.Width)
	assert.Equal(t, single.Height*3, multi.Height)
}

func TestFlattenAllErrors(t *testing.T) {
	stack := annotation.NewStack()

	_, err := FlattenAll(stack, 100, 100)
	assert.Error(t, err, "empty stack")

	stack.Add(annotation.NewHighlightLayer(annotation.HighlightData{
		Rect: geometry.Rect{Width: 10, Height: 10}, Color: "red",
	}))
	_, err = FlattenAll(stack, 0, 100)
	assert.Error(t, err, "degenerate canvas")

	img, err := FlattenAll(stack, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}

func TestFlattenIndices(t *testing.T) {
	stack := annotation.NewStack()
	stack.Add(annotation.NewShapeLayer(annotation.ShapeData{
		Rect: geometry.Rect{X: 20, Y: 30, Width: 10, Height: 10},
		BorderColor: "#ff0000", FillColor: "#ff0000", BorderWidth: 1,
		Style: annotation.StyleSolid, Corner: annotation.CornerSquare,
	}))
	stack.Add(annotation.NewShapeLayer(annotation.ShapeData{
		Rect: geometry.Rect{X: 50, Y: 10, Width: 10, Height: 10},
		BorderColor: "#0000ff", FillColor: "#0000ff", BorderWidth: 1,
		Style: annotation.StyleSolid, Corner: annotation.CornerSquare,
	}))

	buf, origin, err := FlattenIndices(stack, []int{0, 1})
	require.NoError(t, err)

	// Origin floors to the union's top-left; the buffer covers both rects.
	assert.Equal(t, geometry.PointInt{X: 20, Y: 10}, origin)
	assert.GreaterOrEqual(t, buf.Bounds().Dx(), 40)
	assert.GreaterOrEqual(t, buf.Bounds().Dy(), 30)

	// Content is drawn relative to the origin.
	assert.Equal(t, uint8(255), buf.RGBAAt(25-origin.X, 35-origin.Y).R)
	assert.Equal(t, uint8(255), buf.RGBAAt(55-origin.X, 15-origin.Y).B)

	// Source layers keep their canvas positions.
	assert.Equal(t, 20.0, stack.Layer(0).Shape.Rect.X)
}

func TestFlattenIndicesErrors(t *testing.T) {
	stack := annotation.NewStack()
	stack.Add(annotation.NewHighlightLayer(annotation.HighlightData{
		Rect: geometry.Rect{Width: 10, Height: 10}, Color: "red",
	}))

	_, _, err := FlattenIndices(stack, []int{0})
	assert.Error(t, err, "single layer")

	_, _, err = FlattenIndices(stack, []int{0, 5})
	assert.Error(t, err, "out of range")
}

func TestDrawImageLayerScaled(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	stack := annotation.NewStack()
	l := annotation.NewImageLayer(src, 10, 10)
	l.Image.Width = 8
	l.Image.Height = 8
	stack.Add(l)

	out := Render(stack, 30, 30)
	assert.Equal(t, uint8(255), out.RGBAAt(13, 13).A)
	assert.Equal(t, uint8(0), out.RGBAAt(19, 19).A)
}
