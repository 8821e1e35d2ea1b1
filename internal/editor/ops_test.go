package editor

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapmark/internal/annotation"
	"snapmark/internal/raster"
	"snapmark/internal/selection"
	"snapmark/pkg/geometry"
)

func opaque(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func TestResizeCanvasTopLeftKeepsContent(t *testing.T) {
	s := NewSession()
	s.AddLayer(newLine(10))

	s.ResizeCanvas(1000, 700, AnchorTopLeft)
	assert.Equal(t, geometry.SizeInt{Width: 1000, Height: 700}, s.Canvas)
	assert.Equal(t, 10.0, s.Stack.Layer(0).Line.Start.X)
}

func TestResizeCanvasCenterFloorsOffset(t *testing.T) {
	s := NewSession()
	s.AddLayer(newLine(10))

	// 800 -> 805: delta 5, centered offset floor(5/2) = 2.
	// 600 -> 595: delta -5, centered offset floor(-5/2) = -3.
	s.ResizeCanvas(805, 595, AnchorCenter)
	assert.Equal(t, 12.0, s.Stack.Layer(0).Line.Start.X)
	assert.Equal(t, 7.0, s.Stack.Layer(0).Line.Start.Y)
}

func TestResizeCanvasBottomRightShiftsByDelta(t *testing.T) {
	s := NewSession()
	s.AddLayer(newLine(10))

	s.ResizeCanvas(900, 650, AnchorBottomRight)
	assert.Equal(t, 110.0, s.Stack.Layer(0).Line.Start.X)
	assert.Equal(t, 60.0, s.Stack.Layer(0).Line.Start.Y)
}

func TestResizeCanvasRejectsDegenerate(t *testing.T) {
	s := NewSession()

	s.ResizeCanvas(0, 100, AnchorTopLeft)
	assert.Equal(t, DefaultCanvasWidth, s.Canvas.Width)
	assert.False(t, s.CanUndo())
}

func TestResizeCanvasUndo(t *testing.T) {
	s := NewSession()
	s.AddLayer(newLine(10))

	s.ResizeCanvas(805, 595, AnchorCenter)
	s.Undo()
	assert.Equal(t, geometry.SizeInt{Width: 800, Height: 600}, s.Canvas)
	assert.Equal(t, 10.0, s.Stack.Layer(0).Line.Start.X)
}

func TestCombineExpandsCanvas(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(400, 300))

	s.Combine(opaque(200, 500), geometry.PointInt{X: 400, Y: 0})

	assert.Equal(t, geometry.SizeInt{Width: 600, Height: 500}, s.Canvas)
	require.Equal(t, 2, s.Stack.Len())
	assert.Equal(t, 400.0, s.Stack.Layer(1).Image.X)
	assert.Equal(t, []int{1}, s.Selection.Selected())
}

func TestCombineNegativePositionShiftsExisting(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(400, 300))

	s.Combine(opaque(100, 300), geometry.PointInt{X: -100, Y: 0})

	// Existing content moves right; the new image lands at 0.
	assert.Equal(t, geometry.SizeInt{Width: 500, Height: 300}, s.Canvas)
	assert.Equal(t, 100.0, s.Stack.Layer(0).Image.X)
	assert.Equal(t, 0.0, s.Stack.Layer(1).Image.X)
}

func TestCommitCombineFlattens(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(400, 300))
	s.Combine(opaque(200, 300), geometry.PointInt{X: 400, Y: 0})

	s.CommitCombine()
	require.Equal(t, 1, s.Stack.Len())
	assert.Equal(t, annotation.TypeImage, s.Stack.Layer(0).Type)

	flat := s.Stack.Layer(0).Image.Raster.Bounds()
	assert.Equal(t, 600, flat.Dx())
	assert.Equal(t, 300, flat.Dy())
}

func TestFlattenAllReplacesStack(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(200, 150))
	s.AddLayer(newLine(20))

	s.FlattenAll()
	require.Equal(t, 1, s.Stack.Len())
	assert.Equal(t, annotation.TypeImage, s.Stack.Layer(0).Type)
	assert.Empty(t, s.Selection.Selected())

	// Undo restores the vector layers.
	s.Undo()
	assert.Equal(t, 2, s.Stack.Len())
	assert.Equal(t, annotation.TypeLine, s.Stack.Layer(1).Type)
}

func TestFlattenSelectedKeepsZPosition(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(400, 300))
	s.AddLayer(newLine(20))  // index 1
	s.AddLayer(newLine(100)) // index 2
	s.AddLayer(newLine(200)) // index 3

	s.Selection.Clear()
	s.Selection.Select(1)
	s.Selection.PointerDown(geometry.Point2D{X: 120, Y: 10}, 1.0,
		selection.Modifiers{Multi: true})
	s.Selection.PointerUp()
	require.Equal(t, []int{1, 2}, s.Selection.Selected())

	s.FlattenSelected()
	// Layers 1 and 2 collapse into one image layer at index 1; the top
	// line moves down to index 2.
	require.Equal(t, 3, s.Stack.Len())
	assert.Equal(t, annotation.TypeImage, s.Stack.Layer(1).Type)
	assert.Equal(t, annotation.TypeLine, s.Stack.Layer(2).Type)
	assert.Equal(t, 200.0, s.Stack.Layer(2).Line.Start.X)
	assert.Equal(t, []int{1}, s.Selection.Selected())
}

func TestFlattenSelectedNeedsTwo(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(200, 150))
	s.AddLayer(newLine(20))

	var noticed bool
	s.On(EventNotice, func(interface{}) { noticed = true })
	s.FlattenSelected()
	assert.True(t, noticed)
	assert.Equal(t, 2, s.Stack.Len())
}

func TestCutShrinksCanvas(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(300, 200))

	s.Cut(raster.Horizontal, 50, 100, false, 0)
	assert.Equal(t, geometry.SizeInt{Width: 300, Height: 150}, s.Canvas)
	require.Equal(t, 1, s.Stack.Len())

	// Undo restores both stack and canvas size.
	s.Undo()
	assert.Equal(t, geometry.SizeInt{Width: 300, Height: 200}, s.Canvas)
}

func TestCutFadedCanvasSize(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(300, 200))

	// near=50, far=100, zone=20, gap=round(4)=4.
	s.Cut(raster.Horizontal, 50, 100, true, 20)
	assert.Equal(t, 154, s.Canvas.Height)
}

func TestCutRejectedLeavesStateAlone(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(300, 200))

	var errored bool
	s.On(EventNotice, func(data interface{}) {
		if n, ok := data.(Notice); ok && n.Error {
			errored = true
		}
	})
	s.Cut(raster.Horizontal, 0, 200, false, 0)
	assert.True(t, errored)
	assert.Equal(t, 200, s.Canvas.Height)
	assert.False(t, s.CanUndo())
}

func TestFadeEdgeClampsWidth(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(300, 200))

	// Requested width far above min(w,h)/2 = 100; the clamp makes it
	// succeed instead of erroring.
	s.FadeEdge(raster.EdgeLeft, 10000)
	require.Equal(t, 1, s.Stack.Len())
	out := s.Stack.Layer(0).Image.Raster.(*image.RGBA)
	assert.Equal(t, uint8(0), out.RGBAAt(0, 100).A)
	assert.Equal(t, uint8(255), out.RGBAAt(150, 100).A)
}

func TestFadeCornerRejectsOppositeEdges(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(300, 200))

	s.FadeCorner(raster.CornerFadeParams{
		EdgeA: raster.EdgeLeft, EdgeB: raster.EdgeRight, Distance: 30,
	})
	// Rejected before any pixel work: no checkpoint, base layer intact.
	assert.False(t, s.CanUndo())
	assert.Equal(t, 1, s.Stack.Len())
}

func TestFadeCornerApplies(t *testing.T) {
	s := NewSession()
	s.SetBaseImage(opaque(300, 200))

	s.FadeCorner(raster.CornerFadeParams{
		EdgeA: raster.EdgeTop, EdgeB: raster.EdgeLeft, Distance: 30,
	})
	require.Equal(t, 1, s.Stack.Len())
	out := s.Stack.Layer(0).Image.Raster.(*image.RGBA)
	assert.Less(t, out.RGBAAt(0, 0).A, uint8(10))
	assert.Equal(t, uint8(255), out.RGBAAt(150, 100).A)
}

func TestAnchorOffsetTable(t *testing.T) {
	// 100x100 -> 110x104 growth.
	cases := []struct {
		anchor Anchor
		dx, dy int
	}{
		{AnchorTopLeft, 0, 0},
		{AnchorTop, 5, 0},
		{AnchorTopRight, 10, 0},
		{AnchorLeft, 0, 2},
		{AnchorCenter, 5, 2},
		{AnchorRight, 10, 2},
		{AnchorBottomLeft, 0, 4},
		{AnchorBottom, 5, 4},
		{AnchorBottomRight, 10, 4},
	}
	for _, tc := range cases {
		dx, dy := anchorOffset(tc.anchor, 100, 100, 110, 104)
		assert.Equal(t, tc.dx, dx, "anchor %d dx", tc.anchor)
		assert.Equal(t, tc.dy, dy, "anchor %d dy", tc.anchor)
	}
}
