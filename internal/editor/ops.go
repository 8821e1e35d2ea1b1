package editor

import (
	"image"
	"log"
	"math"

	"snapmark/internal/annotation"
	"snapmark/internal/raster"
	"snapmark/internal/render"
	"snapmark/pkg/geometry"
)

// Anchor names the fixed reference point of a canvas resize.
type Anchor int

const (
	AnchorTopLeft Anchor = iota
	AnchorTop
	AnchorTopRight
	AnchorLeft
	AnchorCenter
	AnchorRight
	AnchorBottomLeft
	AnchorBottom
	AnchorBottomRight
)

// anchorOffset computes how far existing content shifts for a resize from
// (oldW, oldH) to (newW, newH). Centered divisions floor so content stays
// on integer pixel boundaries.
func anchorOffset(a Anchor, oldW, oldH, newW, newH int) (int, int) {
	dw, dh := newW-oldW, newH-oldH

	var x int
	switch a {
	case AnchorTop, AnchorCenter, AnchorBottom:
		x = int(math.Floor(float64(dw) / 2))
	case AnchorTopRight, AnchorRight, AnchorBottomRight:
		x = dw
	}

	var y int
	switch a {
	case AnchorLeft, AnchorCenter, AnchorRight:
		y = int(math.Floor(float64(dh) / 2))
	case AnchorBottomLeft, AnchorBottom, AnchorBottomRight:
		y = dh
	}
	return x, y
}

// ResizeCanvas changes the canvas size about the given anchor, shifting all
// layers by the anchor offset so annotations stay pinned to image content.
func (s *Session) ResizeCanvas(width, height int, anchor Anchor) {
	if width < 1 || height < 1 {
		s.errNotice("Canvas size must be at least 1x1")
		return
	}
	s.SaveUndoState()

	dx, dy := anchorOffset(anchor, s.Canvas.Width, s.Canvas.Height, width, height)
	s.Canvas = geometry.SizeInt{Width: width, Height: height}
	if dx != 0 || dy != 0 {
		s.Stack.OffsetAll(float64(dx), float64(dy))
	}

	s.SetModified(true)
	s.Emit(EventCanvasResized, s.Canvas)
	s.Emit(EventLayersChanged, nil)
}

// Combine expands the canvas to fit a second image placed at pos and
// appends it as a selected layer, ready for arrow-key nudging. CommitCombine
// flattens once the position is settled.
func (s *Session) Combine(img image.Image, pos geometry.PointInt) {
	if img == nil {
		s.errNotice("No image to combine")
		return
	}
	s.SaveUndoState()

	// Placement left of or above the canvas shifts existing content right/
	// down instead of clipping the new image.
	if pos.X < 0 {
		s.Stack.OffsetAll(float64(-pos.X), 0)
		s.Canvas.Width += -pos.X
		pos.X = 0
	}
	if pos.Y < 0 {
		s.Stack.OffsetAll(0, float64(-pos.Y))
		s.Canvas.Height += -pos.Y
		pos.Y = 0
	}

	b := img.Bounds()
	needW := pos.X + b.Dx()
	needH := pos.Y + b.Dy()
	s.Canvas = geometry.SizeInt{
		Width:  maxInt(s.Canvas.Width, needW),
		Height: maxInt(s.Canvas.Height, needH),
	}
	s.Emit(EventCanvasResized, s.Canvas)

	s.Stack.Add(annotation.NewImageLayer(img, float64(pos.X), float64(pos.Y)))
	s.Selection.Select(s.Stack.Len() - 1)
	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, nil)
}

// CommitCombine flattens the combined result into a single image layer.
func (s *Session) CommitCombine() {
	s.FlattenAll()
}

// replaceWithFlat swaps the whole stack for a single image layer holding
// buf. The caller has already checkpointed undo state.
func (s *Session) replaceWithFlat(buf *image.RGBA) {
	s.Stack.Replace(nil)
	s.Stack.Add(annotation.NewImageLayer(buf, 0, 0))
	s.Selection.Clear()
	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
}

// FlattenAll collapses every layer into one image layer. One-way: vector
// payloads are gone after this.
func (s *Session) FlattenAll() {
	if s.Stack.Len() == 0 {
		s.notice("Nothing to flatten")
		return
	}
	buf, err := render.FlattenAll(s.Stack, s.Canvas.Width, s.Canvas.Height)
	if err != nil {
		s.errNotice("Flatten failed: " + err.Error())
		return
	}
	s.SaveUndoState()
	s.replaceWithFlat(buf)
}

// FlattenSelected collapses two or more selected layers into one image
// layer at their union bounds, keeping the z-position of the lowest
// selected index.
func (s *Session) FlattenSelected() {
	sel := s.Selection.Selected()
	if len(sel) < 2 {
		s.notice("Select at least two layers to flatten")
		return
	}
	buf, origin, err := render.FlattenIndices(s.Stack, sel)
	if err != nil {
		s.errNotice("Flatten failed: " + err.Error())
		return
	}

	s.SaveUndoState()
	lowest := sel[0]
	for _, i := range sel {
		if i < lowest {
			lowest = i
		}
	}
	if !s.Stack.RemoveByIndices(sel) {
		log.Printf("flatten: stale selection %v", sel)
		return
	}
	s.Stack.InsertAt(lowest, annotation.NewImageLayer(buf, float64(origin.X), float64(origin.Y)))
	s.Selection.Select(lowest)
	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, nil)
}

// Cut removes the strip [start, end) along the axis from the flattened
// canvas and rejoins the remainder, optionally cross-fading the joint. The
// whole operation is a single undo step.
func (s *Session) Cut(axis raster.Axis, start, end int, fade bool, fadeWidth int) {
	if s.Stack.Len() == 0 {
		s.notice("Nothing to cut")
		return
	}
	flat, err := render.FlattenAll(s.Stack, s.Canvas.Width, s.Canvas.Height)
	if err != nil {
		s.errNotice("Cut failed: " + err.Error())
		return
	}
	out, err := raster.CutStrip(flat, axis, start, end, fade, fadeWidth)
	if err != nil {
		s.errNotice("Cut failed: " + err.Error())
		return
	}

	s.SaveUndoState()
	b := out.Bounds()
	s.Canvas = geometry.SizeInt{Width: b.Dx(), Height: b.Dy()}
	s.replaceWithFlat(out)
	s.Emit(EventCanvasResized, s.Canvas)
	s.notice("Cut applied")
}

// FadeEdge fades one edge of the flattened canvas to transparent.
func (s *Session) FadeEdge(edge raster.Edge, width int) {
	if s.Stack.Len() == 0 {
		s.notice("Nothing to fade")
		return
	}
	width = raster.ClampFadeWidth(width, s.Canvas.Width, s.Canvas.Height)
	flat, err := render.FlattenAll(s.Stack, s.Canvas.Width, s.Canvas.Height)
	if err != nil {
		s.errNotice("Fade failed: " + err.Error())
		return
	}
	out, err := raster.EdgeFade(flat, edge, width)
	if err != nil {
		s.errNotice("Fade failed: " + err.Error())
		return
	}

	s.SaveUndoState()
	s.replaceWithFlat(out)
	s.notice("Edge fade applied")
}

// FadeCorner fades the corner shared by two adjacent edges. Opposite-edge
// selections are rejected before any pixel work.
func (s *Session) FadeCorner(params raster.CornerFadeParams) {
	if s.Stack.Len() == 0 {
		s.notice("Nothing to fade")
		return
	}
	if err := raster.ValidateCornerEdges(params.EdgeA, params.EdgeB); err != nil {
		s.errNotice("Fade failed: " + err.Error())
		return
	}
	flat, err := render.FlattenAll(s.Stack, s.Canvas.Width, s.Canvas.Height)
	if err != nil {
		s.errNotice("Fade failed: " + err.Error())
		return
	}
	out, err := raster.CornerFade(flat, params)
	if err != nil {
		s.errNotice("Fade failed: " + err.Error())
		return
	}

	s.SaveUndoState()
	s.replaceWithFlat(out)
	s.notice("Corner fade applied")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
