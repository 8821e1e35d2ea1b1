// Package selection implements hit-testing and interactive transforms over
// the annotation stack: single/multi selection, group drag-move, endpoint
// and corner handle drags, all under a zoom-scaled coordinate system.
package selection

import (
	"math"
	"sort"

	"snapmark/internal/annotation"
	"snapmark/internal/render"
	"snapmark/pkg/geometry"
)

// State is the pointer interaction state.
type State int

const (
	Idle State = iota
	Selecting
	DraggingMove
	DraggingEndpoint
	DraggingCorner
)

const (
	// HandleHitRadius is the on-screen handle hit radius in pixels. It is
	// divided by the zoom scale so the physical target stays constant.
	HandleHitRadius = 10.0

	// hitMargin grows every layer's hit bounds, in canvas pixels.
	hitMargin = 5.0

	// minShapeSize is the corner-drag floor preventing degenerate rects.
	minShapeSize = 5.0

	// dragThreshold separates a click from the start of a drag.
	dragThreshold = 2.0
)

// Modifiers carries the modifier-key state of a pointer event.
type Modifiers struct {
	Multi bool // Ctrl/Cmd: toggle membership
	Snap  bool // Shift: axis snap during endpoint drags
}

// Engine tracks selection and drives transforms on the stack. All points
// are in canvas coordinates; callers convert from screen space by dividing
// by zoom before handing events over, and pass the zoom alongside so handle
// radii can be descaled.
type Engine struct {
	stack *annotation.Stack

	state        State
	selected     []int
	dragStart    geometry.Point2D
	originals    map[int]*annotation.Layer
	activeHandle int

	// OnGestureStart fires once when a drag gesture begins, before any
	// mutation, so the session can checkpoint undo state exactly once.
	OnGestureStart func()
	// OnChanged fires after every mutation so the canvas can re-render.
	OnChanged func()
}

// NewEngine creates an engine over the given stack.
func NewEngine(stack *annotation.Stack) *Engine {
	return &Engine{stack: stack}
}

// State returns the current interaction state.
func (e *Engine) State() State {
	return e.state
}

// Selected returns the selected stack indices in ascending order.
func (e *Engine) Selected() []int {
	return e.selected
}

// IsSelected reports whether index i is in the selection set.
func (e *Engine) IsSelected(i int) bool {
	for _, s := range e.selected {
		if s == i {
			return true
		}
	}
	return false
}

// Clear empties the selection set. Must be called whenever stack indices
// may have gone stale (removal, reorder without fixup, load, flatten).
func (e *Engine) Clear() {
	e.selected = nil
	e.state = Idle
	e.originals = nil
}

// Select replaces the selection with the given index.
func (e *Engine) Select(i int) {
	if i < 0 || i >= e.stack.Len() {
		e.Clear()
		return
	}
	e.selected = []int{i}
}

// PointerDown begins an interaction at pt. Handle tests run before the
// general hit-test when exactly one line-like or rect-like layer is
// selected.
func (e *Engine) PointerDown(pt geometry.Point2D, zoom float64, mods Modifiers) {
	e.dragStart = pt
	radius := HandleHitRadius / zoom

	if len(e.selected) == 1 {
		l := e.stack.Layer(e.selected[0])
		if l != nil && l.IsLineLike() {
			if h := e.hitEndpoint(l, pt, radius); h >= 0 {
				e.beginGesture(DraggingEndpoint, h)
				return
			}
		}
		if l != nil && l.IsRectLike() {
			if h := e.hitCorner(l, pt, radius); h >= 0 {
				e.beginGesture(DraggingCorner, h)
				return
			}
		}
	}

	hit := e.HitTest(pt)
	if hit < 0 {
		if !mods.Multi {
			e.Clear()
			e.notifyChanged()
		}
		return
	}

	if mods.Multi {
		e.toggle(hit)
		e.notifyChanged()
		return
	}

	if !e.IsSelected(hit) {
		e.selected = []int{hit}
		e.notifyChanged()
	}
	// A drag may follow; wait for movement past the threshold before
	// committing to a move gesture.
	e.state = Selecting
	e.snapshotOriginals()
}

// PointerMove advances the active gesture.
func (e *Engine) PointerMove(pt geometry.Point2D, zoom float64, mods Modifiers) {
	switch e.state {
	case Selecting:
		if pt.Distance(e.dragStart) < dragThreshold {
			return
		}
		if e.OnGestureStart != nil {
			e.OnGestureStart()
		}
		e.state = DraggingMove
		e.applyMove(pt)
	case DraggingMove:
		e.applyMove(pt)
	case DraggingEndpoint:
		e.applyEndpoint(pt, mods)
	case DraggingCorner:
		e.applyCorner(pt)
	}
}

// PointerUp ends the gesture. It returns true if a transform was applied
// (as opposed to a plain selection click).
func (e *Engine) PointerUp() bool {
	dragged := e.state == DraggingMove || e.state == DraggingEndpoint || e.state == DraggingCorner
	e.state = Idle
	e.originals = nil
	return dragged
}

// HitTest scans the stack top-to-bottom, excluding the base image at index
// 0, and returns the first hit index or -1. Bounds are type-specific:
// clamped-projection distance for lines, glyph-metric boxes for text-like
// variants, rect containment for the rest.
func (e *Engine) HitTest(pt geometry.Point2D) int {
	for i := e.stack.Len() - 1; i >= 1; i-- {
		l := e.stack.Layer(i)
		if l == nil {
			continue
		}
		if l.IsLineLike() {
			radius := l.Line.Width/2 + hitMargin
			if geometry.IsPointNearLine(pt, l.Line.Start, l.Line.End, radius) {
				return i
			}
			continue
		}
		if render.LayerBounds(l).ContainsWithMargin(pt, hitMargin) {
			return i
		}
	}
	return -1
}

// hitEndpoint returns 0 for the start handle, 1 for the end handle, -1 for
// neither.
func (e *Engine) hitEndpoint(l *annotation.Layer, pt geometry.Point2D, radius float64) int {
	if pt.Distance(l.Line.Start) <= radius {
		return 0
	}
	if pt.Distance(l.Line.End) <= radius {
		return 1
	}
	return -1
}

// corners returns the four rect corners in TL, TR, BR, BL order.
func corners(r geometry.Rect) [4]geometry.Point2D {
	return [4]geometry.Point2D{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

func rectOf(l *annotation.Layer) *geometry.Rect {
	if l.Type == annotation.TypeShape {
		return &l.Shape.Rect
	}
	return &l.Highlight.Rect
}

func (e *Engine) hitCorner(l *annotation.Layer, pt geometry.Point2D, radius float64) int {
	for i, c := range corners(*rectOf(l)) {
		if pt.Distance(c) <= radius {
			return i
		}
	}
	return -1
}

// beginGesture starts a handle drag: checkpoint, snapshot, switch state.
func (e *Engine) beginGesture(state State, handle int) {
	if e.OnGestureStart != nil {
		e.OnGestureStart()
	}
	e.state = state
	e.activeHandle = handle
	e.snapshotOriginals()
}

// snapshotOriginals records each selected layer's pre-drag state so moves
// are computed as original + delta, not accumulated per frame.
func (e *Engine) snapshotOriginals() {
	e.originals = make(map[int]*annotation.Layer, len(e.selected))
	for _, i := range e.selected {
		if l := e.stack.Layer(i); l != nil {
			e.originals[i] = l.Clone()
		}
	}
}

// applyMove recomputes every selected layer as its pre-drag snapshot
// shifted by the pointer delta.
func (e *Engine) applyMove(pt geometry.Point2D) {
	dx := pt.X - e.dragStart.X
	dy := pt.Y - e.dragStart.Y
	for i, orig := range e.originals {
		cur := e.stack.Layer(i)
		if cur == nil {
			continue
		}
		moved := orig.Clone()
		moved.Translate(dx, dy)
		*cur = *moved
	}
	e.notifyChanged()
}

// applyEndpoint moves the active endpoint, snapping to the anchor
// endpoint's axis when Shift is held.
func (e *Engine) applyEndpoint(pt geometry.Point2D, mods Modifiers) {
	if len(e.selected) != 1 {
		return
	}
	l := e.stack.Layer(e.selected[0])
	if l == nil || !l.IsLineLike() {
		return
	}

	anchor := l.Line.Start
	if e.activeHandle == 0 {
		anchor = l.Line.End
	}
	moved := pt
	if mods.Snap {
		moved = geometry.SnapToAxis(anchor, pt)
	}
	if e.activeHandle == 0 {
		l.Line.Start = moved
	} else {
		l.Line.End = moved
	}
	e.notifyChanged()
}

// applyCorner recomputes the rect from the fixed opposite corner with a
// minimum-size floor.
func (e *Engine) applyCorner(pt geometry.Point2D) {
	if len(e.selected) != 1 {
		return
	}
	l := e.stack.Layer(e.selected[0])
	if l == nil || !l.IsRectLike() {
		return
	}
	orig := e.originals[e.selected[0]]
	if orig == nil {
		return
	}

	opp := corners(*rectOf(orig))[(e.activeHandle+2)%4]

	w := math.Max(minShapeSize, math.Abs(pt.X-opp.X))
	h := math.Max(minShapeSize, math.Abs(pt.Y-opp.Y))
	x := opp.X
	if pt.X < opp.X {
		x = opp.X - w
	}
	y := opp.Y
	if pt.Y < opp.Y {
		y = opp.Y - h
	}

	*rectOf(l) = geometry.Rect{X: x, Y: y, Width: w, Height: h}
	e.notifyChanged()
}

// toggle flips membership of index i in the selection set.
func (e *Engine) toggle(i int) {
	for n, s := range e.selected {
		if s == i {
			e.selected = append(e.selected[:n], e.selected[n+1:]...)
			return
		}
	}
	e.selected = append(e.selected, i)
	sort.Ints(e.selected)
}

func (e *Engine) notifyChanged() {
	if e.OnChanged != nil {
		e.OnChanged()
	}
}
