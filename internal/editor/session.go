// Package editor provides the per-document session: the annotation stack,
// canvas size, selection engine, undo history, and the command surface the
// UI calls. All mutation happens on the event-loop goroutine; the session
// takes no locks and relies on never interleaving a mutation with its own
// read inside one synchronous operation.
package editor

import (
	"image"
	"log"

	"snapmark/internal/annotation"
	"snapmark/internal/history"
	"snapmark/internal/render"
	"snapmark/internal/selection"
	"snapmark/pkg/geometry"
)

// DefaultCanvasWidth and DefaultCanvasHeight size a fresh empty session.
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600
)

// Session holds one document's state. Create one per window; tear it down
// on new/close.
type Session struct {
	Stack     *annotation.Stack
	Canvas    geometry.SizeInt
	Selection *selection.Engine

	history   *history.Manager
	listeners map[EventType][]EventListener
	modified  bool
}

// NewSession creates a session with an empty stack and default canvas.
func NewSession() *Session {
	s := &Session{
		Stack:     annotation.NewStack(),
		Canvas:    geometry.SizeInt{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight},
		history:   history.NewManager(),
		listeners: make(map[EventType][]EventListener),
	}
	s.Selection = selection.NewEngine(s.Stack)
	s.Selection.OnGestureStart = s.SaveUndoState
	s.Selection.OnChanged = func() {
		s.SetModified(true)
		s.Emit(EventLayersChanged, nil)
	}
	return s
}

// Reset starts a new document: empty stack, fresh history, given canvas.
func (s *Session) Reset(width, height int) {
	s.Stack.Clear()
	s.Stack.Replace(nil)
	s.Canvas = geometry.SizeInt{Width: width, Height: height}
	s.history.Clear()
	s.Selection.Clear()
	s.modified = false
	s.Emit(EventSessionReset, nil)
	s.Emit(EventLayersChanged, nil)
}

// SetBaseImage resets the document around a loaded image: the canvas takes
// the image size and the stack holds it as the base layer at index 0.
func (s *Session) SetBaseImage(img image.Image) {
	b := img.Bounds()
	s.Reset(b.Dx(), b.Dy())
	s.Stack.Add(annotation.NewImageLayer(img, 0, 0))
	s.Emit(EventLayersChanged, nil)
}

// SetModified marks the document dirty and notifies listeners.
func (s *Session) SetModified(modified bool) {
	if s.modified == modified {
		return
	}
	s.modified = modified
	s.Emit(EventModified, modified)
}

// Modified reports whether there are unsaved changes.
func (s *Session) Modified() bool {
	return s.modified
}

// SaveUndoState checkpoints the current stack and canvas size. Every
// mutating command calls it exactly once, before mutation; drags call it
// once at gesture start via the selection engine.
func (s *Session) SaveUndoState() {
	s.history.Save(s.Stack, s.Canvas)
	s.Emit(EventHistoryChanged, nil)
}

// CanUndo reports whether undo is available.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether redo is available.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Undo restores the previous snapshot. The stack pointer stays stable so
// the selection engine and canvas keep their references; only contents are
// replaced. The id counter never moves backwards, so redone layers keep
// unique ids.
func (s *Session) Undo() {
	snap, ok := s.history.Undo(s.Stack, s.Canvas)
	if !ok {
		return
	}
	s.restore(snap)
}

// Redo is the mirror of Undo.
func (s *Session) Redo() {
	snap, ok := s.history.Redo(s.Stack, s.Canvas)
	if !ok {
		return
	}
	s.restore(snap)
}

func (s *Session) restore(snap history.Snapshot) {
	s.Stack.Replace(snap.Stack.Clone().Layers())
	s.Canvas = snap.CanvasSize
	s.Selection.Clear()
	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventHistoryChanged, nil)
	s.Emit(EventCanvasResized, s.Canvas)
}

// AddLayer checkpoints, appends the layer, and selects it.
func (s *Session) AddLayer(l *annotation.Layer) *annotation.Layer {
	s.SaveUndoState()
	s.Stack.Add(l)
	s.Selection.Select(s.Stack.Len() - 1)
	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, nil)
	return l
}

// RemoveSelected deletes every selected layer. The base image at index 0
// can be removed only if it is explicitly selected, which hit-testing never
// does.
func (s *Session) RemoveSelected() {
	sel := s.Selection.Selected()
	if len(sel) == 0 {
		s.notice("Nothing selected")
		return
	}
	s.SaveUndoState()
	if !s.Stack.RemoveByIndices(sel) {
		log.Printf("remove: stale selection %v", sel)
	}
	// Indices are stale after removal; clear rather than fix up.
	s.Selection.Clear()
	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, nil)
}

// DuplicateSelected deep-copies the single selected layer and selects the
// copy. Image layers share the raster handle rather than copying pixels.
func (s *Session) DuplicateSelected() {
	sel := s.Selection.Selected()
	if len(sel) != 1 {
		s.notice("Select one layer to duplicate")
		return
	}
	s.SaveUndoState()
	idx := s.Stack.Duplicate(sel[0])
	if idx >= 0 {
		// Offset slightly so the copy is visible.
		s.Stack.Layer(idx).Translate(12, 12)
		s.Selection.Select(idx)
	}
	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
	s.Emit(EventSelectionChanged, nil)
}

// reorder applies one z-order move to the single selected layer and keeps
// the selection on it.
func (s *Session) reorder(move func(int) (int, bool)) {
	sel := s.Selection.Selected()
	if len(sel) != 1 {
		s.notice("Select one layer to reorder")
		return
	}
	s.SaveUndoState()
	newIdx, ok := move(sel[0])
	if !ok {
		return // clamped at the boundary; checkpoint is harmless
	}
	s.Selection.Select(newIdx)
	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
}

// BringForward moves the selected layer one step toward the top.
func (s *Session) BringForward() {
	s.reorder(func(i int) (int, bool) { return i + 1, s.Stack.MoveForward(i) })
}

// SendBackward moves the selected layer one step toward the bottom.
func (s *Session) SendBackward() {
	s.reorder(func(i int) (int, bool) { return i - 1, s.Stack.MoveBackward(i) })
}

// BringToFront moves the selected layer to the top.
func (s *Session) BringToFront() {
	s.reorder(func(i int) (int, bool) { return s.Stack.Len() - 1, s.Stack.MoveToFront(i) })
}

// SendToBack moves the selected layer to the bottom.
func (s *Session) SendToBack() {
	s.reorder(func(i int) (int, bool) { return 0, s.Stack.MoveToBack(i) })
}

// Nudge moves every selected layer by (dx, dy) canvas pixels. Each nudge is
// one undo step.
func (s *Session) Nudge(dx, dy float64) {
	sel := s.Selection.Selected()
	if len(sel) == 0 {
		return
	}
	s.SaveUndoState()
	for _, i := range sel {
		if l := s.Stack.Layer(i); l != nil {
			l.Translate(dx, dy)
		}
	}
	s.SetModified(true)
	s.Emit(EventLayersChanged, nil)
}

// Render composites the current stack at canvas size.
func (s *Session) Render() *image.RGBA {
	return render.Render(s.Stack, s.Canvas.Width, s.Canvas.Height)
}
