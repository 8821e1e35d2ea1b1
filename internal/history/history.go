// Package history provides the undo/redo manager: bounded stacks of deep
// snapshots of the annotation stack and canvas size.
package history

import (
	"snapmark/internal/annotation"
	"snapmark/pkg/geometry"
)

// DefaultDepth bounds each stack. Snapshots hold deep-copied layer slices
// (image raster handles shared), so an unbounded history would pin every
// intermediate state of a long session.
const DefaultDepth = 50

// Snapshot is one saved state: the full layer stack and the canvas size.
type Snapshot struct {
	Stack      *annotation.Stack
	CanvasSize geometry.SizeInt
}

// Manager holds the undo and redo stacks.
type Manager struct {
	undo  []Snapshot
	redo  []Snapshot
	depth int
}

// NewManager creates a manager with the default depth.
func NewManager() *Manager {
	return &Manager{depth: DefaultDepth}
}

// Save pushes a deep copy of the current state onto the undo stack and
// clears the redo stack. Call exactly once before each mutation; drag
// gestures checkpoint at gesture start, not per frame.
func (m *Manager) Save(stack *annotation.Stack, canvas geometry.SizeInt) {
	m.undo = append(m.undo, Snapshot{Stack: stack.Clone(), CanvasSize: canvas})
	if len(m.undo) > m.depth {
		m.undo = m.undo[len(m.undo)-m.depth:]
	}
	m.redo = nil
}

// Undo pushes the current state onto the redo stack and returns the most
// recent undo snapshot. Returns false if there is nothing to undo.
func (m *Manager) Undo(current *annotation.Stack, canvas geometry.SizeInt) (Snapshot, bool) {
	if len(m.undo) == 0 {
		return Snapshot{}, false
	}
	snap := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, Snapshot{Stack: current.Clone(), CanvasSize: canvas})
	if len(m.redo) > m.depth {
		m.redo = m.redo[len(m.redo)-m.depth:]
	}
	return snap, true
}

// Redo is the mirror of Undo.
func (m *Manager) Redo(current *annotation.Stack, canvas geometry.SizeInt) (Snapshot, bool) {
	if len(m.redo) == 0 {
		return Snapshot{}, false
	}
	snap := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, Snapshot{Stack: current.Clone(), CanvasSize: canvas})
	if len(m.undo) > m.depth {
		m.undo = m.undo[len(m.undo)-m.depth:]
	}
	return snap, true
}

// CanUndo reports whether an undo snapshot exists.
func (m *Manager) CanUndo() bool {
	return len(m.undo) > 0
}

// CanRedo reports whether a redo snapshot exists.
func (m *Manager) CanRedo() bool {
	return len(m.redo) > 0
}

// Clear drops both stacks (new session, recovery load).
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}
