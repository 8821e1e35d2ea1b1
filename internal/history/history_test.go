package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapmark/internal/annotation"
	"snapmark/pkg/geometry"
)

var canvas = geometry.SizeInt{Width: 800, Height: 600}

func lineAt(x float64) *annotation.Layer {
	return annotation.NewLineLayer(annotation.LineData{
		Start: geometry.Point2D{X: x, Y: 0},
		End:   geometry.Point2D{X: x, Y: 10},
		Color: "red", Width: 2, Style: annotation.StyleSolid,
	})
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := NewManager()
	stack := annotation.NewStack()

	m.Save(stack, canvas)
	stack.Add(lineAt(5))

	snap, ok := m.Undo(stack, canvas)
	require.True(t, ok)
	assert.Equal(t, 0, snap.Stack.Len())
	assert.True(t, m.CanRedo())

	// Redo restores the mutated state.
	snap2, ok := m.Redo(snap.Stack, canvas)
	require.True(t, ok)
	assert.Equal(t, 1, snap2.Stack.Len())
	assert.Equal(t, 5.0, snap2.Stack.Layer(0).Line.Start.X)
}

func TestSaveClearsRedo(t *testing.T) {
	m := NewManager()
	stack := annotation.NewStack()

	m.Save(stack, canvas)
	stack.Add(lineAt(1))
	_, ok := m.Undo(stack, canvas)
	require.True(t, ok)
	require.True(t, m.CanRedo())

	// A fresh mutation forks history: the redo branch is gone.
	m.Save(stack, canvas)
	assert.False(t, m.CanRedo())
	assert.True(t, m.CanUndo())
}

func TestSnapshotsAreDeepCopies(t *testing.T) {
	m := NewManager()
	stack := annotation.NewStack()
	stack.Add(lineAt(1))

	m.Save(stack, canvas)
	stack.Layer(0).Line.Start.X = 999

	snap, ok := m.Undo(stack, canvas)
	require.True(t, ok)
	assert.Equal(t, 1.0, snap.Stack.Layer(0).Line.Start.X)
}

func TestDepthBound(t *testing.T) {
	m := NewManager()
	stack := annotation.NewStack()

	for i := 0; i < DefaultDepth+10; i++ {
		m.Save(stack, canvas)
	}

	count := 0
	for m.CanUndo() {
		_, ok := m.Undo(stack, canvas)
		require.True(t, ok)
		count++
	}
	assert.Equal(t, DefaultDepth, count)
}

func TestUndoEmpty(t *testing.T) {
	m := NewManager()
	stack := annotation.NewStack()

	_, ok := m.Undo(stack, canvas)
	assert.False(t, ok)
	_, ok = m.Redo(stack, canvas)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	m := NewManager()
	stack := annotation.NewStack()
	m.Save(stack, canvas)
	m.Undo(stack, canvas)

	m.Clear()
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestCanvasSizeTravelsWithSnapshot(t *testing.T) {
	m := NewManager()
	stack := annotation.NewStack()

	small := geometry.SizeInt{Width: 100, Height: 50}
	m.Save(stack, small)

	snap, ok := m.Undo(stack, canvas)
	require.True(t, ok)
	assert.Equal(t, small, snap.CanvasSize)

	snap2, ok := m.Redo(snap.Stack, snap.CanvasSize)
	require.True(t, ok)
	assert.Equal(t, canvas, snap2.CanvasSize)
}
