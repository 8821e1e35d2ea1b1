package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapmark/pkg/geometry"
)

func testLine(x float64) *Layer {
	return NewLineLayer(LineData{
		Start: geometry.Point2D{X: x, Y: 0},
		End:   geometry.Point2D{X: x + 10, Y: 10},
		Color: "red",
		Width: 2,
		Style: StyleSolid,
	})
}

func TestStackAddAssignsMonotonicIDs(t *testing.T) {
	s := NewStack()
	a := s.Add(testLine(0))
	b := s.Add(testLine(10))

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, 3, s.NextID())
}

func TestStackIDsNeverReused(t *testing.T) {
	s := NewStack()
	s.Add(testLine(0))
	s.Add(testLine(10))

	require.True(t, s.RemoveByIndices([]int{1}))
	c := s.Add(testLine(20))
	assert.Equal(t, 3, c.ID)
}

func TestStackRemoveByIndicesAllOrNothing(t *testing.T) {
	s := NewStack()
	for i := 0; i < 4; i++ {
		s.Add(testLine(float64(i) * 10))
	}

	// One bad index poisons the whole call.
	assert.False(t, s.RemoveByIndices([]int{1, 7}))
	assert.Equal(t, 4, s.Len())

	// Order and duplicates do not matter.
	assert.True(t, s.RemoveByIndices([]int{3, 1, 1}))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Layer(0).ID)
	assert.Equal(t, 3, s.Layer(1).ID)

	assert.False(t, s.RemoveByIndices(nil))
}

func TestStackReorder(t *testing.T) {
	s := NewStack()
	for i := 0; i < 3; i++ {
		s.Add(testLine(float64(i) * 10))
	}
	ids := func() []int {
		out := make([]int, s.Len())
		for i := range out {
			out[i] = s.Layer(i).ID
		}
		return out
	}

	assert.True(t, s.MoveForward(0))
	assert.Equal(t, []int{2, 1, 3}, ids())

	// Top layer cannot move further forward.
	assert.False(t, s.MoveForward(2))
	assert.False(t, s.MoveBackward(0))

	assert.True(t, s.MoveToFront(0))
	assert.Equal(t, []int{1, 3, 2}, ids())

	assert.True(t, s.MoveToBack(2))
	assert.Equal(t, []int{2, 1, 3}, ids())

	assert.False(t, s.MoveToFront(2))
	assert.False(t, s.MoveToBack(0))
}

func TestStackDuplicateDeepCopies(t *testing.T) {
	s := NewStack()
	s.Add(testLine(0))

	idx := s.Duplicate(0)
	require.Equal(t, 1, idx)

	copyLayer := s.Layer(1)
	assert.Equal(t, 2, copyLayer.ID)
	copyLayer.Line.Start.X = 99
	assert.Equal(t, 0.0, s.Layer(0).Line.Start.X)

	assert.Equal(t, -1, s.Duplicate(5))
}

func TestStackReplaceResyncsNextID(t *testing.T) {
	s := NewStack()
	s.Replace([]*Layer{
		{ID: 4, Type: TypeLine, Line: &LineData{}},
		{ID: 9, Type: TypeLine, Line: &LineData{}},
	})
	assert.Equal(t, 10, s.NextID())

	// Replacing with lower ids never rolls the counter back.
	s.Replace([]*Layer{{ID: 2, Type: TypeLine, Line: &LineData{}}})
	assert.Equal(t, 10, s.NextID())
}

func TestStackCloneIsIndependent(t *testing.T) {
	s := NewStack()
	s.Add(testLine(0))

	c := s.Clone()
	c.Layer(0).Line.End.X = 500
	c.Add(testLine(10))

	assert.Equal(t, 10.0, s.Layer(0).Line.End.X)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, s.NextID(), c.NextID()-1)
}

func TestStackInsertAt(t *testing.T) {
	s := NewStack()
	s.Add(testLine(0))
	s.Add(testLine(10))

	inserted := s.InsertAt(1, testLine(20))
	assert.Equal(t, 3, inserted.ID)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, inserted, s.Layer(1))

	// Out-of-range indices clamp.
	s.InsertAt(-5, testLine(30))
	assert.Equal(t, s.Layer(0).ID, 4)
	s.InsertAt(99, testLine(40))
	assert.Equal(t, s.Layer(s.Len()-1).ID, 5)
}

func TestLayerTranslate(t *testing.T) {
	l := NewShapeLayer(ShapeData{
		Rect:        geometry.Rect{X: 10, Y: 20, Width: 30, Height: 40},
		BorderColor: "red",
		FillColor:   "transparent",
		BorderWidth: 2,
		Style:       StyleSolid,
		Corner:      CornerSquare,
	})
	l.Translate(5, -5)
	assert.Equal(t, geometry.Rect{X: 15, Y: 15, Width: 30, Height: 40}, l.Shape.Rect)

	line := testLine(0)
	line.Translate(1, 2)
	assert.Equal(t, geometry.Point2D{X: 1, Y: 2}, line.Line.Start)
	assert.Equal(t, geometry.Point2D{X: 11, Y: 12}, line.Line.End)
}

func TestParseLayerType(t *testing.T) {
	for i := 0; i < int(numLayerTypes); i++ {
		typ := LayerType(i)
		parsed, ok := ParseLayerType(typ.String())
		assert.True(t, ok, typ.String())
		assert.Equal(t, typ, parsed)
	}

	_, ok := ParseLayerType("bogus")
	assert.False(t, ok)
}
