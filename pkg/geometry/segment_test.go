package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceToSegment(t *testing.T) {
	a := Point2D{X: 0, Y: 0}
	b := Point2D{X: 10, Y: 0}

	// Perpendicular projection inside the segment.
	assert.InDelta(t, 3.0, DistanceToSegment(Point2D{X: 5, Y: 3}, a, b), 1e-9)

	// Beyond either endpoint the distance is to the endpoint, not the line.
	assert.InDelta(t, 5.0, DistanceToSegment(Point2D{X: -3, Y: 4}, a, b), 1e-9)
	assert.InDelta(t, 5.0, DistanceToSegment(Point2D{X: 13, Y: 4}, a, b), 1e-9)

	// On the segment.
	assert.InDelta(t, 0.0, DistanceToSegment(Point2D{X: 7, Y: 0}, a, b), 1e-9)
}

func TestDistanceToSegmentDegenerate(t *testing.T) {
	p := Point2D{X: 3, Y: 4}
	q := Point2D{X: 0, Y: 0}
	assert.InDelta(t, 5.0, DistanceToSegment(p, q, q), 1e-9)
}

func TestIsPointNearLine(t *testing.T) {
	a := Point2D{X: 0, Y: 0}
	b := Point2D{X: 100, Y: 0}

	assert.True(t, IsPointNearLine(Point2D{X: 50, Y: 4}, a, b, 5))
	assert.True(t, IsPointNearLine(Point2D{X: 50, Y: 5}, a, b, 5))
	assert.False(t, IsPointNearLine(Point2D{X: 50, Y: 5.01}, a, b, 5))
	assert.False(t, IsPointNearLine(Point2D{X: 110, Y: 0}, a, b, 5))
}

func TestSnapToAxis(t *testing.T) {
	anchor := Point2D{X: 10, Y: 10}

	// Larger horizontal travel keeps X, pins Y.
	snapped := SnapToAxis(anchor, Point2D{X: 40, Y: 15})
	assert.Equal(t, Point2D{X: 40, Y: 10}, snapped)

	// Larger vertical travel keeps Y, pins X.
	snapped = SnapToAxis(anchor, Point2D{X: 15, Y: 40})
	assert.Equal(t, Point2D{X: 10, Y: 40}, snapped)

	// Equal travel resolves horizontally.
	snapped = SnapToAxis(anchor, Point2D{X: 20, Y: 20})
	assert.Equal(t, Point2D{X: 20, Y: 10}, snapped)
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(-1))
	assert.Equal(t, 0.0, Smoothstep(0))
	assert.Equal(t, 0.5, Smoothstep(0.5))
	assert.Equal(t, 1.0, Smoothstep(1))
	assert.Equal(t, 1.0, Smoothstep(2))

	// Monotonic over [0,1].
	prev := -1.0
	for i := 0; i <= 100; i++ {
		v := Smoothstep(float64(i) / 100)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}

	// Flat tangents at the ends, steeper than linear at the middle.
	assert.Less(t, Smoothstep(0.1), 0.1)
	assert.Greater(t, Smoothstep(0.9), 0.9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(3, 5, 10))
	assert.Equal(t, 10.0, Clamp(12, 5, 10))
	assert.Equal(t, 7.0, Clamp(7, 5, 10))
}

func TestRectContainsWithMargin(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}

	assert.True(t, r.Contains(Point2D{X: 15, Y: 15}))
	assert.False(t, r.Contains(Point2D{X: 9, Y: 15}))
	assert.True(t, r.ContainsWithMargin(Point2D{X: 6, Y: 15}, 5))
	assert.False(t, r.ContainsWithMargin(Point2D{X: 4, Y: 15}, 5))
	assert.True(t, r.ContainsWithMargin(Point2D{X: 34, Y: 34}, 5))
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 20, Height: 3}
	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 25, Height: 10}, u)
}

func TestPointDistance(t *testing.T) {
	assert.InDelta(t, math.Sqrt2, Point2D{X: 1, Y: 1}.Distance(Point2D{}), 1e-9)
}
