package geometry

import (
	"math"
)

// DistanceToSegment returns the shortest distance from p to the segment a-b.
// The projection of p onto the infinite line through a and b is clamped to
// the segment, so endpoints are handled correctly. A degenerate segment
// (a == b) falls back to plain point distance.
func DistanceToSegment(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point2D{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return p.Distance(closest)
}

// IsPointNearLine reports whether p lies within radius of the segment a-b.
func IsPointNearLine(p, a, b Point2D, radius float64) bool {
	return DistanceToSegment(p, a, b) <= radius
}

// SnapToAxis snaps the moving point onto a horizontal or vertical line
// through the anchor, choosing the axis with the larger absolute delta.
func SnapToAxis(anchor, moving Point2D) Point2D {
	dx := math.Abs(moving.X - anchor.X)
	dy := math.Abs(moving.Y - anchor.Y)
	if dx >= dy {
		return Point2D{X: moving.X, Y: anchor.Y}
	}
	return Point2D{X: anchor.X, Y: moving.Y}
}

// Smoothstep is the classic t²(3−2t) ramp. Input is clamped to [0,1].
func Smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
