package geometry

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// vec converts a Point2D to an r2 vector.
func vec(p Point2D) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// QuadBezierPoint evaluates the quadratic bezier defined by start, control,
// and end at parameter t in [0,1].
func QuadBezierPoint(start, control, end Point2D, t float64) Point2D {
	u := 1 - t
	p := r2.Add(
		r2.Add(r2.Scale(u*u, vec(start)), r2.Scale(2*u*t, vec(control))),
		r2.Scale(t*t, vec(end)),
	)
	return Point2D{X: p.X, Y: p.Y}
}

// SampleQuadBezier returns n+1 evenly-parameterized points along the curve,
// including both endpoints.
func SampleQuadBezier(start, control, end Point2D, n int) []Point2D {
	if n < 1 {
		n = 1
	}
	points := make([]Point2D, n+1)
	for i := 0; i <= n; i++ {
		points[i] = QuadBezierPoint(start, control, end, float64(i)/float64(n))
	}
	return points
}

// NearestSample returns the index of the sample closest to p and the
// distance to it. An empty sample set returns (-1, 0).
func NearestSample(p Point2D, samples []Point2D) (int, float64) {
	if len(samples) == 0 {
		return -1, 0
	}
	best := 0
	bestDist := p.Distance(samples[0])
	for i, s := range samples[1:] {
		if d := p.Distance(s); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best, bestDist
}

// SideOfLine returns the sign of the cross product (b-a)×(p-a): positive on
// one side of the directed line a→b, negative on the other, zero on the line.
func SideOfLine(p, a, b Point2D) float64 {
	return r2.Cross(r2.Sub(vec(b), vec(a)), r2.Sub(vec(p), vec(a)))
}

// SameSide reports whether p and q lie strictly on the same side of the
// directed line a→b. Points on the line count as the same side.
func SameSide(p, q, a, b Point2D) bool {
	return SideOfLine(p, a, b)*SideOfLine(q, a, b) >= 0
}

// OnSameSideAs reports whether p lies on the ref side of the curve at the
// given sample: it tests the dot product of (p-sample) with (ref-sample).
// This is the authoritative curve-side test for corner fades, not the raw
// sample distance.
func OnSameSideAs(p, sample, ref Point2D) bool {
	return r2.Dot(r2.Sub(vec(p), vec(sample)), r2.Sub(vec(ref), vec(sample))) > 0
}
