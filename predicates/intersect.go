package predicates

import (
	"math"

	"github.com/gomesh2d/trimesh2d/types"
)

// SegmentsIntersect reports whether closed segments [p,q] and [r,s] cross,
// touch at an endpoint, or overlap collinearly. When they cross at a single
// interior point, t and u are the intersection's parametric position along
// pq and rs respectively, each in [0,1].
func SegmentsIntersect(p, q, r, s types.Point) (hit bool, t, u float64) {
	o1 := Orient2D(p, q, r)
	o2 := Orient2D(p, q, s)
	o3 := Orient2D(r, s, p)
	o4 := Orient2D(r, s, q)

	if sign(o1)*sign(o2) < 0 && sign(o3)*sign(o4) < 0 {
		ex, ey := q.X-p.X, q.Y-p.Y
		fx, fy := s.X-r.X, s.Y-r.Y
		den := ex*fy - ey*fx
		t = ((r.X-p.X)*fy - (r.Y-p.Y)*fx) / den
		u = ((r.X-p.X)*ey - (r.Y-p.Y)*ex) / den
		return true, t, u
	}

	if o1 == 0 && o2 == 0 && o3 == 0 && o4 == 0 {
		if overlapLength(p, q, r, s) > 0 {
			return true, math.NaN(), math.NaN()
		}
	}

	if o1 == 0 && onSegment(p, q, r) {
		return true, segmentParam(p, q, r), 0
	}
	if o2 == 0 && onSegment(p, q, s) {
		return true, segmentParam(p, q, s), 1
	}
	if o3 == 0 && onSegment(r, s, p) {
		return true, 0, segmentParam(r, s, p)
	}
	if o4 == 0 && onSegment(r, s, q) {
		return true, 1, segmentParam(r, s, q)
	}
	return false, math.NaN(), math.NaN()
}

// RotatedFrameIntersect intersects segment [p,q] against [r,s] using the
// spec's rotated-frame parametrization: the frame is rotated so pq lies
// along the +x axis, and the intersection lies at distance
// t = x4 + (x3-x4)*y4/(y4-y3) from p along pq. Under strict, endpoint touches do not
// count as intersections and parameters outside [0,1] on either segment
// are rejected. ok reports whether an accepted intersection exists; point
// is the intersection location in the original frame.
func RotatedFrameIntersect(p, q, r, s types.Point, strict bool) (point types.Point, onPQ, onRS float64, ok bool) {
	dx := q.X - p.X
	dy := q.Y - p.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return types.Point{}, 0, 0, false
	}
	cosT := dx / length
	sinT := dy / length

	rotate := func(pt types.Point) (x, y float64) {
		tx := pt.X - p.X
		ty := pt.Y - p.Y
		return tx*cosT + ty*sinT, -tx*sinT + ty*cosT
	}

	_, _ = rotate(p) // p lands at the origin of the rotated frame
	x2, _ := rotate(q)
	x3, y3 := rotate(r)
	x4, y4 := rotate(s)

	if y4 == y3 {
		return types.Point{}, 0, 0, false
	}

	t := x4 + (x3-x4)*y4/(y4-y3)
	u := y4 / (y4 - y3)

	onPQ = t / x2
	onRS = u

	if strict {
		if onPQ <= 0 || onPQ >= 1 || onRS <= 0 || onRS >= 1 {
			return types.Point{}, onPQ, onRS, false
		}
	} else {
		if onPQ < 0 || onPQ > 1 || onRS < 0 || onRS > 1 {
			return types.Point{}, onPQ, onRS, false
		}
	}

	point = types.Point{X: p.X + t*cosT, Y: p.Y + t*sinT}
	return point, onPQ, onRS, true
}

func segmentParam(a, b, p types.Point) float64 {
	length2 := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	if length2 == 0 {
		return 0
	}
	return ((p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)) / length2
}

func onSegment(a, b, p types.Point) bool {
	if Orient2D(a, b, p) != 0 {
		return false
	}
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	const tol = 1e-12
	return p.X >= minX-tol && p.X <= maxX+tol && p.Y >= minY-tol && p.Y <= maxY+tol
}

func overlapLength(a1, a2, b1, b2 types.Point) float64 {
	useX := math.Abs(a1.X-a2.X) >= math.Abs(a1.Y-a2.Y)
	if useX {
		aMin, aMax := math.Min(a1.X, a2.X), math.Max(a1.X, a2.X)
		bMin, bMax := math.Min(b1.X, b2.X), math.Max(b1.X, b2.X)
		return math.Min(aMax, bMax) - math.Max(aMin, bMin)
	}
	aMin, aMax := math.Min(a1.Y, a2.Y), math.Max(a1.Y, a2.Y)
	bMin, bMax := math.Min(b1.Y, b2.Y), math.Max(b1.Y, b2.Y)
	return math.Min(aMax, bMax) - math.Max(aMin, bMin)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
