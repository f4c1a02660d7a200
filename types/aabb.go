package types

import "math"

// AABB represents an axis-aligned bounding box in 2D space.
//
// The bounds are inclusive on all sides. An AABB is valid when
// Min.X <= Max.X and Min.Y <= Max.Y. Empty or inverted AABBs
// should be handled explicitly by the caller.
//
// Example:
//
//	box := types.AABB{
//	    Min: types.Point{X: 0.0, Y: 0.0},
//	    Max: types.Point{X: 10.0, Y: 10.0},
//	}
type AABB struct {
	Min Point // Minimum (bottom-left) corner, inclusive
	Max Point // Maximum (top-right) corner, inclusive
}

// EmptyAABB returns an inverted box suitable as the start value for a
// running Expand accumulation: its first Expand call always wins.
func EmptyAABB() AABB {
	return AABB{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Valid reports whether the box has non-inverted bounds.
func (b AABB) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y
}

// Expand returns the smallest box containing both b and p.
func (b AABB) Expand(p Point) AABB {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	return b
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return b.Expand(o.Min).Expand(o.Max)
}

// Contains reports whether p lies within b, inclusive of the boundary.
func (b AABB) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Width returns the horizontal extent of the box.
func (b AABB) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent of the box.
func (b AABB) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Diagonal returns the length of the box's diagonal.
func (b AABB) Diagonal() float64 {
	return math.Hypot(b.Width(), b.Height())
}

// Inflated returns a copy of b expanded outward on every side by margin
// times the longer of its two spans. A zero-area box (a single point, or
// a degenerate line) is given a unit span first so the result is never
// empty.
func (b AABB) Inflated(margin float64) AABB {
	dx, dy := b.Width(), b.Height()
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	span := math.Max(dx, dy)
	pad := span * margin
	return AABB{
		Min: Point{X: b.Min.X - pad, Y: b.Min.Y - pad},
		Max: Point{X: b.Max.X + pad, Y: b.Max.Y + pad},
	}
}
