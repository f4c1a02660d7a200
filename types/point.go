package types

// Point represents a position in 2D Cartesian space.
//
// Coordinates use float64 precision. ID is an index: the caller or
// InputGeometry.AddPoint sets it to the input order, and a point stored as
// a mesh vertex carries that vertex's id instead; Mark is a boundary
// tag where 0 means interior. Attrs holds optional user attribute values
// carried through construction but never interpreted by the core.
//
// Example:
//
//	p := Point{X: 1.5, Y: 2.3}
//	q := Point{X: 0.0, Y: 0.0}
type Point struct {
	X     float64
	Y     float64
	ID    int
	Mark  int
	Attrs []float64
}

// Eq reports whether two points have the same coordinate pair. ID, Mark and
// Attrs do not participate in equality: Point equality is by position only,
// per the data model's "equality by coordinate pair" rule.
func (p Point) Eq(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dot returns the dot product of p and q treated as vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}
