package mesh2d

import (
	"github.com/gomesh2d/trimesh2d/predicates"
	"github.com/gomesh2d/trimesh2d/types"
)

// maxConstraintFlips bounds the Lawson-channel flip loop forceSegment runs
// to insert one constraint edge, guarding against an unexpected topology
// inconsistency turning into an infinite loop.
const maxConstraintFlips = 1 << 16

// insertConstraint ties a subsegment between existing mesh vertices u and
// v, forcing the edge into the triangulation first via forceSegment if it
// is not already present. boundary is the marker value carried onto the
// new subsegment record.
func (m *Mesh) insertConstraint(u, v VertexID, boundary int) error {
	if u == v {
		return wrapInvalid("cannot insert a zero-length constraint edge (vertex %d)", u)
	}

	if ot := m.findAdjoiningEdge(u, v); !m.isDummyTri(ot.Tri) {
		return m.tieConstraintEdge(ot, boundary)
	}
	if ot := m.findAdjoiningEdge(v, u); !m.isDummyTri(ot.Tri) {
		return m.tieConstraintEdge(ot.Sym(m), boundary)
	}

	if err := m.forceSegment(u, v); err != nil {
		return err
	}

	ot := m.findAdjoiningEdge(u, v)
	if m.isDummyTri(ot.Tri) {
		return wrapInvalid("constraint edge (%d,%d) did not materialize after forcing", u, v)
	}
	return m.tieConstraintEdge(ot, boundary)
}

// tieConstraintEdge installs a new subsegment on both triangle sides of
// the live edge ot.
func (m *Mesh) tieConstraintEdge(ot OrientedTri, boundary int) error {
	if ot.hasSeg(m) {
		return nil // already constrained, idempotent
	}
	os := m.makeSubseg()
	os.setOrigin(m, ot.Origin(m))
	os.setDest(m, ot.Dest(m))
	m.segs[os.Seg].boundary = boundary
	m.tieSegmentAlongEdges(ot, os)
	return nil
}

// forceSegment uses the Lawson-channel algorithm: repeatedly find a live,
// non-constrained edge crossing the open segment (u,v) and flip it, until
// an edge directly joining u and v appears. Flipping a crossing edge
// always shortens the remaining channel because the new diagonal lies
// strictly closer to u-v than the one removed, in a strictly convex
// quadrilateral; when the quadrilateral is not convex the edge is skipped
// and retried after other flips have reshaped its neighborhood.
func (m *Mesh) forceSegment(u, v VertexID) error {
	up := u.point(m)
	vp := v.point(m)

	for i := 0; i < maxConstraintFlips; i++ {
		if ot := m.findAdjoiningEdge(u, v); !m.isDummyTri(ot.Tri) {
			return nil
		}

		crossing, ok := m.findCrossingEdge(u, v, up, vp)
		if !ok {
			return wrapInvalid("no path found between %d and %d while forcing constraint", u, v)
		}
		if crossing.hasSeg(m) {
			return wrapInvalid("constraint (%d,%d) crosses an existing constraint edge", u, v)
		}
		sym := crossing.Sym(m)
		if m.isDummyTri(sym.Tri) {
			return wrapInvalid("constraint (%d,%d) runs outside the triangulated hull", u, v)
		}

		if !m.quadConvex(crossing) {
			continue
		}
		m.flip(crossing)
	}
	return wrapInvalid("exceeded flip budget forcing constraint (%d,%d)", u, v)
}

// findCrossingEdge finds a live triangle edge that properly crosses open
// segment (u,v): an edge whose two endpoints lie on opposite sides of the
// line through u,v, and whose own line separates u and v. It searches
// outward from u's triangle fan along the side of the fan that faces v,
// which always finds a crossing edge when one exists because the fan
// around u spans a full turn.
func (m *Mesh) findCrossingEdge(u, v VertexID, up, vp types.Point) (OrientedTri, bool) {
	start := m.vertices[u].incident
	// Rotate clockwise to the first triangle of an open (hull) fan so the
	// ccw walk below covers the whole fan.
	for i := 0; i < 4096; i++ {
		prev := start.Oprev(m)
		if m.isDummyTri(prev.Tri) || prev == m.vertices[u].incident {
			break
		}
		start = prev
	}
	ot := start
	for i := 0; i < 4096; i++ {
		far := ot.Lnext() // edge opposite u: dest -> apex
		a := far.Origin(m).point(m)
		b := far.Dest(m).point(m)

		sideA := predicates.Orient2D(up, vp, a)
		sideB := predicates.Orient2D(up, vp, b)
		if sideA*sideB < 0 {
			sideU := predicates.Orient2D(a, b, up)
			sideV := predicates.Orient2D(a, b, vp)
			if sideU*sideV < 0 {
				return far, true
			}
		}

		next := ot.Onext(m)
		if next == start || m.isDummyTri(next.Tri) {
			break
		}
		ot = next
	}
	return OrientedTri{}, false
}

// quadConvex reports whether the quadrilateral formed by ot's triangle
// (a,b,c) and its neighbor across ot (b,a,d) is strictly convex in the
// cyclic order a,c,b,d, i.e. flipping ot's diagonal a-b to c-d would
// produce two valid, non-overlapping triangles. This holds exactly when d
// is to the right of both a->c and c->b.
func (m *Mesh) quadConvex(ot OrientedTri) bool {
	sym := ot.Sym(m)
	a := ot.Origin(m).point(m)
	b := ot.Dest(m).point(m)
	c := ot.Apex(m).point(m)
	d := sym.Apex(m).point(m)

	return predicates.Orient2D(c, a, d) > 0 && predicates.Orient2D(b, c, d) > 0
}
