package mesh2d

import (
	"github.com/gomesh2d/trimesh2d/predicates"
	"github.com/gomesh2d/trimesh2d/types"
)

// VoronoiCell is one bounded Voronoi cell: the polygon surrounding an
// input vertex, clipped against any subsegments of the source mesh.
type VoronoiCell struct {
	Vertex   VertexID
	Boundary bool
	Polygon  []types.Point
}

// VoronoiDiagram is the bounded Voronoi dual of a Mesh, built once the
// mesh's triangulation (and any constraints) are final.
type VoronoiDiagram struct {
	Cells []VoronoiCell
}

// circumcenters caches one circumcenter per live triangle handle, indexed
// by TriHandle; index 0 (the dummy triangle) is always the zero value and
// never read.
type circumcenters struct {
	pts    []types.Point
	blind  []bool
}

// Voronoi builds the bounded Voronoi dual of the mesh's current
// triangulation: circumcenter per triangle, blind-triangle tagging by
// subsegment flood fill, then one cell per vertex assembled by walking
// its triangle fan.
func (m *Mesh) Voronoi() VoronoiDiagram {
	cc := m.computeCircumcenters()
	m.tagBlindTriangles(cc)

	var diagram VoronoiDiagram
	for v := VertexID(0); int(v) < len(m.vertices); v++ {
		if m.vertices[v].kind == kindDead {
			continue
		}
		if m.isDummyTri(m.vertices[v].incident.Tri) {
			continue
		}
		if m.vertices[v].Mark == 0 {
			diagram.Cells = append(diagram.Cells, m.constructCell(v, cc))
		} else if m.settings.UseBoundaryMarkers {
			diagram.Cells = append(diagram.Cells, m.constructBoundaryCell(v, cc))
		}
	}
	return diagram
}

// computeCircumcenters computes and caches the circumcircle center of
// every live triangle, with no off-center adjustment (the Voronoi dual
// uses the exact circumcenter, never the quality-refinement placement).
func (m *Mesh) computeCircumcenters() *circumcenters {
	cc := &circumcenters{
		pts:   make([]types.Point, len(m.tris)),
		blind: make([]bool, len(m.tris)),
	}
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		ot := OrientedTri{Tri: h, Orient: 0}
		center, _, _ := predicates.Circumcenter(ot.originPoint(m), ot.destPoint(m), ot.apexPoint(m), 0)
		cc.pts[h] = center
	}
	return cc
}

// tagBlindTriangles marks every triangle a subsegment "blinds": a
// triangle T is blinded by subsegment s if s strictly intersects any of
// the three segments from T's circumcenter to its own vertices. Blinding
// then spreads by flood fill across non-subsegment edges from the two
// triangles directly incident to s.
func (m *Mesh) tagBlindTriangles(cc *circumcenters) {
	for h := SegHandle(1); int(h) < len(m.segs); h++ {
		if !m.segs[h].live {
			continue
		}
		p := m.vertices[m.segs[h].v[0]].Point
		q := m.vertices[m.segs[h].v[1]].Point

		for _, side := range m.segs[h].triSide {
			if m.isDummyTri(side.tri) {
				continue
			}
			m.floodBlind(side.tri, p, q, cc)
		}
	}
}

// floodBlind flood-fills "blinded" starting at start whenever start's own
// circumcenter fan crosses (p,q), and continues across non-subsegment
// edges into neighbors whose fan also crosses (p,q).
func (m *Mesh) floodBlind(start TriHandle, p, q types.Point, cc *circumcenters) {
	if !m.live(start) || cc.blind[start] {
		return
	}
	if !m.triCrossesSegment(start, p, q, cc) {
		return
	}
	queue := []TriHandle{start}
	cc.blind[start] = true

	for len(queue) > 0 {
		h := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		for o := uint8(0); o < 3; o++ {
			ot := OrientedTri{Tri: h, Orient: o}
			if ot.hasSeg(m) {
				continue
			}
			sym := ot.Sym(m)
			if m.isDummyTri(sym.Tri) || !m.live(sym.Tri) || cc.blind[sym.Tri] {
				continue
			}
			if m.triCrossesSegment(sym.Tri, p, q, cc) {
				cc.blind[sym.Tri] = true
				queue = append(queue, sym.Tri)
			}
		}
	}
}

// triCrossesSegment reports whether any of triangle h's three
// circumcenter-to-vertex segments strictly crosses (p,q).
func (m *Mesh) triCrossesSegment(h TriHandle, p, q types.Point, cc *circumcenters) bool {
	center := cc.pts[h]
	opposite := func(x, y float64) bool { return (x < 0 && y > 0) || (x > 0 && y < 0) }
	for _, v := range m.tris[h].v {
		vp := m.vertices[v].Point
		if opposite(predicates.Orient2D(center, vp, p), predicates.Orient2D(center, vp, q)) &&
			opposite(predicates.Orient2D(p, q, center), predicates.Orient2D(p, q, vp)) {
			return true
		}
	}
	return false
}

// constructCell walks the triangle fan around interior vertex v by
// repeated onext, emitting each non-blind triangle's circumcenter and,
// whenever a fan step crosses from non-blind to blind (or vice versa),
// the point where the blinding subsegment cuts the edge between the two
// triangles' circumcenters. Only valid for a vertex whose fan is a closed
// ring; vertexFan truncates an open (boundary) fan at the dummy triangle
// instead of wrapping, so the closing step is skipped rather than
// fabricated when the fan isn't actually cyclic.
func (m *Mesh) constructCell(v VertexID, cc *circumcenters) VoronoiCell {
	start := m.vertices[v].incident
	fan := m.vertexFan(v, start)

	cell := VoronoiCell{Vertex: v}
	n := len(fan)
	if n == 0 {
		return cell
	}
	closed := n > 1 && fan[n-1].Onext(m) == start

	for i := 0; i < n; i++ {
		cur := fan[i]
		if !cc.blind[cur.Tri] {
			cell.Polygon = append(cell.Polygon, cc.pts[cur.Tri])
		}
		if !closed && i == n-1 {
			continue // open fan: no edge wraps past the last fan triangle.
		}
		next := fan[(i+1)%n]
		if cc.blind[cur.Tri] != cc.blind[next.Tri] {
			if pt, ok := m.clipAcrossSeg(cur, cc); ok {
				cell.Polygon = append(cell.Polygon, pt)
			}
		}
	}
	return cell
}

// constructBoundaryCell builds the cell for a boundary vertex: it first
// rotates to the clockwise-most hull triangle via repeated oprev, then
// emits the first hull edge's midpoint, the usual fan emissions, and the
// last hull edge's midpoint.
func (m *Mesh) constructBoundaryCell(v VertexID, cc *circumcenters) VoronoiCell {
	start := m.vertices[v].incident
	ot := start
	for i := 0; i < 4096; i++ {
		prev := ot.Oprev(m)
		if m.isDummyTri(prev.Tri) {
			break
		}
		ot = prev
	}
	fan := m.vertexFan(v, ot)

	cell := VoronoiCell{Vertex: v, Boundary: true}
	if len(fan) == 0 {
		return cell
	}
	first := fan[0]
	cell.Polygon = append(cell.Polygon, midpoint(first.originPoint(m), first.destPoint(m)))

	for i, cur := range fan {
		if !cc.blind[cur.Tri] {
			cell.Polygon = append(cell.Polygon, cc.pts[cur.Tri])
		}
		if i+1 < len(fan) && cc.blind[cur.Tri] != cc.blind[fan[i+1].Tri] {
			if pt, ok := m.clipAcrossSeg(cur, cc); ok {
				cell.Polygon = append(cell.Polygon, pt)
			}
		}
	}

	last := fan[len(fan)-1]
	cell.Polygon = append(cell.Polygon, midpoint(last.originPoint(m), last.apexPoint(m)))
	return cell
}

// vertexFan returns every triangle in v's fan, starting at start, in
// onext order, stopping at the hull (dummy triangle) if v is a boundary
// vertex rather than wrapping around.
func (m *Mesh) vertexFan(v VertexID, start OrientedTri) []OrientedTri {
	var fan []OrientedTri
	ot := start
	for i := 0; i < 4096; i++ {
		fan = append(fan, ot)
		next := ot.Onext(m)
		if next == start || m.isDummyTri(next.Tri) {
			break
		}
		ot = next
	}
	return fan
}

// clipAcrossSeg finds the subsegment tied to ot's far edge (dest->apex,
// the edge opposite v in the fan step) and intersects it against the line
// from ot's circumcenter to its Onext neighbor's circumcenter, using the
// rotated-frame parametrization.
func (m *Mesh) clipAcrossSeg(ot OrientedTri, cc *circumcenters) (types.Point, bool) {
	edge := ot.Lnext() // dest -> apex, the edge not touching the fan's pivot vertex
	if !edge.hasSeg(m) {
		return types.Point{}, false
	}
	seg := edge.segOn(m)
	p := seg.originPoint(m)
	q := seg.destPoint(m)

	next := ot.Onext(m)
	if m.isDummyTri(next.Tri) {
		return types.Point{}, false
	}
	c1 := cc.pts[ot.Tri]
	c2 := cc.pts[next.Tri]

	point, _, _, ok := predicates.RotatedFrameIntersect(c1, c2, p, q, false)
	return point, ok
}

func midpoint(a, b types.Point) types.Point {
	return types.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
