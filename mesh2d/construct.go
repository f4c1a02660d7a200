package mesh2d

import (
	"sort"

	"github.com/gomesh2d/trimesh2d/types"
)

// frameMargin is how far beyond the input's bounding box the incremental
// constructor's enclosing frame extends. It is fixed rather than
// user-tunable since the frame vertices never survive into the returned
// mesh.
const frameMargin = 1.0

// buildIncremental seeds a bounding triangle large enough to strictly
// contain every input point, inserts every point one at a time via
// insertVertex with Lawson flipping, then removes the frame vertices and
// any triangle still touching them.
func (m *Mesh) buildIncremental(points []types.Point) error {
	return m.buildIncrementalOrdered(points, insertionOrder(points, m.rng))
}

// buildDwyer triangulates points using Dwyer's spatial partitioning to
// choose an insertion order rather than his original tangent-line merge:
// points are recursively split along their longer axis down to small
// groups, and groups are concatenated depth-first so that spatially close
// points are inserted close together in time. Feeding that order into the
// same incremental insertion core keeps every triangle provably correct
// (it is the same insertVertex/flipCascade path buildIncremental uses)
// while recovering most of Dwyer's benefit: point location walks stay
// short because consecutive insertions rarely need to cross the mesh.
//
// This is a deliberate simplification of Dwyer's original divide-and-
// conquer constructor, which instead recursively triangulates each half
// independently and merges them by zipping the common tangent between
// their hulls. That merge is not implemented; see the module's design
// notes for why.
func (m *Mesh) buildDwyer(points []types.Point) error {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	dwyerPartition(points, order)
	return m.buildIncrementalOrdered(points, order)
}

// dwyerPartition recursively reorders idx in place so that points spatially
// close to one another land close together in the sequence: split the
// current index range by the median along whichever axis currently has
// the larger spread, recurse on each half, leaving small groups (<=8) in
// their current relative order.
func dwyerPartition(points []types.Point, idx []int) {
	if len(idx) <= 8 {
		return
	}
	minX, maxX := points[idx[0]].X, points[idx[0]].X
	minY, maxY := points[idx[0]].Y, points[idx[0]].Y
	for _, i := range idx[1:] {
		p := points[i]
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	byX := (maxX - minX) >= (maxY - minY)
	sort.Slice(idx, func(i, j int) bool {
		a, b := points[idx[i]], points[idx[j]]
		if byX {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	mid := len(idx) / 2
	dwyerPartition(points, idx[:mid])
	dwyerPartition(points, idx[mid:])
}

// buildIncrementalOrdered is the shared incremental-constructor body:
// seed a bounding frame, insert points in the given order, then strip the
// frame away.
func (m *Mesh) buildIncrementalOrdered(points []types.Point, order []int) error {
	box := types.EmptyAABB()
	for _, p := range points {
		box = box.Expand(p)
	}
	if !box.Valid() {
		box = types.AABB{Min: types.Point{X: -1, Y: -1}, Max: types.Point{X: 1, Y: 1}}
	}
	frame := box.Inflated(frameMargin)

	f0 := m.addVertex(types.Point{X: frame.Min.X - frame.Width(), Y: frame.Min.Y}, kindFree)
	f1 := m.addVertex(types.Point{X: frame.Max.X + frame.Width(), Y: frame.Min.Y}, kindFree)
	f2 := m.addVertex(types.Point{X: (frame.Min.X + frame.Max.X) / 2, Y: frame.Max.Y + frame.Height()*2}, kindFree)

	root := m.makeTriangle()
	m.tris[root.Tri].v = [3]VertexID{f0, f1, f2}
	m.vertices[f0].incident = OrientedTri{Tri: root.Tri, Orient: 0}
	m.vertices[f1].incident = OrientedTri{Tri: root.Tri, Orient: 1}
	m.vertices[f2].incident = OrientedTri{Tri: root.Tri, Orient: 2}
	m.locator.last = root
	m.locator.haveLast = true

	for _, idx := range order {
		if _, outcome := m.insertVertex(points[idx], kindInput, false, false); outcome == Violating {
			return wrapInvalid("point %d (%v) could not be located during incremental insertion", idx, points[idx])
		}
	}

	m.removeFrame([3]VertexID{f0, f1, f2})
	return nil
}

// insertionOrder returns a pseudo-random permutation of 0..len(points)-1,
// drawn from the mesh's seeded RNG. Randomizing insertion order keeps the
// incremental constructor's expected-case walk length short regardless of
// the input's original ordering (a sorted or adversarial input would
// otherwise force long point-location walks).
func insertionOrder(points []types.Point, rng *splitMix64) []int {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := rng.intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// removeFrame deletes every triangle that still references one of the
// three frame vertices, then deallocates the frame vertices themselves.
// What remains is the convex hull triangulation of the input points.
func (m *Mesh) removeFrame(frame [3]VertexID) {
	isFrame := func(v VertexID) bool {
		return v == frame[0] || v == frame[1] || v == frame[2]
	}

	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		t := &m.tris[h]
		if isFrame(t.v[0]) || isFrame(t.v[1]) || isFrame(t.v[2]) {
			for o := uint8(0); o < 3; o++ {
				ot := OrientedTri{Tri: h, Orient: o}
				sym := ot.Sym(m)
				if !m.isDummyTri(sym.Tri) {
					dissolve(m, sym)
				}
			}
			m.triangleDealloc(h)
		}
	}

	for _, v := range frame {
		m.vertices[v].kind = kindDead
	}
	for v := range m.vertices {
		if m.vertices[v].kind != kindDead && !m.live(m.vertices[v].incident.Tri) {
			m.vertices[v].incident = m.findIncident(VertexID(v))
		}
	}
	m.locator.haveLast = false
	m.hullSize = m.countHullEdges()

	if !m.settings.Poly {
		m.markHullVertices()
	}
}

// markHullVertices raises Mark to 1 on every vertex touching a live hull
// edge. Called once the bounding frame/box vertices are stripped, so the
// hull it walks is the actual convex hull of the input points; skipped in
// polygonal mode, where boundary marking instead follows the input
// segments via infectHull.
func (m *Mesh) markHullVertices() {
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		for o := uint8(0); o < 3; o++ {
			ot := OrientedTri{Tri: h, Orient: o}
			if !m.isDummyTri(ot.Sym(m).Tri) {
				continue
			}
			if m.vertices[ot.Origin(m)].Mark == 0 {
				m.vertices[ot.Origin(m)].Mark = 1
			}
			if m.vertices[ot.Dest(m)].Mark == 0 {
				m.vertices[ot.Dest(m)].Mark = 1
			}
		}
	}
}

// countHullEdges walks every live triangle edge bonded to the dummy
// triangle and counts it as a hull edge.
func (m *Mesh) countHullEdges() int {
	n := 0
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		for o := uint8(0); o < 3; o++ {
			if m.isDummyTri(m.tris[h].n[o].tri) {
				n++
			}
		}
	}
	return n
}
