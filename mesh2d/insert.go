package mesh2d

import (
	"github.com/gomesh2d/trimesh2d/predicates"
	"github.com/gomesh2d/trimesh2d/types"
)

// addVertex appends a new vertex record and returns its id.
func (m *Mesh) addVertex(p types.Point, kind vertexKind) VertexID {
	id := VertexID(len(m.vertices))
	p.ID = int(id)
	m.vertices = append(m.vertices, vertex{Point: p, kind: kind})
	return id
}

// insertVertex implements locate -> split -> Lawson flip cascade.
//
// isSegmentSplit permits landing exactly on a subsegment edge (the
// refinement loop splitting a constraint); without it, landing on a
// subsegment edge is rejected as Violating. checkQuality feeds every
// newly created triangle through the quality test and enqueues it on the
// refinement queue when bad (see quality.go); the insertion itself does
// not block on that test.
func (m *Mesh) insertVertex(p types.Point, kind vertexKind, isSegmentSplit, checkQuality bool) (VertexID, Outcome) {
	hint, res := m.locate(p)

	switch res {
	case locOnVertex:
		m.undeads++
		return hint.Origin(m), Duplicate
	case locOutside:
		return NilVertex, Violating
	}

	if res == locOnEdge && hint.hasSeg(m) && !isSegmentSplit {
		return NilVertex, Violating
	}

	v := m.addVertex(p, kind)

	var queue []OrientedTri
	if res == locInTriangle {
		queue = m.splitInTriangle(hint, v)
	} else {
		queue = m.splitOnEdge(hint, v)
	}

	if checkQuality {
		for _, ot := range queue {
			m.enqueueIfBad(ot)
		}
	}
	m.flipCascade(queue, checkQuality)

	m.vertices[v].incident = m.findIncident(v)
	m.locator.last = m.vertices[v].incident
	m.locator.haveLast = true

	return v, Successful
}

// splitInTriangle replaces triangle (a,b,c) containing v with three
// triangles (a,b,v), (b,c,v), (c,a,v), and returns the three new "far"
// edges (opposite v) that must be legalized.
func (m *Mesh) splitInTriangle(ot OrientedTri, v VertexID) []OrientedTri {
	a := ot.Origin(m)
	b := ot.Dest(m)
	c := ot.Apex(m)

	extAB := m.tris[ot.Tri].n[ot.Orient]
	segAB := m.tris[ot.Tri].s[ot.Orient]
	bc := ot.Lnext()
	extBC := m.tris[bc.Tri].n[bc.Orient]
	segBC := m.tris[bc.Tri].s[bc.Orient]
	ca := ot.Lprev()
	extCA := m.tris[ca.Tri].n[ca.Orient]
	segCA := m.tris[ca.Tri].s[ca.Orient]

	t0 := ot.Tri // reuse original triangle handle for (a,b,v)
	m.tris[t0].s = [3]segRef{{seg: m.dummySeg}, {seg: m.dummySeg}, {seg: m.dummySeg}}
	t1 := m.makeTriangle().Tri
	t2 := m.makeTriangle().Tri

	m.tris[t0].v = [3]VertexID{a, b, v}
	m.tris[t1].v = [3]VertexID{b, c, v}
	m.tris[t2].v = [3]VertexID{c, a, v}

	// Outer edges keep their original neighbor/subsegment ties.
	rebondExternal(m, OrientedTri{Tri: t0, Orient: 0}, extAB, segAB)
	rebondExternal(m, OrientedTri{Tri: t1, Orient: 0}, extBC, segBC)
	rebondExternal(m, OrientedTri{Tri: t2, Orient: 0}, extCA, segCA)

	// Inner edges (the three new edges through v) bond to each other.
	bond(m, OrientedTri{Tri: t0, Orient: 1}, OrientedTri{Tri: t1, Orient: 2})
	bond(m, OrientedTri{Tri: t1, Orient: 1}, OrientedTri{Tri: t2, Orient: 2})
	bond(m, OrientedTri{Tri: t2, Orient: 1}, OrientedTri{Tri: t0, Orient: 2})

	m.vertices[a].incident = OrientedTri{Tri: t0, Orient: 0}
	m.vertices[b].incident = OrientedTri{Tri: t1, Orient: 0}
	m.vertices[c].incident = OrientedTri{Tri: t2, Orient: 0}

	return []OrientedTri{
		{Tri: t0, Orient: 0},
		{Tri: t1, Orient: 0},
		{Tri: t2, Orient: 0},
	}
}

// splitOnEdge splits the two triangles sharing the edge at ot (or just
// the one triangle if the edge is a hull boundary with no neighbor),
// returning the far edges that must be legalized.
func (m *Mesh) splitOnEdge(ot OrientedTri, v VertexID) []OrientedTri {
	sym := ot.Sym(m)
	hasNeighbor := !m.isDummyTri(sym.Tri)
	segHere := m.tris[ot.Tri].s[ot.Orient]

	near, avHalf, vbHalf := m.splitOneSideOfEdge(ot, v)
	far := []OrientedTri(nil)

	if hasNeighbor {
		// splitOneSideOfEdge(sym, v) sees origin=b, dest=a, so its own
		// "avHalf"/"vbHalf" are the b->v and v->a half-edges respectively.
		var farAVHalf, farVBHalf OrientedTri // b->v, v->a
		far, farAVHalf, farVBHalf = m.splitOneSideOfEdge(sym, v)
		// a->v (this side) is the same physical edge as v->a (far side);
		// v->b (this side) is the same physical edge as b->v (far side).
		bond(m, avHalf, farVBHalf)
		bond(m, vbHalf, farAVHalf)
		if m.segLive(segHere.seg) {
			// A subsegment on the split edge now rides on the same two
			// half-edges from both sides; tie the far side too.
			segBond(m, farVBHalf, OrientedSeg{Seg: segHere.seg, Orient: segHere.orient})
			segBond(m, farAVHalf, OrientedSeg{Seg: segHere.seg, Orient: segHere.orient})
		}
	} else {
		dissolve(m, avHalf)
		dissolve(m, vbHalf)
		if m.segLive(segHere.seg) {
			segBond(m, avHalf, OrientedSeg{Seg: segHere.seg, Orient: segHere.orient})
			segBond(m, vbHalf, OrientedSeg{Seg: segHere.seg, Orient: segHere.orient})
		}
	}

	return append(near, far...)
}

// splitOneSideOfEdge splits the single triangle (a,b,c) — origin a,
// dest b, apex c — where v lies on edge a-b, into (a,v,c) and (v,b,c),
// bonding the new interior spoke v-c between them. It returns the two far
// edges that must be legalized (c-a and b-c) plus the two halves of the
// original a-b edge (a-v and v-b) so the caller can bond them to their
// counterpart on the opposite side of the original edge.
func (m *Mesh) splitOneSideOfEdge(ot OrientedTri, v VertexID) (far []OrientedTri, avHalf, vbHalf OrientedTri) {
	a := ot.Origin(m)
	b := ot.Dest(m)
	c := ot.Apex(m)

	ac := ot.Lprev()
	extAC := m.tris[ac.Tri].n[ac.Orient]
	segAC := m.tris[ac.Tri].s[ac.Orient]
	bc := ot.Lnext()
	extBC := m.tris[bc.Tri].n[bc.Orient]
	segBC := m.tris[bc.Tri].s[bc.Orient]

	t0 := ot.Tri // reuse: becomes (a, v, c)
	m.tris[t0].s = [3]segRef{{seg: m.dummySeg}, {seg: m.dummySeg}, {seg: m.dummySeg}}
	t1 := m.makeTriangle().Tri

	m.tris[t0].v = [3]VertexID{a, v, c}
	m.tris[t1].v = [3]VertexID{v, b, c}

	rebondExternal(m, OrientedTri{Tri: t1, Orient: 1}, extBC, segBC) // edge b-c
	rebondExternal(m, OrientedTri{Tri: t0, Orient: 2}, extAC, segAC) // edge c-a

	// Inner spoke v-c shared by both new triangles on this side.
	bond(m, OrientedTri{Tri: t0, Orient: 1}, OrientedTri{Tri: t1, Orient: 2})

	m.vertices[a].incident = OrientedTri{Tri: t0, Orient: 0}
	m.vertices[b].incident = OrientedTri{Tri: t1, Orient: 1}
	m.vertices[c].incident = OrientedTri{Tri: t0, Orient: 2}

	far = []OrientedTri{
		{Tri: t0, Orient: 2}, // far edge c-a
		{Tri: t1, Orient: 1}, // far edge b-c
	}
	return far, OrientedTri{Tri: t0, Orient: 0}, OrientedTri{Tri: t1, Orient: 0}
}

// rebondExternal re-attaches the edge at "side" to whatever the original
// edge was bonded/segmented to; if ext is not a live triangle, side is
// left dissolved.
func rebondExternal(m *Mesh, side OrientedTri, ext neighborRef, seg segRef) {
	if m.live(ext.tri) {
		bond(m, side, OrientedTri{Tri: ext.tri, Orient: ext.orient})
	} else {
		dissolve(m, side)
	}
	if m.segLive(seg.seg) {
		segBond(m, side, OrientedSeg{Seg: seg.seg, Orient: seg.orient})
	}
}

// flipCascade drains a queue of "newly exposed" oriented edges, testing
// each against incircle and flipping whenever doing so is legal
// (non-subsegment edge, far neighbor exists, and the point is inside the
// far triangle's circumcircle), re-enqueuing the two new edges on every
// flip.
func (m *Mesh) flipCascade(queue []OrientedTri, checkQuality bool) {
	for len(queue) > 0 {
		ot := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if !m.live(ot.Tri) {
			continue
		}
		if ot.hasSeg(m) {
			continue
		}
		far := ot.Sym(m)
		if m.isDummyTri(far.Tri) {
			continue
		}

		a := ot.Origin(m)
		b := ot.Dest(m)
		c := ot.Apex(m)
		d := far.Apex(m)

		if predicates.InCircle(
			m.vertices[a].Point, m.vertices[b].Point, m.vertices[c].Point, m.vertices[d].Point,
		) > 0 {
			newEdge := m.flip(ot)
			queue = append(queue, newEdge.Lprev(), newEdge.Sym(m).Lnext())
			if checkQuality {
				m.enqueueIfBad(OrientedTri{Tri: newEdge.Tri, Orient: 0})
				far2 := newEdge.Sym(m)
				if !m.isDummyTri(far2.Tri) {
					m.enqueueIfBad(far2)
				}
			}
		}
	}
}

// flip replaces the diagonal a-b (ot: origin a, dest b, apex c; its sym:
// origin b, dest a, apex d) with diagonal c-d, rebuilding both triangles
// in place as (c,a,d) and (d,b,c). Returns an oriented handle on the new
// edge d->c (apex a).
func (m *Mesh) flip(ot OrientedTri) OrientedTri {
	sym := ot.Sym(m)

	a := ot.Origin(m)
	b := ot.Dest(m)
	c := ot.Apex(m)
	d := sym.Apex(m)

	t1 := ot.Tri  // will become (c, a, d)
	t2 := sym.Tri // will become (d, b, c)

	ca := ot.Lprev() // edge (c,a), apex b
	extCA := m.tris[ca.Tri].n[ca.Orient]
	segCA := m.tris[ca.Tri].s[ca.Orient]

	bcEdge := ot.Lnext() // edge (b,c), apex a
	extBC := m.tris[bcEdge.Tri].n[bcEdge.Orient]
	segBC := m.tris[bcEdge.Tri].s[bcEdge.Orient]

	adEdge := sym.Lnext() // edge (a,d), apex b
	extAD := m.tris[adEdge.Tri].n[adEdge.Orient]
	segAD := m.tris[adEdge.Tri].s[adEdge.Orient]

	dbEdge := sym.Lprev() // edge (d,b), apex a
	extDB := m.tris[dbEdge.Tri].n[dbEdge.Orient]
	segDB := m.tris[dbEdge.Tri].s[dbEdge.Orient]

	m.tris[t1].v = [3]VertexID{c, a, d}
	m.tris[t2].v = [3]VertexID{d, b, c}
	m.tris[t1].s = [3]segRef{{seg: m.dummySeg}, {seg: m.dummySeg}, {seg: m.dummySeg}}
	m.tris[t2].s = [3]segRef{{seg: m.dummySeg}, {seg: m.dummySeg}, {seg: m.dummySeg}}

	rebondExternal(m, OrientedTri{Tri: t1, Orient: 0}, extCA, segCA)
	rebondExternal(m, OrientedTri{Tri: t1, Orient: 1}, extAD, segAD)
	rebondExternal(m, OrientedTri{Tri: t2, Orient: 0}, extDB, segDB)
	rebondExternal(m, OrientedTri{Tri: t2, Orient: 1}, extBC, segBC)

	bond(m, OrientedTri{Tri: t1, Orient: 2}, OrientedTri{Tri: t2, Orient: 2})

	m.vertices[a].incident = OrientedTri{Tri: t1, Orient: 1}
	m.vertices[b].incident = OrientedTri{Tri: t2, Orient: 1}
	m.vertices[c].incident = OrientedTri{Tri: t1, Orient: 0}
	m.vertices[d].incident = OrientedTri{Tri: t2, Orient: 0}

	return OrientedTri{Tri: t1, Orient: 2}
}

// findIncident scans for a live triangle recording v as its origin,
// rebuilding the weak back-reference from scratch. insertVertex calls it
// once per insertion for the new vertex; the split, flip and delete paths
// set vertices[v].incident directly as they go.
func (m *Mesh) findIncident(v VertexID) OrientedTri {
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		for o := uint8(0); o < 3; o++ {
			if m.tris[h].v[o] == v {
				return OrientedTri{Tri: h, Orient: o}
			}
		}
	}
	return OrientedTri{}
}

// deleteVertex uninserts a free (Steiner) vertex: the quality refinement
// loop uses it to remove a vertex that turns out to encroach on a segment
// being split. It dissolves every triangle in v's star, re-triangulates
// the resulting star polygon with a fan from the polygon's first vertex,
// and Lawson-legalizes the newly created internal diagonals. It refuses
// to touch a hull-boundary vertex, a non-free (input or segment) vertex,
// or a vertex any of whose spoke edges carries a subsegment.
func (m *Mesh) deleteVertex(v VertexID) bool {
	if m.vertices[v].kind != kindFree {
		return false
	}
	start := m.vertices[v].incident
	if m.isDummyTri(start.Tri) {
		return false
	}

	var spokes []OrientedTri // origin v, dest boundary[i], apex boundary[i+1]
	ot := start
	for i := 0; i < 4096; i++ {
		if ot.hasSeg(m) {
			return false
		}
		spokes = append(spokes, ot)
		next := ot.Onext(m)
		if m.isDummyTri(next.Tri) {
			return false // v sits on the hull; not handled
		}
		if next.Tri == start.Tri {
			break
		}
		ot = next
	}
	n := len(spokes)
	if n < 3 {
		return false
	}

	boundary := make([]VertexID, n)
	for i, s := range spokes {
		boundary[i] = s.Dest(m)
	}

	type outerBond struct {
		ext neighborRef
		seg segRef
	}
	outers := make([]outerBond, n)
	for i, s := range spokes {
		opp := s.Lnext() // edge (boundary[i], boundary[i+1]), apex v
		outers[i] = outerBond{ext: m.tris[opp.Tri].n[opp.Orient], seg: m.tris[opp.Tri].s[opp.Orient]}
	}

	for _, s := range spokes {
		m.triangleDealloc(s.Tri)
	}
	m.vertices[v].kind = kindDead

	fanCount := n - 2
	fan := make([]OrientedTri, fanCount)
	for i := 0; i < fanCount; i++ {
		nt := m.makeTriangle()
		nt.setOrigin(m, boundary[0])
		nt.setDest(m, boundary[i+1])
		nt.setApex(m, boundary[i+2])
		fan[i] = nt
	}

	var flipQueue []OrientedTri
	for i := 0; i < fanCount; i++ {
		// orient0 edge (b0 -> b[i+1]): outer only for i == 0.
		if i == 0 {
			o0 := OrientedTri{Tri: fan[i].Tri, Orient: 0}
			rebondExternal(m, o0, outers[0].ext, outers[0].seg)
		} else {
			prev := OrientedTri{Tri: fan[i-1].Tri, Orient: 2}
			bond(m, prev, OrientedTri{Tri: fan[i].Tri, Orient: 0})
			flipQueue = append(flipQueue, prev, OrientedTri{Tri: fan[i].Tri, Orient: 0})
		}

		// orient1 edge (b[i+1] -> b[i+2]) is always an outer boundary edge.
		o1 := OrientedTri{Tri: fan[i].Tri, Orient: 1}
		rebondExternal(m, o1, outers[i+1].ext, outers[i+1].seg)

		// orient2 edge (b[i+2] -> b0) is outer only for the last fan triangle.
		if i == fanCount-1 {
			o2 := OrientedTri{Tri: fan[i].Tri, Orient: 2}
			rebondExternal(m, o2, outers[n-1].ext, outers[n-1].seg)
		}
	}

	m.vertices[boundary[0]].incident = OrientedTri{Tri: fan[0].Tri, Orient: 0}
	for i := 0; i < fanCount; i++ {
		m.vertices[boundary[i+1]].incident = OrientedTri{Tri: fan[i].Tri, Orient: 1}
	}
	m.vertices[boundary[n-1]].incident = OrientedTri{Tri: fan[fanCount-1].Tri, Orient: 2}

	m.flipCascade(flipQueue, m.refiner != nil)
	return true
}

// undoVertex reverses the most recent call to insertVertex for a free
// vertex, restoring the local topology it displaced. It is used when a
// just-inserted Steiner point turns out to violate an encroachment rule
// the caller only discovers after insertion. Rather than popping the
// insertion before any flips have propagated, this reuses deleteVertex's
// fan-plus-flip star reconstruction, which removes v regardless
// of how far the insertion's own legalization
// cascade already spread beyond its immediate star.
func (m *Mesh) undoVertex(v VertexID) bool {
	return m.deleteVertex(v)
}
