package mesh2d

import "github.com/gomesh2d/trimesh2d/types"

// carveDomain removes triangles outside the region(s) the input PSLG
// actually bounds. Two modes compose: when poly is set and convex is not,
// infectHull infects whatever lies past a hull edge the input segments
// don't claim as boundary, and every hole seed infects its own containing
// triangle; plague then deletes everything infected in one pass. When
// convex is set instead, or there are no input segments to carve against,
// every triangle is kept (the convex hull of the input points is the
// domain).
func (m *Mesh) carveDomain() {
	hasSegs := false
	for h := SegHandle(1); int(h) < len(m.segs); h++ {
		if m.segs[h].live {
			hasSegs = true
			break
		}
	}
	if m.settings.Convex || !m.settings.Poly || !hasSegs {
		m.tagRegions()
		return
	}

	m.infectHull()
	for _, hole := range m.holes {
		seed, found := m.locateSeedTriangle(hole)
		if !found {
			continue
		}
		m.infect(seed)
	}
	m.plague()
	m.tagRegions()
}

// infectHull walks every live hull edge (a triangle edge bonded to the
// dummy triangle). A hull edge with no subsegment is not part of the
// input's declared boundary, so the triangle exposing it is exterior and
// gets infected for deletion. A hull edge that does carry a subsegment is
// the real domain boundary there: its subsegment is marked and both
// endpoints are raised to Mark=1.
func (m *Mesh) infectHull() {
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		for o := uint8(0); o < 3; o++ {
			ot := OrientedTri{Tri: h, Orient: o}
			if !m.isDummyTri(ot.Sym(m).Tri) {
				continue
			}
			if !ot.hasSeg(m) {
				m.infect(ot)
				continue
			}
			m.segs[ot.segOn(m).Seg].boundary = 1
			if m.vertices[ot.Origin(m)].Mark == 0 {
				m.vertices[ot.Origin(m)].Mark = 1
			}
			if m.vertices[ot.Dest(m)].Mark == 0 {
				m.vertices[ot.Dest(m)].Mark = 1
			}
		}
	}
}

// locateSeedTriangle finds the live triangle containing point p, used to
// seed flood fills from hole and region markers.
func (m *Mesh) locateSeedTriangle(p types.Point) (OrientedTri, bool) {
	ot, res := m.locate(p)
	if res == locOutside {
		return OrientedTri{}, false
	}
	return ot, true
}

// infect marks every triangle reachable from start without crossing a
// subsegment, a boundary-respecting flood fill.
func (m *Mesh) infect(start OrientedTri) {
	if !m.live(start.Tri) || m.tris[start.Tri].infected {
		return
	}
	queue := []TriHandle{start.Tri}
	m.tris[start.Tri].infected = true

	for len(queue) > 0 {
		h := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		for o := uint8(0); o < 3; o++ {
			ot := OrientedTri{Tri: h, Orient: o}
			if ot.hasSeg(m) {
				continue
			}
			sym := ot.Sym(m)
			if m.isDummyTri(sym.Tri) || !m.live(sym.Tri) {
				continue
			}
			if m.tris[sym.Tri].infected {
				continue
			}
			m.tris[sym.Tri].infected = true
			queue = append(queue, sym.Tri)
		}
	}
}

// plague deletes every infected triangle, dissolving neighbor links on
// its boundary; subsegments on its edges are left in place and are not
// deallocated. Every vertex touched by a dying triangle is
// checked once the purge is complete: if no live triangle references it
// any longer, it is orphaned by the carve and is marked Dead, counted as
// an undead.
func (m *Mesh) plague() {
	touched := make(map[VertexID]bool)
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live || !m.tris[h].infected {
			continue
		}
		for _, v := range m.tris[h].v {
			touched[v] = true
		}
		for o := uint8(0); o < 3; o++ {
			ot := OrientedTri{Tri: h, Orient: o}
			sym := ot.Sym(m)
			if !m.isDummyTri(sym.Tri) {
				dissolve(m, sym)
			}
			// A subsegment on this edge is left in place: it still
			// borders the carved-out triangle's former side as open space,
			// and now marks the domain's boundary there.
		}
		m.triangleDealloc(h)
	}
	m.locator.haveLast = false
	m.hullSize = m.countHullEdges()

	referenced := make(map[VertexID]bool, len(touched))
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		for _, v := range m.tris[h].v {
			referenced[v] = true
		}
	}
	for v := range touched {
		if m.vertices[v].kind == kindDead || referenced[v] {
			continue
		}
		m.vertices[v].kind = kindDead
		m.undeads++
	}
}

// tagRegions assigns each live triangle a region id by flood-filling
// outward from each region seed point across non-subsegment edges,
// leaving untouched triangles at region id 0 (the default/unregioned
// domain).
func (m *Mesh) tagRegions() {
	if len(m.regions) == 0 {
		return
	}
	for _, seed := range m.regions {
		ot, ok := m.locateSeedTriangle(seed.point)
		if !ok || !m.live(ot.Tri) {
			continue
		}
		m.floodRegion(ot.Tri, seed.id)
	}
}

// floodRegion assigns id to every live triangle reachable from start
// without crossing a subsegment and without overwriting a triangle a
// prior (earlier-listed) region already claimed.
func (m *Mesh) floodRegion(start TriHandle, id int) {
	if m.tris[start].region != 0 {
		return
	}
	queue := []TriHandle{start}
	m.tris[start].region = id

	for len(queue) > 0 {
		h := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		for o := uint8(0); o < 3; o++ {
			ot := OrientedTri{Tri: h, Orient: o}
			if ot.hasSeg(m) {
				continue
			}
			sym := ot.Sym(m)
			if m.isDummyTri(sym.Tri) || !m.live(sym.Tri) {
				continue
			}
			if m.tris[sym.Tri].region != 0 {
				continue
			}
			m.tris[sym.Tri].region = id
			queue = append(queue, sym.Tri)
		}
	}
}
