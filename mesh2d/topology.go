// Package mesh2d implements the constrained Delaunay triangulation,
// Ruppert-style quality refinement, and bounded Voronoi dual described by
// the module's top-level documentation. It is the tightly-coupled core:
// topology, point location, vertex insertion, the two construction
// algorithms, constraint forcing, domain carving, quality refinement, and
// the Voronoi dual all share one Mesh value and one vocabulary of
// oriented handles.
package mesh2d

import "github.com/gomesh2d/trimesh2d/types"

// VertexID indexes into Mesh.vertices. NilVertex marks an absent vertex.
type VertexID int

// NilVertex is the sentinel "no vertex" value.
const NilVertex VertexID = -1

// TriHandle indexes into Mesh.tris. There is no nil triangle handle;
// navigation instead checks identity against the mesh's dummy triangle
// record.
type TriHandle int

// SegHandle indexes into Mesh.segs.
type SegHandle int

// plus1mod3 and minus1mod3 are the fixed rotation tables used by every
// oriented-edge navigation primitive below.
var plus1mod3 = [3]uint8{1, 2, 0}
var minus1mod3 = [3]uint8{2, 0, 1}

// vertexKind classifies why a vertex exists in the mesh.
type vertexKind uint8

const (
	kindInput vertexKind = iota
	kindSegment
	kindFree
	kindDead
)

// vertex is a Point specialized for mesh membership.
type vertex struct {
	types.Point
	kind    vertexKind
	incident OrientedTri // weak back-reference; v is this handle's origin
}

// neighborRef is one (triangle, orient) pair stored in a triangle's
// neighbor/subsegment slots.
type neighborRef struct {
	tri    TriHandle
	orient uint8
}

type segRef struct {
	seg    SegHandle
	orient uint8
}

// triangle owns three vertex slots, three neighbor handles, three
// subsegment handles, a region id, and the transient infected flag used
// by flood fills.
type triangle struct {
	v        [3]VertexID
	n        [3]neighborRef
	s        [3]segRef
	region   int
	infected bool
	live     bool
}

// subsegment represents a constraint edge: two endpoints, up to two
// incident-triangle back-references, two neighboring subsegments forming
// a polyline, and a boundary mark.
type subsegment struct {
	v        [2]VertexID
	triSide  [2]neighborRef // which triangle (if any) records this subseg on each side
	segNext  [2]SegHandle   // neighboring subsegments continuing the polyline
	boundary int
	live     bool
}

// OrientedTri is a (triangle, orient) handle: orient selects which of the
// three edges is "current". The edge runs origin -> destination
// counter-clockwise, with apex opposite.
type OrientedTri struct {
	Tri    TriHandle
	Orient uint8
}

// OrientedSeg is a (subsegment, orient) handle: orient selects direction.
type OrientedSeg struct {
	Seg    SegHandle
	Orient uint8
}

// Mesh owns every vertex, triangle, and subsegment table, the input
// bounding box, hole/region seed lists, behavior settings, the point
// locator, and the steiner_left budget. Every OrientedTri/OrientedSeg
// handle is a borrowed view into one Mesh and must not outlive it or
// survive an operation that can deallocate a triangle.
type Mesh struct {
	vertices []vertex
	tris     []triangle
	segs     []subsegment

	dummyTri TriHandle // scoped sentinel: a real, permanently-dead triangle
	dummySeg SegHandle // scoped sentinel: a real, permanently-dead subsegment

	freeTris []TriHandle
	freeSegs []SegHandle

	bbox types.AABB

	settings Settings
	locator  *locator

	steinerLeft int
	hullSize    int
	undeads     int

	holes   []types.Point
	regions []regionSeed

	rng     *splitMix64
	refiner *refiner // lazily created by enforceQuality; nil outside quality runs
}

type regionSeed struct {
	point types.Point
	id    int
}

// newMesh allocates an empty Mesh with its sentinels installed.
func newMesh(settings Settings) *Mesh {
	m := &Mesh{settings: settings}
	// Sentinel records live at index 0 of their respective tables and are
	// never returned by makeTriangle/makeSubseg.
	m.tris = append(m.tris, triangle{live: false})
	m.dummyTri = 0
	m.segs = append(m.segs, subsegment{live: false})
	m.dummySeg = 0

	dummySelf := neighborRef{tri: m.dummyTri, orient: 0}
	m.tris[m.dummyTri].n = [3]neighborRef{dummySelf, dummySelf, dummySelf}

	m.steinerLeft = settings.SteinerPoints
	m.rng = newSplitMix64(settings.Seed)
	return m
}

func (m *Mesh) isDummyTri(h TriHandle) bool { return h == m.dummyTri }
func (m *Mesh) isDummySeg(h SegHandle) bool { return h == m.dummySeg }

// ---- allocation -----------------------------------------------------

// makeTriangle allocates a triangle, returning an oriented handle with
// orient 0 and all neighbors bonded to the dummy triangle.
func (m *Mesh) makeTriangle() OrientedTri {
	var h TriHandle
	if n := len(m.freeTris); n > 0 {
		h = m.freeTris[n-1]
		m.freeTris = m.freeTris[:n-1]
		m.tris[h] = triangle{}
	} else {
		m.tris = append(m.tris, triangle{})
		h = TriHandle(len(m.tris) - 1)
	}
	t := &m.tris[h]
	t.live = true
	dummyRef := neighborRef{tri: m.dummyTri, orient: 0}
	dummySegRef := segRef{seg: m.dummySeg, orient: 0}
	t.n = [3]neighborRef{dummyRef, dummyRef, dummyRef}
	t.s = [3]segRef{dummySegRef, dummySegRef, dummySegRef}
	return OrientedTri{Tri: h, Orient: 0}
}

// makeSubseg allocates a subsegment, returning an oriented handle.
func (m *Mesh) makeSubseg() OrientedSeg {
	var h SegHandle
	if n := len(m.freeSegs); n > 0 {
		h = m.freeSegs[n-1]
		m.freeSegs = m.freeSegs[:n-1]
		m.segs[h] = subsegment{}
	} else {
		m.segs = append(m.segs, subsegment{})
		h = SegHandle(len(m.segs) - 1)
	}
	s := &m.segs[h]
	s.live = true
	s.segNext = [2]SegHandle{m.dummySeg, m.dummySeg}
	return OrientedSeg{Seg: h, Orient: 0}
}

// triangleDealloc marks t dead and returns it to the free list. Live-check
// elsewhere (see live) is "h != dummyTri AND t.live".
func (m *Mesh) triangleDealloc(h TriHandle) {
	t := &m.tris[h]
	t.live = false
	dummyRef := neighborRef{tri: m.dummyTri, orient: 0}
	t.n[0] = dummyRef
	t.n[2] = dummyRef
	m.freeTris = append(m.freeTris, h)
}

func (m *Mesh) subsegDealloc(h SegHandle) {
	s := &m.segs[h]
	s.live = false
	m.freeSegs = append(m.freeSegs, h)
}

// ---- navigation: OrientedTri -----------------------------------------

// Sym crosses the current edge to the neighbor triangle, flipping the
// handle to the matching orient on the other side.
func (ot OrientedTri) Sym(m *Mesh) OrientedTri {
	ref := m.tris[ot.Tri].n[ot.Orient]
	return OrientedTri{Tri: ref.tri, Orient: ref.orient}
}

// Lnext rotates ccw around the current triangle to the next edge.
func (ot OrientedTri) Lnext() OrientedTri {
	return OrientedTri{Tri: ot.Tri, Orient: plus1mod3[ot.Orient]}
}

// Lprev rotates cw around the current triangle to the previous edge.
func (ot OrientedTri) Lprev() OrientedTri {
	return OrientedTri{Tri: ot.Tri, Orient: minus1mod3[ot.Orient]}
}

// Onext rotates around the origin vertex to the next triangle (ccw).
func (ot OrientedTri) Onext(m *Mesh) OrientedTri {
	return ot.Lprev().Sym(m)
}

// Oprev rotates around the origin vertex to the previous triangle (cw).
func (ot OrientedTri) Oprev(m *Mesh) OrientedTri {
	return ot.Sym(m).Lnext()
}

// Origin, Dest, Apex return the three vertices relative to the current
// edge, where the edge runs origin -> destination ccw and apex is
// opposite.
func (ot OrientedTri) Origin(m *Mesh) VertexID {
	return m.tris[ot.Tri].v[ot.Orient]
}

func (ot OrientedTri) Dest(m *Mesh) VertexID {
	return m.tris[ot.Tri].v[plus1mod3[ot.Orient]]
}

func (ot OrientedTri) Apex(m *Mesh) VertexID {
	return m.tris[ot.Tri].v[minus1mod3[ot.Orient]]
}

func (ot OrientedTri) setOrigin(m *Mesh, v VertexID) { m.tris[ot.Tri].v[ot.Orient] = v }
func (ot OrientedTri) setDest(m *Mesh, v VertexID)   { m.tris[ot.Tri].v[plus1mod3[ot.Orient]] = v }
func (ot OrientedTri) setApex(m *Mesh, v VertexID)   { m.tris[ot.Tri].v[minus1mod3[ot.Orient]] = v }

func (ot OrientedTri) originPoint(m *Mesh) types.Point { return m.vertices[ot.Origin(m)].Point }
func (ot OrientedTri) destPoint(m *Mesh) types.Point   { return m.vertices[ot.Dest(m)].Point }
func (ot OrientedTri) apexPoint(m *Mesh) types.Point   { return m.vertices[ot.Apex(m)].Point }

// segOn reports the subsegment (if any) bonded to the current edge.
func (ot OrientedTri) segOn(m *Mesh) OrientedSeg {
	ref := m.tris[ot.Tri].s[ot.Orient]
	return OrientedSeg{Seg: ref.seg, Orient: ref.orient}
}

func (ot OrientedTri) hasSeg(m *Mesh) bool {
	return !m.isDummySeg(ot.segOn(m).Seg)
}

func (ot OrientedTri) tieSeg(m *Mesh, os OrientedSeg) {
	m.tris[ot.Tri].s[ot.Orient] = segRef{seg: os.Seg, orient: os.Orient}
}

func (ot OrientedTri) dissolveSeg(m *Mesh) {
	m.tris[ot.Tri].s[ot.Orient] = segRef{seg: m.dummySeg, orient: 0}
}

// ---- navigation: OrientedSeg ------------------------------------------

func (os OrientedSeg) Sym() OrientedSeg {
	return OrientedSeg{Seg: os.Seg, Orient: 1 - os.Orient}
}

func (os OrientedSeg) Origin(m *Mesh) VertexID { return m.segs[os.Seg].v[os.Orient] }
func (os OrientedSeg) Dest(m *Mesh) VertexID   { return m.segs[os.Seg].v[1-os.Orient] }

func (os OrientedSeg) setOrigin(m *Mesh, v VertexID) { m.segs[os.Seg].v[os.Orient] = v }
func (os OrientedSeg) setDest(m *Mesh, v VertexID)   { m.segs[os.Seg].v[1-os.Orient] = v }

func (os OrientedSeg) originPoint(m *Mesh) types.Point { return m.vertices[os.Origin(m)].Point }
func (os OrientedSeg) destPoint(m *Mesh) types.Point   { return m.vertices[os.Dest(m)].Point }

// triSide returns the triangle bonded to this subsegment's current side.
func (os OrientedSeg) triSide(m *Mesh) OrientedTri {
	ref := m.segs[os.Seg].triSide[os.Orient]
	return OrientedTri{Tri: ref.tri, Orient: ref.orient}
}

func (os OrientedSeg) tieTri(m *Mesh, ot OrientedTri) {
	m.segs[os.Seg].triSide[os.Orient] = neighborRef{tri: ot.Tri, orient: ot.Orient}
}

// ---- bond / dissolve ---------------------------------------------------

// bond sets a.tri.n[a.o] = (b.tri, b.o) and the symmetric assignment. This
// is the only primitive that creates live neighbor links, and must always
// be called in pairs implicitly (it performs both sides itself).
func bond(m *Mesh, a, b OrientedTri) {
	m.tris[a.Tri].n[a.Orient] = neighborRef{tri: b.Tri, orient: b.Orient}
	m.tris[b.Tri].n[b.Orient] = neighborRef{tri: a.Tri, orient: a.Orient}
}

// dissolve sets a.tri.n[a.o] to the dummy triangle. The far side is left
// untouched and must be handled by the caller.
func dissolve(m *Mesh, a OrientedTri) {
	m.tris[a.Tri].n[a.Orient] = neighborRef{tri: m.dummyTri, orient: 0}
}

// segBond ties a triangle edge to a subsegment (and back).
func segBond(m *Mesh, a OrientedTri, s OrientedSeg) {
	a.tieSeg(m, s)
	s.tieTri(m, a)
}

// segDissolve removes the subsegment tie from a triangle edge. The
// subsegment's own triSide back-reference is left for the caller to clear.
func segDissolve(m *Mesh, a OrientedTri) {
	a.dissolveSeg(m)
}

// live reports whether a triangle handle still refers to a live triangle.
func (m *Mesh) live(h TriHandle) bool {
	return h != m.dummyTri && int(h) < len(m.tris) && m.tris[h].live
}

func (m *Mesh) segLive(h SegHandle) bool {
	return h != m.dummySeg && int(h) < len(m.segs) && m.segs[h].live
}
