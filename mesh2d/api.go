package mesh2d

import (
	"fmt"

	"github.com/gomesh2d/trimesh2d/types"
)

// InputSegment is one PSLG constraint edge, referencing points by their
// index in InputGeometry.Points.
type InputSegment struct {
	P0, P1 int
	Mark   int
}

// InputRegion is one region marker: a seed point and the region id every
// triangle reached by flood fill from it (without crossing a subsegment)
// is tagged with.
type InputRegion struct {
	Point types.Point
	ID    int
}

// InputGeometry is the single input struct the core builds from: points,
// optional constraint segments, hole markers, and region markers. The
// bounding box is maintained incrementally as points are added.
type InputGeometry struct {
	Points   []types.Point
	Segments []InputSegment
	Holes    []types.Point
	Regions  []InputRegion

	bbox     types.AABB
	attrLen  int
	attrSeen bool
}

// NewInputGeometry returns an empty InputGeometry ready for AddPoint.
func NewInputGeometry() *InputGeometry {
	return &InputGeometry{bbox: types.EmptyAABB()}
}

// AddPoint appends a point, assigning it the next sequential id, and
// extends the tracked bounding box. Every point's Attrs slice must have
// the same length as the first point's; passing an inconsistent count
// fails validation at Build time rather than here, so batches of AddPoint
// calls never need to be reordered to satisfy the check.
func (g *InputGeometry) AddPoint(p types.Point) int {
	p.ID = len(g.Points)
	g.Points = append(g.Points, p)
	g.bbox = g.bbox.Expand(p)
	if !g.attrSeen {
		g.attrLen = len(p.Attrs)
		g.attrSeen = true
	}
	return p.ID
}

// AddSegment appends a constraint edge between two existing point indices.
func (g *InputGeometry) AddSegment(p0, p1, mark int) {
	g.Segments = append(g.Segments, InputSegment{P0: p0, P1: p1, Mark: mark})
}

// AddHole appends a hole marker point.
func (g *InputGeometry) AddHole(p types.Point) {
	g.Holes = append(g.Holes, p)
}

// AddRegion appends a region marker.
func (g *InputGeometry) AddRegion(p types.Point, id int) {
	g.Regions = append(g.Regions, InputRegion{Point: p, ID: id})
}

// BoundingBox returns the box covering every added point.
func (g *InputGeometry) BoundingBox() types.AABB { return g.bbox }

func (g *InputGeometry) validate() error {
	for _, p := range g.Points {
		if len(p.Attrs) != g.attrLen {
			return wrapInvalid("point %d has %d attributes, want %d", p.ID, len(p.Attrs), g.attrLen)
		}
	}
	for i, s := range g.Segments {
		if s.P0 == s.P1 {
			return wrapInvalid("segment %d has coincident endpoints (%d)", i, s.P0)
		}
		if s.P0 < 0 || s.P0 >= len(g.Points) || s.P1 < 0 || s.P1 >= len(g.Points) {
			return wrapInvalid("segment %d references out-of-range point index", i)
		}
	}
	return nil
}

// TriangleView is one exported triangle: its three vertex ids, three
// neighbor triangle ids (-1 for a hull edge), three subsegment ids (-1 if
// none), its geometric area, and its region id.
type TriangleView struct {
	Vertices  [3]int
	Neighbors [3]int
	Subsegs   [3]int
	Area      float64
	Region    int
}

// EdgeView is one undirected mesh edge, emitted once per physical edge.
type EdgeView struct {
	P0, P1   int
	Boundary int // 0 if the edge carries no subsegment
}

// SubsegmentView is one exported constraint edge.
type SubsegmentView struct {
	P0, P1   int
	Boundary int
}

// Mesh2D is the externally visible handle to a built triangulation: the
// public wrapper around Mesh that exposes the read-only iteration surface
// as the library's top-level owned value. The package-level Build returns
// one.
type Mesh2D struct {
	m *Mesh
}

// Build constructs a conforming Delaunay (and, if settings.Quality or
// MaxArea request it, quality-refined) triangulation from geom according
// to settings.
func Build(geom *InputGeometry, opts ...Option) (*Mesh2D, error) {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	if err := geom.validate(); err != nil {
		return nil, err
	}

	m := newMesh(settings)
	m.locator = newLocator()
	m.bbox = geom.bbox

	var buildErr error
	switch settings.AlgorithmChoice {
	case Dwyer:
		buildErr = m.buildDwyer(geom.Points)
	default:
		buildErr = m.buildIncremental(geom.Points)
	}
	if buildErr != nil {
		return nil, buildErr
	}

	if settings.Poly {
		verts, err := m.resolveInputVertices(geom)
		if err != nil {
			return nil, err
		}
		for _, s := range geom.Segments {
			if err := m.insertConstraint(verts[s.P0], verts[s.P1], s.Mark); err != nil {
				return nil, err
			}
		}
	}

	if !settings.NoHoles {
		m.holes = append(m.holes, geom.Holes...)
	}
	for _, r := range geom.Regions {
		m.regions = append(m.regions, regionSeed{point: r.Point, id: r.ID})
	}
	m.carveDomain()

	if settings.Quality || settings.MaxArea > 0 {
		if err := m.enforceQuality(); err != nil {
			return &Mesh2D{m: m}, err
		}
	}

	if settings.Jettison {
		m.jettisonUnused()
	}

	return &Mesh2D{m: m}, nil
}

// resolveInputVertices maps each InputGeometry point index to the
// VertexID the constructor gave it. addVertex assigns sequential
// VertexIDs in insertion order, and buildIncremental/buildDwyer visit the
// points in a shuffled or partitioned order, so VertexIDs do not follow
// input order; the map is instead recovered by matching each input point
// to the live vertex at exactly the same coordinates.
func (m *Mesh) resolveInputVertices(geom *InputGeometry) ([]VertexID, error) {
	verts := make([]VertexID, len(geom.Points))
	for i, p := range geom.Points {
		v := m.nearestVertex(p)
		if v == NilVertex {
			return nil, wrapInvalid("input point %d (%v) not found in constructed mesh", i, p)
		}
		verts[i] = v
	}
	return verts, nil
}

// jettisonUnused marks dead every vertex no live triangle references —
// any input vertex construction left orphaned. It marks rather than
// remaps vertex ids, since Vertices/Triangles already skip dead vertices
// and every live triangle's vertex ids stay valid regardless of which
// other vertices are marked dead.
func (m *Mesh) jettisonUnused() {
	used := make([]bool, len(m.vertices))
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		for _, v := range m.tris[h].v {
			used[v] = true
		}
	}
	for v := VertexID(0); int(v) < len(m.vertices); v++ {
		if m.vertices[v].kind != kindDead && !used[v] {
			m.vertices[v].kind = kindDead
		}
	}
}

// Triangles returns every live triangle.
func (mm *Mesh2D) Triangles() []TriangleView {
	m := mm.m
	var out []TriangleView
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		t := m.tris[h]
		var tv TriangleView
		for i := 0; i < 3; i++ {
			tv.Vertices[i] = int(t.v[i])
			if m.live(t.n[i].tri) {
				tv.Neighbors[i] = int(t.n[i].tri)
			} else {
				tv.Neighbors[i] = -1
			}
			if m.segLive(t.s[i].seg) {
				tv.Subsegs[i] = int(t.s[i].seg)
			} else {
				tv.Subsegs[i] = -1
			}
		}
		ot := OrientedTri{Tri: h, Orient: 0}
		tv.Area = triangleArea(ot.originPoint(m), ot.destPoint(m), ot.apexPoint(m))
		tv.Region = t.region
		out = append(out, tv)
	}
	return out
}

// canonicalEdge is a (min vertex, max vertex) pair used to dedup undirected
// edges: Origin/Dest swap depending on which of a triangle's two sides
// visits the edge first, but the canonical pair is the same either way.
type canonicalEdge struct{ lo, hi VertexID }

func canonicalize(a, b VertexID) canonicalEdge {
	if a < b {
		return canonicalEdge{lo: a, hi: b}
	}
	return canonicalEdge{lo: b, hi: a}
}

// Edges returns every unique undirected edge, each at most once, canonicalized
// by (min vertex id, max vertex id) so (p0,p1) and (p1,p0) never appear as
// separate entries.
func (mm *Mesh2D) Edges() []EdgeView {
	m := mm.m
	seen := make(map[canonicalEdge]bool)
	var out []EdgeView
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		for o := uint8(0); o < 3; o++ {
			ot := OrientedTri{Tri: h, Orient: o}
			canon := canonicalize(ot.Origin(m), ot.Dest(m))
			if seen[canon] {
				continue
			}
			seen[canon] = true
			boundary := 0
			if ot.hasSeg(m) {
				boundary = m.segs[ot.segOn(m).Seg].boundary
			}
			out = append(out, EdgeView{P0: int(canon.lo), P1: int(canon.hi), Boundary: boundary})
		}
	}
	return out
}

// Vertices returns every live vertex's position and mark.
func (mm *Mesh2D) Vertices() []types.Point {
	m := mm.m
	out := make([]types.Point, 0, len(m.vertices))
	for _, v := range m.vertices {
		if v.kind == kindDead {
			continue
		}
		out = append(out, v.Point)
	}
	return out
}

// Undeads returns the running count of vertices retired since construction
// began: duplicate-coordinate insertions plus vertices a hole or hull carve
// left with no live incident triangle.
func (mm *Mesh2D) Undeads() int { return mm.m.undeads }

// Subsegments returns every live constraint edge.
func (mm *Mesh2D) Subsegments() []SubsegmentView {
	m := mm.m
	out := make([]SubsegmentView, 0, len(m.segs))
	for h := SegHandle(1); int(h) < len(m.segs); h++ {
		if !m.segs[h].live {
			continue
		}
		s := m.segs[h]
		out = append(out, SubsegmentView{P0: int(s.v[0]), P1: int(s.v[1]), Boundary: s.boundary})
	}
	return out
}

// Voronoi builds the bounded Voronoi dual of the current triangulation.
func (mm *Mesh2D) Voronoi() VoronoiDiagram { return mm.m.Voronoi() }

// SelfCheck validates the data model's topological invariants: every
// triangle's three neighbor links are reciprocal, every subsegment's
// endpoints match the triangle edges it is tied to on both sides, and
// every live vertex's incident back-reference actually has that vertex as
// its origin.
func (mm *Mesh2D) SelfCheck() error {
	m := mm.m
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		for o := uint8(0); o < 3; o++ {
			ot := OrientedTri{Tri: h, Orient: o}
			sym := ot.Sym(m)
			if m.isDummyTri(sym.Tri) {
				continue
			}
			back := sym.Sym(m)
			if back.Tri != h || back.Orient != o {
				return fmt.Errorf("triangle %d edge %d: neighbor link not reciprocal: %w", h, o, ErrTopologyInconsistency)
			}
			if ot.hasSeg(m) {
				seg := ot.segOn(m)
				if (seg.Origin(m) != ot.Origin(m) || seg.Dest(m) != ot.Dest(m)) &&
					(seg.Origin(m) != ot.Dest(m) || seg.Dest(m) != ot.Origin(m)) {
					return fmt.Errorf("triangle %d edge %d: subsegment endpoints do not match: %w", h, o, ErrTopologyInconsistency)
				}
			}
		}
	}
	for v := VertexID(0); int(v) < len(m.vertices); v++ {
		if m.vertices[v].kind == kindDead {
			continue
		}
		inc := m.vertices[v].incident
		if m.isDummyTri(inc.Tri) {
			continue
		}
		if inc.Origin(m) != v {
			return fmt.Errorf("vertex %d: incident back-reference origin mismatch: %w", v, ErrTopologyInconsistency)
		}
	}
	return nil
}
