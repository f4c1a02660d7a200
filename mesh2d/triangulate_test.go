package mesh2d

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomesh2d/trimesh2d/predicates"
	"github.com/gomesh2d/trimesh2d/types"
)

func pt(x, y float64) types.Point { return types.Point{X: x, Y: y} }

// checkUniversalInvariants verifies every live triangle's neighbor links
// are involutive, every live triangle is ccw, and the number of
// dummy-bonded (hull) edges equals the reported hull size. The hull's
// cycle structure itself is not walked.
func checkUniversalInvariants(t *testing.T, m *Mesh) {
	t.Helper()
	hullEdges := 0
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		for o := uint8(0); o < 3; o++ {
			ot := OrientedTri{Tri: h, Orient: o}
			sym := ot.Sym(m)
			if m.isDummyTri(sym.Tri) {
				hullEdges++
				continue
			}
			back := sym.Sym(m)
			require.Equal(t, ot, back, "sym(sym(T,k)) must equal (T,k)")
		}
		a := m.tris[h].v[0].point(m)
		b := m.tris[h].v[1].point(m)
		c := m.tris[h].v[2].point(m)
		require.Greater(t, predicates.Orient2D(a, b, c), 0.0, "every live triangle must be ccw")
	}
	require.Equal(t, m.hullSize, hullEdges, "hull_size must match the number of dummy-bonded edges")
}

func buildGeometry(t *testing.T, points []types.Point, opts ...Option) *Mesh {
	t.Helper()
	settings := DefaultSettings()
	for _, o := range opts {
		o(&settings)
	}
	m := newMesh(settings)
	m.locator = newLocator()
	require.NoError(t, m.buildIncremental(points))
	return m
}

func TestSingleTriangle(t *testing.T) {
	points := []types.Point{pt(0, 0), pt(1, 0), pt(0, 1)}
	m := buildGeometry(t, points)
	checkUniversalInvariants(t, m)

	live := 0
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if m.tris[h].live {
			live++
		}
	}
	require.Equal(t, 1, live)
	require.Equal(t, 3, m.hullSize)
}

func TestCollinearTriple(t *testing.T) {
	points := []types.Point{pt(0, 0), pt(1, 0), pt(2, 0)}
	m := buildGeometry(t, points)

	live := 0
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if m.tris[h].live {
			live++
		}
	}
	require.Equal(t, 0, live, "collinear input must not produce any live triangle")
}

func TestUnitSquareDelaunay(t *testing.T) {
	points := []types.Point{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}
	m := buildGeometry(t, points)
	checkUniversalInvariants(t, m)

	live := 0
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if m.tris[h].live {
			live++
		}
	}
	require.Equal(t, 2, live)
	require.Equal(t, 4, m.hullSize)
}

func TestConstrainedSquareDiagonal(t *testing.T) {
	// Corner 2 sits slightly outside the unit square along the 0-2 diagonal:
	// a unit square is cocircular and may take either diagonal, while this
	// quad's only Delaunay diagonal is 1-3.
	points := []types.Point{pt(0, 0), pt(1, 0), pt(1.2, 1.2), pt(0, 1)}
	m := buildGeometry(t, points, WithPoly(true))

	corner0 := m.nearestVertex(pt(0, 0))
	corner2 := m.nearestVertex(pt(1.2, 1.2))
	require.NotEqual(t, NilVertex, corner0)
	require.NotEqual(t, NilVertex, corner2)

	ot := m.findAdjoiningEdge(corner0, corner2)
	require.True(t, m.isDummyTri(ot.Tri), "diagonal must not exist before forcing")

	require.NoError(t, m.insertConstraint(corner0, corner2, 7))
	checkUniversalInvariants(t, m)

	ot = m.findAdjoiningEdge(corner0, corner2)
	require.False(t, m.isDummyTri(ot.Tri), "forced diagonal must exist")
	require.True(t, ot.hasSeg(m))
	seg := ot.segOn(m)
	require.Equal(t, 7, m.segs[seg.Seg].boundary)

	live := 0
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if m.tris[h].live {
			live++
		}
	}
	require.Equal(t, 2, live)
}

func TestSquareWithHoleCarvesInterior(t *testing.T) {
	outer := []types.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}
	inner := []types.Point{pt(3, 3), pt(7, 3), pt(7, 7), pt(3, 7)}
	points := append(append([]types.Point{}, outer...), inner...)

	m := buildGeometry(t, points, WithPoly(true))
	outerV := make([]VertexID, len(outer))
	for i, p := range outer {
		outerV[i] = m.nearestVertex(p)
		require.NotEqual(t, NilVertex, outerV[i])
	}
	innerV := make([]VertexID, len(inner))
	for i, p := range inner {
		innerV[i] = m.nearestVertex(p)
		require.NotEqual(t, NilVertex, innerV[i])
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, m.insertConstraint(outerV[i], outerV[(i+1)%4], 1))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, m.insertConstraint(innerV[i], innerV[(i+1)%4], 1))
	}
	m.holes = append(m.holes, pt(5, 5))
	m.carveDomain()
	checkUniversalInvariants(t, m)

	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		a := m.tris[h].v[0].point(m)
		b := m.tris[h].v[1].point(m)
		c := m.tris[h].v[2].point(m)
		cx, cy := (a.X+b.X+c.X)/3, (a.Y+b.Y+c.Y)/3
		inHole := cx > 3 && cx < 7 && cy > 3 && cy < 7
		require.False(t, inHole, "no triangle centroid should lie inside the carved hole")
	}

	for i := range outer {
		v := outerV[i]
		require.Equal(t, 1, m.vertices[v].Mark, "outer boundary vertex must be marked")
	}
}

func TestRemoveFrameMarksHullVerticesWhenNotPolygonal(t *testing.T) {
	square := []types.Point{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}
	m := buildGeometry(t, square, WithPoly(false))
	checkUniversalInvariants(t, m)

	for _, p := range square {
		v := m.nearestVertex(p)
		require.NotEqual(t, NilVertex, v)
		require.Equal(t, 1, m.vertices[v].Mark, "every hull vertex of a non-polygonal build must be marked")
	}
}

func TestPlagueOrphansInteriorHoleVertex(t *testing.T) {
	outer := []types.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}
	inner := []types.Point{pt(3, 3), pt(7, 3), pt(7, 7), pt(3, 7)}
	points := append(append([]types.Point{}, outer...), inner...)
	points = append(points, pt(5, 5)) // strictly inside the carved-out hole

	m := buildGeometry(t, points, WithPoly(true))
	outerV := make([]VertexID, len(outer))
	for i, p := range outer {
		outerV[i] = m.nearestVertex(p)
	}
	innerV := make([]VertexID, len(inner))
	for i, p := range inner {
		innerV[i] = m.nearestVertex(p)
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, m.insertConstraint(outerV[i], outerV[(i+1)%4], 1))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, m.insertConstraint(innerV[i], innerV[(i+1)%4], 1))
	}

	centerV := m.nearestVertex(pt(5, 5))
	require.NotEqual(t, NilVertex, centerV)

	before := m.undeads
	m.holes = append(m.holes, pt(5, 5))
	m.carveDomain()
	checkUniversalInvariants(t, m)

	require.Equal(t, kindDead, m.vertices[centerV].kind, "a vertex left with no live incident triangle must be retired")
	require.Greater(t, m.undeads, before, "orphaning a vertex during carve must count as an undead")
}

func TestInsertVertexDuplicateCountsAsUndead(t *testing.T) {
	square := []types.Point{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}
	m := buildGeometry(t, square, WithPoly(false))

	before := m.undeads
	_, outcome := m.insertVertex(pt(0, 0), kindFree, false, false)
	require.Equal(t, Duplicate, outcome)
	require.Equal(t, before+1, m.undeads)
}
