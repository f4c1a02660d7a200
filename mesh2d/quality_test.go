package mesh2d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gomesh2d/trimesh2d/types"
)

// smallestAngle returns the smallest interior angle of triangle a,b,c in
// radians.
func smallestAngle(a, b, c types.Point) float64 {
	side := func(p, q types.Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }
	ab, bc, ca := side(a, b), side(b, c), side(c, a)
	angle := func(opp, s1, s2 float64) float64 {
		cos := (s1*s1 + s2*s2 - opp*opp) / (2 * s1 * s2)
		if cos > 1 {
			cos = 1
		}
		if cos < -1 {
			cos = -1
		}
		return math.Acos(cos)
	}
	angles := []float64{angle(bc, ab, ca), angle(ca, ab, bc), angle(ab, bc, ca)}
	min := angles[0]
	for _, a := range angles[1:] {
		if a < min {
			min = a
		}
	}
	return min
}

func TestQualityRefinementSharpWedge(t *testing.T) {
	outer := []types.Point{pt(0, 0), pt(10, 0), pt(0, 0.5)}
	m := buildGeometry(t, outer, WithPoly(true), WithQuality(true), WithMinAngle(20))

	v := make([]VertexID, len(outer))
	for i, p := range outer {
		v[i] = m.nearestVertex(p)
		require.NotEqual(t, NilVertex, v[i])
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, m.insertConstraint(v[i], v[(i+1)%3], 1))
	}
	m.carveDomain()

	err := m.enforceQuality()
	require.True(t, err == nil || err == ErrQualityUnreachable)

	minAngle := m.settings.minAngleRadians()
	sharpOrigin := m.nearestVertex(pt(0, 0))

	seditiousCount := 0
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		ot := OrientedTri{Tri: h, Orient: 0}
		a, b, c := ot.originPoint(m), ot.destPoint(m), ot.apexPoint(m)
		angle := smallestAngle(a, b, c)
		if angle >= minAngle-1e-9 {
			continue
		}
		require.True(t, m.isSeditious(ot), "every sub-minimum-angle triangle must be seditious")
		touchesSharpOrigin := ot.Origin(m) == sharpOrigin || ot.Dest(m) == sharpOrigin || ot.Apex(m) == sharpOrigin
		require.True(t, touchesSharpOrigin, "the seditious exception should anchor at the sharp input vertex")
		seditiousCount++
	}
	require.LessOrEqual(t, seditiousCount, 1, "at most one seditious triangle should survive at the sharp wedge")
}

func TestEnforceQualityIsIdempotent(t *testing.T) {
	outer := []types.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}
	m := buildGeometry(t, outer, WithPoly(true), WithQuality(true), WithMinAngle(20), WithMaxArea(5))

	v := make([]VertexID, len(outer))
	for i, p := range outer {
		v[i] = m.nearestVertex(p)
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, m.insertConstraint(v[i], v[(i+1)%4], 1))
	}
	m.carveDomain()
	require.NoError(t, m.enforceQuality())

	before := len(m.tris)
	require.NoError(t, m.enforceQuality())
	require.Equal(t, before, len(m.tris), "re-running enforceQuality on an already-refined mesh must not mutate it")
}

func TestTestTriangleRejectsObtuseAngleAboveMaxAngle(t *testing.T) {
	m := buildGeometry(t, nil, WithMaxAngle(150))

	sharp := OrientedTri{Tri: m.makeTriangle().Tri, Orient: 0}
	a := m.addVertex(pt(0, 0), kindInput)
	b := m.addVertex(pt(10, 0), kindInput)
	c := m.addVertex(pt(5, 0.2), kindInput) // very flat triangle, largest angle well above 150 degrees
	m.tris[sharp.Tri].v = [3]VertexID{a, b, c}

	bad, _ := m.testTriangle(sharp)
	require.True(t, bad, "a triangle flatter than max_angle must fail the quality test")

	equilateral := OrientedTri{Tri: m.makeTriangle().Tri, Orient: 0}
	d := m.addVertex(pt(0, 0), kindInput)
	e := m.addVertex(pt(1, 0), kindInput)
	f := m.addVertex(pt(0.5, 0.866), kindInput)
	m.tris[equilateral.Tri].v = [3]VertexID{d, e, f}

	bad, _ = m.testTriangle(equilateral)
	require.False(t, bad, "an equilateral triangle's largest angle is well under max_angle")
}
