package predicates

import (
	"math"
	"testing"

	"github.com/gomesh2d/trimesh2d/types"
)

func TestOrient2DSigns(t *testing.T) {
	ccw := Orient2D(types.Point{X: 0, Y: 0}, types.Point{X: 1, Y: 0}, types.Point{X: 0, Y: 1})
	if ccw <= 0 {
		t.Fatalf("expected positive (ccw) orientation, got %v", ccw)
	}

	cw := Orient2D(types.Point{X: 0, Y: 0}, types.Point{X: 0, Y: 1}, types.Point{X: 1, Y: 0})
	if cw >= 0 {
		t.Fatalf("expected negative (cw) orientation, got %v", cw)
	}

	collinear := Orient2D(types.Point{X: 0, Y: 0}, types.Point{X: 1, Y: 1}, types.Point{X: 2, Y: 2})
	if collinear != 0 {
		t.Fatalf("expected collinear orientation, got %v", collinear)
	}
}

func TestOrient2DNearDegenerateForcesExactPath(t *testing.T) {
	// Exactly, the determinant is 2^-53 - 2^-105 > 0; in float64 the product
	// (1+2^-52)*(1-2^-53) rounds to 1, so the fast path computes 0.
	a := types.Point{X: math.Nextafter(1, 2), Y: 1}
	b := types.Point{X: 1, Y: math.Nextafter(1, 0)}
	c := types.Point{X: 0, Y: 0}

	NoExact = true
	fast := Orient2D(a, b, c)
	NoExact = false
	if fast != 0 {
		t.Fatalf("expected the float64 fast path to lose the sign here, got %v", fast)
	}

	near := Orient2D(a, b, c)
	if near <= 0 {
		t.Fatalf("expected robust ccw orientation for near-degenerate case, got %v", near)
	}
}

func TestInCircle(t *testing.T) {
	a := types.Point{X: 0, Y: 0}
	b := types.Point{X: 1, Y: 0}
	c := types.Point{X: 0, Y: 1}

	inside := InCircle(a, b, c, types.Point{X: 0.25, Y: 0.25})
	if inside <= 0 {
		t.Fatalf("expected point inside circumcircle, got %v", inside)
	}

	outside := InCircle(a, b, c, types.Point{X: 2, Y: 2})
	if outside >= 0 {
		t.Fatalf("expected point outside circumcircle, got %v", outside)
	}

	onCircle := InCircle(a, b, c, types.Point{X: 1, Y: 1})
	if onCircle != 0 {
		t.Fatalf("expected point on circumcircle, got %v", onCircle)
	}
}

func TestCircumcenterOfRightTriangle(t *testing.T) {
	o := types.Point{X: 0, Y: 0}
	d := types.Point{X: 2, Y: 0}
	a := types.Point{X: 0, Y: 2}

	center, _, _ := Circumcenter(o, d, a, 0)
	if math.Abs(center.X-1) > 1e-9 || math.Abs(center.Y-1) > 1e-9 {
		t.Fatalf("expected circumcenter at (1,1), got %+v", center)
	}
}

func TestCircumcenterOffcenterStaysOnBisector(t *testing.T) {
	o := types.Point{X: 0, Y: 0}
	d := types.Point{X: 10, Y: 0}
	a := types.Point{X: 0, Y: 0.5}

	off := OffcenterParam(20 * math.Pi / 180)
	center, _, _ := Circumcenter(o, d, a, off)

	// The off-centered point must not coincide with the raw circumcenter
	// for a triangle this skinny, and must remain a finite point.
	if math.IsNaN(center.X) || math.IsNaN(center.Y) {
		t.Fatalf("off-center computation produced NaN: %+v", center)
	}
	// The shortest edge is o-a; its perpendicular bisector is y = 0.25 and
	// the raw circumcenter is (5, 0.25).
	if math.Abs(center.Y-0.25) > 1e-9 {
		t.Fatalf("expected the off-center on the bisector y=0.25, got %+v", center)
	}
	if math.Abs(center.X-5) < 1e-9 {
		t.Fatalf("expected the off-center to differ from the raw circumcenter (5,0.25), got %+v", center)
	}
}

func TestOffcenterParamMatchesFormula(t *testing.T) {
	theta := 20 * math.Pi / 180
	got := OffcenterParam(theta)
	c2 := math.Cos(theta) * math.Cos(theta)
	want := 0.475 * math.Sqrt((1+c2)/(1-c2))
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected off-center param %v, got %v", want, got)
	}
}

func TestSegmentsIntersectProperCrossing(t *testing.T) {
	p := types.Point{X: 0, Y: 0}
	q := types.Point{X: 1, Y: 1}
	r := types.Point{X: 0, Y: 1}
	s := types.Point{X: 1, Y: 0}

	hit, tParam, uParam := SegmentsIntersect(p, q, r, s)
	if !hit {
		t.Fatalf("expected segments to intersect")
	}
	if math.Abs(tParam-0.5) > 1e-9 || math.Abs(uParam-0.5) > 1e-9 {
		t.Fatalf("expected intersection at midpoint of both segments, got t=%v u=%v", tParam, uParam)
	}
}

func TestSegmentsIntersectParallelNoHit(t *testing.T) {
	p := types.Point{X: 0, Y: 0}
	q := types.Point{X: 1, Y: 0}
	r := types.Point{X: 0, Y: 1}
	s := types.Point{X: 1, Y: 1}

	hit, _, _ := SegmentsIntersect(p, q, r, s)
	if hit {
		t.Fatalf("expected parallel segments not to intersect")
	}
}

func TestRotatedFrameIntersectMatchesAxisAlignedCase(t *testing.T) {
	p := types.Point{X: 0, Y: 0}
	q := types.Point{X: 10, Y: 0}
	r := types.Point{X: 5, Y: -5}
	s := types.Point{X: 5, Y: 5}

	point, onPQ, onRS, ok := RotatedFrameIntersect(p, q, r, s, false)
	if !ok {
		t.Fatalf("expected an intersection")
	}
	if math.Abs(point.X-5) > 1e-9 || math.Abs(point.Y) > 1e-9 {
		t.Fatalf("expected intersection at (5,0), got %+v", point)
	}
	if math.Abs(onPQ-0.5) > 1e-9 || math.Abs(onRS-0.5) > 1e-9 {
		t.Fatalf("expected midpoint parameters, got onPQ=%v onRS=%v", onPQ, onRS)
	}
}

func TestRotatedFrameIntersectStrictRejectsEndpointTouch(t *testing.T) {
	p := types.Point{X: 0, Y: 0}
	q := types.Point{X: 10, Y: 0}
	r := types.Point{X: 0, Y: -5}
	s := types.Point{X: 0, Y: 5}

	_, _, _, ok := RotatedFrameIntersect(p, q, r, s, true)
	if ok {
		t.Fatalf("expected strict mode to reject an endpoint touch")
	}
}

func TestEpsilonBootstrapIsTiny(t *testing.T) {
	if Epsilon <= 0 || Epsilon > 1e-10 {
		t.Fatalf("expected a tiny bootstrapped machine epsilon, got %v", Epsilon)
	}
}
