// Package predicates implements the robust geometric tests the mesher is
// built on: orientation, in-circle, and circumcenter/off-center
// construction. Both predicates evaluate a float64 fast path first and
// only fall back to an arbitrary-precision recomputation when the fast
// result is too close to zero to trust its sign.
package predicates

import (
	"math"
	"math/big"

	"github.com/gomesh2d/trimesh2d/types"
)

// bigPrec is the working precision of the exact fallback path, in bits.
// 256 bits is comfortably enough to sign-resolve the degree-2 (orient2d)
// and degree-4 (incircle) expressions built from float64 inputs.
const bigPrec = 256

// Epsilon is the machine epsilon computed by repeated halving, per the
// spec's bootstrap rule: half eps until 1+eps rounds back down to 1.
var Epsilon = bootstrapEpsilon()

func bootstrapEpsilon() float64 {
	eps := 1.0
	for 1.0+eps/2.0 > 1.0 {
		eps /= 2.0
	}
	return eps
}

// orientBound and inCircleBound are the adaptive error bounds from the
// spec: (3+16eps)*eps and (10+96eps)*eps respectively, scaled by the
// magnitude of the two cross-product terms actually summed.
var (
	orientBoundConst   = (3 + 16*Epsilon) * Epsilon
	inCircleBoundConst = (10 + 96*Epsilon) * Epsilon
)

// Orient2D returns a value with the sign of (a-c) x (b-c): positive when
// a, b, c form a counter-clockwise turn, negative for clockwise, zero for
// collinear (within the adaptive tolerance).
//
// NoExact disables the exact fallback; it exists only so callers can
// benchmark the float64-only fast path, never for production use.
var NoExact = false

func Orient2D(a, b, c types.Point) float64 {
	acx := a.X - c.X
	acy := a.Y - c.Y
	bcx := b.X - c.X
	bcy := b.Y - c.Y
	t1 := acx * bcy
	t2 := acy * bcx
	det := t1 - t2

	bound := orientBoundConst * (math.Abs(t1) + math.Abs(t2))
	if NoExact || math.Abs(det) > bound {
		return det
	}
	return orient2DExact(a, b, c)
}

func orient2DExact(a, b, c types.Point) float64 {
	acx := bigSub(a.X, c.X)
	acy := bigSub(a.Y, c.Y)
	bcx := bigSub(b.X, c.X)
	bcy := bigSub(b.Y, c.Y)

	t1 := new(big.Float).SetPrec(bigPrec).Mul(acx, bcy)
	t2 := new(big.Float).SetPrec(bigPrec).Mul(acy, bcx)
	det := new(big.Float).SetPrec(bigPrec).Sub(t1, t2)
	return signFloat(det)
}

// InCircle returns a value with the sign of the determinant placing d
// relative to the circumcircle of (a,b,c): positive when d is strictly
// inside the circle through a, b, c taken counter-clockwise.
func InCircle(a, b, c, d types.Point) float64 {
	adx := a.X - d.X
	ady := a.Y - d.Y
	bdx := b.X - d.X
	bdy := b.Y - d.Y
	cdx := c.X - d.X
	cdy := c.Y - d.Y

	ad2 := adx*adx + ady*ady
	bd2 := bdx*bdx + bdy*bdy
	cd2 := cdx*cdx + cdy*cdy

	t1 := ad2 * (bdx*cdy - bdy*cdx)
	t2 := bd2 * (adx*cdy - ady*cdx)
	t3 := cd2 * (adx*bdy - ady*bdx)
	det := t1 - t2 + t3

	bound := inCircleBoundConst * (math.Abs(t1) + math.Abs(t2) + math.Abs(t3))
	if NoExact || math.Abs(det) > bound {
		return det
	}
	return inCircleExact(a, b, c, d)
}

func inCircleExact(a, b, c, d types.Point) float64 {
	adx := bigSub(a.X, d.X)
	ady := bigSub(a.Y, d.Y)
	bdx := bigSub(b.X, d.X)
	bdy := bigSub(b.Y, d.Y)
	cdx := bigSub(c.X, d.X)
	cdy := bigSub(c.Y, d.Y)

	ad2 := bigSumSquares(adx, ady)
	bd2 := bigSumSquares(bdx, bdy)
	cd2 := bigSumSquares(cdx, cdy)

	t1 := new(big.Float).SetPrec(bigPrec).Mul(ad2, bigDet2(bdx, bdy, cdx, cdy))
	t2 := new(big.Float).SetPrec(bigPrec).Mul(bd2, bigDet2(adx, ady, cdx, cdy))
	t3 := new(big.Float).SetPrec(bigPrec).Mul(cd2, bigDet2(adx, ady, bdx, bdy))

	det := new(big.Float).SetPrec(bigPrec).Sub(t1, t2)
	det.Add(det, t3)
	return signFloat(det)
}

// Circumcenter computes the circumcircle center of triangle (o, d, a) and
// its barycentric coordinates (xi, eta) relative to origin o. When off > 0,
// the returned point is perturbed toward the midpoint of the triangle's
// shortest edge whenever that edge is strictly shorter than the other two,
// landing on that edge's perpendicular bisector at distance proportional
// to off (a raw circumcenter already that close is returned unchanged) —
// this is the Steiner-placement heuristic the refinement loop
// uses to avoid manufacturing new skinny triangles.
func Circumcenter(o, d, a types.Point, off float64) (center types.Point, xi, eta float64) {
	xdo := d.X - o.X
	ydo := d.Y - o.Y
	xao := a.X - o.X
	yao := a.Y - o.Y

	dosq := xdo*xdo + ydo*ydo
	aosq := xao*xao + yao*yao

	denom := 2.0 * (xdo*yao - ydo*xao)
	if denom == 0 {
		return o, 0, 0
	}

	dix := (yao*dosq - ydo*aosq) / denom
	diy := (xdo*aosq - xao*dosq) / denom

	center = types.Point{X: o.X + dix, Y: o.Y + diy}

	// Barycentric coordinates of the circumcenter relative to o, expressed
	// in the (d-o, a-o) basis, needed by callers that must re-derive the
	// center after a vertex has moved without recomputing from scratch.
	xi, eta = solveBarycentric(xdo, ydo, xao, yao, dix, diy)

	if off > 0 {
		center = applyOffcenter(o, d, a, center, dosq, aosq, xdo, ydo, xao, yao, off)
	}

	return center, xi, eta
}

func solveBarycentric(xdo, ydo, xao, yao, dix, diy float64) (xi, eta float64) {
	denom := xdo*yao - ydo*xao
	if denom == 0 {
		return 0, 0
	}
	xi = (dix*yao - diy*xao) / denom
	eta = (diy*xdo - dix*ydo) / denom
	return xi, eta
}

// applyOffcenter moves the raw circumcenter toward the midpoint of the
// triangle's shortest edge when that edge is strictly shorter than the
// other two.
func applyOffcenter(o, d, a, raw types.Point, dosq, aosq, xdo, ydo, xao, yao, off float64) types.Point {
	xda := a.X - d.X
	yda := a.Y - d.Y
	dasq := xda*xda + yda*yda

	shortest := dosq
	shortestMid := types.Point{X: (o.X + d.X) / 2, Y: (o.Y + d.Y) / 2}
	shortestDir := types.Point{X: -ydo, Y: xdo} // perpendicular to od

	if aosq < shortest {
		shortest = aosq
		shortestMid = types.Point{X: (o.X + a.X) / 2, Y: (o.Y + a.Y) / 2}
		shortestDir = types.Point{X: -yao, Y: xao}
	}
	if dasq < shortest {
		shortest = dasq
		shortestMid = types.Point{X: (d.X + a.X) / 2, Y: (d.Y + a.Y) / 2}
		shortestDir = types.Point{X: -yda, Y: xda}
	} else if shortest == dosq && aosq >= dosq && dasq >= dosq {
		// od remains the shortest edge; nothing further to do.
	}
	ties := 0
	for _, sq := range [3]float64{dosq, aosq, dasq} {
		if sq == shortest {
			ties++
		}
	}
	if ties > 1 {
		return raw
	}

	dirLen := math.Hypot(shortestDir.X, shortestDir.Y)
	if dirLen == 0 {
		return raw
	}
	ux := shortestDir.X / dirLen
	uy := shortestDir.Y / dirLen

	// Project the raw circumcenter onto the bisector through shortestMid to
	// pick a consistent side, then move to distance off*edgeLen from the
	// midpoint along that side, unless the raw circumcenter is already
	// that close.
	toRaw := types.Point{X: raw.X - shortestMid.X, Y: raw.Y - shortestMid.Y}
	side := toRaw.X*ux + toRaw.Y*uy
	if side < 0 {
		ux, uy = -ux, -uy
		side = -side
	}

	edgeLen := math.Sqrt(shortest)
	dist := off * edgeLen
	if dist >= side {
		return raw
	}
	return types.Point{X: shortestMid.X + ux*dist, Y: shortestMid.Y + uy*dist}
}

// OffcenterParam derives the off-center distance parameter from the
// target minimum angle theta (radians):
//
//	off = 0.475 * sqrt((1+cos^2(theta)) / (1-cos^2(theta)))
func OffcenterParam(thetaRadians float64) float64 {
	c2 := math.Cos(thetaRadians) * math.Cos(thetaRadians)
	if c2 >= 1 {
		return 0.475
	}
	return 0.475 * math.Sqrt((1+c2)/(1-c2))
}

func bigSub(x, y float64) *big.Float {
	bx := new(big.Float).SetPrec(bigPrec).SetFloat64(x)
	by := new(big.Float).SetPrec(bigPrec).SetFloat64(y)
	return bx.Sub(bx, by)
}

func bigSumSquares(x, y *big.Float) *big.Float {
	xx := new(big.Float).SetPrec(bigPrec).Mul(x, x)
	yy := new(big.Float).SetPrec(bigPrec).Mul(y, y)
	return xx.Add(xx, yy)
}

func bigDet2(ax, ay, bx, by *big.Float) *big.Float {
	t1 := new(big.Float).SetPrec(bigPrec).Mul(ax, by)
	t2 := new(big.Float).SetPrec(bigPrec).Mul(ay, bx)
	return t1.Sub(t1, t2)
}

func signFloat(f *big.Float) float64 {
	switch f.Sign() {
	case 0:
		return 0
	case 1:
		return 1
	default:
		return -1
	}
}
