package mesh2d

import (
	"math"

	"github.com/gomesh2d/trimesh2d/predicates"
	"github.com/gomesh2d/trimesh2d/types"
)

// numBuckets is the bucketed priority queue's slot count: one slot per
// (exponent, mantissa-half) pair of the quality key k = shortestEdge^2/area,
// mirrored around bucket 2048 for k < 1.
const numBuckets = 4096

// triQueue is the bucketed priority queue over candidate bad triangles,
// threaded by first-nonempty-bucket lookup so dequeue always returns the
// worst quality key first. Buckets are themselves FIFOs, giving the queue
// a deterministic dequeue order for a fixed insertion sequence.
type triQueue struct {
	buckets [numBuckets][]OrientedTri
	count   int
}

func newTriQueue() *triQueue {
	return &triQueue{}
}

// bucketFor computes the bucket index for quality key k via a
// repeated-squaring exponent/mantissa split.
func bucketFor(k float64) int {
	if k <= 0 || math.IsNaN(k) {
		return 0
	}
	if k >= 1 {
		exponent := 0
		mantissa := k
		for mantissa >= 2 {
			mantissa /= 2
			exponent++
		}
		idx := 2048 + 2*exponent
		if mantissa > math.Sqrt2 {
			idx++
		}
		if idx >= numBuckets {
			idx = numBuckets - 1
		}
		return idx
	}
	exponent := 0
	mantissa := k
	for mantissa < 1 {
		mantissa *= 2
		exponent++
	}
	idx := 2048 - 2*exponent
	if mantissa > math.Sqrt2 {
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (q *triQueue) push(ot OrientedTri, k float64) {
	b := bucketFor(k)
	q.buckets[b] = append(q.buckets[b], ot)
	q.count++
}

func (q *triQueue) pop() (OrientedTri, bool) {
	for b := numBuckets - 1; b >= 0; b-- {
		n := len(q.buckets[b])
		if n == 0 {
			continue
		}
		ot := q.buckets[b][0]
		q.buckets[b] = q.buckets[b][1:]
		q.count--
		return ot, true
	}
	return OrientedTri{}, false
}

func (q *triQueue) empty() bool { return q.count == 0 }

// segQueue is a plain FIFO of encroached subsegments.
type segQueue struct {
	items []OrientedSeg
}

func (q *segQueue) push(os OrientedSeg)  { q.items = append(q.items, os) }
func (q *segQueue) empty() bool          { return len(q.items) == 0 }
func (q *segQueue) pop() (OrientedSeg, bool) {
	if len(q.items) == 0 {
		return OrientedSeg{}, false
	}
	os := q.items[0]
	q.items = q.items[1:]
	return os, true
}

// refiner carries the two queues and cached angle parameters across one
// enforceQuality call.
type refiner struct {
	tris *triQueue
	segs *segQueue

	cosGoodAngleSq float64 // (2cos^2(theta_min) - 1)^2, used by the narrow-lens encroachment test
	offParam       float64 // off-center placement distance, derived from min_angle
}

func (m *Mesh) newRefiner() *refiner {
	theta := m.settings.minAngleRadians()
	c := math.Cos(theta)
	good := 2*c*c - 1
	return &refiner{
		tris:           newTriQueue(),
		segs:           &segQueue{},
		cosGoodAngleSq: good * good,
		offParam:       predicates.OffcenterParam(theta),
	}
}

// triQualityKey returns shortestEdgeLength^2 / area for triangle ot, the
// key used both to test a triangle ("bad" if key implies an angle under
// min_angle, or area exceeds the cap) and to prioritize the refinement
// queue.
func (m *Mesh) triQualityKey(ot OrientedTri) (key float64, shortestSq, area float64) {
	a := ot.originPoint(m)
	b := ot.destPoint(m)
	c := ot.apexPoint(m)

	ab := distanceSq(a, b)
	bc := distanceSq(b, c)
	ca := distanceSq(c, a)

	shortestSq = ab
	if bc < shortestSq {
		shortestSq = bc
	}
	if ca < shortestSq {
		shortestSq = ca
	}

	area = triangleArea(a, b, c)
	if area <= 0 {
		return math.Inf(1), shortestSq, area
	}
	return shortestSq / area, shortestSq, area
}

func triangleArea(a, b, c types.Point) float64 {
	return 0.5 * math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y))
}

// isSeditious reports whether ot is exempt from the minimum-angle
// guarantee: it returns true whenever two of the triangle's edges carry
// subsegments, that is, whenever two constraint edges meet at one of its
// corners. The shortest edge, the angle at that corner and the lengths of
// the two subsegments are not consulted.
func (m *Mesh) isSeditious(ot OrientedTri) bool {
	for o := uint8(0); o < 3; o++ {
		e := OrientedTri{Tri: ot.Tri, Orient: o}
		next := e.Lnext()
		if e.hasSeg(m) && next.hasSeg(m) {
			if e.Dest(m) == next.Origin(m) {
				return true
			}
		}
	}
	return false
}

// largestAngleCos returns the cosine of the angle opposite a triangle's
// longest edge (its largest angle), given the three edges' squared
// lengths.
func largestAngleCos(ab, bc, ca float64) float64 {
	longest, p, q := ab, bc, ca
	if bc > longest {
		longest, p, q = bc, ca, ab
	}
	if ca > longest {
		longest, p, q = ca, ab, bc
	}
	denom := 2 * math.Sqrt(p*q)
	if denom == 0 {
		return -1
	}
	return (p + q - longest) / denom
}

// testTriangle reports whether ot fails the active quality criteria
// (minimum angle via the shortest-edge/area key, the fixed max area,
// and/or the max angle bound), skipping seditious triangles.
func (m *Mesh) testTriangle(ot OrientedTri) (bad bool, key float64) {
	if !m.live(ot.Tri) {
		return false, 0
	}
	key, _, area := m.triQualityKey(ot)

	if m.settings.MaxArea > 0 && area > m.settings.MaxArea {
		return true, key
	}
	if m.settings.MaxAngle != 0 {
		a := ot.originPoint(m)
		b := ot.destPoint(m)
		c := ot.apexPoint(m)
		ab := distanceSq(a, b)
		bc := distanceSq(b, c)
		ca := distanceSq(c, a)
		thetaMax := m.settings.MaxAngle * math.Pi / 180
		if largestAngleCos(ab, bc, ca) < math.Cos(thetaMax) {
			return true, key
		}
	}
	if !m.settings.Quality {
		return false, key
	}
	theta := m.settings.minAngleRadians()
	// The smallest angle is the one opposite the shortest edge; it is below
	// theta exactly when its cosine (law of cosines) exceeds cos(theta).
	a, b, c := ot.originPoint(m), ot.destPoint(m), ot.apexPoint(m)
	ab, bc, ca := distanceSq(a, b), distanceSq(b, c), distanceSq(c, a)
	shortest, p, q := ab, bc, ca
	if bc < shortest {
		shortest, p, q = bc, ca, ab
	}
	if ca < shortest {
		shortest, p, q = ca, ab, bc
	}
	if (p+q-shortest)/(2*math.Sqrt(p*q)) <= math.Cos(theta) {
		return false, key
	}
	if m.isSeditious(ot) {
		return false, key
	}
	return true, key
}

// enqueueIfBad runs the quality test on ot and, if it fails, pushes it
// onto the refinement queue. Called from the flip cascade whenever
// check_triangle_quality is set so newly created triangles are caught
// immediately rather than waiting for a full sweep.
func (m *Mesh) enqueueIfBad(ot OrientedTri) {
	if m.refiner == nil {
		return
	}
	if bad, key := m.testTriangle(ot); bad {
		m.refiner.tris.push(ot, key)
	}
}

// isEncroached reports whether r lies within the diametral disk of
// subsegment (p,q); when conformingDelaunay is off, encroachment further
// requires r to fall in the good-angle lens rather than anywhere in the
// disk.
func (m *Mesh) isEncroached(p, q, r types.Point) bool {
	pr := p.Sub(r)
	qr := q.Sub(r)
	dot := pr.Dot(qr)
	if dot >= 0 {
		return false
	}
	if m.settings.ConformingDelaunay {
		return true
	}
	lhs := dot * dot
	rhs := m.refiner.cosGoodAngleSq * distanceSq(p, r) * distanceSq(q, r)
	return lhs >= rhs
}

// checkSegForEncroach scans both triangles incident to subsegment os for a
// third vertex lying in its diametral disk. A free (Steiner) encroaching
// vertex is removed via deleteVertex and the segment is retested, since
// its own earlier insertion may no longer be needed once the segment is
// split some other way; an input or segment vertex can't be removed, so
// the segment itself is queued for splitting instead.
func (m *Mesh) checkSegForEncroach(os OrientedSeg) {
	if m.refiner == nil || !m.segLive(os.Seg) {
		return
	}
	p := os.originPoint(m)
	q := os.destPoint(m)

	for _, side := range [2]OrientedSeg{os, os.Sym()} {
		ot := side.triSide(m)
		if m.isDummyTri(ot.Tri) {
			continue
		}
		apex := ot.Apex(m)
		r := apex.point(m)
		if !m.isEncroached(p, q, r) {
			continue
		}
		if m.vertices[apex].kind == kindFree && m.deleteVertex(apex) {
			m.checkSegForEncroach(os)
			return
		}
		m.refiner.segs.push(os)
		return
	}
}

func (v VertexID) point(m *Mesh) types.Point { return m.vertices[v].Point }

// splitPosition picks where to split encroached subsegment (p,q): the
// midpoint, unless either endpoint itself lies on a different subsegment
// (the "concentric shells" case), in which case the split point snaps to
// the nearest power-of-two multiple of a reference unit so successive
// splits of nested segments land on a shared lattice and avoid the
// near-coincident endpoints that would otherwise exhaust float precision.
func splitPosition(p, q types.Point, pOnOtherSeg, qOnOtherSeg bool) types.Point {
	length := math.Hypot(q.X-p.X, q.Y-p.Y)
	if !pOnOtherSeg && !qOnOtherSeg {
		return types.Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
	}

	from, toward := p, q
	if qOnOtherSeg && !pOnOtherSeg {
		from, toward = q, p
	}

	unit := nearestPowerOfTwo(length / 2)
	for unit >= length {
		unit /= 2
	}
	dx := toward.X - from.X
	dy := toward.Y - from.Y
	t := unit / length
	return types.Point{X: from.X + dx*t, Y: from.Y + dy*t}
}

// nearestPowerOfTwo returns the power of two nearest x, used to keep
// successive nested-segment splits on a common lattice.
func nearestPowerOfTwo(x float64) float64 {
	if x <= 0 {
		return 0
	}
	lo := math.Pow(2, math.Floor(math.Log2(x)))
	hi := lo * 2
	if x-lo < hi-x {
		return lo
	}
	return hi
}

// snapToSegment corrects a computed split point back onto the line
// through p,q by re-deriving it as a pure parametric point on that line,
// eliminating the floating-point drift a midpoint/ratio computation can
// otherwise introduce.
func snapToSegment(p, q, computed types.Point) types.Point {
	dx := q.X - p.X
	dy := q.Y - p.Y
	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return p
	}
	t := ((computed.X-p.X)*dx + (computed.Y-p.Y)*dy) / len2
	return types.Point{X: p.X + t*dx, Y: p.Y + t*dy}
}

// splitSubsegment splits subsegment os at point, inserting a new vertex
// via insertVertex with isSegmentSplit set, then re-ties the two new
// subsegment halves so the polyline stays linked.
func (m *Mesh) splitSubsegment(os OrientedSeg, point types.Point) (VertexID, Outcome) {
	boundary := m.segs[os.Seg].boundary
	p := os.Origin(m)
	q := os.Dest(m)

	v, outcome := m.insertVertex(point, kindSegment, true, m.refiner != nil)
	if outcome != Successful && outcome != Duplicate {
		return v, outcome
	}
	if outcome == Duplicate {
		return v, outcome
	}

	// The flip cascade dissolved the old subsegment tie on the two
	// half-edges through v (insertVertex's splitOnEdge path ties segHere to
	// both halves, unaware it is now two distinct logical subsegments).
	// Re-derive the two incident triangle edges through v along p and q and
	// install a fresh subsegment on each half.
	left := m.findAdjoiningEdge(v, p)
	if m.isDummyTri(left.Tri) {
		left = m.findAdjoiningEdge(p, v)
	}
	right := m.findAdjoiningEdge(v, q)
	if m.isDummyTri(right.Tri) {
		right = m.findAdjoiningEdge(q, v)
	}

	newSegP := m.makeSubseg()
	newSegP.setOrigin(m, p)
	newSegP.setDest(m, v)
	m.segs[newSegP.Seg].boundary = boundary

	newSegQ := m.makeSubseg()
	newSegQ.setOrigin(m, v)
	newSegQ.setDest(m, q)
	m.segs[newSegQ.Seg].boundary = boundary

	m.tieSegmentAlongEdges(left, newSegP)
	m.tieSegmentAlongEdges(right, newSegQ)

	if m.segLive(os.Seg) {
		m.subsegDealloc(os.Seg)
	}

	return v, Successful
}

// findAdjoiningEdge returns an OrientedTri whose origin is from and whose
// dest is to, by walking the triangle fan around from.
func (m *Mesh) findAdjoiningEdge(from, to VertexID) OrientedTri {
	start := m.vertices[from].incident
	// Rotate clockwise to the first triangle of an open (hull) fan so the
	// ccw walk below covers the whole fan.
	for i := 0; i < 64; i++ {
		prev := start.Oprev(m)
		if m.isDummyTri(prev.Tri) || prev == m.vertices[from].incident {
			break
		}
		start = prev
	}
	ot := start
	for i := 0; i < 64; i++ {
		if ot.Origin(m) == from && ot.Dest(m) == to {
			return ot
		}
		next := ot.Onext(m)
		if next == start || m.isDummyTri(next.Tri) {
			break
		}
		ot = next
	}
	return OrientedTri{}
}

// tieSegmentAlongEdges ties os to both triangle sides of the edge between
// its endpoints, if present.
func (m *Mesh) tieSegmentAlongEdges(ot OrientedTri, os OrientedSeg) {
	if m.isDummyTri(ot.Tri) {
		return
	}
	segBond(m, ot, os)
	sym := ot.Sym(m)
	if !m.isDummyTri(sym.Tri) {
		segBond(m, sym, os.Sym())
	}
}

// splitEncSegs drains the segment queue, splitting every encroached
// subsegment until none remain or steiner_left is exhausted. Every split
// re-tests the two freshly created subsegment halves and re-enqueues them
// if the split itself left them encroached, so a single call already
// covers the recursive step-3-into-step-2 re-entry the Ruppert loop
// otherwise needs a separate flag for.
func (m *Mesh) splitEncSegs() {
	for !m.refiner.segs.empty() {
		if m.steinerLeft == 0 {
			return
		}
		os, ok := m.refiner.segs.pop()
		if !ok || !m.segLive(os.Seg) {
			continue
		}

		p := os.originPoint(m)
		q := os.destPoint(m)
		pOnOther, qOnOther := m.endpointOnOtherSegment(os)

		point := splitPosition(p, q, pOnOther, qOnOther)
		point = snapToSegment(p, q, point)

		_, outcome := m.splitSubsegment(os, point)
		if outcome == Encroaching {
			m.refiner.segs.push(os)
			continue
		}
		if outcome != Successful {
			continue
		}
		if m.steinerLeft > 0 {
			m.steinerLeft--
		}

		halfP := m.findSegmentBetween(p, point)
		halfQ := m.findSegmentBetween(point, q)
		if halfP.Seg != m.dummySeg {
			m.checkSegForEncroach(halfP)
		}
		if halfQ.Seg != m.dummySeg {
			m.checkSegForEncroach(halfQ)
		}
	}
}

// findSegmentBetween returns the live subsegment whose endpoints are a,b
// (in either order), searching via a's incident triangle fan.
func (m *Mesh) findSegmentBetween(a, b types.Point) OrientedSeg {
	av := m.nearestVertex(a)
	bv := m.nearestVertex(b)
	if av == NilVertex || bv == NilVertex {
		return OrientedSeg{Seg: m.dummySeg}
	}
	ot := m.findAdjoiningEdge(av, bv)
	if m.isDummyTri(ot.Tri) {
		ot = m.findAdjoiningEdge(bv, av)
		if m.isDummyTri(ot.Tri) {
			return OrientedSeg{Seg: m.dummySeg}
		}
	}
	if !ot.hasSeg(m) {
		return OrientedSeg{Seg: m.dummySeg}
	}
	return ot.segOn(m)
}

// nearestVertex finds the live vertex exactly at p (used only right after
// insertion, when p is known to already be a mesh vertex).
func (m *Mesh) nearestVertex(p types.Point) VertexID {
	for i := len(m.vertices) - 1; i >= 0; i-- {
		if m.vertices[i].kind != kindDead && m.vertices[i].Point.Eq(p) {
			return VertexID(i)
		}
	}
	return NilVertex
}

// endpointOnOtherSegment reports, for each endpoint of os, whether it is
// also an endpoint of a different live subsegment.
func (m *Mesh) endpointOnOtherSegment(os OrientedSeg) (pOnOther, qOnOther bool) {
	p := os.Origin(m)
	q := os.Dest(m)
	for h := SegHandle(1); int(h) < len(m.segs); h++ {
		if !m.segs[h].live || h == os.Seg {
			continue
		}
		if m.segs[h].v[0] == p || m.segs[h].v[1] == p {
			pOnOther = true
		}
		if m.segs[h].v[0] == q || m.segs[h].v[1] == q {
			qOnOther = true
		}
	}
	return pOnOther, qOnOther
}

// enforceQuality runs the full Ruppert loop: first drain the segment
// queue, then repeatedly dequeue the worst triangle, compute its Steiner
// point, and insert it, re-draining the segment queue whenever an
// insertion encroaches a subsegment, until both queues are empty or
// steiner_left is exhausted.
func (m *Mesh) enforceQuality() error {
	if m.refiner == nil {
		m.refiner = m.newRefiner()
	}
	m.seedRefinementQueues()

	m.splitEncSegs()

	for !m.refiner.tris.empty() {
		if m.steinerLeft == 0 {
			return ErrQualityUnreachable
		}
		ot, ok := m.refiner.tris.pop()
		if !ok {
			break
		}
		if !m.live(ot.Tri) {
			continue
		}
		if bad, _ := m.testTriangle(ot); !bad {
			continue
		}

		off := m.refiner.offParam
		if m.settings.MaxArea > 0 && !m.settings.Quality {
			off = 0
		}
		a := ot.originPoint(m)
		b := ot.destPoint(m)
		c := ot.apexPoint(m)
		steiner, _, _ := predicates.Circumcenter(a, b, c, off)

		// A Steiner point inside a subsegment's diametral disk is not
		// inserted: the subsegment is queued and split first, and the
		// triangle retried.
		encroached := false
		for h := SegHandle(1); int(h) < len(m.segs); h++ {
			os := OrientedSeg{Seg: h}
			if m.segs[h].live && os.originPoint(m).Sub(steiner).Dot(os.destPoint(m).Sub(steiner)) < 0 {
				m.refiner.segs.push(os)
				encroached = true
			}
		}
		if encroached {
			m.refiner.tris.push(ot, 0)
			m.splitEncSegs()
			continue
		}

		before := m.refiner.segs.count()
		_, outcome := m.insertVertex(steiner, kindFree, false, true)
		switch outcome {
		case Successful:
			if m.steinerLeft > 0 {
				m.steinerLeft--
			}
			if m.refiner.segs.count() > before {
				m.refiner.tris.push(ot, 0)
				m.splitEncSegs()
			}
		case Encroaching, Violating, Duplicate:
			// The candidate point fell outside the mesh or on top of a
			// constraint; nothing to retry with this triangle.
		}
	}

	if !m.refiner.segs.empty() {
		return ErrQualityUnreachable
	}
	return nil
}

func (q *segQueue) count() int { return len(q.items) }

// seedRefinementQueues performs the initial full sweep that populates both
// queues before the enforceQuality loop begins.
func (m *Mesh) seedRefinementQueues() {
	for h := TriHandle(1); int(h) < len(m.tris); h++ {
		if !m.tris[h].live {
			continue
		}
		ot := OrientedTri{Tri: h, Orient: 0}
		if bad, key := m.testTriangle(ot); bad {
			m.refiner.tris.push(ot, key)
		}
	}
	for h := SegHandle(1); int(h) < len(m.segs); h++ {
		if !m.segs[h].live {
			continue
		}
		m.checkSegForEncroach(OrientedSeg{Seg: h, Orient: 0})
	}
}
