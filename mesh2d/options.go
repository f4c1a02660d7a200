package mesh2d

import "math"

// Algorithm selects which Delaunay construction strategy builds the
// initial unconstrained triangulation.
type Algorithm int

const (
	// Dwyer orders the insertions by recursive spatial partitioning of the
	// input and then inserts them incrementally (see buildDwyer); it does
	// not triangulate the parts separately or merge their hulls.
	Dwyer Algorithm = iota
	// Incremental is the bounding-frame insertion constructor.
	Incremental
	// SweepLine is named here but intentionally not implemented (see the
	// module documentation's scope note); selecting it falls back to
	// Incremental.
	SweepLine
)

// NoBisect names which subsegments the refinement loop may split. The
// value is recorded in Settings, but the refinement loop does not read
// it: every encroached subsegment is split whatever the mode.
type NoBisect int

const (
	// BisectAny names the mode in which any segment may be split.
	BisectAny NoBisect = 0
	// BisectInteriorOnly names the mode in which only interior segments
	// may be split; it is not enforced (see NoBisect).
	BisectInteriorOnly NoBisect = 1
	// BisectNone names the mode in which no segment may be split; it is
	// not enforced (see NoBisect).
	BisectNone NoBisect = 2
)

// Settings holds every behavior switch enumerated by the external
// interface: quality targets, domain-carving mode, and construction
// algorithm choice.
type Settings struct {
	Quality   bool
	MinAngle  float64 // degrees, [0,60], default 20
	MaxAngle  float64 // degrees, 0 or [90,180]
	MaxArea   float64 // <0 disables
	Poly      bool
	Convex    bool
	ConformingDelaunay bool
	NoHoles   bool
	NoBisect  NoBisect
	SteinerPoints int // -1 = unlimited
	AlgorithmChoice Algorithm
	UseBoundaryMarkers bool
	Jettison  bool
	Seed      int64
}

// DefaultSettings returns the module's defaults: no quality refinement,
// min_angle 20 degrees, max_area disabled, incremental construction,
// boundary markers on, and a fixed reproducible seed.
func DefaultSettings() Settings {
	return Settings{
		Quality:            false,
		MinAngle:           20,
		MaxAngle:           0,
		MaxArea:            -1,
		Poly:               false,
		Convex:             false,
		ConformingDelaunay: false,
		NoHoles:            false,
		NoBisect:           BisectAny,
		SteinerPoints:      -1,
		AlgorithmChoice:    Incremental,
		UseBoundaryMarkers: true,
		Jettison:           false,
		Seed:               1,
	}
}

func (s Settings) validate() error {
	if s.MinAngle < 0 || s.MinAngle > 60 {
		return wrapInvalid("min_angle must be in [0,60], got %v", s.MinAngle)
	}
	if s.MaxAngle != 0 && (s.MaxAngle < 90 || s.MaxAngle > 180) {
		return wrapInvalid("max_angle must be 0 or in [90,180], got %v", s.MaxAngle)
	}
	return nil
}

func (s Settings) minAngleRadians() float64 {
	return s.MinAngle * math.Pi / 180
}

// Option configures Settings during construction, following the
// functional-options pattern.
type Option func(*Settings)

// WithQuality turns on Ruppert-style quality refinement.
func WithQuality(enable bool) Option {
	return func(s *Settings) { s.Quality = enable }
}

// WithMinAngle sets the minimum angle bound in degrees.
func WithMinAngle(degrees float64) Option {
	return func(s *Settings) { s.MinAngle = degrees }
}

// WithMaxAngle sets the maximum angle bound in degrees (0 disables it).
func WithMaxAngle(degrees float64) Option {
	return func(s *Settings) { s.MaxAngle = degrees }
}

// WithMaxArea sets a fixed maximum triangle area (negative disables it).
func WithMaxArea(area float64) Option {
	return func(s *Settings) { s.MaxArea = area }
}

// WithPoly treats the input as a PSLG whose segments define the domain.
func WithPoly(enable bool) Option {
	return func(s *Settings) { s.Poly = enable }
}

// WithConvex clips to the convex hull rather than a hole-defined domain.
func WithConvex(enable bool) Option {
	return func(s *Settings) { s.Convex = enable }
}

// WithConformingDelaunay loosens the encroachment test to the strict
// diametral-disk definition rather than the good-angle lens.
func WithConformingDelaunay(enable bool) Option {
	return func(s *Settings) { s.ConformingDelaunay = enable }
}

// WithNoHoles ignores the input hole list.
func WithNoHoles(enable bool) Option {
	return func(s *Settings) { s.NoHoles = enable }
}

// WithNoBisect records the segment-splitting mode in Settings; the
// refinement loop does not consult it (see NoBisect).
func WithNoBisect(mode NoBisect) Option {
	return func(s *Settings) { s.NoBisect = mode }
}

// WithSteinerPoints caps the number of Steiner points refinement may
// insert (-1 for unlimited).
func WithSteinerPoints(n int) Option {
	return func(s *Settings) { s.SteinerPoints = n }
}

// WithAlgorithm selects the construction algorithm.
func WithAlgorithm(a Algorithm) Option {
	return func(s *Settings) { s.AlgorithmChoice = a }
}

// WithBoundaryMarkers controls whether Voronoi emits cells for vertices
// with a non-zero boundary mark; when off, those vertices get no cell.
// Boundary marks themselves are set on hull and segment vertices either
// way.
func WithBoundaryMarkers(enable bool) Option {
	return func(s *Settings) { s.UseBoundaryMarkers = enable }
}

// WithJettison drops unused input vertices on export.
func WithJettison(enable bool) Option {
	return func(s *Settings) { s.Jettison = enable }
}

// WithSeed fixes the point locator's sampler RNG seed, making runs
// reproducible rather than wall-clock-seeded.
func WithSeed(seed int64) Option {
	return func(s *Settings) { s.Seed = seed }
}
