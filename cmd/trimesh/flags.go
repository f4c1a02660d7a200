package main

import (
	"github.com/spf13/cobra"

	"github.com/gomesh2d/trimesh2d/mesh2d"
)

// settingsFlags holds the command-line mirror of mesh2d.Settings, bound
// onto every subcommand that builds a mesh.
type settingsFlags struct {
	quality            bool
	minAngle           float64
	maxArea            float64
	poly               bool
	convex             bool
	conformingDelaunay bool
	noHoles            bool
	steinerPoints      int
	dwyer              bool
	seed               int64
	jettison           bool
	boundaryMarkers    bool
}

func bindSettingsFlags(cmd *cobra.Command, f *settingsFlags) {
	cmd.Flags().BoolVar(&f.quality, "quality", false, "enable Ruppert-style quality refinement")
	cmd.Flags().Float64Var(&f.minAngle, "min-angle", 20, "minimum angle bound in degrees, [0,60]")
	cmd.Flags().Float64Var(&f.maxArea, "max-area", -1, "maximum triangle area, negative disables")
	cmd.Flags().BoolVar(&f.poly, "poly", false, "treat input segments as a PSLG boundary")
	cmd.Flags().BoolVar(&f.convex, "convex", false, "clip to the convex hull instead of hole-carved boundaries")
	cmd.Flags().BoolVar(&f.conformingDelaunay, "conforming-delaunay", false, "use the strict diametral-disk encroachment test")
	cmd.Flags().BoolVar(&f.noHoles, "no-holes", false, "ignore the input hole list")
	cmd.Flags().IntVar(&f.steinerPoints, "steiner-points", -1, "cap on inserted Steiner points, -1 for unlimited")
	cmd.Flags().BoolVar(&f.dwyer, "dwyer", false, "use the Dwyer spatial-partition constructor instead of plain incremental insertion")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "point locator sampler seed")
	cmd.Flags().BoolVar(&f.jettison, "jettison", false, "drop input vertices with no incident triangle from the export")
	cmd.Flags().BoolVar(&f.boundaryMarkers, "boundary-markers", true, "emit Voronoi cells for boundary-marked vertices")
}

func (f settingsFlags) options() []mesh2d.Option {
	algo := mesh2d.Incremental
	if f.dwyer {
		algo = mesh2d.Dwyer
	}
	return []mesh2d.Option{
		mesh2d.WithQuality(f.quality),
		mesh2d.WithMinAngle(f.minAngle),
		mesh2d.WithMaxArea(f.maxArea),
		mesh2d.WithPoly(f.poly),
		mesh2d.WithConvex(f.convex),
		mesh2d.WithConformingDelaunay(f.conformingDelaunay),
		mesh2d.WithNoHoles(f.noHoles),
		mesh2d.WithSteinerPoints(f.steinerPoints),
		mesh2d.WithAlgorithm(algo),
		mesh2d.WithSeed(f.seed),
		mesh2d.WithJettison(f.jettison),
		mesh2d.WithBoundaryMarkers(f.boundaryMarkers),
	}
}
