package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gomesh2d/trimesh2d/mesh2d"
	"github.com/gomesh2d/trimesh2d/types"
)

// geometryFile is the on-disk JSON shape trimesh reads input geometry
// from: plain points/segments/holes/regions, mirroring InputGeometry's
// own fields rather than introducing a second vocabulary.
type geometryFile struct {
	Points []struct {
		X, Y  float64
		Mark  int
		Attrs []float64
	} `json:"points"`
	Segments []struct {
		P0, P1, Mark int
	} `json:"segments"`
	Holes []struct {
		X, Y float64
	} `json:"holes"`
	Regions []struct {
		X, Y float64
		ID   int
	} `json:"regions"`
}

func loadGeometry(path string) (*mesh2d.InputGeometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var gf geometryFile
	if err := json.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	geom := mesh2d.NewInputGeometry()
	for _, p := range gf.Points {
		geom.AddPoint(types.Point{X: p.X, Y: p.Y, Mark: p.Mark, Attrs: p.Attrs})
	}
	for _, s := range gf.Segments {
		geom.AddSegment(s.P0, s.P1, s.Mark)
	}
	for _, h := range gf.Holes {
		geom.AddHole(types.Point{X: h.X, Y: h.Y})
	}
	for _, r := range gf.Regions {
		geom.AddRegion(types.Point{X: r.X, Y: r.Y}, r.ID)
	}
	return geom, nil
}
