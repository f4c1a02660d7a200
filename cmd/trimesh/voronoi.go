package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gomesh2d/trimesh2d/mesh2d"
)

func newVoronoiCmd() *cobra.Command {
	var flags settingsFlags
	cmd := &cobra.Command{
		Use:   "voronoi <geometry.json>",
		Short: "Triangulate and report the bounded Voronoi dual's cell sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			geom, err := loadGeometry(args[0])
			if err != nil {
				return err
			}
			m, err := mesh2d.Build(geom, flags.options()...)
			if err != nil {
				return fmt.Errorf("building triangulation: %w", err)
			}
			diagram := m.Voronoi()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cells: %d\n", len(diagram.Cells))
			for _, cell := range diagram.Cells {
				fmt.Fprintf(out, "  vertex %d: %d polygon points, boundary=%v\n",
					cell.Vertex, len(cell.Polygon), cell.Boundary)
			}
			return nil
		},
	}
	bindSettingsFlags(cmd, &flags)
	return cmd
}
