package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gomesh2d/trimesh2d/mesh2d"
)

func newTriangulateCmd() *cobra.Command {
	var flags settingsFlags
	cmd := &cobra.Command{
		Use:   "triangulate <geometry.json>",
		Short: "Build a constrained Delaunay triangulation and report its summary",
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
			if err := m.SelfCheck(); err != nil {
				return fmt.Errorf("self-check failed: %w", err)
			}
			reportMesh(cmd, m)
			return nil
		},
	}
	bindSettingsFlags(cmd, &flags)
	return cmd
}

func reportMesh(cmd *cobra.Command, m *mesh2d.Mesh2D) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "vertices:    %d\n", len(m.Vertices()))
	fmt.Fprintf(out, "triangles:   %d\n", len(m.Triangles()))
	fmt.Fprintf(out, "edges:       %d\n", len(m.Edges()))
	fmt.Fprintf(out, "subsegments: %d\n", len(m.Subsegments()))
}
