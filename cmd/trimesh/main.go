// Command trimesh triangulates a planar straight-line graph from the
// command line: constrained Delaunay triangulation, Ruppert-style quality
// refinement, and the bounded Voronoi dual, reported as plain text.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trimesh",
		Short: "Constrained Delaunay triangulation, quality refinement, and Voronoi duals",
	}
	root.AddCommand(newTriangulateCmd())
	root.AddCommand(newRefineCmd())
	root.AddCommand(newVoronoiCmd())
	return root
}
