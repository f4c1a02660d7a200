package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gomesh2d/trimesh2d/mesh2d"
)

func newRefineCmd() *cobra.Command {
	var flags settingsFlags
	cmd := &cobra.Command{
		Use:   "refine <geometry.json>",
		Short: "Triangulate and apply Ruppert-style quality refinement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			geom, err := loadGeometry(args[0])
			if err != nil {
				return err
			}
			flags.quality = true
			m, err := mesh2d.Build(geom, flags.options()...)
			if err != nil && !errors.Is(err, mesh2d.ErrQualityUnreachable) {
				return fmt.Errorf("refining triangulation: %w", err)
			}
			reportMesh(cmd, m)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %v\n", err)
			}
			return nil
		},
	}
	bindSettingsFlags(cmd, &flags)
	return cmd
}
