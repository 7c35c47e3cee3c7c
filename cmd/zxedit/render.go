package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/psidex/zxedit/internal/render"
	"github.com/psidex/zxedit/internal/snapshot"
)

func renderCmd(g *globals) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a snapshot file to a static page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := render.ByName(format)
			if err != nil {
				return err
			}
			snap, err := snapshot.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := snap.Validate(); err != nil {
				return err
			}
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			}
			path, err := render.RenderToFile(r, snap, out)
			if err != nil {
				return err
			}
			g.logger.Debug("rendered snapshot", "format", format, "nodes", len(snap.Nodes))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "vis", "one of "+strings.Join(render.Names(), ", "))
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path without extension (default: next to FILE)")
	return cmd
}
