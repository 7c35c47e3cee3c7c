package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/psidex/zxedit/internal/host"
	"github.com/psidex/zxedit/internal/render"
)

func mirrorCmd(g *globals) *cobra.Command {
	var hostAddr, format string

	cmd := &cobra.Command{
		Use:   "mirror OUT",
		Short: "Follow a zxhost and rewrite OUT whenever its graph changes",
		Long: `Follow a zxhost and rewrite OUT (plus the renderer's extension) with every
graph the host broadcasts. Edits pushed by editors are not broadcast, so OUT
follows undo, redo, operations and file reloads.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hostAddr == "" {
				hostAddr = g.cfg.Host.Address
			}
			r, err := render.ByName(format)
			if err != nil {
				return err
			}
			client, err := host.Dial(hostAddr)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g.logger.Info("mirroring host", "address", hostAddr, "out", args[0])
			err = client.Watch(ctx, func(in host.Inbound) {
				if in.Graph == nil {
					return
				}
				path, err := render.RenderToFile(r, in.Graph, args[0])
				if err != nil {
					g.logger.Error("mirror write failed", "error", err)
					return
				}
				g.logger.Info("mirrored graph", "path", path, "nodes", len(in.Graph.Nodes))
			})
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&hostAddr, "host-addr", "", "zxhost address (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output renderer")
	return cmd
}
