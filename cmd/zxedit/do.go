package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/psidex/zxedit/internal/host"
)

func doCmd(g *globals) *cobra.Command {
	var (
		hostAddr string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "do ACTION",
		Short: "Ask a zxhost to run undo, redo or an operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hostAddr == "" {
				hostAddr = g.cfg.Host.Address
			}
			client, err := host.Dial(hostAddr)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := client.RequestAction(ctx, args[0]); err != nil {
				return err
			}
			g.logger.Info("action applied", "action", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&hostAddr, "host-addr", "", "zxhost address (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "call timeout")
	return cmd
}
