package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/psidex/zxedit/internal/config"
	"github.com/psidex/zxedit/internal/lib"
)

// globals holds the persistent flags and what PersistentPreRunE builds from them.
type globals struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:           "zxedit",
		Short:         "Interactive ZX-diagram editor",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = g.logLevel
			}
			level, err := lib.ParseSLogLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			g.cfg = cfg
			g.logger = lib.NiceLogger(os.Stderr, level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", config.Path(), "config file")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "debug, info, warn or error")

	cmd.AddCommand(
		serveCmd(g),
		renderCmd(g),
		checkCmd(g),
		mirrorCmd(g),
		doCmd(g),
		configCmd(g),
	)
	return cmd
}
