package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/psidex/zxedit/internal/snapshot"
)

func checkCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Check that snapshot files describe valid graphs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if err := checkFile(path); err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			if failed > 0 {
				return errors.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}

func checkFile(path string) error {
	snap, err := snapshot.ReadFile(path)
	if err != nil {
		return err
	}
	if err := snap.Validate(); err != nil {
		return err
	}
	gr, err := snap.Build()
	if err != nil {
		return err
	}
	return gr.Validate()
}
