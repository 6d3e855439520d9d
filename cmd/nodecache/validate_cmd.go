package main

import (
	"fmt"
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "validate <file>",
		Short:   "Check a parameter file",
		Args:    cobra.ExactArgs(1),
		Example: `  nodecache validate ~/.nodecache/params.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (node cache %s)\n", args[0], cfg.NodeCacheMode)
			return err
		},
	}
}
