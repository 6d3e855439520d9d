package main

import (
	"fmt"
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/Borislavv/go-ash-nodecache/internal/limits"
	"github.com/Borislavv/go-ash-nodecache/internal/shared/bytes"
	"github.com/spf13/cobra"
	"io"
)

func newParamsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Print the effective parameters",
		Args:  cobra.NoArgs,
		Example: `  nodecache params                 # stock parameters
  nodecache params -c params.yaml  # parameters of a file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.params()
			if err != nil {
				return err
			}
			return printParams(cmd.OutOrStdout(), cfg)
		},
	}
}

func printParams(w io.Writer, cfg *config.Params) error {
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return err
	}

	checker := limits.New(cfg, nil)
	_, err = fmt.Fprintf(w, "# node cache mode: %s\n# metadata cache: %s\n# table read cache: %s\n",
		cfg.NodeCacheMode,
		bytes.FmtMem(uint64(max(checker.MetadataCacheSize(), 0))),
		bytes.FmtMem(uint64(max(cfg.TableMaxSize, 0))),
	)
	return err
}
