package main

import (
	"fmt"
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"io"
	"os"
)

func newSimulateCmd(flags *rootFlags) *cobra.Command {
	var slots int

	cmd := &cobra.Command{
		Use:   "simulate [trace]",
		Short: "Replay a cache trace and print the final cache state",
		Long: `Replay a trace of cache operations, one per line:

  get <path>         look a node up
  put <path>         store a node
  ref <path>         protect a cached node from eviction
  unref <path>       drop one protection
  evict <path>       remove a node
  evict-tree <path>  remove a node and its descendants
  clear              drop everything

The trace is read from the given file, or from stdin when omitted.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  nodecache simulate trace.txt
  printf 'put /a\nref /a\nput /b\n' | nodecache simulate --slots 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.params()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("slots") {
				cfg.NodeMaxSlots = slots
				cfg.AdjustConfig()
			}

			in := cmd.InOrStdin()
			if len(args) == 1 {
				path, err := homedir.Expand(args[0])
				if err != nil {
					return fmt.Errorf("expand trace path: %w", err)
				}
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open trace: %w", err)
				}
				defer f.Close()
				in = f
			}

			return runSimulate(cmd, flags, in, cfg)
		},
	}

	cmd.Flags().IntVar(&slots, "slots", 0, "Override node_max_slots")

	return cmd
}

func runSimulate(cmd *cobra.Command, flags *rootFlags, in io.Reader, cfg *config.Params) error {
	ops, err := parseTrace(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sum, err := simulate(cmd.Context(), cfg, flags.logger(cmd.ErrOrStderr()), ops, out)
	if err != nil {
		return err
	}

	data, err := sum.marshal()
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = fmt.Fprintf(out, "---\n%s", data)
	return err
}
