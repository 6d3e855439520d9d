package main

import (
	"github.com/Borislavv/go-ash-nodecache/config"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"io"
	"os"
	"time"
)

type rootFlags struct {
	config  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "nodecache",
		Short: "Inspect node cache parameters and replay cache traces",
		Long: `nodecache works with the parameter set of the node metadata cache.

It prints the effective parameters, validates parameter files and replays
get/put/ref/unref traces against a cache built from those parameters.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Parameter file (YAML, or TOML by .toml extension)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")

	cmd.AddCommand(newParamsCmd(flags))
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newSimulateCmd(flags))

	return cmd
}

// params returns the parameters of --config, or the defaults when the flag is empty.
func (f *rootFlags) params() (*config.Params, error) {
	if f.config == "" {
		return config.Default(), nil
	}
	return config.LoadConfig(f.config)
}

// logger writes human readable lines to terminals and JSON otherwise.
func (f *rootFlags) logger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if f.verbose {
		level = zerolog.DebugLevel
	}

	if file, ok := w.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
