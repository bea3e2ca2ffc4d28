// cmd.go - command line interface
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/seehuhn/tango/config"
	"github.com/seehuhn/tango/markup/codeactive"
)

const banner = `   _
  | |_ __ _ _ __   __ _  ___
  | __/ _' | '_ \ / _' |/ _ \   a programmable
  | || (_| | | | | (_| | (_) |  document processor
   \__\__,_|_| |_|\__, |\___/
                  |___/
`

// options holds the settings which are not part of the configuration
// file.
type options struct {
	configFile string
	verbose    bool
	watch      bool
	banner     bool
	process    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "tango [flags] <input-file>...",
		Short:         "a programmable document processor",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch && len(args) != 1 {
				return report(errors.New("--watch needs exactly one input file"))
			}
			cfg, err := setup(cmd, v, opts, args[0])
			if err != nil {
				return report(err)
			}
			if opts.banner {
				fmt.Fprint(cmd.OutOrStdout(), banner)
			}

			err = runAll(cmd.Context(), cfg, args)
			if opts.watch {
				if err != nil {
					report(err)
				}
				return report(watch(cmd.Context(), cfg, args[0]))
			}
			return report(err)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "configuration file (default: tango.yaml next to the input)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "show debug messages")
	flags.Bool(config.KeyCodeActive, false, "evaluate embedded Go code")
	flags.Int(config.KeyMaxExpansionDepth, config.Default().MaxExpansionDepth, "maximum depth of nested macro expansion")
	flags.Int(config.KeyMaxExpansionSize, config.Default().MaxExpansionSize, "maximum total size of macro expansions")
	flags.String(config.KeyCacheDir, "", "cache directory for generated output")
	flags.Bool(config.KeyNoCache, false, "do not use the output cache")
	bindFlags(v, flags, config.KeyCodeActive, config.KeyMaxExpansionDepth,
		config.KeyMaxExpansionSize, config.KeyCacheDir, config.KeyNoCache)

	local := rootCmd.Flags()
	local.Bool(config.KeyLaTeX, false, "write LaTeX output")
	local.StringP(config.KeyOutputDir, "o", config.Default().OutputDir, "output directory")
	local.IntP(config.KeyJobs, "j", config.Default().Jobs, "number of input files to process concurrently")
	local.BoolVar(&opts.watch, "watch", false, "process the input again whenever it changes")
	local.BoolVar(&opts.banner, "banner", false, "show a banner")
	bindFlags(v, local, config.KeyLaTeX, config.KeyOutputDir, config.KeyJobs)

	dumpCmd := &cobra.Command{
		Use:   "dump [flags] <input-file>",
		Short: "print the document tree as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, v, opts, args[0])
			if err != nil {
				return report(err)
			}
			return report(dump(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], opts.process))
		},
	}
	dumpCmd.Flags().BoolVar(&opts.process, "process", false, "process the document before printing")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, v, opts, "")
			if err != nil {
				return report(err)
			}
			out, err := cfg.YAML()
			if err != nil {
				return report(err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	rootCmd.AddCommand(dumpCmd, configCmd)
	return rootCmd
}

// bindFlags binds the flags with the given names to the configuration
// keys of the same names.  A missing flag is a programming error.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		err := v.BindPFlag(key, flags.Lookup(key))
		if err != nil {
			panic(fmt.Sprintf("cannot bind flag %q: %v", key, err))
		}
	}
}

// setup loads the configuration and configures logging.
func setup(cmd *cobra.Command, v *viper.Viper, opts *options, inputName string) (*config.Config, error) {
	searchDirs := []string{"."}
	if inputName != "" {
		searchDirs = append([]string{filepath.Dir(inputName)}, searchDirs...)
	}
	cfg, err := config.Load(v, opts.configFile, searchDirs...)
	if err != nil {
		return nil, err
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	setupLogging(cmd.ErrOrStderr(), level)
	log.Debug().Str("file", v.ConfigFileUsed()).Msg("configuration loaded")
	return cfg, nil
}

func setupLogging(out io.Writer, level zerolog.Level) {
	console := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
		NoColor:    out != os.Stderr,
	}
	log.Logger = zerolog.New(console).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
}

// report logs a fatal error and returns it unchanged.
func report(err error) error {
	if err == nil {
		return nil
	}
	var failure *codeactive.CheckFailure
	if errors.As(err, &failure) {
		log.Error().Str("file", failure.Source).Stringer("pos", failure.Node.Pos).
			Str("code", failure.Node.Source).Msg("check failed")
	}
	log.Error().Err(err).Msg("aborting")
	return err
}
