// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/docmerge/cmd/docmerge/commands"
	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/fsys"
	"github.com/walteh/docmerge/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags are the flags shared by every command
type rootFlags struct {
	root       string
	configFile string
	debug      bool
}

// newRootCommand builds the command tree writing to stdout and stderr
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}
	o := &opts.RootOpts{Stdout: stdout, Stderr: stderr}

	cmd := &cobra.Command{
		Use:   "docmerge",
		Short: "Aggregate submodule documentation into one site",
		Long: `docmerge collects the documentation of many repositories, checked out as
git submodules, into a single documentation source tree and builds it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), stderr, flags.debug)
			cmd.SetContext(ctx)

			if cmd.Annotations["config"] == "none" {
				return nil
			}
			return newRootOpts(ctx, o, flags)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewAggregateCommand(o),
		commands.NewBuildCommand(o),
		commands.NewServeCommand(o),
		commands.NewWatchCommand(o),
		commands.NewCleanCommand(o),
		commands.NewStatusCommand(o),
		newVersionCommand(stdout),
	)

	return cmd
}

// newRootOpts resolves the configuration and fills the shared options
func newRootOpts(ctx context.Context, o *opts.RootOpts, flags *rootFlags) error {
	cfg, err := config.Discover(ctx, flags.root, flags.configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	o.Config = cfg
	o.FS = fsys.NewOS()
	o.Console = log.New(o.Stdout, *zerolog.Ctx(ctx))
	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.root, "root", "r", ".", "repository root")
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path, relative to the root")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging puts a console zerolog logger tagged with a run id into ctx.
// Console output already covers progress, so structured logs start at warn.
func setupLogging(ctx context.Context, stderr io.Writer, debug bool) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
	return logger.WithContext(ctx)
}
