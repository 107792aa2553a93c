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

package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/builder"
	"github.com/walteh/docmerge/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewBuildCommand creates the build command
func NewBuildCommand(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Aggregate sources and build the documentation site",
		Long: `Build aggregates every source and then runs the documentation builder
over the docs source directory, writing the site to the build directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "build").Logger().WithContext(ctx)

			runner := operation.NewRunner(zerolog.Ctx(ctx))
			if err := runner.Run(ctx,
				operation.NewAggregateOperation(o.OperationOptions()),
				BuildOperation(o),
			); err != nil {
				return errors.Errorf("building documentation: %w", err)
			}
			return nil
		},
	}

	return cmd
}

// BuildOperation runs the documentation builder as an operation
func BuildOperation(o *opts.RootOpts) operation.Operation {
	return operation.Func("build", func(ctx context.Context) error {
		cfg := o.Config
		b := builder.New(cfg, o.Stdout, o.Stderr)

		o.Console.Raw(pterm.DefaultHeader.Sprint("Building documentation") + "\n")
		o.Console.Infof("%s -> %s", cfg.Rel(cfg.SourceRoot()), cfg.Rel(cfg.BuildPath()))

		if err := b.Build(ctx, cfg.SourceRoot(), cfg.BuildPath()); err != nil {
			return err
		}

		o.Console.Successf("documentation built in %s", cfg.Rel(cfg.BuildPath()))
		return nil
	})
}
