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
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/operation"
	"github.com/walteh/docmerge/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(o *opts.RootOpts) *cobra.Command {
	var (
		build    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-aggregate whenever source documentation changes",
		Long: `Watch aggregates once, then watches every source directory and the index
templates, aggregating again after each burst of changes. With --build the
site is rebuilt after every aggregation. Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "watch").Logger().WithContext(ctx)

			steps := func() []operation.Operation {
				ops := []operation.Operation{operation.NewAggregateOperation(o.OperationOptions())}
				if build {
					ops = append(ops, BuildOperation(o))
				}
				return ops
			}
			runner := operation.NewRunner(zerolog.Ctx(ctx))

			if err := runner.Run(ctx, steps()...); err != nil {
				return errors.Errorf("initial run: %w", err)
			}

			w := watch.New(watch.Roots(o.Config), debounce, func(ctx context.Context, changed []string) error {
				o.Console.Newline()
				o.Console.Infof("%d changes detected", len(changed))
				if err := runner.Run(ctx, steps()...); err != nil {
					o.Console.Errorf("%v", err)
					return err
				}
				return nil
			})

			o.Console.Info("watching for changes, press Ctrl+C to stop")
			if err := w.Run(ctx); err != nil {
				return errors.Errorf("watching: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&build, "build", false, "rebuild the site after each aggregation")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before reacting to changes")

	return cmd
}
