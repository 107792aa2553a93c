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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewAggregateCommand creates the aggregate command
func NewAggregateCommand(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Copy every source's documentation into the docs tree",
		Long: `Aggregate copies the declared files of every source into its destination.
It will:
1. Skip sources whose checkout is missing
2. Replace each destination directory with a fresh copy
3. Strip generated index sections from copied index documents
4. Install index templates for sources without an index document`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "aggregate").Logger().WithContext(ctx)

			op := operation.NewAggregateOperation(o.OperationOptions())
			if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
				return errors.Errorf("aggregating documentation: %w", err)
			}
			return nil
		},
	}

	return cmd
}
