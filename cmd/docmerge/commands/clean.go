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

// NewCleanCommand creates the clean command
func NewCleanCommand(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove aggregated documentation and build output",
		Long: `Clean removes every source's destination directory and the build directory.
Files in the docs source directory that docmerge does not manage are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "clean").Logger().WithContext(ctx)

			op := operation.NewCleanOperation(o.OperationOptions())
			if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
				return errors.Errorf("cleaning: %w", err)
			}
			return nil
		},
	}

	return cmd
}
