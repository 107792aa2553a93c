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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/operation"
	"github.com/walteh/docmerge/pkg/revision"
	"github.com/walteh/docmerge/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCommand creates the status command
func NewStatusCommand(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which sources are checked out and aggregated",
		Long: `Status lists every configured source with:
1. Whether its checkout exists and contains every declared item
2. The checked out submodule revision
3. Whether it has been aggregated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			statuses, err := status.Collect(ctx, o.Config, o.FS, revision.Short)
			if err != nil {
				return errors.Errorf("collecting status: %w", err)
			}

			f := status.NewDefaultFormatter()
			table, err := f.FormatTable(statuses)
			if err != nil {
				return err
			}

			fmt.Fprint(o.Stdout, table)
			fmt.Fprintln(o.Stdout, f.FormatSummary(statuses))
			if status.Count(statuses, status.StateMissing) > 0 {
				o.Console.Hint(operation.SubmoduleHint)
			}
			return nil
		},
	}

	return cmd
}
