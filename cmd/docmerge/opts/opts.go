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

package opts

import (
	"context"
	"io"

	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/fsys"
	"github.com/walteh/docmerge/pkg/log"
	"github.com/walteh/docmerge/pkg/operation"
	"github.com/walteh/docmerge/pkg/revision"
)

// RootOpts contains shared options used by all commands.
// It is filled in before any command runs.
type RootOpts struct {
	Config  *config.Config
	FS      fsys.FS
	Console *log.Logger
	Stdout  io.Writer
	Stderr  io.Writer
}

// OperationOptions returns the options shared by every operation
func (o *RootOpts) OperationOptions() operation.Options {
	return operation.Options{
		Config: o.Config,
		FS:     o.FS,
		Logger: o.Console,
		Revision: func(ctx context.Context, dir string) (string, error) {
			return revision.Short(ctx, dir)
		},
	}
}
