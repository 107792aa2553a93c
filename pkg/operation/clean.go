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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🧹 CleanOperation removes aggregated destinations and the build output
type CleanOperation struct {
	BaseOperation
	removed []string
}

// 🧹 NewCleanOperation creates a new clean operation
func NewCleanOperation(opts Options) *CleanOperation {
	return &CleanOperation{BaseOperation: NewBaseOperation(opts)}
}

func (op *CleanOperation) Name() string { return "clean" }

// Removed lists the paths deleted by the last Execute, relative to the root
func (op *CleanOperation) Removed() []string { return op.removed }

// 🏃 Execute runs the clean operation
func (op *CleanOperation) Execute(ctx context.Context) error {
	if err := op.validate(); err != nil {
		return err
	}

	console := op.console(ctx)
	op.removed = nil

	targets := make([]string, 0, len(op.Config.Sources)+1)
	for _, s := range op.Config.Sources {
		targets = append(targets, op.Config.DestPath(s))
	}
	targets = append(targets, op.Config.BuildPath())

	for _, path := range targets {
		if err := op.cleanPath(ctx, path); err != nil {
			return errors.Errorf("cleaning %s: %w", op.Config.Rel(path), err)
		}
	}

	if len(op.removed) == 0 {
		console.Info("nothing to clean")
		return nil
	}
	console.Successf("removed %d directories", len(op.removed))
	return nil
}

// 🗑️ cleanPath removes path if it exists
func (op *CleanOperation) cleanPath(ctx context.Context, path string) error {
	exists, err := op.FS.Exists(ctx, path)
	if err != nil {
		return err
	}
	if !exists {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("already clean")
		return nil
	}

	if err := op.FS.RemoveAll(ctx, path); err != nil {
		return errors.Errorf("deleting: %w", err)
	}

	rel := op.Config.Rel(path)
	op.removed = append(op.removed, rel)
	op.console(ctx).Infof("removed %s", rel)
	return nil
}
