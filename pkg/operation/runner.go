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
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Runner executes operations in order and stops at the first failure
type Runner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger) *Runner {
	return &Runner{logger: logger}
}

// 🏃 Run executes ops sequentially
func (r *Runner) Run(ctx context.Context, ops ...Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation %s cancelled: %w", op.Name(), err)
		}

		start := time.Now()
		r.logger.Debug().Str("operation", op.Name()).Msg("starting operation")

		if err := op.Execute(ctx); err != nil {
			r.logger.Debug().Str("operation", op.Name()).Err(err).Msg("operation failed")
			return errors.Errorf("%s: %w", op.Name(), err)
		}

		r.logger.Debug().
			Str("operation", op.Name()).
			Dur("duration", time.Since(start)).
			Msg("operation complete")
	}
	return nil
}
