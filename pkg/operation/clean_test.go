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

package operation_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/docmerge/pkg/fsys"
	"github.com/walteh/docmerge/pkg/operation"
)

func TestCleanOperation(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		wantRemoved []string
		wantOutput  string
	}{
		{
			name: "removes_destinations_and_build",
			files: map[string]string{
				"/repo/docs/source/hed-python/index.rst": "x",
				"/repo/docs/source/hed-mcp/README.md":    "x",
				"/repo/docs/_build/html/index.html":      "<html/>",
				"/repo/docs/source/conf.py":              "project = 'hed'\n",
			},
			wantRemoved: []string{"docs/source/hed-python", "docs/source/hed-mcp", "docs/_build/html"},
			wantOutput:  "removed 3 directories",
		},
		{
			name: "nothing_to_clean",
			files: map[string]string{
				"/repo/docs/source/conf.py": "project = 'hed'\n",
			},
			wantOutput: "nothing to clean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cfg, buf, console := createTestEnv(t, pythonSource, mcpSource)
			m := fsys.NewMemory()
			m.Seed(tt.files)

			op := operation.NewCleanOperation(operation.Options{Config: cfg, FS: m, Logger: console})
			require.NoError(t, op.Execute(ctx))

			assert.Equal(t, tt.wantRemoved, op.Removed())
			assert.Contains(t, buf.String(), tt.wantOutput)
			assert.Equal(t, []string{"/repo/docs/source", "/repo/docs/source/conf.py"}, m.Paths("/repo/docs/source"),
				"only aggregated destinations are removed")
		})
	}
}

// 🔧 recordingOperation records its execution
type recordingOperation struct {
	name string
	err  error
	log  *[]string
}

func (r *recordingOperation) Name() string { return r.name }

func (r *recordingOperation) Execute(ctx context.Context) error {
	*r.log = append(*r.log, r.name)
	return r.err
}

func TestRunner(t *testing.T) {
	tests := []struct {
		name        string
		failAt      string
		cancel      bool
		wantRan     []string
		errContains string
	}{
		{
			name:    "runs_in_order",
			wantRan: []string{"aggregate", "build", "serve"},
		},
		{
			name:        "stops_at_first_failure",
			failAt:      "build",
			wantRan:     []string{"aggregate", "build"},
			errContains: "build: ",
		},
		{
			name:        "cancelled_context",
			cancel:      true,
			errContains: "operation aggregate cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.New(zerolog.NewTestWriter(t))
			ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
			defer cancel()
			if tt.cancel {
				cancel()
			}

			var ran []string
			var ops []operation.Operation
			for _, name := range []string{"aggregate", "build", "serve"} {
				op := &recordingOperation{name: name, log: &ran}
				if name == tt.failAt {
					op.err = assert.AnError
				}
				ops = append(ops, op)
			}

			err := operation.NewRunner(&logger).Run(ctx, ops...)
			assert.Equal(t, tt.wantRan, ran)
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			if tt.failAt != "" {
				assert.ErrorIs(t, err, assert.AnError)
			}
		})
	}
}

func TestFuncOperation(t *testing.T) {
	called := false
	op := operation.Func("build", func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.Equal(t, "build", op.Name())
	require.NoError(t, op.Execute(context.Background()))
	assert.True(t, called)
}
