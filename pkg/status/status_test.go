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

package status

import (
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/fsys"
)

func collectFixture(t *testing.T) []SourceStatus {
	t.Helper()
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	cfg := config.Default("/repo")
	cfg.Sources = []config.Source{
		{Name: "hed-python", Path: "hed-python/docs", Files: []string{"index.rst", "api/"}},
		{Name: "hed-mcp", Path: "hed-mcp", Files: []string{"README.md", "EXAMPLES.md"}},
		{Name: "CTagger", Path: "CTagger/docs", Files: []string{"index.rst"}},
	}

	m := fsys.NewMemory()
	m.Seed(map[string]string{
		"/repo/submodules/hed-python/docs/index.rst": "x",
		"/repo/submodules/hed-python/docs/api/a.rst": "x",
		"/repo/submodules/hed-mcp/README.md":         "x",
		"/repo/docs/source/hed-python/index.rst":     "x",
	})

	rev := func(ctx context.Context, dir string) (string, error) {
		if dir == "/repo/submodules/hed-python" {
			return "1a2b3c4", nil
		}
		return "", assert.AnError
	}

	statuses, err := Collect(ctx, cfg, m, rev)
	require.NoError(t, err)
	return statuses
}

func TestCollect(t *testing.T) {
	statuses := collectFixture(t)
	require.Len(t, statuses, 3)

	tests := []struct {
		name        string
		got         SourceStatus
		wantState   State
		wantMissing []string
		wantAgg     bool
		wantRev     string
	}{
		{name: "complete_and_aggregated", got: statuses[0], wantState: StatePresent, wantAgg: true, wantRev: "1a2b3c4"},
		{name: "incomplete", got: statuses[1], wantState: StateIncomplete, wantMissing: []string{"EXAMPLES.md"}},
		{name: "missing_checkout", got: statuses[2], wantState: StateMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantState, tt.got.State)
			assert.Equal(t, tt.wantMissing, tt.got.MissingItems)
			assert.Equal(t, tt.wantAgg, tt.got.Aggregated)
			assert.Equal(t, tt.wantRev, tt.got.Revision, "revision errors leave it empty")
		})
	}

	assert.Equal(t, "submodules/hed-python/docs", statuses[0].Source)
	assert.Equal(t, "docs/source/hed-python", statuses[0].Destination)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "present", StatePresent.String())
	assert.Equal(t, "incomplete", StateIncomplete.String())
	assert.Equal(t, "missing", StateMissing.String())
	assert.Equal(t, "unknown", StateUnknown.String())
}

func TestFormat(t *testing.T) {
	color.NoColor = true
	pterm.DisableColor()
	defer func() {
		color.NoColor = false
		pterm.EnableColor()
	}()

	statuses := collectFixture(t)
	f := NewDefaultFormatter()

	assert.Equal(t, "✓ present", f.FormatState(StatePresent))
	assert.Equal(t, "✗ missing", f.FormatState(StateMissing))

	table, err := f.FormatTable(statuses)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.Len(t, lines, 4, "header plus one row per source")
	assert.Contains(t, lines[0], "SOURCE")
	assert.Contains(t, lines[1], "hed-python")
	assert.Contains(t, lines[1], "1a2b3c4")
	assert.Contains(t, lines[2], "⚠ incomplete")
	assert.Contains(t, lines[2], "EXAMPLES.md")
	assert.Contains(t, lines[3], "✗ missing")

	assert.Equal(t, "3 sources: 1 present, 1 incomplete, 1 missing", f.FormatSummary(statuses))
}
