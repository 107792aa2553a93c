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

package revision

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

// 🧪 initRepo creates a repository with a single commit
func initRepo(t *testing.T, dir string) plumbing.Hash {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# docs\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func TestHead(t *testing.T) {
	dir := t.TempDir()
	want := initRepo(t, dir)

	got, err := Head(testCtx(t), dir)
	require.NoError(t, err)
	assert.Equal(t, want.String(), got)

	short, err := Short(testCtx(t), dir)
	require.NoError(t, err)
	assert.Equal(t, want.String()[:ShortLength], short)
}

func TestHeadGitFile(t *testing.T) {
	root := t.TempDir()
	modules := filepath.Join(root, "modules", "hed-python")
	want := initRepo(t, modules)

	checkout := filepath.Join(root, "submodules", "hed-python")
	require.NoError(t, os.MkdirAll(checkout, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(checkout, ".git"),
		[]byte("gitdir: "+filepath.Join(modules, ".git")+"\n"), 0o644))

	got, err := Head(testCtx(t), checkout)
	require.NoError(t, err)
	assert.Equal(t, want.String(), got)
}

func TestHeadErrors(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(t *testing.T) string
		wantNotRepo   bool
		wantErrSubstr string
	}{
		{
			name:        "plain_directory",
			setup:       func(t *testing.T) string { return t.TempDir() },
			wantNotRepo: true,
		},
		{
			name:        "missing_directory",
			setup:       func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent") },
			wantNotRepo: true,
		},
		{
			name: "no_commits",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				_, err := git.PlainInit(dir, false)
				require.NoError(t, err)
				return dir
			},
			wantErrSubstr: "reading HEAD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Head(testCtx(t), tt.setup(t))
			require.Error(t, err)
			if tt.wantNotRepo {
				assert.ErrorIs(t, err, ErrNotRepository)
			} else {
				assert.NotErrorIs(t, err, ErrNotRepository)
				assert.Contains(t, err.Error(), tt.wantErrSubstr)
			}
		})
	}
}

func TestAbbrev(t *testing.T) {
	assert.Equal(t, "0123456", Abbrev("0123456789abcdef"))
	assert.Equal(t, "abc", Abbrev("abc"))
}
