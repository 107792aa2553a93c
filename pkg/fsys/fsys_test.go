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

package fsys_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/docmerge/pkg/fsys"
)

func testCtx(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOSCopyFilePreservesMetadata(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "run.sh")
	dst := filepath.Join(dir, "copy.sh")

	writeFile(t, src, "#!/bin/sh\n")
	require.NoError(t, os.Chmod(src, 0o750))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, fsys.NewOS().CopyFile(ctx, src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm(), "mode should be preserved")
	assert.True(t, info.ModTime().Equal(mtime), "modification time should be preserved")

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(content))
}

func TestOSCopyTree(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeFile(t, filepath.Join(src, "api", "index.rst"), "api")
	writeFile(t, filepath.Join(src, "api", "nested", "mod.rst"), "mod")
	writeFile(t, filepath.Join(src, "api", "__pycache__", "x.pyc"), "junk")
	writeFile(t, filepath.Join(dst, "api", "index.rst"), "stale")
	writeFile(t, filepath.Join(dst, "api", "kept.rst"), "kept")

	require.NoError(t, fsys.NewOS().CopyTree(ctx, src, dst, []string{"**/__pycache__"}))

	content, err := os.ReadFile(filepath.Join(dst, "api", "index.rst"))
	require.NoError(t, err)
	assert.Equal(t, "api", string(content), "conflicting files should be overwritten")

	content, err = os.ReadFile(filepath.Join(dst, "api", "nested", "mod.rst"))
	require.NoError(t, err)
	assert.Equal(t, "mod", string(content))

	assert.FileExists(t, filepath.Join(dst, "api", "kept.rst"), "existing files outside the source are left alone")
	assert.NoDirExists(t, filepath.Join(dst, "api", "__pycache__"), "excluded directories are skipped")
}

func TestOSCopyTreeFollowsLinkedDirectories(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	shared := filepath.Join(dir, "shared")

	writeFile(t, filepath.Join(shared, "guide.md"), "guide")
	writeFile(t, filepath.Join(shared, "__pycache__", "x.pyc"), "junk")
	writeFile(t, filepath.Join(shared, "drafts", "wip.md"), "wip")
	writeFile(t, filepath.Join(src, "index.rst"), "index")
	if err := os.Symlink(shared, filepath.Join(src, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	exclude := []string{"**/__pycache__", "linked/drafts"}
	require.NoError(t, fsys.NewOS().CopyTree(ctx, src, dst, exclude))

	content, err := os.ReadFile(filepath.Join(dst, "linked", "guide.md"))
	require.NoError(t, err)
	assert.Equal(t, "guide", string(content), "linked directories are copied")
	assert.NoDirExists(t, filepath.Join(dst, "linked", "__pycache__"), "globs apply below the link")
	assert.NoDirExists(t, filepath.Join(dst, "linked", "drafts"), "patterns are relative to the top-level source")
}

func TestOSExistsAndIsDir(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	writeFile(t, file, "a")
	o := fsys.NewOS()

	ok, err := o.Exists(ctx, file)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = o.Exists(ctx, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	isDir, err := o.IsDir(ctx, dir)
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = o.IsDir(ctx, file)
	require.NoError(t, err)
	assert.False(t, isDir)
}

func TestOSCopyTreeRejectsFile(t *testing.T) {
	ctx := testCtx(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	writeFile(t, file, "a")

	err := fsys.NewOS().CopyTree(ctx, file, filepath.Join(dir, "out"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestMemoryCopyTree(t *testing.T) {
	ctx := testCtx(t)
	m := fsys.NewMemory()
	m.Seed(map[string]string{
		"/src/api/a.rst":         "a",
		"/src/api/b/c.rst":       "c",
		"/src/api/skip/d.rst":    "d",
		"/src/api/notes.tmp":     "tmp",
		"/src/api-other/nope.md": "nope",
	})

	require.NoError(t, m.CopyTree(ctx, "/src/api", "/dst/api", []string{"skip", "*.tmp"}))

	assert.Equal(t, []string{
		"/dst",
		"/dst/api",
		"/dst/api/a.rst",
		"/dst/api/b",
		"/dst/api/b/c.rst",
	}, m.Paths("/dst"))
}

func TestMemoryRemoveAllAndWrite(t *testing.T) {
	ctx := testCtx(t)
	m := fsys.NewMemory()
	m.Seed(map[string]string{
		"/docs/a/index.rst": "x",
		"/docs/ab/keep.rst": "y",
	})

	require.NoError(t, m.RemoveAll(ctx, "/docs/a"))
	ok, err := m.Exists(ctx, "/docs/a/index.rst")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = m.Exists(ctx, "/docs/ab/keep.rst")
	require.NoError(t, err)
	assert.True(t, ok, "sibling with shared prefix must survive")

	err = m.WriteFile(ctx, "/docs/a/index.rst", []byte("z"), 0o644)
	require.Error(t, err, "writing without a parent directory should fail")

	require.NoError(t, m.MkdirAll(ctx, "/docs/a"))
	require.NoError(t, m.WriteFile(ctx, "/docs/a/index.rst", []byte("z"), 0o644))
	data, err := m.ReadFile(ctx, "/docs/a/index.rst")
	require.NoError(t, err)
	assert.Equal(t, "z", string(data))
}

func TestMemoryMkdirAllOverFile(t *testing.T) {
	ctx := testCtx(t)
	m := fsys.NewMemory()
	m.Seed(map[string]string{"/docs/file": "x"})

	err := m.MkdirAll(ctx, "/docs/file/sub")
	require.Error(t, err)
}
