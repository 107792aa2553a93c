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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/docmerge/pkg/builder"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/serve"
	"gitlab.com/tozd/go/errors"
)

const testConfig = `
sources:
  - name: hed-mcp
    path: hed-mcp
    files: [README.md, API.md]
    index_template: hed-mcp-index.rst
  - name: hed-matlab
    path: hed-matlab/docs
    files: [index.rst]
`

// 🧪 setupRepo creates a repository root with one checked out source
func setupRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"docmerge.yaml":                            testConfig,
		"submodules/hed-mcp/README.md":             "# MCP\n",
		"submodules/hed-mcp/API.md":                "# API\n",
		"docs/submodule-indexes/hed-mcp-index.rst": "HED MCP\n=======\n",
		"docs/source/conf.py":                      "project = 'hed'\n",
	}
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func fakeBuilder(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script builders are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-sphinx-build")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunAggregate(t *testing.T) {
	root := setupRepo(t)

	code, stdout, stderr := runCLI(t, "--root", root, "aggregate")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	assert.FileExists(t, filepath.Join(root, "docs/source/hed-mcp/README.md"))
	assert.FileExists(t, filepath.Join(root, "docs/source/hed-mcp/index.rst"))
	assert.NoDirExists(t, filepath.Join(root, "docs/source/hed-matlab"), "missing sources are skipped")

	assert.Contains(t, stdout, "source directory not found for hed-matlab")
	assert.Contains(t, stdout, "git submodule update --init --recursive")
	assert.Contains(t, stdout, "aggregated 1 sources")
}

func TestRunBuild(t *testing.T) {
	tests := []struct {
		name       string
		builder    func(t *testing.T) string
		wantCode   int
		wantStderr string
		check      func(t *testing.T, root string)
	}{
		{
			name:    "success",
			builder: func(t *testing.T) string { return fakeBuilder(t, "mkdir -p \"$4\"\necho '<html/>' > \"$4/index.html\"\n") },
			check: func(t *testing.T, root string) {
				assert.FileExists(t, filepath.Join(root, "docs/_build/html/index.html"))
				assert.FileExists(t, filepath.Join(root, "docs/source/hed-mcp/README.md"), "aggregation runs first")
			},
		},
		{
			name:       "builder_not_installed",
			builder:    func(t *testing.T) string { return "docmerge-no-such-builder" },
			wantCode:   1,
			wantStderr: "documentation builder not found",
		},
		{
			name:       "builder_fails",
			builder:    func(t *testing.T) string { return fakeBuilder(t, "exit 2\n") },
			wantCode:   1,
			wantStderr: "documentation build failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := setupRepo(t)
			t.Setenv(config.EnvBuilder, tt.builder(t))

			code, _, stderr := runCLI(t, "--root", root, "build")
			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr)
			if tt.wantStderr != "" {
				assert.Contains(t, stderr, tt.wantStderr)
			}
			if tt.check != nil {
				tt.check(t, root)
			}
		})
	}
}

func TestRunServeErrors(t *testing.T) {
	t.Run("not_built", func(t *testing.T) {
		root := setupRepo(t)
		code, _, stderr := runCLI(t, "--root", root, "serve", "--no-browser")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "documentation has not been built")
	})

	t.Run("port_in_use", func(t *testing.T) {
		root := setupRepo(t)
		require.NoError(t, os.MkdirAll(filepath.Join(root, "docs/_build/html"), 0o755))

		busy, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer busy.Close()
		port := strconv.Itoa(busy.Addr().(*net.TCPAddr).Port)

		code, _, stderr := runCLI(t, "--root", root, "serve", "--host", "127.0.0.1", "--port", port, "--no-browser")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "port already in use")
	})
}

func TestRunStatusAndClean(t *testing.T) {
	root := setupRepo(t)

	code, stdout, stderr := runCLI(t, "--root", root, "status")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "hed-mcp")
	assert.Contains(t, stdout, "2 sources: 1 present, 0 incomplete, 1 missing")

	code, _, stderr = runCLI(t, "--root", root, "aggregate")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	require.DirExists(t, filepath.Join(root, "docs/source/hed-mcp"))

	code, stdout, stderr = runCLI(t, "--root", root, "clean")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "removed docs/source/hed-mcp")
	assert.NoDirExists(t, filepath.Join(root, "docs/source/hed-mcp"))
	assert.FileExists(t, filepath.Join(root, "docs/source/conf.py"))
}

func TestRunInvalidConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "docmerge.yaml"), []byte("sources: nope\n"), 0o644))

	code, _, stderr := runCLI(t, "--root", root, "aggregate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "loading config")
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--root", filepath.Join(t.TempDir(), "absent"), "version")
	require.Equal(t, 0, code, "version does not need a config")
	assert.Contains(t, stdout, "docmerge version info")

	code, stdout, _ = runCLI(t, "version", "--json")
	require.Equal(t, 0, code)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"builder_missing", errors.Errorf("building: %w", builder.ErrBuilderNotFound), "documentation builder not found"},
		{"build_failed", errors.Errorf("building: %w", &builder.BuildError{Command: "sphinx-build", ExitCode: 2}), "documentation build failed"},
		{"port_in_use", errors.Errorf("serving: %w", serve.ErrPortInUse), "port already in use"},
		{"not_built", errors.Errorf("serving: %w", serve.ErrNotBuilt), "documentation has not been built"},
		{"other", errors.New("boom"), "❌ boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, describeError(tt.err), tt.want)
		})
	}
}
